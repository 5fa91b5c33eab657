package storage

import (
	"context"
	"sort"

	"kungfu-delivery/internal/domain"
)

func (d *fileData) addressIndex(userID, id int) int {
	for i := range d.Addresses {
		if d.Addresses[i].ID == id && d.Addresses[i].UserID == userID {
			return i
		}
	}
	return -1
}

func (d *fileData) address(userID, id int) (*domain.Address, error) {
	i := d.addressIndex(userID, id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	a := d.Addresses[i]
	return &a, nil
}

func (s *FileStore) ListAddresses(ctx context.Context, userID int) ([]domain.Address, error) {
	addresses := []domain.Address{}
	err := s.read(func(d *fileData) error {
		for _, a := range d.Addresses {
			if a.UserID == userID {
				addresses = append(addresses, a)
			}
		}
		return nil
	})
	sort.SliceStable(addresses, func(i, j int) bool {
		if addresses[i].IsDefault != addresses[j].IsDefault {
			return addresses[i].IsDefault
		}
		return addresses[i].CreatedAt.After(addresses[j].CreatedAt)
	})
	return addresses, err
}

func (s *FileStore) GetAddress(ctx context.Context, userID, id int) (*domain.Address, error) {
	var address *domain.Address
	err := s.read(func(d *fileData) error {
		var err error
		address, err = d.address(userID, id)
		return err
	})
	return address, err
}

func (s *FileStore) CountAddresses(ctx context.Context, userID int) (int, error) {
	var n int
	err := s.read(func(d *fileData) error {
		for _, a := range d.Addresses {
			if a.UserID == userID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (s *FileStore) CreateAddress(ctx context.Context, address *domain.Address) error {
	return s.write(func(d *fileData) error {
		now := s.timestamp()
		if address.IsDefault {
			for i := range d.Addresses {
				if d.Addresses[i].UserID == address.UserID && d.Addresses[i].IsDefault {
					d.Addresses[i].IsDefault = false
					d.Addresses[i].UpdatedAt = now
				}
			}
		}
		address.ID = d.nextID("addresses")
		address.CreatedAt, address.UpdatedAt = now, now
		d.Addresses = append(d.Addresses, *address)
		return nil
	})
}

func (s *FileStore) UpdateAddress(ctx context.Context, address *domain.Address) error {
	return s.write(func(d *fileData) error {
		i := d.addressIndex(address.UserID, address.ID)
		if i < 0 {
			return domain.ErrNotFound
		}
		a := &d.Addresses[i]
		a.RecipientName = address.RecipientName
		a.PhoneNumber = address.PhoneNumber
		a.BuildingName = address.BuildingName
		a.RoomDetails = address.RoomDetails
		a.UpdatedAt = s.timestamp()
		address.UpdatedAt = a.UpdatedAt
		return nil
	})
}

func (s *FileStore) DeleteAddress(ctx context.Context, userID, id int) (int64, error) {
	var rows int64
	err := s.write(func(d *fileData) error {
		i := d.addressIndex(userID, id)
		if i < 0 || d.Addresses[i].IsDefault {
			return nil
		}
		d.Addresses = append(d.Addresses[:i], d.Addresses[i+1:]...)
		rows = 1
		return nil
	})
	return rows, err
}

func (s *FileStore) SetDefaultAddress(ctx context.Context, userID, id int) (int64, error) {
	var rows int64
	err := s.write(func(d *fileData) error {
		if d.addressIndex(userID, id) < 0 {
			return nil
		}
		now := s.timestamp()
		for i := range d.Addresses {
			a := &d.Addresses[i]
			if a.UserID != userID {
				continue
			}
			a.IsDefault = a.ID == id
			a.UpdatedAt = now
			rows++
		}
		return nil
	})
	return rows, err
}
