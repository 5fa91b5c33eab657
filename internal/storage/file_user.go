package storage

import (
	"context"
	"time"

	"kungfu-delivery/internal/domain"

	"github.com/shopspring/decimal"
)

func (d *fileData) userIndex(id int) int {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return i
		}
	}
	return -1
}

func (r userRecord) view() *domain.User {
	u := r.User
	u.PasswordHash = r.PasswordHash
	u.FoodTags = append([]string{}, r.FoodTags...)
	return &u
}

func (d *fileData) creditBalance(id int, amount decimal.Decimal, at time.Time) (decimal.Decimal, error) {
	i := d.userIndex(id)
	if i < 0 {
		return decimal.Zero, domain.ErrNotFound
	}
	u := &d.Users[i]
	u.Balance = u.Balance.Add(amount)
	u.UpdatedAt = at
	return u.Balance, nil
}

func (s *FileStore) CreateUser(ctx context.Context, user *domain.User) error {
	return s.write(func(d *fileData) error {
		for _, u := range d.Users {
			if u.Username == user.Username {
				return domain.ErrDuplicate
			}
		}
		user.ID = d.nextID("users")
		user.CreatedAt = s.timestamp()
		user.UpdatedAt = user.CreatedAt
		d.Users = append(d.Users, userRecord{User: *user, PasswordHash: user.PasswordHash})
		return nil
	})
}

func (s *FileStore) GetUser(ctx context.Context, id int) (*domain.User, error) {
	var user *domain.User
	err := s.read(func(d *fileData) error {
		i := d.userIndex(id)
		if i < 0 {
			return domain.ErrNotFound
		}
		user = d.Users[i].view()
		return nil
	})
	return user, err
}

func (s *FileStore) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user *domain.User
	err := s.read(func(d *fileData) error {
		for _, u := range d.Users {
			if u.Username == username {
				user = u.view()
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return user, err
}

func (s *FileStore) UpdateProfile(ctx context.Context, user *domain.User) error {
	return s.write(func(d *fileData) error {
		i := d.userIndex(user.ID)
		if i < 0 {
			return domain.ErrNotFound
		}
		u := &d.Users[i]
		u.PhoneNumber = user.PhoneNumber
		u.Email = user.Email
		u.Gender = user.Gender
		u.BirthDate = user.BirthDate
		u.Bio = user.Bio
		u.FoodTags = user.FoodTags
		u.UpdatedAt = s.timestamp()
		user.UpdatedAt = u.UpdatedAt
		return nil
	})
}

func (s *FileStore) UpdatePassword(ctx context.Context, id int, hash string) error {
	return s.write(func(d *fileData) error {
		i := d.userIndex(id)
		if i < 0 {
			return domain.ErrNotFound
		}
		d.Users[i].PasswordHash = hash
		d.Users[i].UpdatedAt = s.timestamp()
		return nil
	})
}

func (s *FileStore) CreditBalance(ctx context.Context, id int, amount decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := s.write(func(d *fileData) error {
		var err error
		balance, err = d.creditBalance(id, amount, s.timestamp())
		return err
	})
	return balance, err
}
