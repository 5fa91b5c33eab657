package storage

import (
	"context"
	"sort"

	"kungfu-delivery/internal/domain"
)

func (d *fileData) cartIndex(userID, lineID int) int {
	for i := range d.CartItems {
		if d.CartItems[i].ID == lineID && d.CartItems[i].UserID == userID {
			return i
		}
	}
	return -1
}

func (d *fileData) cartLines(userID int) []domain.CartLine {
	lines := []domain.CartLine{}
	for _, l := range d.CartItems {
		if l.UserID == userID {
			l.Flavors = append([]string{}, l.Flavors...)
			lines = append(lines, l)
		}
	}
	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].CreatedAt.Equal(lines[j].CreatedAt) {
			return lines[i].ID < lines[j].ID
		}
		return lines[i].CreatedAt.Before(lines[j].CreatedAt)
	})
	return lines
}

func (d *fileData) clearCart(userID int) {
	kept := d.CartItems[:0]
	for _, l := range d.CartItems {
		if l.UserID != userID {
			kept = append(kept, l)
		}
	}
	d.CartItems = kept
}

func (s *FileStore) ListCartLines(ctx context.Context, userID int) ([]domain.CartLine, error) {
	var lines []domain.CartLine
	err := s.read(func(d *fileData) error {
		lines = d.cartLines(userID)
		return nil
	})
	return lines, err
}

func (s *FileStore) GetCartLine(ctx context.Context, userID, lineID int) (*domain.CartLine, error) {
	var line *domain.CartLine
	err := s.read(func(d *fileData) error {
		i := d.cartIndex(userID, lineID)
		if i < 0 {
			return domain.ErrNotFound
		}
		l := d.CartItems[i]
		line = &l
		return nil
	})
	return line, err
}

func (s *FileStore) FindCartLine(ctx context.Context, userID int, ref domain.ItemRef, flavorKey string) (*domain.CartLine, error) {
	var line *domain.CartLine
	err := s.read(func(d *fileData) error {
		for _, l := range d.CartItems {
			if l.UserID == userID && l.ItemRef == ref && l.FlavorKey == flavorKey {
				line = &l
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return line, err
}

func (s *FileStore) UpsertCartLine(ctx context.Context, line *domain.CartLine) error {
	return s.write(func(d *fileData) error {
		now := s.timestamp()
		for i := range d.CartItems {
			l := &d.CartItems[i]
			if l.UserID == line.UserID && l.ItemRef == line.ItemRef && l.FlavorKey == line.FlavorKey {
				l.Quantity += line.Quantity
				l.UpdatedAt = now
				line.ID, line.Quantity, line.CreatedAt, line.UpdatedAt = l.ID, l.Quantity, l.CreatedAt, l.UpdatedAt
				return nil
			}
		}
		line.ID = d.nextID("cart_items")
		line.CreatedAt, line.UpdatedAt = now, now
		d.CartItems = append(d.CartItems, *line)
		return nil
	})
}

func (s *FileStore) UpdateCartLine(ctx context.Context, line *domain.CartLine) error {
	return s.write(func(d *fileData) error {
		i := d.cartIndex(line.UserID, line.ID)
		if i < 0 {
			return domain.ErrNotFound
		}
		l := &d.CartItems[i]
		l.Quantity = line.Quantity
		l.Flavors = line.Flavors
		l.FlavorKey = line.FlavorKey
		l.UpdatedAt = s.timestamp()
		line.UpdatedAt = l.UpdatedAt
		return nil
	})
}

func (s *FileStore) DeleteCartLine(ctx context.Context, userID, lineID int) (int64, error) {
	var rows int64
	err := s.write(func(d *fileData) error {
		i := d.cartIndex(userID, lineID)
		if i < 0 {
			return nil
		}
		d.CartItems = append(d.CartItems[:i], d.CartItems[i+1:]...)
		rows = 1
		return nil
	})
	return rows, err
}

func (s *FileStore) ClearCart(ctx context.Context, userID int) error {
	return s.write(func(d *fileData) error {
		d.clearCart(userID)
		return nil
	})
}
