package storage

import (
	"context"
	"fmt"
	"sort"
	"time"

	"kungfu-delivery/internal/domain"
	"kungfu-delivery/internal/service"

	"github.com/shopspring/decimal"
)

// currentItem returns the catalog name and price of ref, or ok=false once
// the item has been deleted.
func (d *fileData) currentItem(ref domain.ItemRef) (name string, price decimal.Decimal, ok bool) {
	switch ref.ItemType {
	case domain.ItemTypeDish:
		if i := d.dishIndex(ref.ItemID); i >= 0 {
			return d.Dishes[i].Name, d.Dishes[i].Price, true
		}
	case domain.ItemTypeCombo:
		if i := d.comboIndex(ref.ItemID); i >= 0 {
			return d.Combos[i].Name, d.Combos[i].Price, true
		}
	}
	return "", decimal.Zero, false
}

func (s *FileStore) PaidOrderLines(ctx context.Context, kind domain.ItemType) ([]domain.SoldLine, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown item type %q", kind)
	}
	var lines []domain.SoldLine
	var ids []int
	err := s.read(func(d *fileData) error {
		for _, o := range d.Orders {
			if o.PaymentStatus != domain.PaymentPaid {
				continue
			}
			for _, l := range o.Items {
				if l.ItemType != kind {
					continue
				}
				sold := domain.SoldLine{ItemRef: l.ItemRef, ItemName: l.ItemName, Quantity: l.Quantity, SubTotal: l.SubTotal}
				if name, price, ok := d.currentItem(l.ItemRef); ok {
					sold.ItemName, sold.UnitPrice = name, price
				}
				lines = append(lines, sold)
				ids = append(ids, l.ID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Sort(byLineID{lines: lines, ids: ids})
	return append([]domain.SoldLine{}, lines...), nil
}

// byLineID orders sold lines by their order_items id.
type byLineID struct {
	lines []domain.SoldLine
	ids   []int
}

func (b byLineID) Len() int           { return len(b.lines) }
func (b byLineID) Less(i, j int) bool { return b.ids[i] < b.ids[j] }
func (b byLineID) Swap(i, j int) {
	b.lines[i], b.lines[j] = b.lines[j], b.lines[i]
	b.ids[i], b.ids[j] = b.ids[j], b.ids[i]
}

func (s *FileStore) PaidOrders(ctx context.Context, from, to time.Time) ([]domain.PaidOrder, error) {
	orders := []domain.PaidOrder{}
	err := s.read(func(d *fileData) error {
		for _, o := range d.Orders {
			if o.PaymentStatus != domain.PaymentPaid || o.CreatedAt.Before(from) || !o.CreatedAt.Before(to) {
				continue
			}
			orders = append(orders, domain.PaidOrder{
				ID: o.ID, TotalAmount: o.TotalAmount, Status: o.Status, CreatedAt: o.CreatedAt,
			})
		}
		return nil
	})
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID < orders[j].ID
		}
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})
	return orders, err
}

func (s *FileStore) CountPaidInFlight(ctx context.Context) (int, error) {
	var n int
	err := s.read(func(d *fileData) error {
		for _, o := range d.Orders {
			if o.PaymentStatus == domain.PaymentPaid && o.Status.InFlight() {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (s *FileStore) CatalogCounts(ctx context.Context) (service.CatalogCounts, error) {
	var c service.CatalogCounts
	err := s.read(func(d *fileData) error {
		for _, dish := range d.Dishes {
			if dish.IsAvailable {
				c.AvailableDishes++
			}
		}
		for _, combo := range d.Combos {
			if combo.IsEnabled {
				c.EnabledCombos++
			}
		}
		for _, category := range d.Categories {
			if category.IsEnabled {
				c.EnabledCategories++
			}
		}
		return nil
	})
	return c, err
}

func (s *FileStore) RecentPaidItems(ctx context.Context, userID, orders int) ([]service.HistoryItem, error) {
	items := []service.HistoryItem{}
	err := s.read(func(d *fileData) error {
		var paid []orderRecord
		for _, o := range d.Orders {
			if o.UserID == userID && o.PaymentStatus == domain.PaymentPaid {
				paid = append(paid, o)
			}
		}
		sort.SliceStable(paid, func(i, j int) bool { return paid[i].CreatedAt.After(paid[j].CreatedAt) })
		if len(paid) > orders {
			paid = paid[:orders]
		}
		var lines []domain.OrderLine
		for _, o := range paid {
			lines = append(lines, o.Items...)
		}
		sort.SliceStable(lines, func(i, j int) bool { return lines[i].ID < lines[j].ID })
		for _, l := range lines {
			items = append(items, service.HistoryItem{
				Name: l.ItemName, Quantity: l.Quantity, Flavors: append([]string{}, l.SelectedFlavors...),
			})
		}
		return nil
	})
	return items, err
}

func (s *FileStore) AvailableItemNames(ctx context.Context, kind domain.ItemType) ([]string, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown item type %q", kind)
	}
	names := []string{}
	err := s.read(func(d *fileData) error {
		if kind == domain.ItemTypeDish {
			for _, dish := range d.Dishes {
				if dish.IsAvailable {
					names = append(names, dish.Name)
				}
			}
			return nil
		}
		for _, combo := range d.Combos {
			if combo.IsEnabled {
				names = append(names, combo.Name)
			}
		}
		return nil
	})
	sort.Strings(names)
	return names, err
}

func (s *FileStore) FindAvailableByName(ctx context.Context, kind domain.ItemType, name string) (*domain.CatalogItem, error) {
	var item *domain.CatalogItem
	err := s.read(func(d *fileData) error {
		ref := domain.ItemRef{ItemType: kind}
		switch kind {
		case domain.ItemTypeDish:
			for _, dish := range d.Dishes {
				if dish.Name == name && dish.IsAvailable && (ref.ItemID == 0 || dish.ID < ref.ItemID) {
					ref.ItemID = dish.ID
				}
			}
		case domain.ItemTypeCombo:
			for _, combo := range d.Combos {
				if combo.Name == name && combo.IsEnabled && (ref.ItemID == 0 || combo.ID < ref.ItemID) {
					ref.ItemID = combo.ID
				}
			}
		}
		if ref.ItemID == 0 {
			return domain.ErrNotFound
		}
		resolved, err := d.resolveItem(ref)
		if err != nil {
			return err
		}
		if !resolved.Available {
			return domain.ErrNotFound
		}
		item = resolved
		return nil
	})
	return item, err
}
