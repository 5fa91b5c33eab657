package storage

import (
	"context"
	"sort"
	"time"

	"kungfu-delivery/internal/domain"
	"kungfu-delivery/internal/service"

	"github.com/shopspring/decimal"
)

// InTx hands fn the write draft. Nothing reaches the data file unless fn
// returns nil.
func (s *FileStore) InTx(ctx context.Context, fn func(tx service.OrderTx) error) error {
	return s.write(func(d *fileData) error {
		return fn(&fileOrderTx{d: d, now: s.timestamp})
	})
}

type fileOrderTx struct {
	d   *fileData
	now func() time.Time
}

func (t *fileOrderTx) ResolveItem(ctx context.Context, ref domain.ItemRef) (*domain.CatalogItem, error) {
	return t.d.resolveItem(ref)
}

func (t *fileOrderTx) GetAddress(ctx context.Context, userID, id int) (*domain.Address, error) {
	return t.d.address(userID, id)
}

func (t *fileOrderTx) ListCartLines(ctx context.Context, userID int) ([]domain.CartLine, error) {
	return t.d.cartLines(userID), nil
}

func (t *fileOrderTx) ClearCart(ctx context.Context, userID int) error {
	t.d.clearCart(userID)
	return nil
}

func (t *fileOrderTx) DebitBalance(ctx context.Context, userID int, amount decimal.Decimal) error {
	i := t.d.userIndex(userID)
	if i < 0 {
		return domain.ErrNotFound
	}
	u := &t.d.Users[i]
	if u.Balance.LessThan(amount) {
		return domain.ErrInsufficientBalance
	}
	u.Balance = u.Balance.Sub(amount)
	u.UpdatedAt = t.now()
	return nil
}

func (t *fileOrderTx) CreditBalance(ctx context.Context, userID int, amount decimal.Decimal) error {
	_, err := t.d.creditBalance(userID, amount, t.now())
	return err
}

func (t *fileOrderTx) InsertOrder(ctx context.Context, o *domain.Order) error {
	o.ID = t.d.nextID("orders")
	o.CreatedAt = t.now()
	o.UpdatedAt = o.CreatedAt
	for i := range o.Items {
		o.Items[i].ID = t.d.nextID("order_items")
		o.Items[i].OrderID = o.ID
	}

	rec := orderRecord{Order: *o}
	rec.Items = append([]domain.OrderLine{}, o.Items...)
	rec.CustomerUsername, rec.ShippingAddress, rec.QRCodeURL = "", nil, ""
	t.d.Orders = append(t.d.Orders, rec)
	return nil
}

func (t *fileOrderTx) LockOrder(ctx context.Context, id int) (*domain.Order, error) {
	i := t.d.orderIndex(id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	o := t.d.Orders[i].Order
	o.Items = nil
	return &o, nil
}

func (t *fileOrderTx) UpdateOrderState(ctx context.Context, id int, status domain.OrderStatus, payment domain.PaymentStatus) error {
	i := t.d.orderIndex(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	o := &t.d.Orders[i]
	o.Status = status
	o.PaymentStatus = payment
	o.UpdatedAt = t.now()
	return nil
}

func (d *fileData) orderIndex(id int) int {
	for i := range d.Orders {
		if d.Orders[i].ID == id {
			return i
		}
	}
	return -1
}

// orderView joins the customer name and the shipping address the way the
// SQL adapter does.
func (d *fileData) orderView(rec orderRecord) domain.Order {
	o := rec.Order
	o.Items = append([]domain.OrderLine{}, rec.Items...)
	if i := d.userIndex(o.UserID); i >= 0 {
		o.CustomerUsername = d.Users[i].Username
	}
	if a, err := d.address(o.UserID, o.AddressID); err == nil {
		o.ShippingAddress = a
	}
	return o
}

func (s *FileStore) listOrders(keep func(o *domain.Order) bool) ([]domain.Order, error) {
	orders := []domain.Order{}
	err := s.read(func(d *fileData) error {
		for _, rec := range d.Orders {
			if keep(&rec.Order) {
				orders = append(orders, d.orderView(rec))
			}
		}
		return nil
	})
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, err
}

func (s *FileStore) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	var order *domain.Order
	err := s.read(func(d *fileData) error {
		i := d.orderIndex(id)
		if i < 0 {
			return domain.ErrNotFound
		}
		o := d.orderView(d.Orders[i])
		order = &o
		return nil
	})
	return order, err
}

func (s *FileStore) ListOrdersByUser(ctx context.Context, userID int) ([]domain.Order, error) {
	return s.listOrders(func(o *domain.Order) bool { return o.UserID == userID })
}

func (s *FileStore) ListOrders(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	return s.listOrders(func(o *domain.Order) bool { return status == "" || o.Status == status })
}

func (s *FileStore) DeleteOrder(ctx context.Context, id int) (int64, error) {
	var rows int64
	err := s.write(func(d *fileData) error {
		i := d.orderIndex(id)
		if i < 0 {
			return nil
		}
		d.Orders = append(d.Orders[:i], d.Orders[i+1:]...)
		rows = 1
		return nil
	})
	return rows, err
}

func (s *FileStore) SaveQRCode(ctx context.Context, id int, qr []byte) error {
	return s.write(func(d *fileData) error {
		i := d.orderIndex(id)
		if i < 0 {
			return nil
		}
		d.Orders[i].QRCode = qr
		return nil
	})
}

func (s *FileStore) GetQRCode(ctx context.Context, id int) ([]byte, error) {
	var qr []byte
	err := s.read(func(d *fileData) error {
		i := d.orderIndex(id)
		if i < 0 {
			return domain.ErrNotFound
		}
		qr = append([]byte(nil), d.Orders[i].QRCode...)
		return nil
	})
	return qr, err
}
