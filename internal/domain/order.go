package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusPreparing  OrderStatus = "preparing"
	StatusDelivering OrderStatus = "delivering"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
	StatusRefunded   OrderStatus = "refunded"
)

var OrderStatuses = []OrderStatus{
	StatusPending, StatusConfirmed, StatusPreparing, StatusDelivering,
	StatusCompleted, StatusCancelled, StatusRefunded,
}

func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// InFlight is the unresolved band counted as pending work in the overview.
func (s OrderStatus) InFlight() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusDelivering:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

const PaymentMethodBalance = "balance"

type Order struct {
	ID               int             `json:"id"`
	UserID           int             `json:"user_id"`
	AddressID        int             `json:"address_id"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	Status           OrderStatus     `json:"status"`
	PaymentStatus    PaymentStatus   `json:"payment_status"`
	PaymentMethod    string          `json:"payment_method"`
	Remark           string          `json:"remark"`
	QRCode           []byte          `json:"-"`
	QRCodeURL        string          `json:"qr_code,omitempty"`
	CustomerUsername string          `json:"customer_username,omitempty"`
	ShippingAddress  *Address        `json:"shipping_address,omitempty"`
	Items            []OrderLine     `json:"items,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type OrderLine struct {
	ID      int `json:"id"`
	OrderID int `json:"order_id"`
	ItemRef
	ItemName        string          `json:"item_name"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	SubTotal        decimal.Decimal `json:"sub_total"`
	SelectedFlavors []string        `json:"selected_flavors"`
}

type CreateOrder struct {
	AddressID     int    `json:"addressId"`
	PaymentMethod string `json:"paymentMethod"`
	Remark        string `json:"remark"`
}

type OrderPlaced struct {
	OrderID       int             `json:"order_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Status        OrderStatus     `json:"status"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
}

type OrderEventType string

const (
	EventOrderCreated       OrderEventType = "order_created"
	EventOrderPaid          OrderEventType = "order_paid"
	EventOrderStatusChanged OrderEventType = "order_status_changed"
	EventOrderDeleted       OrderEventType = "order_deleted"
)

type OrderEvent struct {
	Type          OrderEventType  `json:"type"`
	OrderID       int             `json:"order_id"`
	UserID        int             `json:"user_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Status        OrderStatus     `json:"status"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	Timestamp     time.Time       `json:"timestamp"`
}
