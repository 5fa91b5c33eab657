package service

import (
	"encoding/json"
	"fmt"

	"github.com/skip2/go-qrcode"
)

const pickupPayloadKind = "kungfu-delivery/pickup"

type QRGenerator interface {
	Generate(orderID int) ([]byte, error)
}

// PickupPayload is the content of an order's pickup code. The counter reads
// PickupNo aloud and opens URL to hand the order over.
type PickupPayload struct {
	Kind     string `json:"kind"`
	OrderID  int    `json:"order_id"`
	PickupNo string `json:"pickup_no"`
	URL      string `json:"url"`
}

// DefaultQRGenerator renders a PickupPayload as a 256px PNG.
type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) Generate(orderID int) ([]byte, error) {
	payload, err := json.Marshal(g.Payload(orderID))
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(string(payload), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode pickup code for order %d: %w", orderID, err)
	}
	return png, nil
}

func (g DefaultQRGenerator) Payload(orderID int) PickupPayload {
	return PickupPayload{
		Kind:     pickupPayloadKind,
		OrderID:  orderID,
		PickupNo: fmt.Sprintf("%04d", orderID%10000),
		URL:      g.Link(orderID),
	}
}

func (g DefaultQRGenerator) Link(orderID int) string {
	return fmt.Sprintf("%s/pickup?order_id=%d", g.BaseURL, orderID)
}
