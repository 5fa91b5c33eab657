package domain

import "time"

type Address struct {
	ID            int       `json:"id"`
	UserID        int       `json:"user_id"`
	RecipientName string    `json:"recipient_name"`
	PhoneNumber   string    `json:"phone_number"`
	BuildingName  string    `json:"building_name"`
	RoomDetails   string    `json:"room_details"`
	IsDefault     bool      `json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type AddressInput struct {
	RecipientName *string `json:"recipient_name"`
	PhoneNumber   *string `json:"phone_number"`
	BuildingName  *string `json:"building_name"`
	RoomDetails   *string `json:"room_details"`
	IsDefault     *bool   `json:"is_default"`
}
