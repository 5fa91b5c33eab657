package domain

import "errors"

// Storage adapters return these so services can tell expected outcomes
// apart from infrastructure failures.
var (
	ErrNotFound            = errors.New("record not found")
	ErrDuplicate           = errors.New("record already exists")
	ErrInsufficientBalance = errors.New("insufficient balance")
)
