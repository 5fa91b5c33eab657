package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"kungfu-delivery/internal/apperr"
	"kungfu-delivery/internal/domain"
)

const (
	msgAddressRequired      = "收件人姓名、电话、楼宇名称和房间详情为必填项"
	msgAddressNotFound      = "地址未找到或不属于当前用户"
	msgDefaultAddressDelete = "不能删除默认地址。请先设置其他地址为默认。"
)

type AddressServiceInterface interface {
	List(ctx context.Context, userID int) ([]domain.Address, error)
	Get(ctx context.Context, userID, id int) (*domain.Address, error)
	Create(ctx context.Context, userID int, in domain.AddressInput) (*domain.Address, error)
	Update(ctx context.Context, userID, id int, in domain.AddressInput) (*domain.Address, error)
	Delete(ctx context.Context, userID, id int) error
	SetDefault(ctx context.Context, userID, id int) (*domain.Address, error)
}

type AddressService struct {
	repo AddressRepository
}

func NewAddressService(repo AddressRepository) *AddressService {
	return &AddressService{repo: repo}
}

// List returns the default address first, then the newest.
func (s *AddressService) List(ctx context.Context, userID int) ([]domain.Address, error) {
	addresses, err := s.repo.ListAddresses(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	sort.SliceStable(addresses, func(i, j int) bool {
		if addresses[i].IsDefault != addresses[j].IsDefault {
			return addresses[i].IsDefault
		}
		return addresses[i].CreatedAt.After(addresses[j].CreatedAt)
	})
	return addresses, nil
}

func (s *AddressService) Get(ctx context.Context, userID, id int) (*domain.Address, error) {
	address, err := s.repo.GetAddress(ctx, userID, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperr.NotFound(msgAddressNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get address: %w", err)
	}
	return address, nil
}

// Create stores a new address. The first address of a user always becomes
// the default one.
func (s *AddressService) Create(ctx context.Context, userID int, in domain.AddressInput) (*domain.Address, error) {
	address := &domain.Address{
		UserID:        userID,
		RecipientName: trimmed(in.RecipientName),
		PhoneNumber:   trimmed(in.PhoneNumber),
		BuildingName:  trimmed(in.BuildingName),
		RoomDetails:   trimmed(in.RoomDetails),
		IsDefault:     in.IsDefault != nil && *in.IsDefault,
	}
	if !addressComplete(address) {
		return nil, apperr.Validation(msgAddressRequired)
	}

	count, err := s.repo.CountAddresses(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count addresses: %w", err)
	}
	if count == 0 {
		address.IsDefault = true
	}

	if err := s.repo.CreateAddress(ctx, address); err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}
	return address, nil
}

// Update applies the given fields. is_default=true moves the default to this
// address; is_default=false is ignored.
func (s *AddressService) Update(ctx context.Context, userID, id int, in domain.AddressInput) (*domain.Address, error) {
	address, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.RecipientName != nil {
		address.RecipientName = trimmed(in.RecipientName)
	}
	if in.PhoneNumber != nil {
		address.PhoneNumber = trimmed(in.PhoneNumber)
	}
	if in.BuildingName != nil {
		address.BuildingName = trimmed(in.BuildingName)
	}
	if in.RoomDetails != nil {
		address.RoomDetails = trimmed(in.RoomDetails)
	}
	if !addressComplete(address) {
		return nil, apperr.Validation(msgAddressRequired)
	}

	if err := s.repo.UpdateAddress(ctx, address); err != nil {
		return nil, fmt.Errorf("update address: %w", err)
	}
	if in.IsDefault != nil && *in.IsDefault && !address.IsDefault {
		return s.SetDefault(ctx, userID, id)
	}
	return address, nil
}

func (s *AddressService) Delete(ctx context.Context, userID, id int) error {
	address, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if address.IsDefault {
		return apperr.ConflictBadRequest(msgDefaultAddressDelete)
	}

	rows, err := s.repo.DeleteAddress(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	if rows == 0 {
		return apperr.NotFound(msgAddressNotFound)
	}
	return nil
}

func (s *AddressService) SetDefault(ctx context.Context, userID, id int) (*domain.Address, error) {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return nil, err
	}
	if _, err := s.repo.SetDefaultAddress(ctx, userID, id); err != nil {
		return nil, fmt.Errorf("set default address: %w", err)
	}
	return s.Get(ctx, userID, id)
}

func addressComplete(a *domain.Address) bool {
	return a.RecipientName != "" && a.PhoneNumber != "" && a.BuildingName != "" && a.RoomDetails != ""
}

func trimmed(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

var _ AddressServiceInterface = (*AddressService)(nil)
