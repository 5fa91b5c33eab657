package service

import (
	"context"
	"errors"
	"fmt"

	"kungfu-delivery/internal/apperr"
	"kungfu-delivery/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	msgCartAddInvalid    = "商品ID、类型和数量为必填项，且数量必须大于0"
	msgInvalidItemType   = "无效的商品类型，必须是 'dish' 或 'combo'"
	msgItemUnavailable   = "商品不存在或已下架"
	msgNothingToUpdate   = "没有提供可更新的字段"
	msgQuantityTooSmall  = "数量必须大于或等于1"
	msgComboHasNoFlavors = "套餐不支持更新口味"
	msgCartLineNotFound  = "购物车中未找到该商品"
)

type CartServiceInterface interface {
	Get(ctx context.Context, userID int) (*domain.CartView, error)
	AddItem(ctx context.Context, userID int, in domain.AddCartItem) (*domain.CartLine, error)
	UpdateItem(ctx context.Context, userID, lineID int, in domain.UpdateCartItem) (*domain.CartLine, error)
	RemoveItem(ctx context.Context, userID, lineID int) error
	Clear(ctx context.Context, userID int) error
}

type CartService struct {
	repo    CartRepository
	catalog ItemResolver
}

func NewCartService(repo CartRepository, catalog ItemResolver) *CartService {
	return &CartService{repo: repo, catalog: catalog}
}

// Get enriches every line with live catalog data. Lines whose item is gone or
// unavailable are left out of the view and the total but stay in storage.
func (s *CartService) Get(ctx context.Context, userID int) (*domain.CartView, error) {
	lines, err := s.repo.ListCartLines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart lines: %w", err)
	}

	view := &domain.CartView{Items: []domain.CartItemView{}, TotalAmount: decimal.Zero}
	for _, line := range lines {
		item, err := s.catalog.ResolveItem(ctx, line.ItemRef)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolve cart item %d: %w", line.ID, err)
		}
		if !item.Available {
			continue
		}

		subTotal := item.Price.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
		view.Items = append(view.Items, domain.CartItemView{
			CartItemID:      line.ID,
			ItemID:          line.ItemID,
			ItemType:        line.ItemType,
			Quantity:        line.Quantity,
			SelectedFlavors: line.Flavors,
			ItemName:        item.Name,
			UnitPrice:       item.Price,
			ItemImageURL:    item.ImageURL,
			SubTotal:        subTotal,
			IsAvailable:     true,
		})
		view.TotalAmount = view.TotalAmount.Add(subTotal)
	}
	view.TotalAmount = view.TotalAmount.Round(2)
	return view, nil
}

func (s *CartService) AddItem(ctx context.Context, userID int, in domain.AddCartItem) (*domain.CartLine, error) {
	if in.ItemID <= 0 || in.ItemType == "" || in.Quantity < 1 {
		return nil, apperr.Validation(msgCartAddInvalid)
	}
	if !in.ItemType.Valid() {
		return nil, apperr.Validation(msgInvalidItemType)
	}

	ref := domain.ItemRef{ItemType: in.ItemType, ItemID: in.ItemID}
	item, err := s.catalog.ResolveItem(ctx, ref)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperr.Validation(msgItemUnavailable)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve item: %w", err)
	}
	if !item.Available {
		return nil, apperr.Validation(msgItemUnavailable)
	}

	flavors := []string{}
	if ref.ItemType == domain.ItemTypeDish {
		flavors = domain.NormalizeFlavors(in.SelectedFlavors)
	}

	line := &domain.CartLine{
		ItemRef:   ref,
		UserID:    userID,
		Quantity:  in.Quantity,
		Flavors:   flavors,
		FlavorKey: domain.FlavorKey(flavors),
	}
	if err := s.repo.UpsertCartLine(ctx, line); err != nil {
		return nil, fmt.Errorf("upsert cart line: %w", err)
	}
	return line, nil
}

func (s *CartService) UpdateItem(ctx context.Context, userID, lineID int, in domain.UpdateCartItem) (*domain.CartLine, error) {
	if in.Quantity == nil && in.SelectedFlavors == nil {
		return nil, apperr.Validation(msgNothingToUpdate)
	}
	if in.Quantity != nil && *in.Quantity < 1 {
		return nil, apperr.Validation(msgQuantityTooSmall)
	}

	line, err := s.repo.GetCartLine(ctx, userID, lineID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperr.NotFound(msgCartLineNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get cart line: %w", err)
	}

	if in.SelectedFlavors != nil && line.ItemType == domain.ItemTypeCombo {
		return nil, apperr.Validation(msgComboHasNoFlavors)
	}

	if in.Quantity != nil {
		line.Quantity = *in.Quantity
	}
	if in.SelectedFlavors == nil {
		if err := s.repo.UpdateCartLine(ctx, line); err != nil {
			return nil, fmt.Errorf("update cart line: %w", err)
		}
		return line, nil
	}

	line.Flavors = domain.NormalizeFlavors(*in.SelectedFlavors)
	line.FlavorKey = domain.FlavorKey(line.Flavors)

	// A flavor change can make this line identical to another one; fold it
	// into that line so the merge identity stays unique.
	twin, err := s.repo.FindCartLine(ctx, userID, line.ItemRef, line.FlavorKey)
	switch {
	case errors.Is(err, domain.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("find cart line: %w", err)
	case twin.ID != line.ID:
		twin.Quantity += line.Quantity
		if err := s.repo.UpdateCartLine(ctx, twin); err != nil {
			return nil, fmt.Errorf("merge cart line: %w", err)
		}
		if _, err := s.repo.DeleteCartLine(ctx, userID, line.ID); err != nil {
			return nil, fmt.Errorf("delete merged cart line: %w", err)
		}
		return twin, nil
	}

	if err := s.repo.UpdateCartLine(ctx, line); err != nil {
		return nil, fmt.Errorf("update cart line: %w", err)
	}
	return line, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, lineID int) error {
	rows, err := s.repo.DeleteCartLine(ctx, userID, lineID)
	if err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}
	if rows == 0 {
		return apperr.NotFound(msgCartLineNotFound)
	}
	return nil
}

func (s *CartService) Clear(ctx context.Context, userID int) error {
	if err := s.repo.ClearCart(ctx, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

var _ CartServiceInterface = (*CartService)(nil)
