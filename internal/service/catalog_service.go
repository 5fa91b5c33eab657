package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"kungfu-delivery/internal/apperr"
	"kungfu-delivery/internal/domain"
	"kungfu-delivery/internal/logger"

	"github.com/shopspring/decimal"
)

const (
	msgCategoryNotFound     = "分类未找到"
	msgCategoryNameRequired = "分类名称为必填项"
	msgCategoryNameTaken    = "已存在同名分类"
	msgCategoryNameTakenUpd = "已存在另一个同名分类"
	msgCategoryHasDishes    = "该分类下存在可用菜品，无法禁用"
	msgCategoryMissing      = "菜品所属分类不存在"

	msgDishNotFound     = "菜品未找到"
	msgDishRequired     = "分类ID、菜品名称和价格为必填项"
	msgDishPriceInvalid = "价格不能为负数"
	msgDishInCombo      = "无法删除菜品，因为它已关联到套餐中。请先从套餐中移除该菜品。"

	msgComboNotFound      = "套餐未找到"
	msgComboRequired      = "套餐名称、价格和包含的菜品列表 (至少一项) 为必填项"
	msgComboDishesEmpty   = "套餐更新时，提供的菜品列表必须是包含至少一项的数组"
	msgComboDishInvalid   = "套餐中的菜品必须包含有效的dish_id和大于0的数量"
	msgComboDishMissing   = "套餐中包含的菜品ID %d 不存在或已下架"
	msgComboNameTaken     = "已存在同名套餐"
	msgComboNameTakenUpd  = "已存在另一个同名套餐"
	msgComboDishPlacehold = "[菜品已删除或ID错误]"
)

const (
	imageFolderDishes = "dishes"
	imageFolderCombos = "combos"
)

// ImageStore persists uploaded catalog images and returns the public URL.
type ImageStore interface {
	Save(ctx context.Context, folder, ext string, r io.Reader) (string, error)
	Remove(ctx context.Context, url string) error
}

type CatalogServiceInterface interface {
	ListCategories(ctx context.Context, includeDisabled bool) ([]domain.Category, error)
	GetCategory(ctx context.Context, id int) (*domain.Category, error)
	CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int, in domain.CategoryInput) (*domain.Category, error)
	DisableCategory(ctx context.Context, id int) error
	ListCanteens(ctx context.Context) ([]domain.Canteen, error)

	ListDishes(ctx context.Context, filter domain.DishFilter) ([]domain.Dish, error)
	GetDish(ctx context.Context, id int) (*domain.Dish, error)
	CreateDish(ctx context.Context, in domain.DishInput) (*domain.Dish, error)
	UpdateDish(ctx context.Context, id int, in domain.DishInput) (*domain.Dish, error)
	DeleteDish(ctx context.Context, id int) error
	SetDishImage(ctx context.Context, id int, ext string, r io.Reader) (*domain.Dish, error)

	ListCombos(ctx context.Context, admin bool) ([]domain.Combo, error)
	GetCombo(ctx context.Context, id int) (*domain.Combo, error)
	CreateCombo(ctx context.Context, in domain.ComboInput) (*domain.Combo, error)
	UpdateCombo(ctx context.Context, id int, in domain.ComboInput) (*domain.Combo, error)
	DeleteCombo(ctx context.Context, id int) error
	SetComboImage(ctx context.Context, id int, ext string, r io.Reader) (*domain.Combo, error)
}

type CatalogService struct {
	repo   CatalogRepository
	images ImageStore
}

func NewCatalogService(repo CatalogRepository, images ImageStore) *CatalogService {
	return &CatalogService{repo: repo, images: images}
}

func (s *CatalogService) ListCategories(ctx context.Context, includeDisabled bool) ([]domain.Category, error) {
	categories, err := s.repo.ListCategories(ctx, !includeDisabled)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id int) (*domain.Category, error) {
	category, err := s.repo.GetCategory(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperr.NotFound(msgCategoryNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return category, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error) {
	name := trimmed(in.Name)
	if name == "" {
		return nil, apperr.Validation(msgCategoryNameRequired)
	}
	category := &domain.Category{
		Name:        name,
		Description: trimmed(in.Description),
		IsEnabled:   in.IsEnabled == nil || *in.IsEnabled,
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperr.ConflictBadRequest(msgCategoryNameTaken)
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id int, in domain.CategoryInput) (*domain.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if category.Name = trimmed(in.Name); category.Name == "" {
			return nil, apperr.Validation(msgCategoryNameRequired)
		}
	}
	if in.Description != nil {
		category.Description = trimmed(in.Description)
	}
	if in.IsEnabled != nil {
		category.IsEnabled = *in.IsEnabled
	}
	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperr.ConflictBadRequest(msgCategoryNameTakenUpd)
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

// DisableCategory is the soft delete of a category. It is refused while the
// category still holds available dishes.
func (s *CatalogService) DisableCategory(ctx context.Context, id int) error {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	if category.IsEnabled {
		dishes, err := s.repo.ListDishes(ctx, domain.DishFilter{CategoryID: id, AvailableOnly: true})
		if err != nil {
			return fmt.Errorf("list category dishes: %w", err)
		}
		if len(dishes) > 0 {
			return apperr.ConflictBadRequest(msgCategoryHasDishes)
		}
	}
	category.IsEnabled = false
	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		return fmt.Errorf("disable category: %w", err)
	}
	return nil
}

func (s *CatalogService) ListCanteens(ctx context.Context) ([]domain.Canteen, error) {
	canteens, err := s.repo.ListCanteens(ctx)
	if err != nil {
		return nil, fmt.Errorf("list canteens: %w", err)
	}
	return canteens, nil
}

func (s *CatalogService) ListDishes(ctx context.Context, filter domain.DishFilter) ([]domain.Dish, error) {
	dishes, err := s.repo.ListDishes(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}
	if filter.AvailableOnly {
		sort.SliceStable(dishes, func(i, j int) bool { return dishes[i].Name < dishes[j].Name })
	} else {
		sort.SliceStable(dishes, func(i, j int) bool { return dishes[i].CreatedAt.After(dishes[j].CreatedAt) })
	}
	return dishes, nil
}

func (s *CatalogService) GetDish(ctx context.Context, id int) (*domain.Dish, error) {
	dish, err := s.repo.GetDish(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperr.NotFound(msgDishNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get dish: %w", err)
	}
	return dish, nil
}

func (s *CatalogService) CreateDish(ctx context.Context, in domain.DishInput) (*domain.Dish, error) {
	name := trimmed(in.Name)
	if in.CategoryID == nil || *in.CategoryID <= 0 || name == "" || in.Price == nil {
		return nil, apperr.Validation(msgDishRequired)
	}
	if in.Price.IsNegative() {
		return nil, apperr.Validation(msgDishPriceInvalid)
	}
	if err := s.requireCategory(ctx, *in.CategoryID); err != nil {
		return nil, err
	}

	dish := &domain.Dish{
		CategoryID:  *in.CategoryID,
		CanteenID:   positiveOrNil(in.CanteenID),
		Name:        name,
		Description: trimmed(in.Description),
		Price:       in.Price.Round(2),
		Flavors:     domain.NormalizeFlavors(in.Flavors),
		IsAvailable: in.IsAvailable == nil || *in.IsAvailable,
	}
	if err := s.repo.CreateDish(ctx, dish); err != nil {
		return nil, fmt.Errorf("create dish: %w", err)
	}
	return dish, nil
}

func (s *CatalogService) UpdateDish(ctx context.Context, id int, in domain.DishInput) (*domain.Dish, error) {
	dish, err := s.GetDish(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.CategoryID != nil && *in.CategoryID != dish.CategoryID {
		if err := s.requireCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		dish.CategoryID = *in.CategoryID
	}
	if in.CanteenID != nil {
		dish.CanteenID = positiveOrNil(in.CanteenID)
	}
	if in.Name != nil {
		if dish.Name = trimmed(in.Name); dish.Name == "" {
			return nil, apperr.Validation(msgDishRequired)
		}
	}
	if in.Description != nil {
		dish.Description = trimmed(in.Description)
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, apperr.Validation(msgDishPriceInvalid)
		}
		dish.Price = in.Price.Round(2)
	}
	if in.Flavors != nil {
		dish.Flavors = domain.NormalizeFlavors(in.Flavors)
	}
	if in.IsAvailable != nil {
		dish.IsAvailable = *in.IsAvailable
	}

	if err := s.repo.UpdateDish(ctx, dish); err != nil {
		return nil, fmt.Errorf("update dish: %w", err)
	}
	return dish, nil
}

func (s *CatalogService) DeleteDish(ctx context.Context, id int) error {
	inCombo, err := s.repo.DishInCombos(ctx, id)
	if err != nil {
		return fmt.Errorf("check combo usage: %w", err)
	}
	if inCombo {
		return apperr.ConflictBadRequest(msgDishInCombo)
	}

	dish, err := s.GetDish(ctx, id)
	if err != nil {
		return err
	}
	rows, err := s.repo.DeleteDish(ctx, id)
	if err != nil {
		return fmt.Errorf("delete dish: %w", err)
	}
	if rows == 0 {
		return apperr.NotFound(msgDishNotFound)
	}
	s.removeImage(ctx, dish.ImageURL)
	return nil
}

func (s *CatalogService) SetDishImage(ctx context.Context, id int, ext string, r io.Reader) (*domain.Dish, error) {
	dish, err := s.GetDish(ctx, id)
	if err != nil {
		return nil, err
	}
	url, err := s.saveImage(ctx, imageFolderDishes, ext, r)
	if err != nil {
		return nil, err
	}

	previous := dish.ImageURL
	dish.ImageURL = url
	if err := s.repo.UpdateDish(ctx, dish); err != nil {
		s.removeImage(ctx, url)
		return nil, fmt.Errorf("update dish image: %w", err)
	}
	s.removeImage(ctx, previous)
	return dish, nil
}

// ListCombos returns every combo for admins, newest first, with deleted
// dishes shown as placeholders. Customers only see orderable combos sorted
// by name.
func (s *CatalogService) ListCombos(ctx context.Context, admin bool) ([]domain.Combo, error) {
	combos, err := s.repo.ListCombos(ctx)
	if err != nil {
		return nil, fmt.Errorf("list combos: %w", err)
	}

	if admin {
		for i := range combos {
			labelMissingDishes(&combos[i])
		}
		sort.SliceStable(combos, func(i, j int) bool { return combos[i].CreatedAt.After(combos[j].CreatedAt) })
		return combos, nil
	}

	visible := make([]domain.Combo, 0, len(combos))
	for _, c := range combos {
		if c.Orderable() {
			visible = append(visible, c)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool { return visible[i].Name < visible[j].Name })
	return visible, nil
}

func (s *CatalogService) GetCombo(ctx context.Context, id int) (*domain.Combo, error) {
	combo, err := s.repo.GetCombo(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperr.NotFound(msgComboNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get combo: %w", err)
	}
	labelMissingDishes(combo)
	return combo, nil
}

func (s *CatalogService) CreateCombo(ctx context.Context, in domain.ComboInput) (*domain.Combo, error) {
	name := trimmed(in.Name)
	if name == "" || in.Price == nil || len(in.Dishes) == 0 {
		return nil, apperr.Validation(msgComboRequired)
	}
	if in.Price.IsNegative() {
		return nil, apperr.Validation(msgDishPriceInvalid)
	}
	dishes, err := s.comboDishes(ctx, in.Dishes)
	if err != nil {
		return nil, err
	}
	if err := s.requireComboName(ctx, name, 0, msgComboNameTaken); err != nil {
		return nil, err
	}

	combo := &domain.Combo{
		Name:        name,
		Description: trimmed(in.Description),
		Price:       in.Price.Round(2),
		IsEnabled:   in.IsEnabled == nil || *in.IsEnabled,
		Dishes:      dishes,
	}
	if err := s.repo.CreateCombo(ctx, combo); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperr.ConflictBadRequest(msgComboNameTaken)
		}
		return nil, fmt.Errorf("create combo: %w", err)
	}
	return combo, nil
}

func (s *CatalogService) UpdateCombo(ctx context.Context, id int, in domain.ComboInput) (*domain.Combo, error) {
	combo, err := s.GetCombo(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := trimmed(in.Name)
		if name == "" {
			return nil, apperr.Validation(msgComboRequired)
		}
		if name != combo.Name {
			if err := s.requireComboName(ctx, name, id, msgComboNameTakenUpd); err != nil {
				return nil, err
			}
		}
		combo.Name = name
	}
	if in.Description != nil {
		combo.Description = trimmed(in.Description)
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, apperr.Validation(msgDishPriceInvalid)
		}
		combo.Price = in.Price.Round(2)
	}
	if in.IsEnabled != nil {
		combo.IsEnabled = *in.IsEnabled
	}
	if in.Dishes != nil {
		if len(in.Dishes) == 0 {
			return nil, apperr.Validation(msgComboDishesEmpty)
		}
		if combo.Dishes, err = s.comboDishes(ctx, in.Dishes); err != nil {
			return nil, err
		}
	}

	if err := s.repo.UpdateCombo(ctx, combo); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperr.ConflictBadRequest(msgComboNameTakenUpd)
		}
		return nil, fmt.Errorf("update combo: %w", err)
	}
	return combo, nil
}

func (s *CatalogService) DeleteCombo(ctx context.Context, id int) error {
	combo, err := s.GetCombo(ctx, id)
	if err != nil {
		return err
	}
	rows, err := s.repo.DeleteCombo(ctx, id)
	if err != nil {
		return fmt.Errorf("delete combo: %w", err)
	}
	if rows == 0 {
		return apperr.NotFound(msgComboNotFound)
	}
	s.removeImage(ctx, combo.ImageURL)
	return nil
}

func (s *CatalogService) SetComboImage(ctx context.Context, id int, ext string, r io.Reader) (*domain.Combo, error) {
	combo, err := s.GetCombo(ctx, id)
	if err != nil {
		return nil, err
	}
	url, err := s.saveImage(ctx, imageFolderCombos, ext, r)
	if err != nil {
		return nil, err
	}

	previous := combo.ImageURL
	combo.ImageURL = url
	if err := s.repo.UpdateCombo(ctx, combo); err != nil {
		s.removeImage(ctx, url)
		return nil, fmt.Errorf("update combo image: %w", err)
	}
	s.removeImage(ctx, previous)
	return combo, nil
}

// comboDishes checks every requested constituent against the live catalog.
// Repeated dish ids are merged.
func (s *CatalogService) comboDishes(ctx context.Context, in []domain.ComboDishInput) ([]domain.ComboDish, error) {
	index := map[int]int{}
	out := make([]domain.ComboDish, 0, len(in))
	for _, item := range in {
		if item.DishID <= 0 || item.Quantity < 1 {
			return nil, apperr.Validation(msgComboDishInvalid)
		}
		if i, ok := index[item.DishID]; ok {
			out[i].Quantity += item.Quantity
			continue
		}

		dish, err := s.repo.GetDish(ctx, item.DishID)
		if errors.Is(err, domain.ErrNotFound) || (err == nil && !dish.IsAvailable) {
			return nil, apperr.Validation(fmt.Sprintf(msgComboDishMissing, item.DishID))
		}
		if err != nil {
			return nil, fmt.Errorf("get combo dish: %w", err)
		}

		index[item.DishID] = len(out)
		out = append(out, domain.ComboDish{
			DishID:      dish.ID,
			Quantity:    item.Quantity,
			Name:        dish.Name,
			Price:       dish.Price,
			ImageURL:    dish.ImageURL,
			IsAvailable: dish.IsAvailable,
		})
	}
	return out, nil
}

func (s *CatalogService) requireComboName(ctx context.Context, name string, excludeID int, msg string) error {
	taken, err := s.repo.ComboNameTaken(ctx, name, excludeID)
	if err != nil {
		return fmt.Errorf("check combo name: %w", err)
	}
	if taken {
		return apperr.ConflictBadRequest(msg)
	}
	return nil
}

func (s *CatalogService) requireCategory(ctx context.Context, id int) error {
	_, err := s.repo.GetCategory(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return apperr.Validation(msgCategoryMissing)
	}
	if err != nil {
		return fmt.Errorf("get category: %w", err)
	}
	return nil
}

func (s *CatalogService) saveImage(ctx context.Context, folder, ext string, r io.Reader) (string, error) {
	if s.images == nil {
		return "", apperr.Internal("图片存储未配置", nil)
	}
	url, err := s.images.Save(ctx, folder, strings.ToLower(ext), r)
	if err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return url, nil
}

func (s *CatalogService) removeImage(ctx context.Context, url string) {
	if s.images == nil || url == "" {
		return
	}
	if err := s.images.Remove(ctx, url); err != nil {
		logger.From(ctx).Warn().Err(err).Str("image_url", url).Msg("failed to remove image")
	}
}

func labelMissingDishes(c *domain.Combo) {
	for i := range c.Dishes {
		if c.Dishes[i].Missing {
			c.Dishes[i].Name = msgComboDishPlacehold
			c.Dishes[i].Price = decimal.Zero
		}
	}
}

func positiveOrNil(v *int) *int {
	if v == nil || *v <= 0 {
		return nil
	}
	id := *v
	return &id
}

var _ CatalogServiceInterface = (*CatalogService)(nil)
