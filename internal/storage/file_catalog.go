package storage

import (
	"context"
	"sort"

	"kungfu-delivery/internal/domain"
)

func (d *fileData) categoryIndex(id int) int {
	for i := range d.Categories {
		if d.Categories[i].ID == id {
			return i
		}
	}
	return -1
}

func (d *fileData) dishIndex(id int) int {
	for i := range d.Dishes {
		if d.Dishes[i].ID == id {
			return i
		}
	}
	return -1
}

func (d *fileData) comboIndex(id int) int {
	for i := range d.Combos {
		if d.Combos[i].ID == id {
			return i
		}
	}
	return -1
}

// dishView fills the joined category and canteen names.
func (d *fileData) dishView(dish domain.Dish) domain.Dish {
	dish.CategoryName, dish.CanteenName = "", ""
	if i := d.categoryIndex(dish.CategoryID); i >= 0 {
		dish.CategoryName = d.Categories[i].Name
	}
	if dish.CanteenID != nil {
		for _, c := range d.Canteens {
			if c.ID == *dish.CanteenID {
				dish.CanteenName = c.Name
			}
		}
	}
	dish.Flavors = append([]string{}, dish.Flavors...)
	return dish
}

func (d *fileData) comboView(rec comboRecord) domain.Combo {
	combo := domain.Combo{
		ID:          rec.ID,
		Name:        rec.Name,
		Description: rec.Description,
		Price:       rec.Price,
		ImageURL:    rec.ImageURL,
		IsEnabled:   rec.IsEnabled,
		Dishes:      []domain.ComboDish{},
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
	for _, link := range d.ComboDishes {
		if link.ComboID != rec.ID {
			continue
		}
		cd := domain.ComboDish{DishID: link.DishID, Quantity: link.Quantity, Missing: true}
		if i := d.dishIndex(link.DishID); i >= 0 {
			dish := d.Dishes[i]
			cd.Missing = false
			cd.Name = dish.Name
			cd.Price = dish.Price
			cd.ImageURL = dish.ImageURL
			cd.IsAvailable = dish.IsAvailable
		}
		combo.Dishes = append(combo.Dishes, cd)
	}
	sort.Slice(combo.Dishes, func(i, j int) bool { return combo.Dishes[i].DishID < combo.Dishes[j].DishID })
	return combo
}

func (d *fileData) categoryNameTaken(name string, excludeID int) bool {
	for _, c := range d.Categories {
		if c.Name == name && c.ID != excludeID {
			return true
		}
	}
	return false
}

func (d *fileData) comboNameTaken(name string, excludeID int) bool {
	for _, c := range d.Combos {
		if c.Name == name && c.ID != excludeID {
			return true
		}
	}
	return false
}

func (s *FileStore) ListCategories(ctx context.Context, enabledOnly bool) ([]domain.Category, error) {
	categories := []domain.Category{}
	err := s.read(func(d *fileData) error {
		for _, c := range d.Categories {
			if !enabledOnly || c.IsEnabled {
				categories = append(categories, c)
			}
		}
		return nil
	})
	return categories, err
}

func (s *FileStore) GetCategory(ctx context.Context, id int) (*domain.Category, error) {
	var category *domain.Category
	err := s.read(func(d *fileData) error {
		i := d.categoryIndex(id)
		if i < 0 {
			return domain.ErrNotFound
		}
		c := d.Categories[i]
		category = &c
		return nil
	})
	return category, err
}

func (s *FileStore) CreateCategory(ctx context.Context, c *domain.Category) error {
	return s.write(func(d *fileData) error {
		if d.categoryNameTaken(c.Name, 0) {
			return domain.ErrDuplicate
		}
		c.ID = d.nextID("categories")
		c.CreatedAt = s.timestamp()
		c.UpdatedAt = c.CreatedAt
		d.Categories = append(d.Categories, *c)
		return nil
	})
}

func (s *FileStore) UpdateCategory(ctx context.Context, c *domain.Category) error {
	return s.write(func(d *fileData) error {
		i := d.categoryIndex(c.ID)
		if i < 0 {
			return domain.ErrNotFound
		}
		if d.categoryNameTaken(c.Name, c.ID) {
			return domain.ErrDuplicate
		}
		c.CreatedAt = d.Categories[i].CreatedAt
		c.UpdatedAt = s.timestamp()
		d.Categories[i] = *c
		return nil
	})
}

func (s *FileStore) ListCanteens(ctx context.Context) ([]domain.Canteen, error) {
	canteens := []domain.Canteen{}
	err := s.read(func(d *fileData) error {
		for _, c := range d.Canteens {
			if c.IsEnabled {
				canteens = append(canteens, c)
			}
		}
		return nil
	})
	return canteens, err
}

func (s *FileStore) ListDishes(ctx context.Context, filter domain.DishFilter) ([]domain.Dish, error) {
	dishes := []domain.Dish{}
	err := s.read(func(d *fileData) error {
		for _, dish := range d.Dishes {
			if filter.CategoryID > 0 && dish.CategoryID != filter.CategoryID {
				continue
			}
			if filter.CanteenID > 0 && (dish.CanteenID == nil || *dish.CanteenID != filter.CanteenID) {
				continue
			}
			if filter.AvailableOnly && !dish.IsAvailable {
				continue
			}
			dishes = append(dishes, d.dishView(dish))
		}
		return nil
	})
	return dishes, err
}

func (s *FileStore) GetDish(ctx context.Context, id int) (*domain.Dish, error) {
	var dish *domain.Dish
	err := s.read(func(d *fileData) error {
		i := d.dishIndex(id)
		if i < 0 {
			return domain.ErrNotFound
		}
		v := d.dishView(d.Dishes[i])
		dish = &v
		return nil
	})
	return dish, err
}

func (s *FileStore) CreateDish(ctx context.Context, dish *domain.Dish) error {
	return s.write(func(d *fileData) error {
		dish.ID = d.nextID("dishes")
		dish.CreatedAt = s.timestamp()
		dish.UpdatedAt = dish.CreatedAt
		stored := *dish
		stored.CategoryName, stored.CanteenName = "", ""
		d.Dishes = append(d.Dishes, stored)
		return nil
	})
}

func (s *FileStore) UpdateDish(ctx context.Context, dish *domain.Dish) error {
	return s.write(func(d *fileData) error {
		i := d.dishIndex(dish.ID)
		if i < 0 {
			return domain.ErrNotFound
		}
		dish.CreatedAt = d.Dishes[i].CreatedAt
		dish.UpdatedAt = s.timestamp()
		stored := *dish
		stored.CategoryName, stored.CanteenName = "", ""
		d.Dishes[i] = stored
		return nil
	})
}

func (s *FileStore) DeleteDish(ctx context.Context, id int) (int64, error) {
	var rows int64
	err := s.write(func(d *fileData) error {
		i := d.dishIndex(id)
		if i < 0 {
			return nil
		}
		d.Dishes = append(d.Dishes[:i], d.Dishes[i+1:]...)
		rows = 1
		return nil
	})
	return rows, err
}

func (s *FileStore) DishInCombos(ctx context.Context, id int) (bool, error) {
	var used bool
	err := s.read(func(d *fileData) error {
		for _, link := range d.ComboDishes {
			if link.DishID == id {
				used = true
				break
			}
		}
		return nil
	})
	return used, err
}

func (s *FileStore) ListCombos(ctx context.Context) ([]domain.Combo, error) {
	combos := []domain.Combo{}
	err := s.read(func(d *fileData) error {
		for _, rec := range d.Combos {
			combos = append(combos, d.comboView(rec))
		}
		return nil
	})
	return combos, err
}

func (s *FileStore) GetCombo(ctx context.Context, id int) (*domain.Combo, error) {
	var combo *domain.Combo
	err := s.read(func(d *fileData) error {
		i := d.comboIndex(id)
		if i < 0 {
			return domain.ErrNotFound
		}
		v := d.comboView(d.Combos[i])
		combo = &v
		return nil
	})
	return combo, err
}

func (s *FileStore) ComboNameTaken(ctx context.Context, name string, excludeID int) (bool, error) {
	var taken bool
	err := s.read(func(d *fileData) error {
		taken = d.comboNameTaken(name, excludeID)
		return nil
	})
	return taken, err
}

func (s *FileStore) CreateCombo(ctx context.Context, c *domain.Combo) error {
	return s.write(func(d *fileData) error {
		if d.comboNameTaken(c.Name, 0) {
			return domain.ErrDuplicate
		}
		c.ID = d.nextID("combos")
		c.CreatedAt = s.timestamp()
		c.UpdatedAt = c.CreatedAt
		d.Combos = append(d.Combos, comboRecord{
			ID: c.ID, Name: c.Name, Description: c.Description, Price: c.Price, ImageURL: c.ImageURL,
			IsEnabled: c.IsEnabled, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
		})
		d.setComboDishes(c.ID, c.Dishes)
		return nil
	})
}

func (s *FileStore) UpdateCombo(ctx context.Context, c *domain.Combo) error {
	return s.write(func(d *fileData) error {
		i := d.comboIndex(c.ID)
		if i < 0 {
			return domain.ErrNotFound
		}
		if d.comboNameTaken(c.Name, c.ID) {
			return domain.ErrDuplicate
		}
		c.CreatedAt = d.Combos[i].CreatedAt
		c.UpdatedAt = s.timestamp()
		d.Combos[i] = comboRecord{
			ID: c.ID, Name: c.Name, Description: c.Description, Price: c.Price, ImageURL: c.ImageURL,
			IsEnabled: c.IsEnabled, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
		}
		d.setComboDishes(c.ID, c.Dishes)
		return nil
	})
}

func (d *fileData) setComboDishes(comboID int, dishes []domain.ComboDish) {
	kept := d.ComboDishes[:0]
	for _, link := range d.ComboDishes {
		if link.ComboID != comboID {
			kept = append(kept, link)
		}
	}
	d.ComboDishes = kept
	for _, cd := range dishes {
		d.ComboDishes = append(d.ComboDishes, comboDishRecord{ComboID: comboID, DishID: cd.DishID, Quantity: cd.Quantity})
	}
}

func (s *FileStore) DeleteCombo(ctx context.Context, id int) (int64, error) {
	var rows int64
	err := s.write(func(d *fileData) error {
		i := d.comboIndex(id)
		if i < 0 {
			return nil
		}
		d.Combos = append(d.Combos[:i], d.Combos[i+1:]...)
		d.setComboDishes(id, nil)
		rows = 1
		return nil
	})
	return rows, err
}
