package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"kungfu-delivery/internal/domain"
	"kungfu-delivery/internal/service"

	"github.com/shopspring/decimal"
)

const fileStoreName = "kungfu-delivery.json"

type userRecord struct {
	domain.User
	PasswordHash string `json:"password_hash"`
}

type comboRecord struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	IsEnabled   bool            `json:"is_enabled"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type comboDishRecord struct {
	ComboID  int `json:"combo_id"`
	DishID   int `json:"dish_id"`
	Quantity int `json:"quantity"`
}

// orderRecord keeps its lines inline. Joined fields are rebuilt on read.
type orderRecord struct {
	domain.Order
	QRCode []byte `json:"qr_code_png,omitempty"`
}

type fileData struct {
	NextID      map[string]int    `json:"next_id"`
	Users       []userRecord      `json:"users"`
	Categories  []domain.Category `json:"categories"`
	Canteens    []domain.Canteen  `json:"canteens"`
	Dishes      []domain.Dish     `json:"dishes"`
	Combos      []comboRecord     `json:"combos"`
	ComboDishes []comboDishRecord `json:"combo_dishes"`
	Addresses   []domain.Address  `json:"addresses"`
	CartItems   []domain.CartLine `json:"cart_items"`
	Orders      []orderRecord     `json:"orders"`
}

func (d *fileData) nextID(table string) int {
	if d.NextID == nil {
		d.NextID = map[string]int{}
	}
	d.NextID[table]++
	return d.NextID[table]
}

func (d *fileData) clone() (*fileData, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	out := &fileData{}
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, err
	}
	return out, nil
}

// FileStore keeps every table in one JSON document. Writes run against a
// copy that replaces the live data only once it has been persisted.
type FileStore struct {
	mu   sync.RWMutex
	path string
	data *fileData
	now  func() time.Time
}

func OpenFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &FileStore{
		path: filepath.Join(dir, fileStoreName),
		data: &fileData{NextID: map[string]int{}},
		now:  time.Now,
	}

	raw, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read data file: %w", err)
	default:
		if err := json.Unmarshal(raw, s.data); err != nil {
			return nil, fmt.Errorf("decode data file: %w", err)
		}
	}

	err = s.write(func(d *fileData) error {
		for _, name := range DefaultCanteens {
			if !hasCanteen(d, name) {
				d.Canteens = append(d.Canteens, domain.Canteen{
					ID: d.nextID("canteens"), Name: name, IsEnabled: true, CreatedAt: s.timestamp(),
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func hasCanteen(d *fileData, name string) bool {
	for _, c := range d.Canteens {
		if c.Name == name {
			return true
		}
	}
	return false
}

func (s *FileStore) timestamp() time.Time {
	return s.now().UTC()
}

func (s *FileStore) read(fn func(d *fileData) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.data)
}

func (s *FileStore) write(fn func(d *fileData) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, err := s.data.clone()
	if err != nil {
		return fmt.Errorf("snapshot data: %w", err)
	}
	if err := fn(draft); err != nil {
		return err
	}
	if err := s.persist(draft); err != nil {
		return err
	}
	s.data = draft
	return nil
}

func (s *FileStore) persist(d *fileData) error {
	raw, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode data: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}

func (s *FileStore) ResolveItem(ctx context.Context, ref domain.ItemRef) (*domain.CatalogItem, error) {
	var item *domain.CatalogItem
	err := s.read(func(d *fileData) error {
		var err error
		item, err = d.resolveItem(ref)
		return err
	})
	return item, err
}

func (d *fileData) resolveItem(ref domain.ItemRef) (*domain.CatalogItem, error) {
	switch ref.ItemType {
	case domain.ItemTypeDish:
		i := d.dishIndex(ref.ItemID)
		if i < 0 {
			return nil, domain.ErrNotFound
		}
		dish := d.Dishes[i]
		return &domain.CatalogItem{
			ItemRef: ref, Name: dish.Name, Price: dish.Price, ImageURL: dish.ImageURL, Available: dish.IsAvailable,
		}, nil
	case domain.ItemTypeCombo:
		i := d.comboIndex(ref.ItemID)
		if i < 0 {
			return nil, domain.ErrNotFound
		}
		combo := d.comboView(d.Combos[i])
		return &domain.CatalogItem{
			ItemRef: ref, Name: combo.Name, Price: combo.Price, ImageURL: combo.ImageURL, Available: combo.Orderable(),
		}, nil
	}
	return nil, domain.ErrNotFound
}

var _ service.Store = (*FileStore)(nil)
