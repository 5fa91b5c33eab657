package service

import (
	"context"
	"time"

	"kungfu-delivery/internal/domain"

	"github.com/shopspring/decimal"
)

// ItemResolver returns the live catalog view of a dish or combo, or
// domain.ErrNotFound when the item does not exist.
type ItemResolver interface {
	ResolveItem(ctx context.Context, ref domain.ItemRef) (*domain.CatalogItem, error)
}

type CatalogRepository interface {
	ItemResolver

	ListCategories(ctx context.Context, enabledOnly bool) ([]domain.Category, error)
	GetCategory(ctx context.Context, id int) (*domain.Category, error)
	CreateCategory(ctx context.Context, category *domain.Category) error
	UpdateCategory(ctx context.Context, category *domain.Category) error
	ListCanteens(ctx context.Context) ([]domain.Canteen, error)

	ListDishes(ctx context.Context, filter domain.DishFilter) ([]domain.Dish, error)
	GetDish(ctx context.Context, id int) (*domain.Dish, error)
	CreateDish(ctx context.Context, dish *domain.Dish) error
	UpdateDish(ctx context.Context, dish *domain.Dish) error
	DeleteDish(ctx context.Context, id int) (int64, error)
	DishInCombos(ctx context.Context, id int) (bool, error)

	ListCombos(ctx context.Context) ([]domain.Combo, error)
	GetCombo(ctx context.Context, id int) (*domain.Combo, error)
	ComboNameTaken(ctx context.Context, name string, excludeID int) (bool, error)
	CreateCombo(ctx context.Context, combo *domain.Combo) error
	UpdateCombo(ctx context.Context, combo *domain.Combo) error
	DeleteCombo(ctx context.Context, id int) (int64, error)
}

type CartRepository interface {
	ListCartLines(ctx context.Context, userID int) ([]domain.CartLine, error)
	GetCartLine(ctx context.Context, userID, lineID int) (*domain.CartLine, error)
	FindCartLine(ctx context.Context, userID int, ref domain.ItemRef, flavorKey string) (*domain.CartLine, error)
	// UpsertCartLine inserts the line or, when a line with the same user, item
	// and flavor key exists, adds line.Quantity to it. line is updated in place.
	UpsertCartLine(ctx context.Context, line *domain.CartLine) error
	UpdateCartLine(ctx context.Context, line *domain.CartLine) error
	DeleteCartLine(ctx context.Context, userID, lineID int) (int64, error)
	ClearCart(ctx context.Context, userID int) error
}

type AddressRepository interface {
	ListAddresses(ctx context.Context, userID int) ([]domain.Address, error)
	GetAddress(ctx context.Context, userID, id int) (*domain.Address, error)
	CountAddresses(ctx context.Context, userID int) (int, error)
	// CreateAddress clears the other defaults of the user in the same write
	// when address.IsDefault is set.
	CreateAddress(ctx context.Context, address *domain.Address) error
	UpdateAddress(ctx context.Context, address *domain.Address) error
	DeleteAddress(ctx context.Context, userID, id int) (int64, error)
	// SetDefaultAddress flips every address of the user in one statement so
	// exactly one of them ends up default.
	SetDefaultAddress(ctx context.Context, userID, id int) (int64, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id int) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateProfile(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id int, hash string) error
	// CreditBalance atomically adds amount and returns the new balance.
	CreditBalance(ctx context.Context, id int, amount decimal.Decimal) (decimal.Decimal, error)
}

// OrderTx is the unit of work used by the order workflow. Every write made
// through it is committed or rolled back together.
type OrderTx interface {
	ItemResolver

	GetAddress(ctx context.Context, userID, id int) (*domain.Address, error)
	ListCartLines(ctx context.Context, userID int) ([]domain.CartLine, error)
	ClearCart(ctx context.Context, userID int) error
	// DebitBalance returns domain.ErrInsufficientBalance instead of going negative.
	DebitBalance(ctx context.Context, userID int, amount decimal.Decimal) error
	CreditBalance(ctx context.Context, userID int, amount decimal.Decimal) error
	InsertOrder(ctx context.Context, order *domain.Order) error
	// LockOrder reads the order header and holds it until the unit of work ends.
	LockOrder(ctx context.Context, id int) (*domain.Order, error)
	UpdateOrderState(ctx context.Context, id int, status domain.OrderStatus, payment domain.PaymentStatus) error
}

type OrderRepository interface {
	InTx(ctx context.Context, fn func(tx OrderTx) error) error

	GetOrder(ctx context.Context, id int) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID int) ([]domain.Order, error)
	ListOrders(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	DeleteOrder(ctx context.Context, id int) (int64, error)
	SaveQRCode(ctx context.Context, id int, qr []byte) error
	GetQRCode(ctx context.Context, id int) ([]byte, error)
}

type CatalogCounts struct {
	AvailableDishes   int
	EnabledCombos     int
	EnabledCategories int
}

type StatsRepository interface {
	// PaidOrderLines returns lines of paid orders in insertion order, with the
	// current catalog price in UnitPrice (zero when the item is gone).
	PaidOrderLines(ctx context.Context, kind domain.ItemType) ([]domain.SoldLine, error)
	// PaidOrders returns paid orders created in [from, to).
	PaidOrders(ctx context.Context, from, to time.Time) ([]domain.PaidOrder, error)
	CountPaidInFlight(ctx context.Context) (int, error)
	CatalogCounts(ctx context.Context) (CatalogCounts, error)
}

type HistoryItem struct {
	Name     string
	Quantity int
	Flavors  []string
}

type RecommendationRepository interface {
	RecentPaidItems(ctx context.Context, userID, orders int) ([]HistoryItem, error)
	AvailableItemNames(ctx context.Context, kind domain.ItemType) ([]string, error)
	FindAvailableByName(ctx context.Context, kind domain.ItemType, name string) (*domain.CatalogItem, error)
}

// Store is implemented by every storage adapter.
type Store interface {
	CatalogRepository
	CartRepository
	AddressRepository
	UserRepository
	OrderRepository
	StatsRepository
	RecommendationRepository
}

type StatsCache interface {
	GetHotItems(ctx context.Context, kind domain.ItemType, limit int) ([]domain.HotItem, bool, error)
	SetHotItems(ctx context.Context, kind domain.ItemType, limit int, items []domain.HotItem) error
	Invalidate(ctx context.Context) error
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error
}

type TokenIssuer interface {
	Issue(p domain.Principal) (string, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// ChatCompleter sends a prompt to a chat completion backend and returns the
// raw message content.
type ChatCompleter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Clock func() time.Time
