package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"kungfu-delivery/internal/apperr"
	"kungfu-delivery/internal/domain"
	"kungfu-delivery/internal/logger"

	"github.com/shopspring/decimal"
)

const (
	msgOrderInputRequired = "收货地址和支付方式为必填项"
	msgInvalidAddress     = "无效的收货地址或地址不属于当前用户"
	msgCartEmpty          = "购物车为空，无法创建订单"
	msgCheckoutItemGone   = "商品「%s」已下架或不存在，请从购物车移除后再下单"
	msgInsufficientFunds  = "余额不足，请充值后再试"
	msgOrderAlreadyPaid   = "订单已支付"
	msgOrderClosed        = "订单已关闭，无法支付"
	msgOrderNotFound      = "订单未找到或不属于当前用户"
	msgAdminOrderNotFound = "订单未找到"
	msgInvalidStatus      = "无效的订单状态"
	msgTransitionDenied   = "订单状态不能从 %s 变更为 %s"
)

type OrderServiceInterface interface {
	Create(ctx context.Context, userID int, in domain.CreateOrder) (*domain.OrderPlaced, error)
	PaySuccess(ctx context.Context, userID, orderID int) (*domain.Order, error)
	PayFailure(ctx context.Context, userID, orderID int) (*domain.Order, error)
	History(ctx context.Context, userID int) ([]domain.Order, error)
	Detail(ctx context.Context, userID, orderID int) (*domain.Order, error)
	ListAll(ctx context.Context, status string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID int, status string) (*domain.Order, error)
	Delete(ctx context.Context, orderID int) error
	QRCode(ctx context.Context, userID, orderID int) ([]byte, error)
	QRLink(orderID int) string
}

type OrderService struct {
	repo      OrderRepository
	qrEncoder QRGenerator
	publisher EventPublisher
	cache     StatsCache
	policy    TransitionPolicy
	now       Clock
}

func NewOrderService(repo OrderRepository, qr QRGenerator, publisher EventPublisher, policy TransitionPolicy) *OrderService {
	if policy == nil {
		policy = PermissiveTransitions{}
	}
	return &OrderService{
		repo:      repo,
		qrEncoder: qr,
		publisher: publisher,
		policy:    policy,
		now:       time.Now,
	}
}

// WithStatsCache lets the service drop cached rankings itself when no event
// publisher is wired. With a publisher the stats aggregator does it.
func (s *OrderService) WithStatsCache(cache StatsCache) *OrderService {
	s.cache = cache
	return s
}

// Create checks out the user's cart. Address lookup, pricing, the optional
// balance debit, the order insert and the cart clear share one unit of work.
func (s *OrderService) Create(ctx context.Context, userID int, in domain.CreateOrder) (*domain.OrderPlaced, error) {
	method := strings.TrimSpace(in.PaymentMethod)
	if in.AddressID <= 0 || method == "" {
		return nil, apperr.Validation(msgOrderInputRequired)
	}

	var order *domain.Order
	err := s.repo.InTx(ctx, func(tx OrderTx) error {
		if _, err := tx.GetAddress(ctx, userID, in.AddressID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return apperr.Validation(msgInvalidAddress)
			}
			return fmt.Errorf("get address: %w", err)
		}

		lines, err := tx.ListCartLines(ctx, userID)
		if err != nil {
			return fmt.Errorf("list cart lines: %w", err)
		}
		if len(lines) == 0 {
			return apperr.Validation(msgCartEmpty)
		}

		draft, err := priceLines(ctx, tx, lines)
		if err != nil {
			return err
		}
		draft.UserID = userID
		draft.AddressID = in.AddressID
		draft.PaymentMethod = method
		draft.Remark = strings.TrimSpace(in.Remark)
		draft.Status = domain.StatusPending
		draft.PaymentStatus = domain.PaymentUnpaid

		if method == domain.PaymentMethodBalance {
			if err := tx.DebitBalance(ctx, userID, draft.TotalAmount); err != nil {
				if errors.Is(err, domain.ErrInsufficientBalance) {
					return apperr.InsufficientFunds(msgInsufficientFunds)
				}
				return fmt.Errorf("debit balance: %w", err)
			}
			draft.Status = domain.StatusPreparing
			draft.PaymentStatus = domain.PaymentPaid
		}

		if err := tx.InsertOrder(ctx, draft); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		if err := tx.ClearCart(ctx, userID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		order = draft
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.attachQRCode(ctx, order.ID)
	s.publish(ctx, domain.EventOrderCreated, order)

	return &domain.OrderPlaced{
		OrderID:       order.ID,
		TotalAmount:   order.TotalAmount,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
	}, nil
}

// priceLines snapshots the live unit price of every cart line. Any missing or
// unavailable item aborts the checkout.
func priceLines(ctx context.Context, tx ItemResolver, lines []domain.CartLine) (*domain.Order, error) {
	order := &domain.Order{TotalAmount: decimal.Zero}
	for _, line := range lines {
		item, err := tx.ResolveItem(ctx, line.ItemRef)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperr.ConflictBadRequest(fmt.Sprintf(msgCheckoutItemGone, fmt.Sprintf("%s#%d", line.ItemType, line.ItemID)))
		}
		if err != nil {
			return nil, fmt.Errorf("resolve item: %w", err)
		}
		if !item.Available {
			return nil, apperr.ConflictBadRequest(fmt.Sprintf(msgCheckoutItemGone, item.Name))
		}

		subTotal := item.Price.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
		order.Items = append(order.Items, domain.OrderLine{
			ItemRef:         line.ItemRef,
			ItemName:        item.Name,
			Quantity:        line.Quantity,
			UnitPrice:       item.Price,
			SubTotal:        subTotal,
			SelectedFlavors: line.Flavors,
		})
		order.TotalAmount = order.TotalAmount.Add(subTotal)
	}
	order.TotalAmount = order.TotalAmount.Round(2)
	return order, nil
}

func (s *OrderService) PaySuccess(ctx context.Context, userID, orderID int) (*domain.Order, error) {
	order, err := s.settlePayment(ctx, userID, orderID, domain.PaymentPaid)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, domain.EventOrderPaid, order)
	return order, nil
}

// PayFailure records a failed gateway attempt. The order stays open so the
// customer can retry.
func (s *OrderService) PayFailure(ctx context.Context, userID, orderID int) (*domain.Order, error) {
	return s.settlePayment(ctx, userID, orderID, domain.PaymentFailed)
}

func (s *OrderService) settlePayment(ctx context.Context, userID, orderID int, outcome domain.PaymentStatus) (*domain.Order, error) {
	var order *domain.Order
	err := s.repo.InTx(ctx, func(tx OrderTx) error {
		current, err := tx.LockOrder(ctx, orderID)
		if errors.Is(err, domain.ErrNotFound) || (err == nil && current.UserID != userID) {
			return apperr.NotFound(msgOrderNotFound)
		}
		if err != nil {
			return fmt.Errorf("lock order: %w", err)
		}
		if current.PaymentStatus == domain.PaymentPaid {
			return apperr.ConflictBadRequest(msgOrderAlreadyPaid)
		}
		if current.Status == domain.StatusCancelled || current.Status == domain.StatusRefunded {
			return apperr.ConflictBadRequest(msgOrderClosed)
		}

		status := current.Status
		if outcome == domain.PaymentPaid {
			status = domain.StatusConfirmed
		}
		if err := tx.UpdateOrderState(ctx, orderID, status, outcome); err != nil {
			return fmt.Errorf("update order state: %w", err)
		}
		current.Status = status
		current.PaymentStatus = outcome
		order = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) History(ctx context.Context, userID int) ([]domain.Order, error) {
	orders, err := s.repo.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	for i := range orders {
		orders[i].QRCodeURL = s.QRLink(orders[i].ID)
	}
	return orders, nil
}

func (s *OrderService) Detail(ctx context.Context, userID, orderID int) (*domain.Order, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && order.UserID != userID) {
		return nil, apperr.NotFound(msgOrderNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	order.QRCodeURL = s.QRLink(order.ID)
	return order, nil
}

func (s *OrderService) ListAll(ctx context.Context, status string) ([]domain.Order, error) {
	filter := domain.OrderStatus(strings.TrimSpace(status))
	if filter != "" && !filter.Valid() {
		return nil, apperr.Validation(msgInvalidStatus)
	}
	orders, err := s.repo.ListOrders(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus is the admin transition. Refunding a paid order also refunds
// the payment, and balance payments are credited back in the same unit of work.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int, status string) (*domain.Order, error) {
	target := domain.OrderStatus(strings.TrimSpace(status))
	if !target.Valid() {
		return nil, apperr.Validation(msgInvalidStatus)
	}

	var order *domain.Order
	err := s.repo.InTx(ctx, func(tx OrderTx) error {
		current, err := tx.LockOrder(ctx, orderID)
		if errors.Is(err, domain.ErrNotFound) {
			return apperr.NotFound(msgAdminOrderNotFound)
		}
		if err != nil {
			return fmt.Errorf("lock order: %w", err)
		}
		if !s.policy.Allowed(current.Status, target) {
			return apperr.ConflictBadRequest(fmt.Sprintf(msgTransitionDenied, current.Status, target))
		}

		payment := current.PaymentStatus
		if target == domain.StatusRefunded && current.PaymentStatus == domain.PaymentPaid {
			payment = domain.PaymentRefunded
			if current.PaymentMethod == domain.PaymentMethodBalance {
				if err := tx.CreditBalance(ctx, current.UserID, current.TotalAmount); err != nil {
					return fmt.Errorf("refund balance: %w", err)
				}
			}
		}

		if err := tx.UpdateOrderState(ctx, orderID, target, payment); err != nil {
			return fmt.Errorf("update order state: %w", err)
		}
		current.Status = target
		current.PaymentStatus = payment
		order = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, domain.EventOrderStatusChanged, order)
	return order, nil
}

func (s *OrderService) Delete(ctx context.Context, orderID int) error {
	rows, err := s.repo.DeleteOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if rows == 0 {
		return apperr.NotFound(msgAdminOrderNotFound)
	}
	s.publish(ctx, domain.EventOrderDeleted, &domain.Order{ID: orderID})
	return nil
}

func (s *OrderService) QRCode(ctx context.Context, userID, orderID int) ([]byte, error) {
	if _, err := s.Detail(ctx, userID, orderID); err != nil {
		return nil, err
	}
	qr, err := s.repo.GetQRCode(ctx, orderID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get qr code: %w", err)
	}
	if len(qr) == 0 && s.qrEncoder != nil {
		regenerated, err := s.qrEncoder.Generate(orderID)
		if err != nil {
			return nil, fmt.Errorf("generate qr code: %w", err)
		}
		if err := s.repo.SaveQRCode(ctx, orderID, regenerated); err != nil {
			logger.From(ctx).Warn().Err(err).Int("order_id", orderID).Msg("failed to cache regenerated qr code")
		}
		return regenerated, nil
	}
	if len(qr) == 0 {
		return nil, apperr.NotFound(msgAdminOrderNotFound)
	}
	return qr, nil
}

func (s *OrderService) QRLink(orderID int) string {
	return fmt.Sprintf("/api/orders/%d/qrcode", orderID)
}

func (s *OrderService) attachQRCode(ctx context.Context, orderID int) {
	if s.qrEncoder == nil {
		return
	}
	qr, err := s.qrEncoder.Generate(orderID)
	if err != nil {
		logger.From(ctx).Warn().Err(err).Int("order_id", orderID).Msg("failed to generate qr code")
		return
	}
	if err := s.repo.SaveQRCode(ctx, orderID, qr); err != nil {
		logger.From(ctx).Warn().Err(err).Int("order_id", orderID).Msg("failed to store qr code")
	}
}

func (s *OrderService) publish(ctx context.Context, kind domain.OrderEventType, order *domain.Order) {
	if s.publisher == nil {
		s.invalidateStats(ctx, kind, order.ID)
		return
	}
	event := domain.OrderEvent{
		Type:          kind,
		OrderID:       order.ID,
		UserID:        order.UserID,
		TotalAmount:   order.TotalAmount,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		Timestamp:     s.now(),
	}
	if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
		logger.From(ctx).Warn().Err(err).Int("order_id", order.ID).Str("event", string(kind)).Msg("failed to publish order event")
	}
}

func (s *OrderService) invalidateStats(ctx context.Context, kind domain.OrderEventType, orderID int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.From(ctx).Warn().Err(err).Int("order_id", orderID).Str("event", string(kind)).Msg("failed to invalidate stats cache")
	}
}

var _ OrderServiceInterface = (*OrderService)(nil)
