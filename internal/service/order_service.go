package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"foodgiver/internal/domain"
	"foodgiver/internal/repository"
)

// DefaultAddress адрес для заказов из корзины, если у пользователя нет сохранённых адресов
const DefaultAddress = "Default Address"

// levelEvery каждый пятый заказ повышает уровень
const levelEvery = 5

// OrderService реализует оформление заказов: одиночный заказ, заказ из корзины, черновики и модерацию
type OrderService struct {
	state   *repository.State
	catalog *CatalogService
	ledger  *Ledger
	profile *ProfileService
	log     *slog.Logger
	clock   clock
}

func NewOrderService(state *repository.State, catalog *CatalogService, ledger *Ledger, profile *ProfileService, log *slog.Logger, opts ...Option) *OrderService {
	return &OrderService{state: state, catalog: catalog, ledger: ledger, profile: profile, log: log, clock: newClock(opts)}
}

// SingleOrderRequest намерение купить одну позицию
type SingleOrderRequest struct {
	FoodID         int64               `json:"foodId"`
	Quantity       int                 `json:"quantity"`
	DeliveryMethod string              `json:"deliveryMethod"`
	PromoApplied   bool                `json:"-"`
	Shipping       domain.ShippingInfo `json:"shipping"`
}

// Receipt результат оформления
type Receipt struct {
	Orders  []domain.Order  `json:"orders"`
	Total   decimal.Decimal `json:"total"`
	Balance decimal.Decimal `json:"balance"`
	Level   int             `json:"level"`
	LevelUp bool            `json:"levelUp"`
}

// PlaceSingleOrder проверяет ввод и баланс, затем атомарно списывает кредиты и создаёт заказ
func (s *OrderService) PlaceSingleOrder(ctx context.Context, userID int64, req SingleOrderRequest) (*Receipt, error) {
	if req.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}
	shipping, err := validateShipping(req.Shipping)
	if err != nil {
		return nil, err
	}
	method, err := ParseDeliveryMethod(req.DeliveryMethod)
	if err != nil {
		return nil, err
	}

	var receipt *Receipt
	err = s.state.WithTransaction(ctx, func(ctx context.Context) error {
		user, err := s.user(ctx, userID)
		if err != nil {
			return err
		}
		food, err := s.catalog.Get(ctx, req.FoodID)
		if err != nil {
			return err
		}
		total, err := ComputeTotal(food.Price, req.Quantity, method, req.PromoApplied)
		if err != nil {
			return err
		}
		balance, err := s.ledger.Debit(ctx, userID, total)
		if err != nil {
			return err
		}

		orders, err := s.state.Orders(ctx)
		if err != nil {
			return err
		}
		order := domain.Order{
			ID:             s.clock.nextID(orderIDs(orders), false),
			UserID:         userID,
			Timestamp:      s.clock.now().UTC(),
			FoodID:         food.ID,
			FoodName:       food.Name,
			FoodImage:      food.Image,
			Quantity:       req.Quantity,
			Price:          food.Price,
			Total:          total,
			Status:         domain.OrderStatusPending,
			Name:           shipping.Name,
			Phone:          shipping.Phone,
			Address:        shipping.Address,
			Notes:          shipping.Notes,
			DeliveryMethod: method,
		}
		orders = append(orders, order)
		if err := s.state.SaveOrders(ctx, orders); err != nil {
			return err
		}

		if _, _, err := s.profile.AddAddress(ctx, userID, shipping.Address); err != nil {
			return err
		}

		levelUp := countUserOrders(orders, userID)%levelEvery == 0
		if levelUp {
			user.Level = max(user.Level, 1) + 1
		}
		user.Credits = balance
		if err := s.state.PutUser(ctx, *user); err != nil {
			return err
		}

		msg := fmt.Sprintf("Your order for %s has been placed successfully!", food.Name)
		if _, err := s.profile.Notify(ctx, userID, "Order Placed", msg); err != nil {
			return err
		}

		receipt = &Receipt{
			Orders:  []domain.Order{order},
			Total:   total,
			Balance: balance,
			Level:   user.Level,
			LevelUp: levelUp,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("order placed", "user_id", userID, "order_id", receipt.Orders[0].ID, "total", receipt.Total.String())
	if receipt.LevelUp {
		s.log.Info("level up", "user_id", userID, "level", receipt.Level)
	}
	return receipt, nil
}

// PlaceCartOrder оформляет всю корзину: одно списание на общую сумму, по заказу на строку.
// Доставка всегда standard, промокод не применяется.
func (s *OrderService) PlaceCartOrder(ctx context.Context, userID int64) (*Receipt, error) {
	var receipt *Receipt
	err := s.state.WithTransaction(ctx, func(ctx context.Context) error {
		user, err := s.user(ctx, userID)
		if err != nil {
			return err
		}
		cart, err := s.state.Cart(ctx, userID)
		if err != nil {
			return err
		}
		if len(cart) == 0 {
			return fmt.Errorf("%w: cart is empty", ErrInvalidInput)
		}
		total := decimal.Zero
		for _, line := range cart {
			if line.Quantity < 1 {
				return fmt.Errorf("%w: cart line %d has quantity %d", ErrInvalidInput, line.ItemID, line.Quantity)
			}
			if _, err := s.catalog.Get(ctx, line.ItemID); err != nil {
				return err
			}
			total = total.Add(line.LineTotal())
		}
		balance, err := s.ledger.Debit(ctx, userID, total)
		if err != nil {
			return err
		}

		address := DefaultAddress
		addrs, err := s.state.Addresses(ctx, userID)
		if err != nil {
			return err
		}
		if len(addrs) > 0 {
			address = addrs[0].Address
		}

		orders, err := s.state.Orders(ctx)
		if err != nil {
			return err
		}
		taken := orderIDs(orders)
		now := s.clock.now().UTC()
		created := make([]domain.Order, 0, len(cart))
		for _, line := range cart {
			created = append(created, domain.Order{
				ID:             s.clock.nextID(taken, true),
				UserID:         userID,
				Timestamp:      now,
				FoodID:         line.ItemID,
				FoodName:       line.Name,
				FoodImage:      line.Image,
				Quantity:       line.Quantity,
				Price:          line.Price,
				Total:          line.LineTotal(),
				Status:         domain.OrderStatusPending,
				Name:           user.Name,
				Phone:          user.Phone,
				Address:        address,
				DeliveryMethod: domain.DeliveryStandard,
			})
		}
		if err := s.state.SaveOrders(ctx, append(orders, created...)); err != nil {
			return err
		}
		if err := s.state.SaveCart(ctx, userID, nil); err != nil {
			return err
		}
		user.Credits = balance
		if err := s.state.PutUser(ctx, *user); err != nil {
			return err
		}
		if _, err := s.profile.Notify(ctx, userID, "Order Placed", "Your cart items have been ordered successfully!"); err != nil {
			return err
		}
		receipt = &Receipt{Orders: created, Total: total, Balance: balance, Level: user.Level}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("cart checked out", "user_id", userID, "orders", len(receipt.Orders), "total", receipt.Total.String())
	return receipt, nil
}

// user resolves the account from the users list, falling back to the current session record.
func (s *OrderService) user(ctx context.Context, userID int64) (*domain.User, error) {
	u, err := s.state.User(ctx, userID)
	if !errors.Is(err, repository.ErrNotFound) {
		return u, err
	}
	cur, err := s.state.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if cur == nil || cur.ID != userID {
		return nil, ErrNoSession
	}
	return cur, nil
}

// UpdateOrderStatus no-op when the order is absent.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error {
	status, err := ParseOrderStatus(string(status))
	if err != nil {
		return err
	}
	return s.state.WithTransaction(ctx, func(ctx context.Context) error {
		orders, err := s.state.Orders(ctx)
		if err != nil {
			return err
		}
		for i := range orders {
			if orders[i].ID == orderID {
				if orders[i].Status == status {
					return nil
				}
				orders[i].Status = status
				s.log.Info("order status changed", "order_id", orderID, "status", status)
				return s.state.SaveOrders(ctx, orders)
			}
		}
		return nil
	})
}

// DeleteOrder идемпотентно удаляет заказ
func (s *OrderService) DeleteOrder(ctx context.Context, orderID int64) error {
	return s.state.WithTransaction(ctx, func(ctx context.Context) error {
		orders, err := s.state.Orders(ctx)
		if err != nil {
			return err
		}
		out := make([]domain.Order, 0, len(orders))
		for _, o := range orders {
			if o.ID != orderID {
				out = append(out, o)
			}
		}
		if len(out) == len(orders) {
			return nil
		}
		return s.state.SaveOrders(ctx, out)
	})
}

func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	orders, err := s.state.Orders(ctx)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		if o.ID == orderID {
			cp := o
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

// ParseOrderStatus accepts any letter case.
func ParseOrderStatus(s string) (domain.OrderStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return domain.OrderStatusPending, nil
	case "completed":
		return domain.OrderStatusCompleted, nil
	}
	return "", fmt.Errorf("%w: unknown order status %q", ErrInvalidInput, s)
}

// FilterOrders "all" or empty keeps everything.
func FilterOrders(orders []domain.Order, status string) ([]domain.Order, error) {
	status = strings.TrimSpace(status)
	if status == "" || strings.EqualFold(status, "all") {
		return orders, nil
	}
	want, err := ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0)
	for _, o := range orders {
		if o.Status == want {
			out = append(out, o)
		}
	}
	return out, nil
}

// Orders all orders in book order.
func (s *OrderService) Orders(ctx context.Context, status string) ([]domain.Order, error) {
	orders, err := s.state.Orders(ctx)
	if err != nil {
		return nil, err
	}
	return FilterOrders(orders, status)
}

// MyOrders returns the user's orders, newest first.
func (s *OrderService) MyOrders(ctx context.Context, userID int64, status string) ([]domain.Order, error) {
	all, err := s.Orders(ctx, status)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0)
	for _, o := range all {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func orderIDs(orders []domain.Order) map[int64]bool {
	return idSet(orders, func(o domain.Order) int64 { return o.ID })
}
