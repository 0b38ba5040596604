package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"foodgiver/internal/domain"
	"foodgiver/internal/repository"
)

// PromoResult ответ на ввод промокода
type PromoResult struct {
	Applied bool   `json:"applied"`
	Message string `json:"message"`
}

// OpenDraft opens a fresh single-item draft. Promo state always starts unapplied.
func (s *OrderService) OpenDraft(ctx context.Context, userID, foodID int64) (*domain.OrderDraft, error) {
	var draft domain.OrderDraft
	err := s.state.WithTransaction(ctx, func(ctx context.Context) error {
		user, err := s.user(ctx, userID)
		if err != nil {
			return err
		}
		food, err := s.catalog.Get(ctx, foodID)
		if err != nil {
			return err
		}
		draft = domain.OrderDraft{
			FoodID:   food.ID,
			FoodName: food.Name,
			Shipping: domain.ShippingInfo{Name: user.Name, Phone: user.Phone},
			OpenedAt: s.clock.now().UTC(),
		}
		addrs, err := s.state.Addresses(ctx, userID)
		if err != nil {
			return err
		}
		if len(addrs) > 0 {
			draft.Shipping.Address = addrs[0].Address
		}
		return s.state.SaveDraft(ctx, userID, draft)
	})
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

// Draft returns the open draft or repository.ErrNotFound.
func (s *OrderService) Draft(ctx context.Context, userID int64) (*domain.OrderDraft, error) {
	d, err := s.state.Draft(ctx, userID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, repository.ErrNotFound
	}
	return d, nil
}

func (s *OrderService) ApplyPromo(ctx context.Context, userID int64, code string) (*PromoResult, error) {
	var res PromoResult
	err := s.state.WithTransaction(ctx, func(ctx context.Context) error {
		d, err := s.Draft(ctx, userID)
		if err != nil {
			return err
		}
		res.Applied, res.Message = ApplyPromoCode(code, d.PromoApplied)
		if res.Applied == d.PromoApplied {
			return nil
		}
		d.PromoApplied = res.Applied
		return s.state.SaveDraft(ctx, userID, *d)
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Quote prices the open draft at the current catalog price.
func (s *OrderService) Quote(ctx context.Context, userID int64, quantity int, deliveryMethod string) (decimal.Decimal, error) {
	d, err := s.Draft(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	method, err := ParseDeliveryMethod(deliveryMethod)
	if err != nil {
		return decimal.Zero, err
	}
	food, err := s.catalog.Get(ctx, d.FoodID)
	if err != nil {
		return decimal.Zero, err
	}
	return ComputeTotal(food.Price, quantity, method, d.PromoApplied)
}

// PlaceDraftOrder places the open draft with its promo state and closes it.
func (s *OrderService) PlaceDraftOrder(ctx context.Context, userID int64, quantity int, deliveryMethod string, shipping domain.ShippingInfo) (*Receipt, error) {
	var receipt *Receipt
	err := s.state.WithTransaction(ctx, func(ctx context.Context) error {
		d, err := s.Draft(ctx, userID)
		if err != nil {
			return err
		}
		receipt, err = s.PlaceSingleOrder(ctx, userID, SingleOrderRequest{
			FoodID:         d.FoodID,
			Quantity:       quantity,
			DeliveryMethod: deliveryMethod,
			PromoApplied:   d.PromoApplied,
			Shipping:       shipping,
		})
		if err != nil {
			return err
		}
		return s.state.ClearDraft(ctx, userID)
	})
	return receipt, err
}

// Reorder opens a draft for a past order's item if the catalog still carries it.
func (s *OrderService) Reorder(ctx context.Context, userID, orderID int64) (*domain.OrderDraft, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, repository.ErrNotFound
	}
	d, err := s.OpenDraft(ctx, userID, order.FoodID)
	if errors.Is(err, ErrItemNotFound) {
		s.log.Info("reorder of unavailable item", "order_id", orderID, "food_id", order.FoodID, "food_name", order.FoodName)
	}
	return d, err
}
