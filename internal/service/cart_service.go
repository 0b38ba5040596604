package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"foodgiver/internal/domain"
	"foodgiver/internal/repository"
)

// CartSummary корзина вместе с производными значениями для бейджа и итога
type CartSummary struct {
	Lines []domain.CartLine `json:"lines"`
	Count int               `json:"count"`
	Total decimal.Decimal   `json:"total"`
}

func summarize(lines []domain.CartLine) *CartSummary {
	sum := &CartSummary{Lines: lines, Total: decimal.Zero}
	for _, l := range lines {
		sum.Count += l.Quantity
		sum.Total = sum.Total.Add(l.LineTotal())
	}
	return sum
}

// CartService корзина покупателя, одна строка на позицию меню
type CartService struct {
	state   *repository.State
	catalog *CatalogService
	log     *slog.Logger
}

func NewCartService(state *repository.State, catalog *CatalogService, log *slog.Logger) *CartService {
	return &CartService{state: state, catalog: catalog, log: log}
}

func (s *CartService) Get(ctx context.Context, userID int64) (*CartSummary, error) {
	lines, err := s.state.Cart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return summarize(lines), nil
}

// Add merges by item id; the price is snapshotted on first add.
func (s *CartService) Add(ctx context.Context, userID, foodID int64, quantity int) (*CartSummary, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}
	var lines []domain.CartLine
	err := s.state.WithTransaction(ctx, func(ctx context.Context) error {
		food, err := s.catalog.Get(ctx, foodID)
		if err != nil {
			return err
		}
		lines, err = s.state.Cart(ctx, userID)
		if err != nil {
			return err
		}
		merged := false
		for i := range lines {
			if lines[i].ItemID == food.ID {
				lines[i].Quantity += quantity
				merged = true
				break
			}
		}
		if !merged {
			lines = append(lines, domain.CartLine{
				ItemID:   food.ID,
				Name:     food.Name,
				Price:    food.Price,
				Image:    food.Image,
				Quantity: quantity,
			})
		}
		return s.state.SaveCart(ctx, userID, lines)
	})
	if err != nil {
		return nil, err
	}
	return summarize(lines), nil
}

// Update sets the quantity exactly; quantity <= 0 removes the line. Unknown item is a no-op.
func (s *CartService) Update(ctx context.Context, userID, itemID int64, quantity int) (*CartSummary, error) {
	var lines []domain.CartLine
	err := s.state.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		lines, err = s.state.Cart(ctx, userID)
		if err != nil {
			return err
		}
		idx := -1
		for i := range lines {
			if lines[i].ItemID == itemID {
				idx = i
				break
			}
		}
		if idx == -1 {
			return nil
		}
		if quantity <= 0 {
			lines = append(lines[:idx], lines[idx+1:]...)
		} else {
			lines[idx].Quantity = quantity
		}
		return s.state.SaveCart(ctx, userID, lines)
	})
	if err != nil {
		return nil, err
	}
	return summarize(lines), nil
}

// Clear empties the cart without placing orders.
func (s *CartService) Clear(ctx context.Context, userID int64) error {
	return s.state.SaveCart(ctx, userID, nil)
}
