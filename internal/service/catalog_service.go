package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"foodgiver/internal/domain"
	"foodgiver/internal/repository"
)

// CatalogService инкапсулирует бизнес-логику вокруг меню
type CatalogService struct {
	state *repository.State
	log   *slog.Logger
	seed  []domain.CatalogItem
	clock clock
}

func NewCatalogService(state *repository.State, log *slog.Logger, seed []domain.CatalogItem, opts ...Option) *CatalogService {
	if len(seed) == 0 {
		seed = DefaultCatalog()
	}
	return &CatalogService{state: state, log: log, seed: seed, clock: newClock(opts)}
}

// Seed записывает стартовое меню, если ключ foods ещё не существует
func (s *CatalogService) Seed(ctx context.Context) error {
	_, err := s.All(ctx)
	return err
}

func (s *CatalogService) All(ctx context.Context) ([]domain.CatalogItem, error) {
	foods, present, err := s.state.Foods(ctx)
	if err != nil {
		return nil, err
	}
	if present {
		return foods, nil
	}
	foods = append([]domain.CatalogItem(nil), s.seed...)
	if err := s.state.SaveFoods(ctx, foods); err != nil {
		return nil, err
	}
	s.log.Info("catalog seeded", "items", len(foods))
	return foods, nil
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*domain.CatalogItem, error) {
	foods, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	for _, f := range foods {
		if f.ID == id {
			cp := f
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrItemNotFound, id)
}

// List "all" or empty category returns everything.
func (s *CatalogService) List(ctx context.Context, category string) ([]domain.CatalogItem, error) {
	foods, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, "all") {
		return foods, nil
	}
	out := make([]domain.CatalogItem, 0)
	for _, f := range foods {
		if strings.EqualFold(f.Category, category) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *CatalogService) Search(ctx context.Context, term string) ([]domain.CatalogItem, error) {
	term = strings.TrimSpace(term)
	out := make([]domain.CatalogItem, 0)
	if term == "" {
		return out, nil
	}
	foods, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	for _, f := range foods {
		if repository.ContainsIgnoreCase(f.Name, term) || repository.ContainsIgnoreCase(f.Category, term) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	foods, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, f := range foods {
		if !seen[f.Category] {
			seen[f.Category] = true
			out = append(out, f.Category)
		}
	}
	return out, nil
}

// Add новая позиция меню (админ)
func (s *CatalogService) Add(ctx context.Context, item domain.CatalogItem) (*domain.CatalogItem, error) {
	item.Name = strings.TrimSpace(item.Name)
	item.Category = strings.TrimSpace(item.Category)
	item.Image = strings.TrimSpace(item.Image)
	if item.Name == "" || item.Category == "" || item.Image == "" || item.Price.IsNegative() {
		return nil, ErrInvalidInput
	}
	err := s.state.WithTransaction(ctx, func(ctx context.Context) error {
		foods, err := s.All(ctx)
		if err != nil {
			return err
		}
		item.ID = s.clock.nextID(idSet(foods, func(f domain.CatalogItem) int64 { return f.ID }), false)
		return s.state.SaveFoods(ctx, append(foods, item))
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("menu item added", "food_id", item.ID, "name", item.Name)
	return &item, nil
}

// Delete is idempotent; orders keep their own snapshot of the item.
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	return s.state.WithTransaction(ctx, func(ctx context.Context) error {
		foods, err := s.All(ctx)
		if err != nil {
			return err
		}
		out := foods[:0]
		for _, f := range foods {
			if f.ID != id {
				out = append(out, f)
			}
		}
		return s.state.SaveFoods(ctx, out)
	})
}

// catalogFile формат YAML-файла стартового меню
type catalogFile struct {
	Items []struct {
		ID       int64  `yaml:"id"`
		Name     string `yaml:"name"`
		Price    string `yaml:"price"`
		Category string `yaml:"category"`
		Image    string `yaml:"image"`
	} `yaml:"items"`
}

// LoadCatalogFile reads a seed catalog from YAML.
func LoadCatalogFile(path string) ([]domain.CatalogItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) ([]domain.CatalogItem, error) {
	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	out := make([]domain.CatalogItem, 0, len(cf.Items))
	for i, it := range cf.Items {
		price, err := decimal.NewFromString(it.Price)
		if err != nil || price.IsNegative() {
			return nil, fmt.Errorf("catalog item %d: bad price %q", i, it.Price)
		}
		if it.ID == 0 || it.Name == "" {
			return nil, fmt.Errorf("catalog item %d: id and name are required", i)
		}
		out = append(out, domain.CatalogItem{ID: it.ID, Name: it.Name, Price: price, Category: it.Category, Image: it.Image})
	}
	return out, nil
}

func DefaultCatalog() []domain.CatalogItem {
	item := func(id int64, name, price, category, photo string) domain.CatalogItem {
		return domain.CatalogItem{
			ID:       id,
			Name:     name,
			Price:    decimal.RequireFromString(price),
			Category: category,
			Image:    "https://images.unsplash.com/" + photo + "?w=500",
		}
	}
	return []domain.CatalogItem{
		item(1, "Margherita Pizza", "12.99", "Pizza", "photo-1604382354936-07c5d9983bd3"),
		item(2, "Classic Burger", "9.99", "Burger", "photo-1568901346375-23c9450c58cd"),
		item(3, "California Roll", "14.99", "Sushi", "photo-1579584425555-c3ce17fd4351"),
		item(4, "Chocolate Cake", "6.99", "Dessert", "photo-1578985545062-69928b1d9587"),
		item(5, "Pepperoni Pizza", "13.99", "Pizza", "photo-1628840042765-356cda07504e"),
		item(6, "Cheese Burger", "10.99", "Burger", "photo-1586190848861-99aa4a171e90"),
		item(7, "Dragon Roll", "16.99", "Sushi", "photo-1617196035154-1e7e6e28b0db"),
		item(8, "Tiramisu", "7.99", "Dessert", "photo-1571877227200-a0d98ea607e9"),
		item(9, "BBQ Chicken Pizza", "14.99", "Pizza", "photo-1513104890138-7c749659a591"),
		item(10, "Bacon Burger", "11.99", "Burger", "photo-1553979459-d2229ba7433b"),
		item(11, "Veggie Bowl", "12.99", "Popular", "photo-1546069901-ba9599a7e63c"),
		item(12, "Fruit Salad", "8.99", "Popular", "photo-1567620905732-2d1ec7ab7445"),
		item(13, "Ramen Noodles", "13.99", "Popular", "photo-1569718212165-3a8278d5f624"),
		item(14, "Mochi Ice Cream", "9.99", "Dessert", "photo-1563805042-7684c019e1cb"),
	}
}
