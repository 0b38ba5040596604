package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/tealeg/xlsx"
	"golang.org/x/crypto/bcrypt"

	"foodgiver/internal/domain"
	"foodgiver/internal/repository"
)

// AdminService чтение и модерация общих данных: заказы, меню, пользователи
type AdminService struct {
	state        *repository.State
	orders       *OrderService
	catalog      *CatalogService
	log          *slog.Logger
	email        string
	passwordHash []byte
}

func NewAdminService(state *repository.State, orders *OrderService, catalog *CatalogService, log *slog.Logger, email, password string) (*AdminService, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &AdminService{
		state:        state,
		orders:       orders,
		catalog:      catalog,
		log:          log,
		email:        strings.ToLower(strings.TrimSpace(email)),
		passwordHash: hash,
	}, nil
}

func (s *AdminService) Login(ctx context.Context, email, password string) error {
	if strings.ToLower(strings.TrimSpace(email)) != s.email {
		return ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		s.log.Warn("admin login failed", "email", email)
		return ErrUnauthorized
	}
	return s.state.SetAdminSession(ctx, true)
}

func (s *AdminService) Logout(ctx context.Context) error {
	return s.state.SetAdminSession(ctx, false)
}

func (s *AdminService) LoggedIn(ctx context.Context) (bool, error) {
	return s.state.AdminSession(ctx)
}

func (s *AdminService) Stats(ctx context.Context) (domain.Stats, error) {
	var st domain.Stats
	orders, err := s.state.Orders(ctx)
	if err != nil {
		return st, err
	}
	foods, _, err := s.state.Foods(ctx)
	if err != nil {
		return st, err
	}
	users, err := s.state.Users(ctx)
	if err != nil {
		return st, err
	}
	st.TotalOrders = len(orders)
	for _, o := range orders {
		if o.Status == domain.OrderStatusPending {
			st.PendingOrders++
		}
	}
	st.TotalItems = len(foods)
	st.TotalUsers = len(users)
	return st, nil
}

func (s *AdminService) Orders(ctx context.Context, status string) ([]domain.Order, error) {
	return s.orders.Orders(ctx, status)
}

func (s *AdminService) UpdateOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error {
	return s.orders.UpdateOrderStatus(ctx, orderID, status)
}

func (s *AdminService) DeleteOrder(ctx context.Context, orderID int64) error {
	return s.orders.DeleteOrder(ctx, orderID)
}

func (s *AdminService) Menu(ctx context.Context, category string) ([]domain.CatalogItem, error) {
	return s.catalog.List(ctx, category)
}

func (s *AdminService) AddMenuItem(ctx context.Context, item domain.CatalogItem) (*domain.CatalogItem, error) {
	return s.catalog.Add(ctx, item)
}

func (s *AdminService) DeleteMenuItem(ctx context.Context, id int64) error {
	return s.catalog.Delete(ctx, id)
}

func (s *AdminService) Users(ctx context.Context) ([]domain.User, error) {
	return s.state.Users(ctx)
}

// SearchUsers matches name, email or phone.
func (s *AdminService) SearchUsers(ctx context.Context, term string) ([]domain.User, error) {
	users, err := s.state.Users(ctx)
	if err != nil {
		return nil, err
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return users, nil
	}
	out := make([]domain.User, 0)
	for _, u := range users {
		if repository.ContainsIgnoreCase(u.Name, term) ||
			repository.ContainsIgnoreCase(u.Email, term) ||
			repository.ContainsIgnoreCase(u.Phone, term) {
			out = append(out, u)
		}
	}
	return out, nil
}

// ClearData удаляет журнал заказов и список пользователей
func (s *AdminService) ClearData(ctx context.Context) error {
	err := s.state.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.state.Remove(ctx, repository.KeyOrders); err != nil {
			return err
		}
		return s.state.Remove(ctx, repository.KeyUsers)
	})
	if err == nil {
		s.log.Warn("admin cleared all orders and users")
	}
	return err
}

var exportHeaders = []string{
	"ID", "UserID", "Timestamp", "FoodID", "FoodName", "Quantity", "Price",
	"Total", "Status", "Name", "Phone", "Address", "Notes", "DeliveryMethod",
}

// OrdersWorkbook builds an xlsx workbook with one row per order.
func (s *AdminService) OrdersWorkbook(ctx context.Context, status string) (*xlsx.File, error) {
	orders, err := s.orders.Orders(ctx, status)
	if err != nil {
		return nil, err
	}
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return nil, err
	}

	// Header row
	headerRow := sheet.AddRow()
	for _, h := range exportHeaders {
		headerRow.AddCell().SetString(h)
	}

	// Data rows
	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetInt64(o.ID)
		row.AddCell().SetInt64(o.UserID)
		row.AddCell().SetString(o.Timestamp.Format("2006-01-02 15:04:05"))
		row.AddCell().SetInt64(o.FoodID)
		row.AddCell().SetString(o.FoodName)
		row.AddCell().SetInt(o.Quantity)
		row.AddCell().SetString(FormatMoney(o.Price))
		row.AddCell().SetString(FormatMoney(o.Total))
		row.AddCell().SetString(string(o.Status))
		row.AddCell().SetString(o.Name)
		row.AddCell().SetString(o.Phone)
		row.AddCell().SetString(o.Address)
		row.AddCell().SetString(o.Notes)
		row.AddCell().SetString(string(o.DeliveryMethod))
	}
	return file, nil
}
