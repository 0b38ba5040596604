package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"foodgiver/internal/domain"
	"foodgiver/internal/repository"
)

// StartingCredits стартовый баланс нового пользователя
var StartingCredits = decimal.NewFromInt(500)

// SessionService регистрация локального пользователя и текущая сессия
type SessionService struct {
	state   *repository.State
	ledger  *Ledger
	profile *ProfileService
	log     *slog.Logger
	clock   clock
	delay   time.Duration
}

func NewSessionService(state *repository.State, ledger *Ledger, profile *ProfileService, log *slog.Logger, opts ...Option) *SessionService {
	return &SessionService{state: state, ledger: ledger, profile: profile, log: log, clock: newClock(opts)}
}

// WithLoginDelay sets the pause before a login completes.
func (s *SessionService) WithLoginDelay(d time.Duration) *SessionService {
	s.delay = d
	return s
}

// Profile данные для экрана профиля
type Profile struct {
	User       domain.User     `json:"user"`
	Credits    decimal.Decimal `json:"credits"`
	OrderCount int             `json:"orderCount"`
}

func (s *SessionService) Register(ctx context.Context, name, email, phone string) (*domain.User, error) {
	name, email, phone = strings.TrimSpace(name), strings.TrimSpace(email), strings.TrimSpace(phone)
	if name == "" || email == "" || phone == "" {
		return nil, fmt.Errorf("%w: name, email and phone are required", ErrInvalidInput)
	}
	if !IsValidEmail(email) {
		return nil, fmt.Errorf("%w: malformed email", ErrInvalidInput)
	}
	if !IsValidPhone(phone) {
		return nil, fmt.Errorf("%w: malformed phone", ErrInvalidInput)
	}
	return s.login(ctx, domain.User{Name: name, Email: email, Phone: phone, Level: 1}, StartingCredits)
}

// QuickLogin creates a "guest" or "demo" account.
func (s *SessionService) QuickLogin(ctx context.Context, kind string) (*domain.User, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "guest":
		return s.login(ctx, domain.User{Name: "Guest User", Email: "guest@example.com", Phone: "555-0000", Level: 1}, StartingCredits)
	case "demo":
		return s.login(ctx, domain.User{Name: "Demo User", Email: "demo@example.com", Phone: "555-1234", Level: 2}, decimal.NewFromInt(1000))
	default:
		return nil, fmt.Errorf("%w: unknown quick login %q", ErrInvalidInput, kind)
	}
}

func (s *SessionService) login(ctx context.Context, u domain.User, credits decimal.Decimal) (*domain.User, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	err := s.state.WithTransaction(ctx, func(ctx context.Context) error {
		users, err := s.state.Users(ctx)
		if err != nil {
			return err
		}
		u.ID = s.clock.nextID(idSet(users, func(u domain.User) int64 { return u.ID }), false)
		u.CreatedAt = s.clock.now().UTC()
		if err := s.state.SaveUsers(ctx, append(users, u)); err != nil {
			return err
		}
		bal, err := s.ledger.Credit(ctx, u.ID, credits)
		if err != nil {
			return err
		}
		u.Credits = bal
		if err := s.state.SetCurrentUser(ctx, u); err != nil {
			return err
		}
		if err := s.state.PutUser(ctx, u); err != nil {
			return err
		}
		return s.profile.EnsureDefaultNotifications(ctx, u.ID)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("user authenticated", "user_id", u.ID, "name", u.Name)
	return &u, nil
}

func (s *SessionService) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return nil
	}
	t := time.NewTimer(s.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *SessionService) Logout(ctx context.Context) error {
	return s.state.ClearCurrentUser(ctx)
}

func (s *SessionService) Current(ctx context.Context) (*domain.User, error) {
	u, err := s.state.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNoSession
	}
	return u, nil
}

func (s *SessionService) Profile(ctx context.Context, userID int64) (*Profile, error) {
	u, err := s.state.User(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		// the users list may have been cleared by the admin
		u, err = s.Current(ctx)
		if err == nil && u.ID != userID {
			err = repository.ErrNotFound
		}
	}
	if err != nil {
		return nil, err
	}
	bal, err := s.ledger.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}
	orders, err := s.state.Orders(ctx)
	if err != nil {
		return nil, err
	}
	return &Profile{User: *u, Credits: bal, OrderCount: countUserOrders(orders, userID)}, nil
}

func countUserOrders(orders []domain.Order, userID int64) int {
	n := 0
	for _, o := range orders {
		if o.UserID == userID {
			n++
		}
	}
	return n
}
