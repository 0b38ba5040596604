package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"foodgiver/internal/domain"
	"foodgiver/internal/repository"
)

type services struct {
	store   *repository.MemoryStore
	state   *repository.State
	catalog *CatalogService
	ledger  *Ledger
	profile *ProfileService
	session *SessionService
	cart    *CartService
	orders  *OrderService
}

// tickingClock returns a clock that moves forward one millisecond per call.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2025, 9, 28, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Millisecond)
		return t
	}
}

func setup(t *testing.T) *services {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := repository.NewMemoryStore()
	state := repository.NewState(store, log)
	opts := []Option{WithClock(tickingClock()), WithJitter(func(int64) int64 { return 0 })}

	catalog := NewCatalogService(state, log, nil, opts...)
	require.NoError(t, catalog.Seed(context.Background()))
	ledger := NewLedger(state, log)
	profile := NewProfileService(state, catalog, log, opts...)
	return &services{
		store:   store,
		state:   state,
		catalog: catalog,
		ledger:  ledger,
		profile: profile,
		session: NewSessionService(state, ledger, profile, log, opts...),
		cart:    NewCartService(state, catalog, log),
		orders:  NewOrderService(state, catalog, ledger, profile, log, opts...),
	}
}

func (s *services) newUser(t *testing.T) *domain.User {
	t.Helper()
	u, err := s.session.Register(context.Background(), "Jane", "jane@example.com", "+1 555-123-4567")
	require.NoError(t, err)
	return u
}

func (s *services) setCredits(t *testing.T, userID int64, amount string) {
	t.Helper()
	require.NoError(t, s.state.SetCredits(context.Background(), userID, decimal.RequireFromString(amount)))
}

func (s *services) balance(t *testing.T, userID int64) decimal.Decimal {
	t.Helper()
	b, err := s.ledger.Balance(context.Background(), userID)
	require.NoError(t, err)
	return b
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var shipping = domain.ShippingInfo{Name: "Jane", Phone: "+1 555-123-4567", Address: "1 Main St"}
