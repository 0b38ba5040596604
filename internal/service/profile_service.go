package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"foodgiver/internal/domain"
	"foodgiver/internal/repository"
)

// ProfileService избранное, уведомления, адреса и способы оплаты пользователя
type ProfileService struct {
	state   *repository.State
	catalog *CatalogService
	log     *slog.Logger
	clock   clock
}

func NewProfileService(state *repository.State, catalog *CatalogService, log *slog.Logger, opts ...Option) *ProfileService {
	return &ProfileService{state: state, catalog: catalog, log: log, clock: newClock(opts)}
}

// Favorites

// ToggleFavorite adds the catalog item to favorites or removes it. Reports whether it was added.
func (s *ProfileService) ToggleFavorite(ctx context.Context, userID, foodID int64) (bool, error) {
	added := false
	err := s.state.WithTransaction(ctx, func(ctx context.Context) error {
		favs, err := s.state.Favorites(ctx, userID)
		if err != nil {
			return err
		}
		for i := range favs {
			if favs[i].ID == foodID {
				return s.state.SaveFavorites(ctx, userID, append(favs[:i], favs[i+1:]...))
			}
		}
		food, err := s.catalog.Get(ctx, foodID)
		if err != nil {
			return err
		}
		added = true
		return s.state.SaveFavorites(ctx, userID, append(favs, *food))
	})
	return added, err
}

func (s *ProfileService) Favorites(ctx context.Context, userID int64) ([]domain.CatalogItem, error) {
	return s.state.Favorites(ctx, userID)
}

// Notifications

func (s *ProfileService) Notify(ctx context.Context, userID int64, title, message string) (*domain.Notification, error) {
	var n domain.Notification
	err := s.state.WithTransaction(ctx, func(ctx context.Context) error {
		list, err := s.state.Notifications(ctx, userID)
		if err != nil {
			return err
		}
		n = domain.Notification{
			ID:      s.clock.nextID(idSet(list, func(n domain.Notification) int64 { return n.ID }), false),
			Title:   title,
			Message: message,
			Time:    s.clock.now().UTC(),
		}
		// newest first
		return s.state.SaveNotifications(ctx, userID, append([]domain.Notification{n}, list...))
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// EnsureDefaultNotifications seeds the first-run notifications when the user has none.
func (s *ProfileService) EnsureDefaultNotifications(ctx context.Context, userID int64) error {
	return s.state.WithTransaction(ctx, func(ctx context.Context) error {
		list, err := s.state.Notifications(ctx, userID)
		if err != nil || len(list) > 0 {
			return err
		}
		now := s.clock.now().UTC()
		return s.state.SaveNotifications(ctx, userID, []domain.Notification{
			{ID: 1, Title: "Welcome to FoodGiver!", Message: "Enjoy your first order with 20% off using code " + PromoCode, Time: now},
			{ID: 2, Title: "New Menu Items", Message: "Check out our new menu items in the Popular category", Time: now},
		})
	})
}

func (s *ProfileService) Notifications(ctx context.Context, userID int64) ([]domain.Notification, error) {
	return s.state.Notifications(ctx, userID)
}

// ViewNotifications returns the list as it was, then marks everything read.
func (s *ProfileService) ViewNotifications(ctx context.Context, userID int64) ([]domain.Notification, error) {
	var seen []domain.Notification
	err := s.state.WithTransaction(ctx, func(ctx context.Context) error {
		list, err := s.state.Notifications(ctx, userID)
		if err != nil {
			return err
		}
		seen = append([]domain.Notification(nil), list...)
		for i := range list {
			list[i].Read = true
		}
		return s.state.SaveNotifications(ctx, userID, list)
	})
	if err != nil {
		return nil, err
	}
	if seen == nil {
		seen = []domain.Notification{}
	}
	return seen, nil
}

func (s *ProfileService) MarkNotificationRead(ctx context.Context, userID, id int64) error {
	return s.state.WithTransaction(ctx, func(ctx context.Context) error {
		list, err := s.state.Notifications(ctx, userID)
		if err != nil {
			return err
		}
		for i := range list {
			if list[i].ID == id {
				list[i].Read = true
				return s.state.SaveNotifications(ctx, userID, list)
			}
		}
		return nil
	})
}

func (s *ProfileService) UnreadCount(ctx context.Context, userID int64) (int, error) {
	list, err := s.state.Notifications(ctx, userID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, x := range list {
		if !x.Read {
			n++
		}
	}
	return n, nil
}

func (s *ProfileService) ClearNotifications(ctx context.Context, userID int64) error {
	return s.state.SaveNotifications(ctx, userID, nil)
}

// Addresses

func (s *ProfileService) Addresses(ctx context.Context, userID int64) ([]domain.Address, error) {
	return s.state.Addresses(ctx, userID)
}

// AddAddress appends the address unless the exact string is already saved.
// The first saved address becomes the default.
func (s *ProfileService) AddAddress(ctx context.Context, userID int64, address string) (*domain.Address, bool, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, false, fmt.Errorf("%w: address is required", ErrInvalidInput)
	}
	var (
		out   domain.Address
		added bool
	)
	err := s.state.WithTransaction(ctx, func(ctx context.Context) error {
		list, err := s.state.Addresses(ctx, userID)
		if err != nil {
			return err
		}
		for _, a := range list {
			if a.Address == address {
				out = a
				return nil
			}
		}
		out = domain.Address{
			ID:      s.clock.nextID(idSet(list, func(a domain.Address) int64 { return a.ID }), false),
			Address: address,
			Default: len(list) == 0,
		}
		added = true
		return s.state.SaveAddresses(ctx, userID, append(list, out))
	})
	if err != nil {
		return nil, false, err
	}
	return &out, added, nil
}

func (s *ProfileService) DeleteAddress(ctx context.Context, userID, id int64) error {
	return s.state.WithTransaction(ctx, func(ctx context.Context) error {
		list, err := s.state.Addresses(ctx, userID)
		if err != nil {
			return err
		}
		out := make([]domain.Address, 0, len(list))
		hadDefault := false
		for _, a := range list {
			if a.ID == id {
				hadDefault = a.Default
				continue
			}
			out = append(out, a)
		}
		if len(out) == len(list) {
			return nil
		}
		if hadDefault && len(out) > 0 {
			out[0].Default = true
		}
		return s.state.SaveAddresses(ctx, userID, out)
	})
}

// Payment methods

var expiryRe = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)

func (s *ProfileService) PaymentMethods(ctx context.Context, userID int64) ([]domain.PaymentMethod, error) {
	return s.state.PaymentMethods(ctx, userID)
}

// AddPaymentMethod stores only the last four digits of the card.
func (s *ProfileService) AddPaymentMethod(ctx context.Context, userID int64, cardNumber, expiry string) (*domain.PaymentMethod, error) {
	digits := phoneSeparators.Replace(strings.TrimSpace(cardNumber))
	if len(digits) < 12 || len(digits) > 19 || strings.Trim(digits, "0123456789") != "" {
		return nil, fmt.Errorf("%w: malformed card number", ErrInvalidInput)
	}
	expiry = strings.TrimSpace(expiry)
	if !expiryRe.MatchString(expiry) {
		return nil, fmt.Errorf("%w: expiry must be MM/YY", ErrInvalidInput)
	}
	var pm domain.PaymentMethod
	err := s.state.WithTransaction(ctx, func(ctx context.Context) error {
		list, err := s.state.PaymentMethods(ctx, userID)
		if err != nil {
			return err
		}
		pm = domain.PaymentMethod{
			ID:         s.clock.nextID(idSet(list, func(p domain.PaymentMethod) int64 { return p.ID }), false),
			CardNumber: "**** **** **** " + digits[len(digits)-4:],
			Expiry:     expiry,
		}
		return s.state.SavePaymentMethods(ctx, userID, append(list, pm))
	})
	if err != nil {
		return nil, err
	}
	return &pm, nil
}

func (s *ProfileService) DeletePaymentMethod(ctx context.Context, userID, id int64) error {
	return s.state.WithTransaction(ctx, func(ctx context.Context) error {
		list, err := s.state.PaymentMethods(ctx, userID)
		if err != nil {
			return err
		}
		out := make([]domain.PaymentMethod, 0, len(list))
		for _, p := range list {
			if p.ID != id {
				out = append(out, p)
			}
		}
		if len(out) == len(list) {
			return nil
		}
		return s.state.SavePaymentMethods(ctx, userID, out)
	})
}
