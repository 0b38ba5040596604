package repository

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shopspring/decimal"

	"foodgiver/internal/domain"
)

// State типизированный доступ к ключам хранилища.
// Отсутствующий или повреждённый JSON читается как пустое значение.
type State struct {
	store Store
	log   *slog.Logger
}

func NewState(store Store, log *slog.Logger) *State {
	if log == nil {
		log = slog.Default()
	}
	return &State{store: store, log: log}
}

// WithTransaction delegates to the underlying store.
func (s *State) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.store.WithTransaction(ctx, fn)
}

// load decodes key into out. Reports whether a well-formed value was present.
func (s *State) load(ctx context.Context, key string, out any) (bool, error) {
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.log.Warn("malformed store value, using default", "key", key, "error", err)
		return false, nil
	}
	return true, nil
}

func (s *State) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, key, raw)
}

func loadList[T any](ctx context.Context, s *State, key string) ([]T, error) {
	var out []T
	if ok, err := s.load(ctx, key, &out); err != nil || !ok {
		return []T{}, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func saveList[T any](ctx context.Context, s *State, key string, list []T) error {
	if list == nil {
		list = []T{}
	}
	return s.save(ctx, key, list)
}

// Foods returns the catalog and whether the key was present at all.
func (s *State) Foods(ctx context.Context) ([]domain.CatalogItem, bool, error) {
	_, present, err := s.store.Get(ctx, KeyFoods)
	if err != nil {
		return nil, false, err
	}
	foods, err := loadList[domain.CatalogItem](ctx, s, KeyFoods)
	return foods, present, err
}

func (s *State) SaveFoods(ctx context.Context, foods []domain.CatalogItem) error {
	return saveList(ctx, s, KeyFoods, foods)
}

func (s *State) Orders(ctx context.Context) ([]domain.Order, error) {
	return loadList[domain.Order](ctx, s, KeyOrders)
}

func (s *State) SaveOrders(ctx context.Context, orders []domain.Order) error {
	return saveList(ctx, s, KeyOrders, orders)
}

func (s *State) Users(ctx context.Context) ([]domain.User, error) {
	return loadList[domain.User](ctx, s, KeyUsers)
}

func (s *State) SaveUsers(ctx context.Context, users []domain.User) error {
	return saveList(ctx, s, KeyUsers, users)
}

// User ищет пользователя в общем списке users
func (s *State) User(ctx context.Context, id int64) (*domain.User, error) {
	users, err := s.Users(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			u := users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

// PutUser заменяет запись пользователя (или добавляет) и синхронизирует currentUser
func (s *State) PutUser(ctx context.Context, u domain.User) error {
	users, err := s.Users(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range users {
		if users[i].ID == u.ID {
			users[i] = u
			replaced = true
		}
	}
	if !replaced {
		users = append(users, u)
	}
	if err := s.SaveUsers(ctx, users); err != nil {
		return err
	}
	cur, err := s.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if cur != nil && cur.ID == u.ID {
		return s.SetCurrentUser(ctx, u)
	}
	return nil
}

// CurrentUser returns nil when nobody is logged in.
func (s *State) CurrentUser(ctx context.Context) (*domain.User, error) {
	var u domain.User
	ok, err := s.load(ctx, KeyCurrentUser, &u)
	if err != nil || !ok {
		return nil, err
	}
	return &u, nil
}

func (s *State) SetCurrentUser(ctx context.Context, u domain.User) error {
	return s.save(ctx, KeyCurrentUser, u)
}

func (s *State) ClearCurrentUser(ctx context.Context) error {
	return s.store.Delete(ctx, KeyCurrentUser)
}

// Credits возвращает баланс; ok=false если ключ отсутствует или не число
func (s *State) Credits(ctx context.Context, userID int64) (decimal.Decimal, bool, error) {
	key := CreditsKey(userID)
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil || !ok {
		return decimal.Zero, false, err
	}
	d, err := decimal.NewFromString(string(raw))
	if err != nil {
		s.log.Warn("malformed credits value", "key", key, "error", err)
		return decimal.Zero, false, nil
	}
	return d, true, nil
}

func (s *State) SetCredits(ctx context.Context, userID int64, amount decimal.Decimal) error {
	return s.store.Set(ctx, CreditsKey(userID), []byte(amount.String()))
}

func (s *State) Cart(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	return loadList[domain.CartLine](ctx, s, CartKey(userID))
}

func (s *State) SaveCart(ctx context.Context, userID int64, cart []domain.CartLine) error {
	return saveList(ctx, s, CartKey(userID), cart)
}

func (s *State) Favorites(ctx context.Context, userID int64) ([]domain.CatalogItem, error) {
	return loadList[domain.CatalogItem](ctx, s, FavoritesKey(userID))
}

func (s *State) SaveFavorites(ctx context.Context, userID int64, favs []domain.CatalogItem) error {
	return saveList(ctx, s, FavoritesKey(userID), favs)
}

func (s *State) Notifications(ctx context.Context, userID int64) ([]domain.Notification, error) {
	return loadList[domain.Notification](ctx, s, NotificationsKey(userID))
}

func (s *State) SaveNotifications(ctx context.Context, userID int64, list []domain.Notification) error {
	return saveList(ctx, s, NotificationsKey(userID), list)
}

func (s *State) Addresses(ctx context.Context, userID int64) ([]domain.Address, error) {
	return loadList[domain.Address](ctx, s, AddressesKey(userID))
}

func (s *State) SaveAddresses(ctx context.Context, userID int64, list []domain.Address) error {
	return saveList(ctx, s, AddressesKey(userID), list)
}

func (s *State) PaymentMethods(ctx context.Context, userID int64) ([]domain.PaymentMethod, error) {
	return loadList[domain.PaymentMethod](ctx, s, PaymentMethodsKey(userID))
}

func (s *State) SavePaymentMethods(ctx context.Context, userID int64, list []domain.PaymentMethod) error {
	return saveList(ctx, s, PaymentMethodsKey(userID), list)
}

// Draft returns nil when no draft is open.
func (s *State) Draft(ctx context.Context, userID int64) (*domain.OrderDraft, error) {
	var d domain.OrderDraft
	ok, err := s.load(ctx, DraftKey(userID), &d)
	if err != nil || !ok {
		return nil, err
	}
	return &d, nil
}

func (s *State) SaveDraft(ctx context.Context, userID int64, d domain.OrderDraft) error {
	return s.save(ctx, DraftKey(userID), d)
}

func (s *State) ClearDraft(ctx context.Context, userID int64) error {
	return s.store.Delete(ctx, DraftKey(userID))
}

func (s *State) AdminSession(ctx context.Context) (bool, error) {
	raw, ok, err := s.store.Get(ctx, KeyAdminSession)
	if err != nil || !ok {
		return false, err
	}
	return string(raw) == "true", nil
}

func (s *State) SetAdminSession(ctx context.Context, active bool) error {
	if !active {
		return s.store.Delete(ctx, KeyAdminSession)
	}
	return s.store.Set(ctx, KeyAdminSession, []byte("true"))
}

// Remove deletes a key outright.
func (s *State) Remove(ctx context.Context, key string) error {
	return s.store.Delete(ctx, key)
}
