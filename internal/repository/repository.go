package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

// ErrNotFound возвращается, когда сущность не найдена
var ErrNotFound = errors.New("not found")

// KeyValueStore долговременное хранилище именованных JSON-значений
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// TxManager абстракция транзакции: записи внутри fn применяются целиком или не применяются вовсе.
// Вложенный вызов присоединяется к внешней транзакции.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Store хранилище вместе с транзакциями
type Store interface {
	KeyValueStore
	TxManager
}

// Store keys. Keys with a user suffix are partitioned per user.
const (
	KeyFoods        = "foods"
	KeyOrders       = "orders"
	KeyUsers        = "users"
	KeyCurrentUser  = "currentUser"
	KeyAdminSession = "adminSession"
)

func CreditsKey(userID int64) string        { return userKey("credits", userID) }
func CartKey(userID int64) string           { return userKey("cart", userID) }
func FavoritesKey(userID int64) string      { return userKey("favorites", userID) }
func NotificationsKey(userID int64) string  { return userKey("notifications", userID) }
func AddressesKey(userID int64) string      { return userKey("addresses", userID) }
func PaymentMethodsKey(userID int64) string { return userKey("paymentMethods", userID) }
func DraftKey(userID int64) string          { return userKey("orderDraft", userID) }

func userKey(prefix string, userID int64) string {
	return prefix + "_" + strconv.FormatInt(userID, 10)
}

// ContainsIgnoreCase case-insensitive contains; empty substr matches everything.
func ContainsIgnoreCase(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
