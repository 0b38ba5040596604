package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Store keys hold money as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// CatalogItem позиция меню. После сидирования не меняется.
type CatalogItem struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	Image    string          `json:"image"`
}

// User локальная учётная запись покупателя
type User struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	CreatedAt time.Time       `json:"createdAt"`
	Level     int             `json:"level"`
	Credits   decimal.Decimal `json:"credits"`
}

// CartLine строка корзины; цена фиксируется в момент добавления
type CartLine struct {
	ItemID   int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"`
}

// LineTotal price * quantity
func (l CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// DeliveryMethod способ доставки
type DeliveryMethod string

const (
	DeliveryStandard DeliveryMethod = "standard"
	DeliveryExpress  DeliveryMethod = "express"
	DeliveryPremium  DeliveryMethod = "premium"
)

// OrderStatus тип статуса заказа
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusCompleted OrderStatus = "Completed"
)

// Order сущность заказа. Поля food* это снимок позиции меню на момент заказа.
type Order struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"userId"`
	Timestamp      time.Time       `json:"timestamp"`
	FoodID         int64           `json:"foodId"`
	FoodName       string          `json:"foodName"`
	FoodImage      string          `json:"foodImage"`
	Quantity       int             `json:"quantity"`
	Price          decimal.Decimal `json:"price"`
	Total          decimal.Decimal `json:"total"`
	Status         OrderStatus     `json:"status"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone"`
	Address        string          `json:"address"`
	Notes          string          `json:"notes"`
	DeliveryMethod DeliveryMethod  `json:"deliveryMethod"`
}

// ShippingInfo данные получателя для оформления заказа
type ShippingInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// OrderDraft черновик заказа одной позиции, живёт до следующего открытия
type OrderDraft struct {
	FoodID       int64        `json:"foodId"`
	FoodName     string       `json:"foodName"`
	PromoApplied bool         `json:"promoApplied"`
	Shipping     ShippingInfo `json:"shipping"`
	OpenedAt     time.Time    `json:"openedAt"`
}

type Notification struct {
	ID      int64     `json:"id"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
	Read    bool      `json:"read"`
}

type Address struct {
	ID      int64  `json:"id"`
	Address string `json:"address"`
	Default bool   `json:"default"`
}

type PaymentMethod struct {
	ID         int64  `json:"id"`
	CardNumber string `json:"cardNumber"`
	Expiry     string `json:"expiry"`
}

// Stats сводка для панели администратора
type Stats struct {
	TotalOrders   int `json:"totalOrders"`
	PendingOrders int `json:"pendingOrders"`
	TotalItems    int `json:"totalItems"`
	TotalUsers    int `json:"totalUsers"`
}
