package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"foodgiver/internal/domain"
	"foodgiver/internal/logger"
	"foodgiver/internal/repository"
	"foodgiver/internal/service"
)

func setupServer(t *testing.T) *Server {
	t.Helper()
	log := logger.Discard()
	store := repository.NewMemoryStore()
	state := repository.NewState(store, log)

	catalog := service.NewCatalogService(state, log, nil)
	ledger := service.NewLedger(state, log)
	profile := service.NewProfileService(state, catalog, log)
	orders := service.NewOrderService(state, catalog, ledger, profile, log)
	admin, err := service.NewAdminService(state, orders, catalog, log, "admin@example.com", "admin123")
	if err != nil {
		t.Fatal(err)
	}
	return NewServer(Services{
		Catalog: catalog,
		Session: service.NewSessionService(state, ledger, profile, log),
		Ledger:  ledger,
		Cart:    service.NewCartService(state, catalog, log),
		Orders:  orders,
		Profile: profile,
		Admin:   admin,
	}, Options{
		Logger:       log,
		SessionKey:   []byte(strings.Repeat("s", 32)),
		FeedInterval: time.Hour,
	})
}

func doJSON(t *testing.T, s *Server, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func register(t *testing.T, s *Server) domain.User {
	t.Helper()
	w := doJSON(t, s, http.MethodPost, "/api/v1/session/register", map[string]any{
		"name": "Jane", "email": "jane@example.com", "phone": "+1 555-123-4567",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register code %v: %s", w.Code, w.Body.String())
	}
	return decode[domain.User](t, w)
}

func adminCookies(t *testing.T, s *Server) []*http.Cookie {
	t.Helper()
	w := doJSON(t, s, http.MethodPost, "/api/v1/admin/login", map[string]any{
		"email": "admin@example.com", "password": "admin123",
	})
	if w.Code != http.StatusNoContent {
		t.Fatalf("admin login code %v", w.Code)
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("admin login set no cookie")
	}
	return cookies
}

func TestSessionFlow(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/v1/session", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 before login, got %v", w.Code)
	}

	u := register(t, s)
	if u.Level != 1 {
		t.Fatalf("level %d", u.Level)
	}
	if w = doJSON(t, s, http.MethodGet, "/api/v1/session", nil); w.Code != http.StatusOK {
		t.Fatalf("session code %v", w.Code)
	}
	if w.Header().Get(logger.RequestIDHeader) == "" {
		t.Fatal("missing request id header")
	}

	w = doJSON(t, s, http.MethodGet, "/api/v1/credits", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("credits code %v", w.Code)
	}
	if got := decode[map[string]any](t, w)["display"]; got != "500.00" {
		t.Fatalf("credits display %v", got)
	}

	if w = doJSON(t, s, http.MethodPost, "/api/v1/session/logout", nil); w.Code != http.StatusNoContent {
		t.Fatalf("logout code %v", w.Code)
	}
	if w = doJSON(t, s, http.MethodGet, "/api/v1/cart", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %v", w.Code)
	}

	if w = doJSON(t, s, http.MethodPost, "/api/v1/session/quick/demo", nil); w.Code != http.StatusCreated {
		t.Fatalf("quick login code %v", w.Code)
	}
}

func TestFoods(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/v1/foods?category=Sushi", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list code %v", w.Code)
	}
	if n := len(decode[[]domain.CatalogItem](t, w)); n != 2 {
		t.Fatalf("expected 2 sushi items, got %d", n)
	}

	w = doJSON(t, s, http.MethodGet, "/api/v1/foods/search?q=burger", nil)
	if n := len(decode[[]domain.CatalogItem](t, w)); n != 3 {
		t.Fatalf("expected 3 burgers, got %d", n)
	}

	if w = doJSON(t, s, http.MethodGet, "/api/v1/foods/1", nil); w.Code != http.StatusOK {
		t.Fatalf("get code %v", w.Code)
	}
	if w = doJSON(t, s, http.MethodGet, "/api/v1/foods/999", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", w.Code)
	}
	if w = doJSON(t, s, http.MethodGet, "/api/v1/foods/abc", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", w.Code)
	}
}

func TestOrderFlow(t *testing.T) {
	s := setupServer(t)
	register(t, s)

	// draft with promo, express delivery
	if w := doJSON(t, s, http.MethodPost, "/api/v1/drafts", map[string]any{"foodId": 1}); w.Code != http.StatusCreated {
		t.Fatalf("open draft %v", w.Code)
	}
	w := doJSON(t, s, http.MethodPost, "/api/v1/drafts/promo", map[string]any{"code": "welcome"})
	if got := decode[service.PromoResult](t, w); !got.Applied {
		t.Fatalf("promo not applied: %+v", got)
	}
	w = doJSON(t, s, http.MethodGet, "/api/v1/drafts/quote?quantity=2&method=express", nil)
	if got := decode[map[string]any](t, w)["display"]; got != "24.94" {
		t.Fatalf("quote %v", got)
	}

	w = doJSON(t, s, http.MethodPost, "/api/v1/drafts/place", map[string]any{
		"quantity":       2,
		"deliveryMethod": "express",
		"shipping":       map[string]any{"name": "Jane", "phone": "+1 555-123-4567", "address": "1 Main St"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("place draft %v: %s", w.Code, w.Body.String())
	}
	r := decode[service.Receipt](t, w)
	if len(r.Orders) != 1 || service.FormatMoney(r.Total) != "24.94" {
		t.Fatalf("receipt %+v", r)
	}

	// my orders and reorder
	w = doJSON(t, s, http.MethodGet, "/api/v1/orders?status=pending", nil)
	if n := len(decode[[]domain.Order](t, w)); n != 1 {
		t.Fatalf("expected 1 pending order, got %d", n)
	}
	w = doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/reorder", r.Orders[0].ID), nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("reorder %v", w.Code)
	}

	// address was saved by the order
	w = doJSON(t, s, http.MethodGet, "/api/v1/addresses", nil)
	if n := len(decode[[]domain.Address](t, w)); n != 1 {
		t.Fatalf("expected 1 address, got %d", n)
	}
}

func TestCartCheckout(t *testing.T) {
	s := setupServer(t)
	register(t, s)

	_ = doJSON(t, s, http.MethodPost, "/api/v1/cart/items", map[string]any{"foodId": 1, "quantity": 1})
	w := doJSON(t, s, http.MethodPost, "/api/v1/cart/items", map[string]any{"foodId": 2, "quantity": 2})
	sum := decode[service.CartSummary](t, w)
	if sum.Count != 3 {
		t.Fatalf("badge count %d", sum.Count)
	}

	w = doJSON(t, s, http.MethodPost, "/api/v1/cart/checkout", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("checkout %v: %s", w.Code, w.Body.String())
	}
	r := decode[service.Receipt](t, w)
	if len(r.Orders) != 2 || service.FormatMoney(r.Balance) != "467.03" {
		t.Fatalf("receipt %+v", r)
	}

	if w = doJSON(t, s, http.MethodPost, "/api/v1/cart/checkout", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty cart, got %v", w.Code)
	}
}

func TestInsufficientCredits(t *testing.T) {
	s := setupServer(t)
	register(t, s)

	w := doJSON(t, s, http.MethodPost, "/api/v1/orders", map[string]any{
		"foodId": 7, "quantity": 30, "deliveryMethod": "premium",
		"shipping": map[string]any{"name": "Jane", "phone": "+1 555-123-4567", "address": "1 Main St"},
	})
	if w.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %v", w.Code)
	}

	w = doJSON(t, s, http.MethodGet, "/api/v1/orders", nil)
	if n := len(decode[[]domain.Order](t, w)); n != 0 {
		t.Fatalf("expected no orders, got %d", n)
	}
}

func TestPlaceOrder_IgnoresPromoFlag(t *testing.T) {
	s := setupServer(t)
	register(t, s)

	w := doJSON(t, s, http.MethodPost, "/api/v1/orders", map[string]any{
		"foodId": 1, "quantity": 1, "deliveryMethod": "standard", "promoApplied": true,
		"shipping": map[string]any{"name": "Jane", "phone": "+1 555-123-4567", "address": "1 Main St"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("order %v: %s", w.Code, w.Body.String())
	}
	r := decode[service.Receipt](t, w)
	if got := service.FormatMoney(r.Total); got != "12.99" {
		t.Fatalf("expected full price 12.99, got %s", got)
	}
	if got := service.FormatMoney(r.Balance); got != "487.01" {
		t.Fatalf("balance %s", got)
	}
}

func TestClearCart(t *testing.T) {
	s := setupServer(t)
	register(t, s)

	_ = doJSON(t, s, http.MethodPost, "/api/v1/cart/items", map[string]any{"foodId": 1, "quantity": 2})
	if w := doJSON(t, s, http.MethodDelete, "/api/v1/cart", nil); w.Code != http.StatusNoContent {
		t.Fatalf("clear code %v", w.Code)
	}
	sum := decode[service.CartSummary](t, doJSON(t, s, http.MethodGet, "/api/v1/cart", nil))
	if sum.Count != 0 || len(sum.Lines) != 0 {
		t.Fatalf("cart not empty: %+v", sum)
	}
	if w := doJSON(t, s, http.MethodGet, "/api/v1/orders", nil); len(decode[[]domain.Order](t, w)) != 0 {
		t.Fatal("clearing the cart placed orders")
	}
}

func TestHTTP_BadRequests(t *testing.T) {
	s := setupServer(t)
	w := doJSON(t, s, http.MethodPost, "/api/v1/session/register", map[string]any{"name": ""})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", w.Code)
	}

	register(t, s)
	w = doJSON(t, s, http.MethodPost, "/api/v1/orders", map[string]any{
		"foodId": 1, "quantity": 1, "deliveryMethod": "drone",
		"shipping": map[string]any{"name": "Jane", "phone": "+1 555-123-4567", "address": "1 Main St"},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown delivery, got %v", w.Code)
	}

	w = doJSON(t, s, http.MethodPost, "/api/v1/payment-methods", map[string]any{"cardNumber": "12", "expiry": "01/30"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for card, got %v", w.Code)
	}
}

func TestProfileRoutes(t *testing.T) {
	s := setupServer(t)
	register(t, s)

	w := doJSON(t, s, http.MethodPost, "/api/v1/favorites/3", nil)
	if got := decode[map[string]bool](t, w); !got["favorite"] {
		t.Fatalf("toggle %v", got)
	}

	w = doJSON(t, s, http.MethodGet, "/api/v1/notifications/unread", nil)
	if got := decode[map[string]int](t, w)["unread"]; got != 2 {
		t.Fatalf("unread %d", got)
	}
	_ = doJSON(t, s, http.MethodGet, "/api/v1/notifications", nil)
	w = doJSON(t, s, http.MethodGet, "/api/v1/notifications/unread", nil)
	if got := decode[map[string]int](t, w)["unread"]; got != 0 {
		t.Fatalf("unread after view %d", got)
	}

	w = doJSON(t, s, http.MethodPost, "/api/v1/addresses", map[string]any{"address": "9 Elm St"})
	if w.Code != http.StatusCreated {
		t.Fatalf("address %v", w.Code)
	}
	if w = doJSON(t, s, http.MethodPost, "/api/v1/addresses", map[string]any{"address": "9 Elm St"}); w.Code != http.StatusOK {
		t.Fatalf("duplicate address %v", w.Code)
	}

	w = doJSON(t, s, http.MethodPost, "/api/v1/payment-methods", map[string]any{"cardNumber": "4111 1111 1111 4242", "expiry": "12/29"})
	if got := decode[domain.PaymentMethod](t, w); got.CardNumber != "**** **** **** 4242" {
		t.Fatalf("card %q", got.CardNumber)
	}
}

func TestAdminGate(t *testing.T) {
	s := setupServer(t)

	if w := doJSON(t, s, http.MethodGet, "/api/v1/admin/stats", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without cookie, got %v", w.Code)
	}
	w := doJSON(t, s, http.MethodPost, "/api/v1/admin/login", map[string]any{"email": "admin@example.com", "password": "x"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %v", w.Code)
	}

	cookies := adminCookies(t, s)
	w = doJSON(t, s, http.MethodGet, "/api/v1/admin/stats", nil, cookies...)
	if w.Code != http.StatusOK {
		t.Fatalf("stats %v", w.Code)
	}
	if st := decode[domain.Stats](t, w); st.TotalItems != 14 {
		t.Fatalf("stats %+v", st)
	}

	_ = doJSON(t, s, http.MethodPost, "/api/v1/admin/logout", nil, cookies...)
	if w = doJSON(t, s, http.MethodGet, "/api/v1/admin/stats", nil, cookies...); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %v", w.Code)
	}
}

func TestAdminOrders(t *testing.T) {
	s := setupServer(t)
	register(t, s)
	w := doJSON(t, s, http.MethodPost, "/api/v1/orders", map[string]any{
		"foodId": 4, "quantity": 1, "deliveryMethod": "standard",
		"shipping": map[string]any{"name": "Jane", "phone": "+1 555-123-4567", "address": "1 Main St"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("order %v", w.Code)
	}
	id := decode[service.Receipt](t, w).Orders[0].ID
	cookies := adminCookies(t, s)

	w = doJSON(t, s, http.MethodPut, fmt.Sprintf("/api/v1/admin/orders/%d/status", id), map[string]any{"status": "completed"}, cookies...)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status %v", w.Code)
	}
	w = doJSON(t, s, http.MethodGet, "/api/v1/admin/orders?status=completed", nil, cookies...)
	if n := len(decode[[]domain.Order](t, w)); n != 1 {
		t.Fatalf("expected 1 completed order, got %d", n)
	}

	w = doJSON(t, s, http.MethodGet, "/api/v1/admin/orders/export", nil, cookies...)
	if w.Code != http.StatusOK || w.Body.Len() == 0 {
		t.Fatalf("export %v, %d bytes", w.Code, w.Body.Len())
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("content type %q", ct)
	}

	w = doJSON(t, s, http.MethodGet, "/api/v1/admin/users?q=jane", nil, cookies...)
	if n := len(decode[[]domain.User](t, w)); n != 1 {
		t.Fatalf("expected 1 user, got %d", n)
	}

	if w = doJSON(t, s, http.MethodDelete, fmt.Sprintf("/api/v1/admin/orders/%d", id), nil, cookies...); w.Code != http.StatusNoContent {
		t.Fatalf("delete %v", w.Code)
	}
	if w = doJSON(t, s, http.MethodPost, "/api/v1/admin/clear", nil, cookies...); w.Code != http.StatusNoContent {
		t.Fatalf("clear %v", w.Code)
	}
}

func TestAdminMenu(t *testing.T) {
	s := setupServer(t)
	cookies := adminCookies(t, s)

	w := doJSON(t, s, http.MethodPost, "/api/v1/admin/menu", map[string]any{
		"name": "Pho", "category": "Popular", "price": 11.5, "image": "https://example.com/pho.png",
	}, cookies...)
	if w.Code != http.StatusCreated {
		t.Fatalf("add %v: %s", w.Code, w.Body.String())
	}
	item := decode[domain.CatalogItem](t, w)

	if w = doJSON(t, s, http.MethodPost, "/api/v1/admin/menu", map[string]any{"name": "X"}, cookies...); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", w.Code)
	}

	if w = doJSON(t, s, http.MethodDelete, fmt.Sprintf("/api/v1/admin/menu/%d", item.ID), nil, cookies...); w.Code != http.StatusNoContent {
		t.Fatalf("delete %v", w.Code)
	}
	if w = doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/v1/foods/%d", item.ID), nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", w.Code)
	}
}

func TestAdminFeed(t *testing.T) {
	s := setupServer(t)
	cookies := adminCookies(t, s)
	ts := httptest.NewServer(s.Engine())
	defer ts.Close()

	header := http.Header{}
	for _, c := range cookies {
		header.Add("Cookie", (&http.Cookie{Name: c.Name, Value: c.Value}).String())
	}
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/admin/feed"
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var st domain.Stats
	if err := conn.ReadJSON(&st); err != nil {
		t.Fatalf("read: %v", err)
	}
	if st.TotalItems != 14 {
		t.Fatalf("stats %+v", st)
	}

	if _, _, err := websocket.DefaultDialer.Dial(url, nil); err == nil {
		t.Fatal("expected dial without cookie to fail")
	}
}
