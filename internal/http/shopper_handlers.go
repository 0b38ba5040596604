package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"foodgiver/internal/domain"
	"foodgiver/internal/service"
)

// Session handlers
type registerReq struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// @Summary Register and log in
// @Tags session
// @Accept json
// @Produce json
// @Param input body registerReq true "User"
// @Success 201 {object} domain.User
// @Failure 400 {object} map[string]string
// @Router /session/register [post]
func (s *Server) register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	u, err := s.svc.Session.Register(c, req.Name, req.Email, req.Phone)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// @Summary Quick login as guest or demo user
// @Tags session
// @Produce json
// @Param kind path string true "guest or demo"
// @Success 201 {object} domain.User
// @Failure 400 {object} map[string]string
// @Router /session/quick/{kind} [post]
func (s *Server) quickLogin(c *gin.Context) {
	u, err := s.svc.Session.QuickLogin(c, c.Param("kind"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// @Summary Log out
// @Tags session
// @Success 204
// @Router /session/logout [post]
func (s *Server) logout(c *gin.Context) {
	if err := s.svc.Session.Logout(c); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Current user
// @Tags session
// @Produce json
// @Success 200 {object} domain.User
// @Failure 401 {object} map[string]string
// @Router /session [get]
func (s *Server) currentSession(c *gin.Context) {
	u, err := s.svc.Session.Current(c)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// @Summary Profile with balance and order count
// @Tags session
// @Produce json
// @Success 200 {object} service.Profile
// @Router /profile [get]
func (s *Server) profile(c *gin.Context) {
	p, err := s.svc.Session.Profile(c, currentUser(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary Credit balance
// @Tags session
// @Produce json
// @Success 200 {object} map[string]string
// @Router /credits [get]
func (s *Server) credits(c *gin.Context) {
	bal, err := s.svc.Ledger.Balance(c, currentUser(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"credits": bal, "display": service.FormatMoney(bal)})
}

// Catalog handlers

// @Summary List menu
// @Tags foods
// @Produce json
// @Param category query string false "Category or all"
// @Success 200 {array} domain.CatalogItem
// @Router /foods [get]
func (s *Server) listFoods(c *gin.Context) {
	list, err := s.svc.Catalog.List(c, c.Query("category"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Search menu by name or category
// @Tags foods
// @Produce json
// @Param q query string true "Search term"
// @Success 200 {array} domain.CatalogItem
// @Router /foods/search [get]
func (s *Server) searchFoods(c *gin.Context) {
	list, err := s.svc.Catalog.Search(c, c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Menu categories
// @Tags foods
// @Produce json
// @Success 200 {array} string
// @Router /foods/categories [get]
func (s *Server) listCategories(c *gin.Context) {
	cats, err := s.svc.Catalog.Categories(c)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

// @Summary Get menu item by id
// @Tags foods
// @Produce json
// @Param id path int true "Food ID"
// @Success 200 {object} domain.CatalogItem
// @Failure 404 {object} map[string]string
// @Router /foods/{id} [get]
func (s *Server) getFood(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	f, err := s.svc.Catalog.Get(c, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// Cart handlers
type addCartItemReq struct {
	FoodID   int64 `json:"foodId"`
	Quantity int   `json:"quantity"`
}

type updateCartItemReq struct {
	Quantity int `json:"quantity"`
}

// @Summary Cart with badge count and total
// @Tags cart
// @Produce json
// @Success 200 {object} service.CartSummary
// @Router /cart [get]
func (s *Server) getCart(c *gin.Context) {
	sum, err := s.svc.Cart.Get(c, currentUser(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// @Summary Add to cart
// @Tags cart
// @Accept json
// @Produce json
// @Param input body addCartItemReq true "Item"
// @Success 200 {object} service.CartSummary
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /cart/items [post]
func (s *Server) addCartItem(c *gin.Context) {
	var req addCartItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	sum, err := s.svc.Cart.Add(c, currentUser(c).ID, req.FoodID, req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// @Summary Set cart line quantity (0 removes)
// @Tags cart
// @Accept json
// @Produce json
// @Param id path int true "Food ID"
// @Param input body updateCartItemReq true "Quantity"
// @Success 200 {object} service.CartSummary
// @Router /cart/items/{id} [put]
func (s *Server) updateCartItem(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req updateCartItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	sum, err := s.svc.Cart.Update(c, currentUser(c).ID, id, req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// @Summary Empty the cart
// @Tags cart
// @Success 204
// @Router /cart [delete]
func (s *Server) clearCart(c *gin.Context) {
	if err := s.svc.Cart.Clear(c, currentUser(c).ID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Check out the whole cart
// @Tags cart
// @Produce json
// @Success 201 {object} service.Receipt
// @Failure 400 {object} map[string]string
// @Failure 402 {object} map[string]string
// @Router /cart/checkout [post]
func (s *Server) checkoutCart(c *gin.Context) {
	r, err := s.svc.Orders.PlaceCartOrder(c, currentUser(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// Draft handlers
type openDraftReq struct {
	FoodID int64 `json:"foodId"`
}

type promoReq struct {
	Code string `json:"code"`
}

type placeDraftReq struct {
	Quantity       int                 `json:"quantity"`
	DeliveryMethod string              `json:"deliveryMethod"`
	Shipping       domain.ShippingInfo `json:"shipping"`
}

// @Summary Open an order form for one menu item
// @Tags drafts
// @Accept json
// @Produce json
// @Param input body openDraftReq true "Food"
// @Success 201 {object} domain.OrderDraft
// @Failure 404 {object} map[string]string
// @Router /drafts [post]
func (s *Server) openDraft(c *gin.Context) {
	var req openDraftReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	d, err := s.svc.Orders.OpenDraft(c, currentUser(c).ID, req.FoodID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// @Summary Current order form
// @Tags drafts
// @Produce json
// @Success 200 {object} domain.OrderDraft
// @Failure 404 {object} map[string]string
// @Router /drafts [get]
func (s *Server) getDraft(c *gin.Context) {
	d, err := s.svc.Orders.Draft(c, currentUser(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// @Summary Apply a promo code to the open draft
// @Tags drafts
// @Accept json
// @Produce json
// @Param input body promoReq true "Code"
// @Success 200 {object} service.PromoResult
// @Router /drafts/promo [post]
func (s *Server) applyPromo(c *gin.Context) {
	var req promoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	res, err := s.svc.Orders.ApplyPromo(c, currentUser(c).ID, req.Code)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Price the open draft
// @Tags drafts
// @Produce json
// @Param quantity query int true "Quantity"
// @Param method query string true "standard, express or premium"
// @Success 200 {object} map[string]string
// @Router /drafts/quote [get]
func (s *Server) quoteDraft(c *gin.Context) {
	qty, err := strconv.Atoi(c.DefaultQuery("quantity", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quantity"})
		return
	}
	total, err := s.svc.Orders.Quote(c, currentUser(c).ID, qty, c.DefaultQuery("method", string(domain.DeliveryStandard)))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "display": service.FormatMoney(total)})
}

// @Summary Place the open draft
// @Tags drafts
// @Accept json
// @Produce json
// @Param input body placeDraftReq true "Order"
// @Success 201 {object} service.Receipt
// @Failure 400 {object} map[string]string
// @Failure 402 {object} map[string]string
// @Router /drafts/place [post]
func (s *Server) placeDraft(c *gin.Context) {
	var req placeDraftReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	r, err := s.svc.Orders.PlaceDraftOrder(c, currentUser(c).ID, req.Quantity, req.DeliveryMethod, req.Shipping)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// Order handlers

// placeOrderReq has no promo flag: the discount only comes through a draft.
type placeOrderReq struct {
	FoodID         int64               `json:"foodId"`
	Quantity       int                 `json:"quantity"`
	DeliveryMethod string              `json:"deliveryMethod"`
	Shipping       domain.ShippingInfo `json:"shipping"`
}

// @Summary My orders, newest first
// @Tags orders
// @Produce json
// @Param status query string false "all, pending or completed"
// @Success 200 {array} domain.Order
// @Router /orders [get]
func (s *Server) myOrders(c *gin.Context) {
	list, err := s.svc.Orders.MyOrders(c, currentUser(c).ID, c.Query("status"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Place a single-item order
// @Tags orders
// @Accept json
// @Produce json
// @Param input body placeOrderReq true "Order"
// @Success 201 {object} service.Receipt
// @Failure 400 {object} map[string]string
// @Failure 402 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders [post]
func (s *Server) placeOrder(c *gin.Context) {
	var req placeOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	r, err := s.svc.Orders.PlaceSingleOrder(c, currentUser(c).ID, service.SingleOrderRequest{
		FoodID:         req.FoodID,
		Quantity:       req.Quantity,
		DeliveryMethod: req.DeliveryMethod,
		Shipping:       req.Shipping,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// @Summary Reorder: open a draft for a past order's item
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 201 {object} domain.OrderDraft
// @Failure 404 {object} map[string]string
// @Router /orders/{id}/reorder [post]
func (s *Server) reorder(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	d, err := s.svc.Orders.Reorder(c, currentUser(c).ID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// Favorites

// @Summary Favorite menu items
// @Tags favorites
// @Produce json
// @Success 200 {array} domain.CatalogItem
// @Router /favorites [get]
func (s *Server) listFavorites(c *gin.Context) {
	list, err := s.svc.Profile.Favorites(c, currentUser(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Toggle a favorite
// @Tags favorites
// @Produce json
// @Param id path int true "Food ID"
// @Success 200 {object} map[string]bool
// @Router /favorites/{id} [post]
func (s *Server) toggleFavorite(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	added, err := s.svc.Profile.ToggleFavorite(c, currentUser(c).ID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorite": added})
}

// Notifications

// @Summary View notifications (marks them read)
// @Tags notifications
// @Produce json
// @Success 200 {array} domain.Notification
// @Router /notifications [get]
func (s *Server) viewNotifications(c *gin.Context) {
	list, err := s.svc.Profile.ViewNotifications(c, currentUser(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Unread notification count
// @Tags notifications
// @Produce json
// @Success 200 {object} map[string]int
// @Router /notifications/unread [get]
func (s *Server) unreadNotifications(c *gin.Context) {
	n, err := s.svc.Profile.UnreadCount(c, currentUser(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": n})
}

// @Summary Mark a notification read
// @Tags notifications
// @Param id path int true "Notification ID"
// @Success 204
// @Router /notifications/{id}/read [post]
func (s *Server) markNotificationRead(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := s.svc.Profile.MarkNotificationRead(c, currentUser(c).ID, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Clear notifications
// @Tags notifications
// @Success 204
// @Router /notifications [delete]
func (s *Server) clearNotifications(c *gin.Context) {
	if err := s.svc.Profile.ClearNotifications(c, currentUser(c).ID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Addresses
type addressReq struct {
	Address string `json:"address"`
}

// @Summary Saved addresses
// @Tags addresses
// @Produce json
// @Success 200 {array} domain.Address
// @Router /addresses [get]
func (s *Server) listAddresses(c *gin.Context) {
	list, err := s.svc.Profile.Addresses(c, currentUser(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Save an address
// @Tags addresses
// @Accept json
// @Produce json
// @Param input body addressReq true "Address"
// @Success 201 {object} domain.Address
// @Success 200 {object} domain.Address "already saved"
// @Router /addresses [post]
func (s *Server) addAddress(c *gin.Context) {
	var req addressReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	a, added, err := s.svc.Profile.AddAddress(c, currentUser(c).ID, req.Address)
	if err != nil {
		writeError(c, err)
		return
	}
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	c.JSON(status, a)
}

// @Summary Delete an address
// @Tags addresses
// @Param id path int true "Address ID"
// @Success 204
// @Router /addresses/{id} [delete]
func (s *Server) deleteAddress(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := s.svc.Profile.DeleteAddress(c, currentUser(c).ID, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Payment methods
type paymentMethodReq struct {
	CardNumber string `json:"cardNumber"`
	Expiry     string `json:"expiry"`
}

// @Summary Saved cards
// @Tags payment-methods
// @Produce json
// @Success 200 {array} domain.PaymentMethod
// @Router /payment-methods [get]
func (s *Server) listPaymentMethods(c *gin.Context) {
	list, err := s.svc.Profile.PaymentMethods(c, currentUser(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Save a card (stored masked)
// @Tags payment-methods
// @Accept json
// @Produce json
// @Param input body paymentMethodReq true "Card"
// @Success 201 {object} domain.PaymentMethod
// @Failure 400 {object} map[string]string
// @Router /payment-methods [post]
func (s *Server) addPaymentMethod(c *gin.Context) {
	var req paymentMethodReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	pm, err := s.svc.Profile.AddPaymentMethod(c, currentUser(c).ID, req.CardNumber, req.Expiry)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pm)
}

// @Summary Delete a card
// @Tags payment-methods
// @Param id path int true "Payment method ID"
// @Success 204
// @Router /payment-methods/{id} [delete]
func (s *Server) deletePaymentMethod(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := s.svc.Profile.DeletePaymentMethod(c, currentUser(c).ID, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
