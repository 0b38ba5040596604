package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"foodgiver/internal/domain"
	"foodgiver/internal/logger"
	"foodgiver/internal/repository"
	"foodgiver/internal/service"
)

// Services набор сервисов, которые обслуживает HTTP слой
type Services struct {
	Catalog *service.CatalogService
	Session *service.SessionService
	Ledger  *service.Ledger
	Cart    *service.CartService
	Orders  *service.OrderService
	Profile *service.ProfileService
	Admin   *service.AdminService
}

type Options struct {
	Logger       *slog.Logger
	SessionKey   []byte
	CookieSecure bool
	CORSOrigins  []string
	FeedInterval time.Duration
}

type Server struct {
	engine   *gin.Engine
	svc      Services
	log      *slog.Logger
	sessions *sessions.CookieStore
	feed     *Feed
}

func NewServer(svc Services, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.FeedInterval <= 0 {
		opts.FeedInterval = 5 * time.Second
	}

	store := sessions.NewCookieStore(opts.SessionKey)
	store.Options.HttpOnly = true
	store.Options.Secure = opts.CookieSecure
	store.Options.SameSite = http.SameSiteLaxMode
	store.Options.Path = "/"

	r := gin.New()
	r.ContextWithFallback = true
	r.Use(logger.GinMiddleware(opts.Logger), gin.Recovery())
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))

	s := &Server{
		engine:   r,
		svc:      svc,
		log:      opts.Logger,
		sessions: store,
	}
	s.feed = NewFeed(svc.Admin, opts.FeedInterval, opts.Logger)
	s.registerRoutes()
	return s
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", logger.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", logger.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		// credentials are not allowed together with a literal "*"
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func (s *Server) Engine() *gin.Engine { return s.engine }

// Feed returns the admin live feed; the caller runs it.
func (s *Server) Feed() *Feed { return s.feed }

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := s.engine.Group("/api/v1")
	{
		session := v1.Group("/session")
		session.POST("/register", s.register)
		session.POST("/quick/:kind", s.quickLogin)
		session.POST("/logout", s.logout)
		session.GET("", s.currentSession)

		foods := v1.Group("/foods")
		foods.GET("", s.listFoods)
		foods.GET("/search", s.searchFoods)
		foods.GET("/categories", s.listCategories)
		foods.GET("/:id", s.getFood)

		// everything below acts on the current user
		me := v1.Group("")
		me.Use(s.requireUser)

		me.GET("/profile", s.profile)
		me.GET("/credits", s.credits)

		cart := me.Group("/cart")
		cart.GET("", s.getCart)
		cart.DELETE("", s.clearCart)
		cart.POST("/items", s.addCartItem)
		cart.PUT("/items/:id", s.updateCartItem)
		cart.POST("/checkout", s.checkoutCart)

		drafts := me.Group("/drafts")
		drafts.POST("", s.openDraft)
		drafts.GET("", s.getDraft)
		drafts.POST("/promo", s.applyPromo)
		drafts.GET("/quote", s.quoteDraft)
		drafts.POST("/place", s.placeDraft)

		orders := me.Group("/orders")
		orders.GET("", s.myOrders)
		orders.POST("", s.placeOrder)
		orders.POST("/:id/reorder", s.reorder)

		favorites := me.Group("/favorites")
		favorites.GET("", s.listFavorites)
		favorites.POST("/:id", s.toggleFavorite)

		notifications := me.Group("/notifications")
		notifications.GET("", s.viewNotifications)
		notifications.GET("/unread", s.unreadNotifications)
		notifications.POST("/:id/read", s.markNotificationRead)
		notifications.DELETE("", s.clearNotifications)

		addresses := me.Group("/addresses")
		addresses.GET("", s.listAddresses)
		addresses.POST("", s.addAddress)
		addresses.DELETE("/:id", s.deleteAddress)

		payments := me.Group("/payment-methods")
		payments.GET("", s.listPaymentMethods)
		payments.POST("", s.addPaymentMethod)
		payments.DELETE("/:id", s.deletePaymentMethod)

		admin := v1.Group("/admin")
		admin.POST("/login", s.adminLogin)
		admin.POST("/logout", s.adminLogout)

		gated := admin.Group("")
		gated.Use(s.requireAdmin)
		gated.GET("/stats", s.adminStats)
		gated.GET("/orders", s.adminOrders)
		gated.GET("/orders/export", s.adminExportOrders)
		gated.PUT("/orders/:id/status", s.adminUpdateOrderStatus)
		gated.DELETE("/orders/:id", s.adminDeleteOrder)
		gated.GET("/menu", s.adminMenu)
		gated.POST("/menu", s.adminAddMenuItem)
		gated.DELETE("/menu/:id", s.adminDeleteMenuItem)
		gated.GET("/users", s.adminUsers)
		gated.POST("/clear", s.adminClear)
		gated.GET("/feed", s.adminFeed)
	}
}

const ctxUserKey = "current_user"

// requireUser кладёт текущего пользователя в контекст gin
func (s *Server) requireUser(c *gin.Context) {
	u, err := s.svc.Session.Current(c)
	if err != nil {
		writeError(c, err)
		c.Abort()
		return
	}
	c.Set(ctxUserKey, u)
	c.Next()
}

func currentUser(c *gin.Context) *domain.User {
	return c.MustGet(ctxUserKey).(*domain.User)
}

func writeError(c *gin.Context, err error) {
	status := mapErrorToStatus(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrItemNotFound), errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInsufficientCredits):
		return http.StatusPaymentRequired
	case errors.Is(err, service.ErrNoSession), errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
