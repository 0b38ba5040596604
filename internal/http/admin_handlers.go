package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"foodgiver/internal/domain"
	"foodgiver/internal/service"
)

const adminSessionName = "admin-session"

type adminLoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// @Summary Admin login
// @Tags admin
// @Accept json
// @Param input body adminLoginReq true "Credentials"
// @Success 204
// @Failure 401 {object} map[string]string
// @Router /admin/login [post]
func (s *Server) adminLogin(c *gin.Context) {
	var req adminLoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if err := s.svc.Admin.Login(c, req.Email, req.Password); err != nil {
		writeError(c, err)
		return
	}
	session, _ := s.sessions.Get(c.Request, adminSessionName)
	session.Values["authenticated"] = true
	if err := session.Save(c.Request, c.Writer); err != nil {
		writeError(c, err)
		return
	}
	s.log.Info("admin logged in", "email", req.Email)
	c.Status(http.StatusNoContent)
}

// @Summary Admin logout
// @Tags admin
// @Success 204
// @Router /admin/logout [post]
func (s *Server) adminLogout(c *gin.Context) {
	if err := s.svc.Admin.Logout(c); err != nil {
		writeError(c, err)
		return
	}
	session, _ := s.sessions.Get(c.Request, adminSessionName)
	session.Values["authenticated"] = false
	session.Options.MaxAge = -1
	if err := session.Save(c.Request, c.Writer); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// requireAdmin пропускает запрос только с действующей админ-сессией
func (s *Server) requireAdmin(c *gin.Context) {
	session, _ := s.sessions.Get(c.Request, adminSessionName)
	if auth, ok := session.Values["authenticated"].(bool); !ok || !auth {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": service.ErrUnauthorized.Error()})
		return
	}
	active, err := s.svc.Admin.LoggedIn(c)
	if err != nil {
		writeError(c, err)
		c.Abort()
		return
	}
	if !active {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": service.ErrUnauthorized.Error()})
		return
	}
	c.Next()
}

// @Summary Dashboard counters
// @Tags admin
// @Produce json
// @Success 200 {object} domain.Stats
// @Router /admin/stats [get]
func (s *Server) adminStats(c *gin.Context) {
	st, err := s.svc.Admin.Stats(c)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary All orders
// @Tags admin
// @Produce json
// @Param status query string false "all, pending or completed"
// @Success 200 {array} domain.Order
// @Router /admin/orders [get]
func (s *Server) adminOrders(c *gin.Context) {
	list, err := s.svc.Admin.Orders(c, c.Query("status"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type orderStatusReq struct {
	Status string `json:"status"`
}

// @Summary Change order status
// @Tags admin
// @Accept json
// @Param id path int true "Order ID"
// @Param input body orderStatusReq true "Status"
// @Success 204
// @Failure 400 {object} map[string]string
// @Router /admin/orders/{id}/status [put]
func (s *Server) adminUpdateOrderStatus(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req orderStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	status, err := service.ParseOrderStatus(req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := s.svc.Admin.UpdateOrderStatus(c, id, status); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Delete order
// @Tags admin
// @Param id path int true "Order ID"
// @Success 204
// @Router /admin/orders/{id} [delete]
func (s *Server) adminDeleteOrder(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := s.svc.Admin.DeleteOrder(c, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Export orders to Excel
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param status query string false "all, pending or completed"
// @Success 200 {file} file
// @Router /admin/orders/export [get]
func (s *Server) adminExportOrders(c *gin.Context) {
	file, err := s.svc.Admin.OrdersWorkbook(c, c.Query("status"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=orders_%s.xlsx", c.DefaultQuery("status", "all")))
	c.Status(http.StatusOK)
	if err := file.Write(c.Writer); err != nil {
		s.log.Error("write orders workbook", "error", err)
	}
}

// @Summary Menu management list
// @Tags admin
// @Produce json
// @Param category query string false "Category or all"
// @Success 200 {array} domain.CatalogItem
// @Router /admin/menu [get]
func (s *Server) adminMenu(c *gin.Context) {
	list, err := s.svc.Admin.Menu(c, c.Query("category"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type menuItemReq struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
}

// @Summary Add a menu item
// @Tags admin
// @Accept json
// @Produce json
// @Param input body menuItemReq true "Menu item"
// @Success 201 {object} domain.CatalogItem
// @Failure 400 {object} map[string]string
// @Router /admin/menu [post]
func (s *Server) adminAddMenuItem(c *gin.Context) {
	var req menuItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	item, err := s.svc.Admin.AddMenuItem(c, domain.CatalogItem{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Image:    req.Image,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// @Summary Delete a menu item
// @Tags admin
// @Param id path int true "Food ID"
// @Success 204
// @Router /admin/menu/{id} [delete]
func (s *Server) adminDeleteMenuItem(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := s.svc.Admin.DeleteMenuItem(c, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Users, optionally filtered
// @Tags admin
// @Produce json
// @Param q query string false "Name, email or phone"
// @Success 200 {array} domain.User
// @Router /admin/users [get]
func (s *Server) adminUsers(c *gin.Context) {
	list, err := s.svc.Admin.SearchUsers(c, c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Remove all orders and users
// @Tags admin
// @Success 204
// @Router /admin/clear [post]
func (s *Server) adminClear(c *gin.Context) {
	if err := s.svc.Admin.ClearData(c); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
