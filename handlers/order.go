package handlers

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oficinaplus/workshop-api/middleware"
	"github.com/oficinaplus/workshop-api/models"
	"github.com/oficinaplus/workshop-api/services"
	"github.com/oficinaplus/workshop-api/utils"
)

type OrderHandler struct {
	DB     *sql.DB
	Orders *services.OrderService
	WS     *WSHandler
}

func NewOrderHandler(db *sql.DB, orders *services.OrderService, ws *WSHandler) *OrderHandler {
	return &OrderHandler{DB: db, Orders: orders, WS: ws}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)
	workshopID := c.Param("id")

	if !isMember(h.DB, workshopID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.Orders.Create(c.Request.Context(), workshopID, userID, req)
	if err != nil {
		utils.SafeErrorf("Failed to create order %s: %v", req.Reference, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	h.Orders.LogActivity(c.Request.Context(), workshopID, userID, "order_created", order.ID,
		fmt.Sprintf("O.S. %s criada", order.Reference))
	h.WS.BroadcastOrderUpdate(workshopID, order.ID, "order_created")

	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetOrders(c *gin.Context) {
	userID := middleware.GetUserID(c)
	workshopID := c.Param("id")

	if !isMember(h.DB, workshopID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	var filter models.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orders, err := h.Orders.List(c.Request.Context(), workshopID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)
	workshopID := c.Param("id")
	orderID := c.Param("order_id")

	if !isMember(h.DB, workshopID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	order, err := h.Orders.Get(c.Request.Context(), workshopID, orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	userID := middleware.GetUserID(c)
	workshopID := c.Param("id")
	orderID := c.Param("order_id")

	if !isMember(h.DB, workshopID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch req.Status {
	case models.OrderStatusOrcamento, models.OrderStatusAguardando, models.OrderStatusEmExecucao,
		models.OrderStatusRecusado, models.OrderStatusConcluido, models.OrderStatusEntregue:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	updated, err := h.Orders.SetStatus(c.Request.Context(), workshopID, orderID, req.Status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	h.Orders.LogActivity(c.Request.Context(), workshopID, userID, "status_changed", orderID,
		fmt.Sprintf("Status alterado para %s", req.Status))
	h.WS.BroadcastOrderUpdate(workshopID, orderID, "status_changed")

	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}

// DeleteOrder requires the caller's PIN when one is configured.
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)
	workshopID := c.Param("id")
	orderID := c.Param("order_id")

	if !isMember(h.DB, workshopID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	var req struct {
		PIN string `json:"pin"`
	}
	c.ShouldBindJSON(&req)

	var pinHash sql.NullString
	err := h.DB.QueryRow(`SELECT pin_hash FROM users WHERE id = $1`, userID).Scan(&pinHash)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if pinHash.Valid && pinHash.String != "" {
		if req.PIN == "" || !utils.CheckPIN(req.PIN, pinHash.String) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "PIN confirmation required"})
			return
		}
	}

	deleted, err := h.Orders.Delete(c.Request.Context(), workshopID, orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete order"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	h.Orders.LogActivity(c.Request.Context(), workshopID, userID, "order_deleted", orderID, "")

	c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}

func (h *OrderHandler) GetActivityLog(c *gin.Context) {
	userID := middleware.GetUserID(c)
	workshopID := c.Param("id")

	if !isMember(h.DB, workshopID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	var filter models.LogFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logs, err := h.Orders.ListActivity(c.Request.Context(), workshopID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch activity log"})
		return
	}

	c.JSON(http.StatusOK, logs)
}
