package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oficinaplus/workshop-api/middleware"
	"github.com/oficinaplus/workshop-api/models"
	"github.com/oficinaplus/workshop-api/services"
	"github.com/oficinaplus/workshop-api/utils"
)

type ShareHandler struct {
	DB     *sql.DB
	Share  *services.ShareService
	Orders *services.OrderService
	WS     *WSHandler
}

func NewShareHandler(db *sql.DB, share *services.ShareService, orders *services.OrderService, ws *WSHandler) *ShareHandler {
	return &ShareHandler{DB: db, Share: share, Orders: orders, WS: ws}
}

// CreateShareLink mints the public approval link for an O.S. and moves it
// to aguardando_aprovacao. The ref variant keeps the URL short; the full
// variant embeds the whole snapshot so the link survives deletion.
func (h *ShareHandler) CreateShareLink(c *gin.Context) {
	userID := middleware.GetUserID(c)
	workshopID := c.Param("id")
	orderID := c.Param("order_id")

	if !isMember(h.DB, workshopID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	var req models.CreateShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
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

	full := req.Variant == "full"
	payload := h.Share.BuildPayload(order, full)

	token, err := utils.EncodeShareToken(payload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode share token"})
		return
	}

	variant := "ref"
	if full {
		variant = "full"
	}

	expiresAt := time.Now().Add(7 * 24 * time.Hour)
	var linkID string
	err = h.DB.QueryRow(`
		INSERT INTO share_links (workshop_id, order_id, token, variant, expires_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, workshopID, orderID, token, variant, expiresAt, userID).Scan(&linkID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create share link"})
		return
	}

	// Budget goes out for approval. Already-shared orders stay put.
	h.Orders.UpdateStatus(c.Request.Context(), workshopID, orderID,
		models.OrderStatusOrcamento, models.OrderStatusAguardando)

	h.Orders.LogActivity(c.Request.Context(), workshopID, userID, "order_shared", orderID,
		fmt.Sprintf("O.S. %s compartilhada com o cliente", order.Reference))

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}
	shareURL := fmt.Sprintf("%s/os/%s", frontendURL, token)

	if req.ClientEmail != "" {
		var workshopName string
		h.DB.QueryRow(`SELECT name FROM workshops WHERE id = $1`, workshopID).Scan(&workshopName)
		if err := utils.SendShareEmail(req.ClientEmail, order.ClientName, workshopName, order.Plate, shareURL); err != nil {
			utils.SafeErrorf("Failed to email share link for order %s: %v", orderID, err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         linkID,
		"token":      token,
		"url":        shareURL,
		"variant":    variant,
		"expires_at": expiresAt,
	})
}

// PublicGetOrder is the anonymous landing view. Any decode or resolve
// failure collapses into a generic unavailable response: recipients get
// no hints about other workshops' data.
func (h *ShareHandler) PublicGetOrder(c *gin.Context) {
	token := c.Param("token")

	payload, err := utils.DecodeShareToken(token)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Orçamento indisponível"})
		return
	}

	view, err := h.Share.Resolve(c.Request.Context(), payload)
	if err != nil {
		if !errors.Is(err, services.ErrShareNotFound) {
			utils.SafeErrorf("Failed to resolve share token for order %s: %v", payload.OrderID, err)
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Orçamento indisponível"})
		return
	}

	// Surface the current decision so a revisited link shows its state.
	decision := models.DecisionPending
	var decidedAt sql.NullTime
	err = h.DB.QueryRow(`
		SELECT decision, decided_at FROM share_links WHERE token = $1
	`, token).Scan(&decision, &decidedAt)
	if err != nil && err != sql.ErrNoRows {
		decision = models.DecisionPending
	}

	c.JSON(http.StatusOK, gin.H{
		"order":    view,
		"decision": decision,
	})
}

// PublicDecision records the recipient's approve/reject. Repeats are
// reported as success without re-notifying the workshop.
func (h *ShareHandler) PublicDecision(c *gin.Context) {
	token := c.Param("token")

	payload, err := utils.DecodeShareToken(token)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Orçamento indisponível"})
		return
	}

	var req models.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	changed, err := h.Share.ApplyDecision(c.Request.Context(), payload.WorkshopID, payload.OrderID, req.Decision)
	if err != nil {
		if errors.Is(err, services.ErrOrderGone) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Orçamento indisponível"})
			return
		}
		utils.SafeErrorf("Failed to apply decision on order %s: %v", payload.OrderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível registrar a decisão"})
		return
	}

	if changed {
		_, err = h.DB.Exec(`
			UPDATE share_links SET decision = $1, decided_at = NOW() WHERE token = $2
		`, req.Decision, token)
		if err != nil {
			utils.SafeErrorf("Failed to update share link decision: %v", err)
		}

		h.WS.BroadcastDecision(payload.WorkshopID, payload.OrderID, payload.Plate, req.Decision)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Decisão registrada",
		"decision": req.Decision,
	})
}

// GetShareLinks lists an order's share history for the staff UI.
func (h *ShareHandler) GetShareLinks(c *gin.Context) {
	userID := middleware.GetUserID(c)
	workshopID := c.Param("id")
	orderID := c.Param("order_id")

	if !isMember(h.DB, workshopID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	rows, err := h.DB.Query(`
		SELECT id, workshop_id, order_id, token, variant, decision, decided_at, expires_at, created_at
		FROM share_links
		WHERE order_id = $1 AND workshop_id = $2
		ORDER BY created_at DESC
	`, orderID, workshopID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch share links"})
		return
	}
	defer rows.Close()

	links := []models.ShareLink{}
	for rows.Next() {
		var link models.ShareLink
		var decidedAt sql.NullTime
		if err := rows.Scan(&link.ID, &link.WorkshopID, &link.OrderID, &link.Token, &link.Variant,
			&link.Decision, &decidedAt, &link.ExpiresAt, &link.CreatedAt); err != nil {
			continue
		}
		if decidedAt.Valid {
			link.DecidedAt = &decidedAt.Time
		}
		links = append(links, link)
	}

	c.JSON(http.StatusOK, links)
}
