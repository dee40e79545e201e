package handlers

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
)

type WSHandler struct {
	M *melody.Melody
}

func NewWSHandler() *WSHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 1024 * 1024

	// Keep-alive so cloud proxies do not drop idle staff dashboards.
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleConnect(func(s *melody.Session) {
		workshopID, _ := s.Get("workshop_id")
		log.Printf("✅ Client connected to workshop: %v", workshopID)
	})

	m.HandleDisconnect(func(s *melody.Session) {
		workshopID, _ := s.Get("workshop_id")
		log.Printf("🔌 Client disconnected from workshop: %v", workshopID)
	})

	m.HandleError(func(s *melody.Session, err error) {
		log.Printf("❌ WebSocket Error: %v", err)
	})

	return &WSHandler{M: m}
}

// HandleWS upgrades the request and pins the session to a workshop.
func (h *WSHandler) HandleWS(c *gin.Context) {
	workshopID := c.Param("id")

	err := h.M.HandleRequestWithKeys(c.Writer, c.Request, map[string]interface{}{
		"workshop_id": workshopID,
	})
	if err != nil {
		log.Printf("❌ Failed to upgrade websocket: %v", err)
	}
}

// BroadcastDecision pushes a client decision to the workshop's open dashboards.
func (h *WSHandler) BroadcastDecision(workshopID, orderID, reference, decision string) {
	msg, _ := json.Marshal(map[string]string{
		"type":      "decision",
		"order_id":  orderID,
		"reference": reference,
		"decision":  decision,
	})

	err := h.M.BroadcastFilter(msg, func(q *melody.Session) bool {
		id, exists := q.Get("workshop_id")
		return exists && id == workshopID
	})

	if err != nil {
		log.Printf("⚠️ Error broadcasting to workshop %s: %v", workshopID, err)
	}
}

// BroadcastOrderUpdate signals staff-side order mutations.
func (h *WSHandler) BroadcastOrderUpdate(workshopID, orderID, updateType string) {
	msg, _ := json.Marshal(map[string]string{
		"type":     updateType,
		"order_id": orderID,
	})

	err := h.M.BroadcastFilter(msg, func(q *melody.Session) bool {
		id, exists := q.Get("workshop_id")
		return exists && id == workshopID
	})

	if err != nil {
		log.Printf("⚠️ Error broadcasting to workshop %s: %v", workshopID, err)
	}
}
