package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/oficinaplus/workshop-api/models"
	"github.com/oficinaplus/workshop-api/services"
	"github.com/oficinaplus/workshop-api/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emptyOrderStore struct{}

func (emptyOrderStore) Get(ctx context.Context, workshopID, orderID string) (*models.ServiceOrder, error) {
	return nil, nil
}

func (emptyOrderStore) Find(ctx context.Context, orderID string) (*models.ServiceOrder, error) {
	return nil, nil
}

func (emptyOrderStore) UpdateStatus(ctx context.Context, workshopID, orderID, from, to string) (bool, error) {
	return false, nil
}

type noopNotificationStore struct{}

func (noopNotificationStore) Append(ctx context.Context, workshopID string, n models.Notification) error {
	return nil
}

func publicRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	share := services.NewShareService(emptyOrderStore{}, noopNotificationStore{})
	h := NewShareHandler(nil, share, nil, NewWSHandler())

	router := gin.New()
	router.GET("/public/os/:token", h.PublicGetOrder)
	router.POST("/public/os/:token/decision", h.PublicDecision)
	return router
}

func TestPublicGetOrderMalformedToken(t *testing.T) {
	router := publicRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/public/os/not-a-real-token!!", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Orçamento indisponível")
}

func TestPublicGetOrderMissingReference(t *testing.T) {
	router := publicRouter(t)

	token, err := utils.EncodeShareToken(models.SharePayload{
		Kind:       models.ShareKindRef,
		OrderID:    "OS-9999",
		WorkshopID: "T1",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/public/os/"+token, nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Orçamento indisponível")
}

func TestPublicDecisionMalformedToken(t *testing.T) {
	router := publicRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/public/os/not-a-real-token!!/decision",
		strings.NewReader(`{"decision":"approved"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublicDecisionInvalidBody(t *testing.T) {
	router := publicRouter(t)

	token, err := utils.EncodeShareToken(models.SharePayload{
		Kind:       models.ShareKindRef,
		OrderID:    "OS-1001",
		WorkshopID: "T1",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/public/os/"+token+"/decision",
		strings.NewReader(`{"decision":"maybe"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPublicDecisionOrderGone(t *testing.T) {
	router := publicRouter(t)

	token, err := utils.EncodeShareToken(models.SharePayload{
		Kind:       models.ShareKindRef,
		OrderID:    "OS-1001",
		WorkshopID: "T1",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/public/os/"+token+"/decision",
		strings.NewReader(`{"decision":"approved"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Orçamento indisponível")
}
