package services

import (
	"context"
	"testing"
	"time"

	"github.com/oficinaplus/workshop-api/models"
	"github.com/oficinaplus/workshop-api/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOrderStore is an in-memory OrderStore keyed by (workshop, order).
type fakeOrderStore struct {
	orders map[string]*models.ServiceOrder // order id -> order
}

func newFakeOrderStore(orders ...*models.ServiceOrder) *fakeOrderStore {
	s := &fakeOrderStore{orders: make(map[string]*models.ServiceOrder)}
	for _, o := range orders {
		s.orders[o.ID] = o
	}
	return s
}

func (s *fakeOrderStore) Get(ctx context.Context, workshopID, orderID string) (*models.ServiceOrder, error) {
	order, ok := s.orders[orderID]
	if !ok || order.WorkshopID != workshopID {
		return nil, nil
	}
	copied := *order
	return &copied, nil
}

func (s *fakeOrderStore) Find(ctx context.Context, orderID string) (*models.ServiceOrder, error) {
	order, ok := s.orders[orderID]
	if !ok {
		return nil, nil
	}
	copied := *order
	return &copied, nil
}

func (s *fakeOrderStore) UpdateStatus(ctx context.Context, workshopID, orderID, from, to string) (bool, error) {
	order, ok := s.orders[orderID]
	if !ok || order.WorkshopID != workshopID || order.Status != from {
		return false, nil
	}
	order.Status = to
	return true, nil
}

type fakeNotificationStore struct {
	appended []models.Notification
}

func (s *fakeNotificationStore) Append(ctx context.Context, workshopID string, n models.Notification) error {
	n.WorkshopID = workshopID
	s.appended = append(s.appended, n)
	return nil
}

func testOrder() *models.ServiceOrder {
	return &models.ServiceOrder{
		ID:          "OS-1001",
		WorkshopID:  "T1",
		Reference:   "0042",
		ClientName:  "João",
		Plate:       "ABC-1234",
		Description: "Revisão dos 60 mil",
		Status:      models.OrderStatusAguardando,
		Items: []models.OrderItem{
			{Kind: models.ItemKindPart, Description: "Filtro", Quantity: 2, UnitPrice: 25.00},
		},
		Total:     50.00,
		CreatedAt: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestResolveSelfContained(t *testing.T) {
	// The store stays empty: a full token must never hit it.
	svc := NewShareService(newFakeOrderStore(), &fakeNotificationStore{})

	payload := svc.BuildPayload(testOrder(), true)
	require.Equal(t, models.ShareKindFull, payload.Kind)

	view, err := svc.Resolve(context.Background(), payload)
	require.NoError(t, err)

	assert.Equal(t, "OS-1001", view.OrderID)
	assert.Equal(t, "João", view.ClientName)
	assert.Equal(t, "ABC-1234", view.Plate)
	assert.Equal(t, 50.00, view.Total)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "Filtro", view.Items[0].Description)
	assert.Equal(t, 2, view.Items[0].Quantity)
}

func TestResolveReference(t *testing.T) {
	order := testOrder()
	svc := NewShareService(newFakeOrderStore(order), &fakeNotificationStore{})

	payload := svc.BuildPayload(order, false)
	require.Equal(t, models.ShareKindRef, payload.Kind)
	assert.Empty(t, payload.ClientName, "ref payload must not carry the snapshot")

	view, err := svc.Resolve(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, "João", view.ClientName)
	assert.Equal(t, "0042", view.Reference)
}

func TestResolveReferenceFallback(t *testing.T) {
	// Token minted with a stale workshop id: the scoped lookup misses and
	// the id-only scan recovers the order.
	order := testOrder()
	svc := NewShareService(newFakeOrderStore(order), &fakeNotificationStore{})

	payload := models.SharePayload{
		Version:    utils.ShareTokenVersion,
		Kind:       models.ShareKindRef,
		OrderID:    "OS-1001",
		WorkshopID: "T-old",
	}

	view, err := svc.Resolve(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, "João", view.ClientName)
}

func TestResolveReferenceNotFound(t *testing.T) {
	svc := NewShareService(newFakeOrderStore(), &fakeNotificationStore{})

	payload := models.SharePayload{
		Version:    utils.ShareTokenVersion,
		Kind:       models.ShareKindRef,
		OrderID:    "OS-9999",
		WorkshopID: "T1",
	}

	view, err := svc.Resolve(context.Background(), payload)
	assert.ErrorIs(t, err, ErrShareNotFound)
	assert.Nil(t, view)
}

func TestApplyDecisionApproved(t *testing.T) {
	order := testOrder()
	store := newFakeOrderStore(order)
	notifications := &fakeNotificationStore{}
	svc := NewShareService(store, notifications)

	changed, err := svc.ApplyDecision(context.Background(), "T1", "OS-1001", models.DecisionApproved)
	require.NoError(t, err)
	assert.True(t, changed)

	assert.Equal(t, models.OrderStatusEmExecucao, store.orders["OS-1001"].Status)

	require.Len(t, notifications.appended, 1)
	n := notifications.appended[0]
	assert.Equal(t, "T1", n.WorkshopID)
	assert.Equal(t, models.NotificationKindDecision, n.Kind)
	assert.Equal(t, "OS-1001", n.OrderID)
	assert.Contains(t, n.Message, "ABC-1234")
	assert.Contains(t, n.Message, "aprovado")
}

func TestApplyDecisionRejected(t *testing.T) {
	order := testOrder()
	store := newFakeOrderStore(order)
	notifications := &fakeNotificationStore{}
	svc := NewShareService(store, notifications)

	changed, err := svc.ApplyDecision(context.Background(), "T1", "OS-1001", models.DecisionRejected)
	require.NoError(t, err)
	assert.True(t, changed)

	assert.Equal(t, models.OrderStatusRecusado, store.orders["OS-1001"].Status)
	require.Len(t, notifications.appended, 1)
	assert.Contains(t, notifications.appended[0].Message, "recusado")
}

func TestApplyDecisionIdempotent(t *testing.T) {
	order := testOrder()
	store := newFakeOrderStore(order)
	notifications := &fakeNotificationStore{}
	svc := NewShareService(store, notifications)

	changed, err := svc.ApplyDecision(context.Background(), "T1", "OS-1001", models.DecisionApproved)
	require.NoError(t, err)
	assert.True(t, changed)

	// The repeat must succeed, change nothing and notify nobody.
	changed, err = svc.ApplyDecision(context.Background(), "T1", "OS-1001", models.DecisionApproved)
	require.NoError(t, err)
	assert.False(t, changed)

	assert.Equal(t, models.OrderStatusEmExecucao, store.orders["OS-1001"].Status)
	assert.Len(t, notifications.appended, 1)
}

func TestApplyDecisionConflictingRepeatIsNoOp(t *testing.T) {
	order := testOrder()
	store := newFakeOrderStore(order)
	notifications := &fakeNotificationStore{}
	svc := NewShareService(store, notifications)

	_, err := svc.ApplyDecision(context.Background(), "T1", "OS-1001", models.DecisionApproved)
	require.NoError(t, err)

	// A late reject against the approved order must not corrupt state.
	changed, err := svc.ApplyDecision(context.Background(), "T1", "OS-1001", models.DecisionRejected)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, models.OrderStatusEmExecucao, store.orders["OS-1001"].Status)
	assert.Len(t, notifications.appended, 1)
}

func TestApplyDecisionOrderGone(t *testing.T) {
	svc := NewShareService(newFakeOrderStore(), &fakeNotificationStore{})

	_, err := svc.ApplyDecision(context.Background(), "T1", "OS-1001", models.DecisionApproved)
	assert.ErrorIs(t, err, ErrOrderGone)
}

func TestApplyDecisionFallbackWorkshop(t *testing.T) {
	order := testOrder()
	store := newFakeOrderStore(order)
	notifications := &fakeNotificationStore{}
	svc := NewShareService(store, notifications)

	// Stale workshop id in the token: the writer recovers via Find and
	// applies the decision under the order's real workshop.
	changed, err := svc.ApplyDecision(context.Background(), "T-old", "OS-1001", models.DecisionApproved)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.OrderStatusEmExecucao, store.orders["OS-1001"].Status)
	require.Len(t, notifications.appended, 1)
	assert.Equal(t, "T1", notifications.appended[0].WorkshopID)
}

func TestApplyDecisionInvalid(t *testing.T) {
	svc := NewShareService(newFakeOrderStore(testOrder()), &fakeNotificationStore{})

	_, err := svc.ApplyDecision(context.Background(), "T1", "OS-1001", "maybe")
	assert.ErrorIs(t, err, ErrInvalidDecision)
}

// End-to-end over the codec: encode, decode, resolve, decide.
func TestShareFlowEndToEnd(t *testing.T) {
	order := testOrder()
	store := newFakeOrderStore(order)
	notifications := &fakeNotificationStore{}
	svc := NewShareService(store, notifications)

	payload := svc.BuildPayload(order, true)
	token, err := utils.EncodeShareToken(payload)
	require.NoError(t, err)

	decoded, err := utils.DecodeShareToken(token)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)

	view, err := svc.Resolve(context.Background(), decoded)
	require.NoError(t, err)
	assert.Equal(t, "João", view.ClientName)
	assert.Equal(t, 50.00, view.Total)

	changed, err := svc.ApplyDecision(context.Background(), decoded.WorkshopID, decoded.OrderID, models.DecisionApproved)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.OrderStatusEmExecucao, store.orders["OS-1001"].Status)

	require.Len(t, notifications.appended, 1)
	assert.Equal(t, "T1", notifications.appended[0].WorkshopID)
	assert.Equal(t, "OS-1001", notifications.appended[0].OrderID)
}
