package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/oficinaplus/workshop-api/models"
	"github.com/oficinaplus/workshop-api/utils"
)

var (
	// ErrShareNotFound is returned when a reference token cannot be
	// hydrated because the O.S. is gone from the store.
	ErrShareNotFound = errors.New("shared order not found")
	// ErrOrderGone is the write-time counterpart: the order resolved for
	// reading but no longer exists when the decision lands.
	ErrOrderGone = errors.New("service order no longer exists")

	ErrInvalidDecision = errors.New("invalid decision")
)

// OrderStore is the slice of the persistence layer the share flow needs.
// Get is workshop-scoped; Find scans by order id alone and exists as a
// compatibility fallback for links minted before workshop scoping.
type OrderStore interface {
	Get(ctx context.Context, workshopID, orderID string) (*models.ServiceOrder, error)
	Find(ctx context.Context, orderID string) (*models.ServiceOrder, error)
	// UpdateStatus applies from -> to and reports whether a row changed.
	UpdateStatus(ctx context.Context, workshopID, orderID, from, to string) (bool, error)
}

// NotificationStore receives the decision notice for the workshop staff.
type NotificationStore interface {
	Append(ctx context.Context, workshopID string, n models.Notification) error
}

type ShareService struct {
	orders        OrderStore
	notifications NotificationStore
}

func NewShareService(orders OrderStore, notifications NotificationStore) *ShareService {
	return &ShareService{orders: orders, notifications: notifications}
}

// BuildPayload projects an O.S. into the token payload. The full variant
// snapshots everything the recipient needs to see; the ref variant
// carries identifiers only and relies on Resolve to hydrate.
func (s *ShareService) BuildPayload(order *models.ServiceOrder, full bool) models.SharePayload {
	payload := models.SharePayload{
		Version:    utils.ShareTokenVersion,
		Kind:       models.ShareKindRef,
		OrderID:    order.ID,
		WorkshopID: order.WorkshopID,
	}

	if !full {
		return payload
	}

	payload.Kind = models.ShareKindFull
	payload.ClientName = order.ClientName
	payload.Plate = order.Plate
	payload.Description = order.Description
	payload.Total = order.Total
	payload.CreatedAt = order.CreatedAt.Format("02/01/2006")

	for _, item := range order.Items {
		payload.Items = append(payload.Items, models.ShareItem{
			Kind:        item.Kind,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	for _, photo := range order.Photos {
		payload.Photos = append(payload.Photos, models.SharePhoto{
			URL:         photo.URL,
			Observation: photo.Observation,
		})
	}

	return payload
}

// Resolve hydrates a decoded token into the public view. Self-contained
// tokens never touch the store; reference tokens go through the
// workshop-scoped lookup first and fall back to the id-only scan.
// Resolve is read-only.
func (s *ShareService) Resolve(ctx context.Context, payload models.SharePayload) (*models.PublicOrderView, error) {
	if payload.Kind == models.ShareKindFull {
		return &models.PublicOrderView{
			OrderID:     payload.OrderID,
			ClientName:  payload.ClientName,
			Vehicle:     payload.Vehicle,
			Plate:       payload.Plate,
			Description: payload.Description,
			Items:       payload.Items,
			Total:       payload.Total,
			Photos:      payload.Photos,
			CreatedAt:   payload.CreatedAt,
		}, nil
	}

	order, err := s.orders.Get(ctx, payload.WorkshopID, payload.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		order, err = s.orders.Find(ctx, payload.OrderID)
		if err != nil {
			return nil, fmt.Errorf("failed to load order: %w", err)
		}
	}
	if order == nil {
		return nil, ErrShareNotFound
	}

	view := &models.PublicOrderView{
		OrderID:     order.ID,
		Reference:   order.Reference,
		ClientName:  order.ClientName,
		Plate:       order.Plate,
		Description: order.Description,
		Total:       order.Total,
		CreatedAt:   order.CreatedAt.Format("02/01/2006"),
	}
	for _, item := range order.Items {
		view.Items = append(view.Items, models.ShareItem{
			Kind:        item.Kind,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	for _, photo := range order.Photos {
		view.Photos = append(view.Photos, models.SharePhoto{
			URL:         photo.URL,
			Observation: photo.Observation,
		})
	}

	return view, nil
}

// ApplyDecision writes the recipient's decision back onto the O.S.
// Approval moves the order into execution, rejection marks it refused.
// The transition only fires from aguardando_aprovacao: a repeat
// submission against a decided order is a success no-op and does not
// notify the workshop a second time. Returns whether the status changed.
func (s *ShareService) ApplyDecision(ctx context.Context, workshopID, orderID, decision string) (bool, error) {
	var target string
	switch decision {
	case models.DecisionApproved:
		target = models.OrderStatusEmExecucao
	case models.DecisionRejected:
		target = models.OrderStatusRecusado
	default:
		return false, ErrInvalidDecision
	}

	order, err := s.orders.Get(ctx, workshopID, orderID)
	if err != nil {
		return false, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		order, err = s.orders.Find(ctx, orderID)
		if err != nil {
			return false, fmt.Errorf("failed to load order: %w", err)
		}
	}
	if order == nil {
		return false, ErrOrderGone
	}

	changed, err := s.orders.UpdateStatus(ctx, order.WorkshopID, orderID, models.OrderStatusAguardando, target)
	if err != nil {
		return false, fmt.Errorf("failed to update order status: %w", err)
	}
	if !changed {
		// Already decided (or moved on). Idempotent from the client's side.
		return false, nil
	}

	reference := order.Plate
	if reference == "" {
		reference = order.Reference
	}

	var message string
	if decision == models.DecisionApproved {
		message = fmt.Sprintf("Orçamento %s aprovado pelo cliente", reference)
	} else {
		message = fmt.Sprintf("Orçamento %s recusado pelo cliente", reference)
	}

	// Fire-and-forget: a lost notification must not fail the decision.
	if err := s.notifications.Append(ctx, order.WorkshopID, models.Notification{
		Kind:    models.NotificationKindDecision,
		Message: message,
		OrderID: orderID,
	}); err != nil {
		utils.SafeErrorf("Failed to append decision notification for order %s: %v", orderID, err)
	}

	return true, nil
}
