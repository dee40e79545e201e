package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/oficinaplus/workshop-api/models"
	"github.com/oficinaplus/workshop-api/utils"

	"github.com/google/uuid"
)

// OrderService is the Postgres-backed order store. It satisfies the
// OrderStore contract consumed by the share flow.
type OrderService struct {
	db *sql.DB
}

func NewOrderService(db *sql.DB) *OrderService {
	return &OrderService{db: db}
}

// Create inserts the O.S. with its items and photos in one transaction.
// The total is recomputed server-side from the line items.
func (s *OrderService) Create(ctx context.Context, workshopID, userID string, req models.CreateOrderRequest) (*models.ServiceOrder, error) {
	order := &models.ServiceOrder{
		ID:          uuid.New().String(),
		WorkshopID:  workshopID,
		ClientID:    req.ClientID,
		VehicleID:   req.VehicleID,
		Reference:   req.Reference,
		Description: req.Description,
		Status:      models.OrderStatusOrcamento,
		Items:       req.Items,
		Photos:      req.Photos,
		CreatedBy:   userID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	for _, item := range order.Items {
		order.Total += item.Subtotal()
	}

	err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		query := `
			INSERT INTO service_orders (id, workshop_id, client_id, vehicle_id, reference, description, status, total, created_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`
		var vehicleID interface{}
		if order.VehicleID != "" {
			vehicleID = order.VehicleID
		}
		if _, err := tx.ExecContext(ctx, query, order.ID, order.WorkshopID, order.ClientID, vehicleID,
			order.Reference, order.Description, order.Status, order.Total, order.CreatedBy, order.CreatedAt, order.UpdatedAt); err != nil {
			return err
		}

		for i, item := range order.Items {
			itemQuery := `
				INSERT INTO order_items (id, order_id, kind, description, quantity, unit_price, position)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`
			if _, err := tx.ExecContext(ctx, itemQuery, uuid.New().String(), order.ID,
				item.Kind, item.Description, item.Quantity, item.UnitPrice, i); err != nil {
				return err
			}
		}

		for i, photo := range order.Photos {
			photoQuery := `
				INSERT INTO order_photos (id, order_id, url, observation, position)
				VALUES ($1, $2, $3, $4, $5)
			`
			if _, err := tx.ExecContext(ctx, photoQuery, uuid.New().String(), order.ID,
				photo.URL, photo.Observation, i); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return order, nil
}

// Get loads an O.S. scoped to its workshop, with items, photos and the
// client/vehicle display fields. Returns (nil, nil) when absent.
func (s *OrderService) Get(ctx context.Context, workshopID, orderID string) (*models.ServiceOrder, error) {
	query := `
		SELECT o.id, o.workshop_id, COALESCE(o.client_id::text, ''), COALESCE(o.vehicle_id::text, ''),
		       o.reference, COALESCE(o.description, ''), o.status, o.total,
		       COALESCE(o.created_by::text, ''), o.created_at, o.updated_at,
		       COALESCE(c.name, ''), COALESCE(v.plate, '')
		FROM service_orders o
		LEFT JOIN clients c ON o.client_id = c.id
		LEFT JOIN vehicles v ON o.vehicle_id = v.id
		WHERE o.id = $1 AND o.workshop_id = $2
	`

	var order models.ServiceOrder
	err := s.db.QueryRowContext(ctx, query, orderID, workshopID).Scan(
		&order.ID, &order.WorkshopID, &order.ClientID, &order.VehicleID,
		&order.Reference, &order.Description, &order.Status, &order.Total,
		&order.CreatedBy, &order.CreatedAt, &order.UpdatedAt,
		&order.ClientName, &order.Plate,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadItems(ctx, &order); err != nil {
		return nil, err
	}

	return &order, nil
}

// Find locates an O.S. by id alone, scanning across workshops. Kept as a
// fallback for share links minted without a workshop scope.
func (s *OrderService) Find(ctx context.Context, orderID string) (*models.ServiceOrder, error) {
	var workshopID string
	err := s.db.QueryRowContext(ctx,
		`SELECT workshop_id FROM service_orders WHERE id = $1`, orderID).Scan(&workshopID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, workshopID, orderID)
}

func (s *OrderService) loadItems(ctx context.Context, order *models.ServiceOrder) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, description, quantity, unit_price
		FROM order_items WHERE order_id = $1 ORDER BY position
	`, order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.Kind, &item.Description, &item.Quantity, &item.UnitPrice); err != nil {
			return err
		}
		order.Items = append(order.Items, item)
	}

	photoRows, err := s.db.QueryContext(ctx, `
		SELECT id, url, COALESCE(observation, '')
		FROM order_photos WHERE order_id = $1 ORDER BY position
	`, order.ID)
	if err != nil {
		return err
	}
	defer photoRows.Close()

	for photoRows.Next() {
		var photo models.OrderPhoto
		if err := photoRows.Scan(&photo.ID, &photo.URL, &photo.Observation); err != nil {
			return err
		}
		order.Photos = append(order.Photos, photo)
	}

	return nil
}

// List returns the workshop's orders with the list-screen filters applied.
func (s *OrderService) List(ctx context.Context, workshopID string, filter models.OrderFilter) ([]models.ServiceOrder, error) {
	query := `
		SELECT o.id, o.workshop_id, COALESCE(o.client_id::text, ''), o.reference,
		       COALESCE(o.description, ''), o.status, o.total, o.created_at, o.updated_at,
		       COALESCE(c.name, ''), COALESCE(v.plate, '')
		FROM service_orders o
		LEFT JOIN clients c ON o.client_id = c.id
		LEFT JOIN vehicles v ON o.vehicle_id = v.id
		WHERE o.workshop_id = $1
	`
	args := []interface{}{workshopID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND o.status = $%d", len(args))
	}
	if filter.Client != "" {
		args = append(args, "%"+filter.Client+"%")
		query += fmt.Sprintf(" AND c.name ILIKE $%d", len(args))
	}
	if filter.Plate != "" {
		args = append(args, "%"+filter.Plate+"%")
		query += fmt.Sprintf(" AND v.plate ILIKE $%d", len(args))
	}

	if filter.Sort == "oldest" {
		query += " ORDER BY o.created_at ASC"
	} else {
		query += " ORDER BY o.created_at DESC"
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.ServiceOrder{}
	for rows.Next() {
		var order models.ServiceOrder
		if err := rows.Scan(&order.ID, &order.WorkshopID, &order.ClientID, &order.Reference,
			&order.Description, &order.Status, &order.Total, &order.CreatedAt, &order.UpdatedAt,
			&order.ClientName, &order.Plate); err != nil {
			continue
		}
		orders = append(orders, order)
	}

	return orders, nil
}

// UpdateStatus moves the O.S. from one status to another. The guard on
// the current status makes decision writes idempotent.
func (s *OrderService) UpdateStatus(ctx context.Context, workshopID, orderID, from, to string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE service_orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND workshop_id = $3 AND status = $4
	`, to, orderID, workshopID, from)
	if err != nil {
		return false, err
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0, nil
}

// SetStatus force-sets a status from the staff UI, without a guard.
func (s *OrderService) SetStatus(ctx context.Context, workshopID, orderID, status string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE service_orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND workshop_id = $3
	`, status, orderID, workshopID)
	if err != nil {
		return false, err
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0, nil
}

func (s *OrderService) Delete(ctx context.Context, workshopID, orderID string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM service_orders WHERE id = $1 AND workshop_id = $2
	`, orderID, workshopID)
	if err != nil {
		return false, err
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0, nil
}

// LogActivity records an audit row for order mutations.
func (s *OrderService) LogActivity(ctx context.Context, workshopID, userID, action, orderID, details string) {
	var uid interface{}
	if userID != "" {
		uid = userID
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activity_logs (workshop_id, user_id, action, order_id, details)
		VALUES ($1, $2, $3, $4, $5)
	`, workshopID, uid, action, orderID, details)
	if err != nil {
		utils.SafeErrorf("Failed to write activity log (%s): %v", action, err)
	}
}

// ListActivity returns the audit trail with filters applied.
func (s *OrderService) ListActivity(ctx context.Context, workshopID string, filter models.LogFilter) ([]models.ActivityLog, error) {
	query := `
		SELECT id, workshop_id, COALESCE(user_id::text, ''), action,
		       COALESCE(order_id::text, ''), COALESCE(details, ''), created_at
		FROM activity_logs
		WHERE workshop_id = $1
	`
	args := []interface{}{workshopID}

	if filter.Action != "" {
		args = append(args, filter.Action)
		query += fmt.Sprintf(" AND action = $%d", len(args))
	}
	if filter.OrderID != "" {
		args = append(args, filter.OrderID)
		query += fmt.Sprintf(" AND order_id = $%d", len(args))
	}

	if filter.Sort == "oldest" {
		query += " ORDER BY created_at ASC"
	} else {
		query += " ORDER BY created_at DESC"
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.ActivityLog{}
	for rows.Next() {
		var entry models.ActivityLog
		if err := rows.Scan(&entry.ID, &entry.WorkshopID, &entry.UserID, &entry.Action,
			&entry.OrderID, &entry.Details, &entry.CreatedAt); err != nil {
			continue
		}
		logs = append(logs, entry)
	}

	return logs, nil
}
