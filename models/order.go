package models

import "time"

// Service order lifecycle. Approval moves the O.S. from
// aguardando_aprovacao straight into execution.
const (
	OrderStatusOrcamento  = "orcamento"
	OrderStatusAguardando = "aguardando_aprovacao"
	OrderStatusEmExecucao = "em_execucao"
	OrderStatusRecusado   = "recusado"
	OrderStatusConcluido  = "concluido"
	OrderStatusEntregue   = "entregue"
)

const (
	ItemKindPart  = "part"
	ItemKindLabor = "labor"
)

type ServiceOrder struct {
	ID          string       `json:"id"`
	WorkshopID  string       `json:"workshop_id"`
	ClientID    string       `json:"client_id,omitempty"`
	VehicleID   string       `json:"vehicle_id,omitempty"`
	Reference   string       `json:"reference"`
	Description string       `json:"description,omitempty"`
	Status      string       `json:"status"`
	Total       float64      `json:"total"`
	Items       []OrderItem  `json:"items,omitempty"`
	Photos      []OrderPhoto `json:"photos,omitempty"`
	ClientName  string       `json:"client_name,omitempty"`
	Plate       string       `json:"plate,omitempty"`
	CreatedBy   string       `json:"created_by,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type OrderItem struct {
	ID          string  `json:"id,omitempty"`
	Kind        string  `json:"kind" binding:"required,oneof=part labor"`
	Description string  `json:"description" binding:"required"`
	Quantity    int     `json:"quantity" binding:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price" binding:"gte=0"`
}

func (i OrderItem) Subtotal() float64 {
	return float64(i.Quantity) * i.UnitPrice
}

type OrderPhoto struct {
	ID          string `json:"id,omitempty"`
	URL         string `json:"url" binding:"required"`
	Observation string `json:"observation,omitempty"`
}

type CreateOrderRequest struct {
	ClientID    string       `json:"client_id" binding:"required"`
	VehicleID   string       `json:"vehicle_id"`
	Reference   string       `json:"reference" binding:"required"`
	Description string       `json:"description"`
	Items       []OrderItem  `json:"items" binding:"dive"`
	Photos      []OrderPhoto `json:"photos" binding:"dive"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderFilter carries the list-screen query params.
type OrderFilter struct {
	Status string `form:"status"`
	Client string `form:"client"`
	Plate  string `form:"plate"`
	Sort   string `form:"sort"`
}
