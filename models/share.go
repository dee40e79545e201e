package models

import "time"

// Token payload variants. A full token carries the whole O.S. snapshot
// and needs no lookup; a ref token carries identifiers only.
const (
	ShareKindFull = "f"
	ShareKindRef  = "r"
)

const (
	DecisionPending  = "pending"
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
)

// SharePayload is the structure serialized into the public link token.
// Keys are kept short to keep the URL compact. Version is bumped when
// the shape changes so old links can still be decoded safely.
type SharePayload struct {
	Version     int          `json:"v"`
	Kind        string       `json:"k"`
	OrderID     string       `json:"id"`
	WorkshopID  string       `json:"w"`
	ClientName  string       `json:"cn,omitempty"`
	Vehicle     string       `json:"vd,omitempty"`
	Plate       string       `json:"pl,omitempty"`
	Description string       `json:"ds,omitempty"`
	Items       []ShareItem  `json:"it,omitempty"`
	Total       float64      `json:"tt,omitempty"`
	Photos      []SharePhoto `json:"ph,omitempty"`
	CreatedAt   string       `json:"ca,omitempty"`
}

type ShareItem struct {
	Kind        string  `json:"k"`
	Description string  `json:"d"`
	Quantity    int     `json:"q"`
	UnitPrice   float64 `json:"p"`
}

type SharePhoto struct {
	URL         string `json:"u"`
	Observation string `json:"o,omitempty"`
}

// ShareLink is the persisted row behind a shared O.S. token.
type ShareLink struct {
	ID         string     `json:"id"`
	WorkshopID string     `json:"workshop_id"`
	OrderID    string     `json:"order_id"`
	Token      string     `json:"token"`
	Variant    string     `json:"variant"`
	Decision   string     `json:"decision"`
	DecidedAt  *time.Time `json:"decided_at,omitempty"`
	ExpiresAt  time.Time  `json:"expires_at"`
	CreatedBy  string     `json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
}

type CreateShareRequest struct {
	Variant     string `json:"variant" binding:"omitempty,oneof=full ref"`
	ClientEmail string `json:"client_email" binding:"omitempty,email"`
}

type DecisionRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approved rejected"`
}

// PublicOrderView is what the anonymous recipient sees.
type PublicOrderView struct {
	OrderID     string       `json:"order_id"`
	Reference   string       `json:"reference,omitempty"`
	ClientName  string       `json:"client_name"`
	Vehicle     string       `json:"vehicle,omitempty"`
	Plate       string       `json:"plate,omitempty"`
	Description string       `json:"description,omitempty"`
	Items       []ShareItem  `json:"items"`
	Total       float64      `json:"total"`
	Photos      []SharePhoto `json:"photos,omitempty"`
	CreatedAt   string       `json:"created_at,omitempty"`
}
