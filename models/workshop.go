package models

import "time"

type Workshop struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" binding:"required"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	OwnerID   string    `json:"owner_id"`
	IsOwner   bool      `json:"is_owner"`
	OwnerName string    `json:"owner_name,omitempty"`
	Members   []WorkshopMember `json:"members,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type WorkshopMember struct {
	ID         string    `json:"id"`
	WorkshopID string    `json:"workshop_id"`
	UserID     string    `json:"user_id"`
	Role       string    `json:"role"`
	UserName   string    `json:"user_name"`
	UserEmail  string    `json:"user_email"`
	JoinedAt   time.Time `json:"joined_at"`
}

type Invitation struct {
	ID         string    `json:"id"`
	WorkshopID string    `json:"workshop_id"`
	Email      string    `json:"email"`
	InvitedBy  string    `json:"invited_by"`
	Token      string    `json:"token"`
	Status     string    `json:"status"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateWorkshopRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type InvitationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type AcceptInvitationRequest struct {
	Token string `json:"token" binding:"required"`
}
