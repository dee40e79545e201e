package models

import "time"

type Client struct {
	ID         string    `json:"id"`
	WorkshopID string    `json:"workshop_id"`
	Name       string    `json:"name" binding:"required"`
	Phone      string    `json:"phone,omitempty"`
	Email      string    `json:"email,omitempty"`
	// CPF/CNPJ, stored AES-GCM encrypted, decrypted on read.
	Document string    `json:"document,omitempty"`
	Vehicles []Vehicle `json:"vehicles,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Vehicle struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	Plate     string    `json:"plate" binding:"required"`
	Make      string    `json:"make,omitempty"`
	Model     string    `json:"model,omitempty"`
	Year      int       `json:"year,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateClientRequest struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty" binding:"omitempty,email"`
	Document string `json:"document"`
}

type CreateVehicleRequest struct {
	Plate string `json:"plate" binding:"required"`
	Make  string `json:"make"`
	Model string `json:"model"`
	Year  int    `json:"year"`
}
