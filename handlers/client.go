package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oficinaplus/workshop-api/middleware"
	"github.com/oficinaplus/workshop-api/models"
	"github.com/oficinaplus/workshop-api/utils"
)

type ClientHandler struct {
	DB *sql.DB
}

func (h *ClientHandler) CreateClient(c *gin.Context) {
	userID := middleware.GetUserID(c)
	workshopID := c.Param("id")

	if !isMember(h.DB, workshopID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	var req models.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var documentEnc interface{}
	if req.Document != "" {
		enc, err := utils.EncryptDocument(req.Document)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store document"})
			return
		}
		documentEnc = enc
	}

	var clientID string
	err := h.DB.QueryRow(`
		INSERT INTO clients (workshop_id, name, phone, email, document_enc)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, workshopID, req.Name, req.Phone, req.Email, documentEnc).Scan(&clientID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create client"})
		return
	}

	utils.SafeLogf("👤 Client created: %s in workshop %s", req.Name, workshopID)

	c.JSON(http.StatusCreated, gin.H{"id": clientID})
}

func (h *ClientHandler) GetClients(c *gin.Context) {
	userID := middleware.GetUserID(c)
	workshopID := c.Param("id")

	if !isMember(h.DB, workshopID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	search := c.Query("search")

	query := `
		SELECT id, workshop_id, name, COALESCE(phone, ''), COALESCE(email, ''), created_at, updated_at
		FROM clients
		WHERE workshop_id = $1
	`
	args := []interface{}{workshopID}
	if search != "" {
		query += " AND name ILIKE $2"
		args = append(args, "%"+search+"%")
	}
	query += " ORDER BY name"

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch clients"})
		return
	}
	defer rows.Close()

	clients := []models.Client{}
	for rows.Next() {
		var client models.Client
		if err := rows.Scan(&client.ID, &client.WorkshopID, &client.Name, &client.Phone,
			&client.Email, &client.CreatedAt, &client.UpdatedAt); err != nil {
			continue
		}
		clients = append(clients, client)
	}

	c.JSON(http.StatusOK, clients)
}

func (h *ClientHandler) GetClient(c *gin.Context) {
	userID := middleware.GetUserID(c)
	workshopID := c.Param("id")
	clientID := c.Param("client_id")

	if !isMember(h.DB, workshopID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	var client models.Client
	var documentEnc sql.NullString
	err := h.DB.QueryRow(`
		SELECT id, workshop_id, name, COALESCE(phone, ''), COALESCE(email, ''), document_enc, created_at, updated_at
		FROM clients
		WHERE id = $1 AND workshop_id = $2
	`, clientID, workshopID).Scan(&client.ID, &client.WorkshopID, &client.Name, &client.Phone,
		&client.Email, &documentEnc, &client.CreatedAt, &client.UpdatedAt)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if documentEnc.Valid && documentEnc.String != "" {
		if doc, err := utils.DecryptDocument(documentEnc.String); err == nil {
			client.Document = doc
		}
	}

	vehicleRows, err := h.DB.Query(`
		SELECT id, client_id, plate, COALESCE(make, ''), COALESCE(model, ''), COALESCE(year, 0), created_at
		FROM vehicles
		WHERE client_id = $1
		ORDER BY created_at
	`, clientID)
	if err == nil {
		defer vehicleRows.Close()
		for vehicleRows.Next() {
			var v models.Vehicle
			if err := vehicleRows.Scan(&v.ID, &v.ClientID, &v.Plate, &v.Make, &v.Model, &v.Year, &v.CreatedAt); err != nil {
				continue
			}
			client.Vehicles = append(client.Vehicles, v)
		}
	}

	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) UpdateClient(c *gin.Context) {
	userID := middleware.GetUserID(c)
	workshopID := c.Param("id")
	clientID := c.Param("client_id")

	if !isMember(h.DB, workshopID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	var req models.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var documentEnc interface{}
	if req.Document != "" {
		enc, err := utils.EncryptDocument(req.Document)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store document"})
			return
		}
		documentEnc = enc
	}

	result, err := h.DB.Exec(`
		UPDATE clients
		SET name = $1, phone = $2, email = $3,
		    document_enc = COALESCE($4, document_enc),
		    updated_at = NOW()
		WHERE id = $5 AND workshop_id = $6
	`, req.Name, req.Phone, req.Email, documentEnc, clientID, workshopID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update client"})
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Client updated"})
}

func (h *ClientHandler) DeleteClient(c *gin.Context) {
	userID := middleware.GetUserID(c)
	workshopID := c.Param("id")
	clientID := c.Param("client_id")

	if !isMember(h.DB, workshopID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	result, err := h.DB.Exec(`
		DELETE FROM clients WHERE id = $1 AND workshop_id = $2
	`, clientID, workshopID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete client"})
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Client deleted"})
}

func (h *ClientHandler) AddVehicle(c *gin.Context) {
	userID := middleware.GetUserID(c)
	workshopID := c.Param("id")
	clientID := c.Param("client_id")

	if !isMember(h.DB, workshopID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	var belongs bool
	err := h.DB.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM clients WHERE id = $1 AND workshop_id = $2)
	`, clientID, workshopID).Scan(&belongs)
	if err != nil || !belongs {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}

	var req models.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var vehicleID string
	err = h.DB.QueryRow(`
		INSERT INTO vehicles (client_id, plate, make, model, year)
		VALUES ($1, $2, $3, $4, NULLIF($5, 0))
		RETURNING id
	`, clientID, req.Plate, req.Make, req.Model, req.Year).Scan(&vehicleID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add vehicle"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": vehicleID})
}
