package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/oficinaplus/workshop-api/middleware"
	"github.com/oficinaplus/workshop-api/models"
	"github.com/oficinaplus/workshop-api/utils"
)

type WorkshopHandler struct {
	DB *sql.DB
}

// isMember reports whether the user belongs to the workshop.
func isMember(db *sql.DB, workshopID, userID string) bool {
	var exists bool
	err := db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM workshop_members
			WHERE workshop_id = $1 AND user_id = $2
		)
	`, workshopID, userID).Scan(&exists)
	return err == nil && exists
}

func (h *WorkshopHandler) CreateWorkshop(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateWorkshopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	workshop := models.Workshop{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Phone:     req.Phone,
		Address:   req.Address,
		OwnerID:   userID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	err := utils.WithTransaction(h.DB, func(tx *sql.Tx) error {
		query := `
			INSERT INTO workshops (id, name, phone, address, owner_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		if _, err := tx.Exec(query, workshop.ID, workshop.Name, workshop.Phone, workshop.Address,
			workshop.OwnerID, workshop.CreatedAt, workshop.UpdatedAt); err != nil {
			return err
		}

		memberQuery := `
			INSERT INTO workshop_members (id, workshop_id, user_id, role, joined_at)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := tx.Exec(memberQuery, uuid.New().String(), workshop.ID, userID, "owner", time.Now()); err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create workshop"})
		return
	}

	c.JSON(http.StatusCreated, workshop)
}

func (h *WorkshopHandler) GetWorkshops(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := h.DB.Query(`
		SELECT w.id, w.name, COALESCE(w.phone, ''), COALESCE(w.address, ''), w.owner_id,
		       w.created_at, w.updated_at,
		       CASE WHEN w.owner_id = $1 THEN true ELSE false END as is_owner
		FROM workshops w
		INNER JOIN workshop_members wm ON w.id = wm.workshop_id
		WHERE wm.user_id = $1
		ORDER BY w.created_at DESC
	`, userID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch workshops"})
		return
	}
	defer rows.Close()

	workshops := []models.Workshop{}
	for rows.Next() {
		var w models.Workshop
		if err := rows.Scan(&w.ID, &w.Name, &w.Phone, &w.Address, &w.OwnerID,
			&w.CreatedAt, &w.UpdatedAt, &w.IsOwner); err != nil {
			continue
		}
		workshops = append(workshops, w)
	}

	c.JSON(http.StatusOK, workshops)
}

func (h *WorkshopHandler) GetWorkshop(c *gin.Context) {
	userID := middleware.GetUserID(c)
	workshopID := c.Param("id")

	if !isMember(h.DB, workshopID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	var w models.Workshop
	err := h.DB.QueryRow(`
		SELECT w.id, w.name, COALESCE(w.phone, ''), COALESCE(w.address, ''), w.owner_id,
		       w.created_at, w.updated_at,
		       CASE WHEN w.owner_id = $2 THEN true ELSE false END as is_owner,
		       u.name as owner_name
		FROM workshops w
		LEFT JOIN users u ON w.owner_id = u.id
		WHERE w.id = $1
	`, workshopID, userID).Scan(&w.ID, &w.Name, &w.Phone, &w.Address, &w.OwnerID,
		&w.CreatedAt, &w.UpdatedAt, &w.IsOwner, &w.OwnerName)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Workshop not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	memberRows, err := h.DB.Query(`
		SELECT wm.id, wm.workshop_id, wm.user_id, wm.role, wm.joined_at, u.name, u.email
		FROM workshop_members wm
		INNER JOIN users u ON wm.user_id = u.id
		WHERE wm.workshop_id = $1
		ORDER BY wm.joined_at
	`, workshopID)
	if err == nil {
		defer memberRows.Close()
		for memberRows.Next() {
			var m models.WorkshopMember
			if err := memberRows.Scan(&m.ID, &m.WorkshopID, &m.UserID, &m.Role, &m.JoinedAt,
				&m.UserName, &m.UserEmail); err != nil {
				continue
			}
			w.Members = append(w.Members, m)
		}
	}

	c.JSON(http.StatusOK, w)
}

// InviteMember sends a team invitation to join the workshop.
func (h *WorkshopHandler) InviteMember(c *gin.Context) {
	userID := middleware.GetUserID(c)
	workshopID := c.Param("id")

	if !isMember(h.DB, workshopID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	var req models.InvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var alreadyMember bool
	err := h.DB.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM workshop_members wm
			INNER JOIN users u ON wm.user_id = u.id
			WHERE wm.workshop_id = $1 AND u.email = $2
		)
	`, workshopID, req.Email).Scan(&alreadyMember)

	if err == nil && alreadyMember {
		c.JSON(http.StatusConflict, gin.H{"error": "User is already a member"})
		return
	}

	var pendingInvitation bool
	err = h.DB.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM invitations
			WHERE workshop_id = $1 AND email = $2 AND status = 'pending' AND expires_at > NOW()
		)
	`, workshopID, req.Email).Scan(&pendingInvitation)

	if err == nil && pendingInvitation {
		c.JSON(http.StatusConflict, gin.H{"error": "Invitation already sent"})
		return
	}

	token := uuid.New().String()

	var invitationID string
	expiresAt := time.Now().Add(7 * 24 * time.Hour)
	err = h.DB.QueryRow(`
		INSERT INTO invitations (workshop_id, email, invited_by, token, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, workshopID, req.Email, userID, token, expiresAt).Scan(&invitationID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invitation"})
		return
	}

	var workshopName, inviterName string
	err = h.DB.QueryRow(`
		SELECT w.name, u.name
		FROM workshops w, users u
		WHERE w.id = $1 AND u.id = $2
	`, workshopID, userID).Scan(&workshopName, &inviterName)

	if err != nil {
		inviterName = "A user"
		workshopName = "a workshop"
	}

	err = utils.SendInvitationEmail(req.Email, inviterName, workshopName, token)
	if err != nil {
		c.JSON(http.StatusCreated, gin.H{
			"id":      invitationID,
			"token":   token,
			"message": "Invitation created but email failed to send",
			"warning": "Please share the invitation link manually",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      invitationID,
		"message": "Invitation sent successfully",
	})
}

func (h *WorkshopHandler) GetInvitations(c *gin.Context) {
	userID := middleware.GetUserID(c)
	workshopID := c.Param("id")

	if !isMember(h.DB, workshopID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	rows, err := h.DB.Query(`
		SELECT i.id, i.workshop_id, i.email, i.invited_by, i.status, i.expires_at, i.created_at
		FROM invitations i
		WHERE i.workshop_id = $1
		ORDER BY i.created_at DESC
	`, workshopID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invitations"})
		return
	}
	defer rows.Close()

	invitations := []models.Invitation{}
	for rows.Next() {
		var inv models.Invitation
		if err := rows.Scan(&inv.ID, &inv.WorkshopID, &inv.Email, &inv.InvitedBy,
			&inv.Status, &inv.ExpiresAt, &inv.CreatedAt); err != nil {
			continue
		}
		invitations = append(invitations, inv)
	}

	c.JSON(http.StatusOK, invitations)
}

func (h *WorkshopHandler) AcceptInvitation(c *gin.Context) {
	userID := middleware.GetUserID(c)
	userEmail := middleware.GetUserEmail(c)

	var req models.AcceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var inv models.Invitation
	err := h.DB.QueryRow(`
		SELECT id, workshop_id, email, status, expires_at
		FROM invitations
		WHERE token = $1
	`, req.Token).Scan(&inv.ID, &inv.WorkshopID, &inv.Email, &inv.Status, &inv.ExpiresAt)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invitation not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invitation"})
		return
	}

	if inv.Status != "pending" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invitation already " + inv.Status})
		return
	}

	if time.Now().After(inv.ExpiresAt) {
		h.DB.Exec(`UPDATE invitations SET status = 'expired' WHERE id = $1`, inv.ID)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invitation has expired"})
		return
	}

	if userEmail != inv.Email {
		c.JSON(http.StatusForbidden, gin.H{"error": "This invitation is for a different email address"})
		return
	}

	if isMember(h.DB, inv.WorkshopID, userID) {
		c.JSON(http.StatusConflict, gin.H{"error": "You are already a member"})
		return
	}

	_, err = h.DB.Exec(`
		INSERT INTO workshop_members (workshop_id, user_id, role)
		VALUES ($1, $2, 'member')
	`, inv.WorkshopID, userID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add member"})
		return
	}

	_, err = h.DB.Exec(`UPDATE invitations SET status = 'accepted' WHERE id = $1`, inv.ID)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"message":     "Invitation accepted successfully",
			"workshop_id": inv.WorkshopID,
			"warning":     "Failed to update invitation status",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Invitation accepted successfully",
		"workshop_id": inv.WorkshopID,
	})
}

func (h *WorkshopHandler) CancelInvitation(c *gin.Context) {
	userID := middleware.GetUserID(c)
	workshopID := c.Param("id")
	invitationID := c.Param("invitation_id")

	if !isMember(h.DB, workshopID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	result, err := h.DB.Exec(`
		DELETE FROM invitations
		WHERE id = $1 AND workshop_id = $2 AND status = 'pending'
	`, invitationID, workshopID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel invitation"})
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invitation not found or already processed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invitation cancelled successfully"})
}

func (h *WorkshopHandler) RemoveMember(c *gin.Context) {
	userID := middleware.GetUserID(c)
	workshopID := c.Param("id")
	memberID := c.Param("member_id")

	var isOwner bool
	err := h.DB.QueryRow(`
		SELECT owner_id = $1 FROM workshops WHERE id = $2
	`, userID, workshopID).Scan(&isOwner)

	if err != nil || !isOwner {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only owner can remove members"})
		return
	}

	if memberID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Owner cannot be removed"})
		return
	}

	result, err := h.DB.Exec(`
		DELETE FROM workshop_members
		WHERE workshop_id = $1 AND user_id = $2
	`, workshopID, memberID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove member"})
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed successfully"})
}
