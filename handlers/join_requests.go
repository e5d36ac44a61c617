package handlers

import (
	"database/sql"
	"net/http"

	"github.com/FTCService/JSJREWARD/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetJoinRequests lists join requests for the logged-in business, optionally
// filtered by status.
func GetJoinRequests(c *gin.Context) {
	bizID := businessID(c)
	status := c.DefaultQuery("status", models.JoinRequestPending)

	rows, err := DB.Query(`
		SELECT id, business_id, card_number, full_name, mobile_number, status, created_at
		FROM join_requests
		WHERE business_id = $1 AND status = $2
		ORDER BY created_at DESC`, bizID, status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load join requests"})
		return
	}
	defer rows.Close()

	var requests []models.JoinRequest
	for rows.Next() {
		var request models.JoinRequest
		if err := rows.Scan(&request.ID, &request.BusinessID, &request.CardNumber, &request.FullName,
			&request.MobileNumber, &request.Status, &request.CreatedAt); err != nil {
			continue
		}
		requests = append(requests, request)
	}
	if requests == nil {
		requests = []models.JoinRequest{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": requests})
}

// DecideJoinRequest approves or rejects a pending join request. Approval
// enrolls the card under the chosen rule (the business default when none is
// given).
func DecideJoinRequest(c *gin.Context) {
	bizID := businessID(c)
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid join request id"})
		return
	}

	var req struct {
		Approve bool   `json:"approve"`
		RuleID  *int64 `json:"rule_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request format"})
		return
	}

	var request models.JoinRequest
	err = DB.QueryRow(`
		SELECT id, business_id, card_number, full_name, mobile_number, status, created_at
		FROM join_requests
		WHERE id = $1 AND business_id = $2`, requestID, bizID,
	).Scan(&request.ID, &request.BusinessID, &request.CardNumber, &request.FullName,
		&request.MobileNumber, &request.Status, &request.CreatedAt)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Join request not found."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load join request"})
		return
	}
	if request.Status != models.JoinRequestPending {
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Join request has already been decided."})
		return
	}

	if !req.Approve {
		if _, err := DB.Exec(`UPDATE join_requests SET status = $1 WHERE id = $2`,
			models.JoinRequestRejected, requestID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update join request"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Join request rejected."})
		return
	}

	ruleID := int64(0)
	if req.RuleID != nil {
		ruleID = *req.RuleID
	} else {
		err = DB.QueryRow(`SELECT id FROM reward_rules WHERE business_id = $1 AND is_default`, bizID).Scan(&ruleID)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No default reward rule configured. Provide a rule_id."})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load default rule"})
			return
		}
	}

	primaryCard, err := resolvePrimaryCard(request.CardNumber, bizID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Card resolution service unreachable. Try again later."})
		return
	}

	// Enrollment and the status flip commit together, so a failure can never
	// leave an enrolled member behind a still-pending request.
	tx, err := DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update join request"})
		return
	}
	defer tx.Rollback()

	member, status, errMsg := enrollMember(tx, bizID, primaryCard, ruleID)
	if errMsg != "" {
		c.JSON(status, gin.H{"success": false, "error": errMsg})
		return
	}

	if _, err := tx.Exec(`UPDATE join_requests SET status = $1 WHERE id = $2`,
		models.JoinRequestApproved, requestID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update join request"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update join request"})
		return
	}

	if Notifier != nil {
		Notifier.MemberEnrolled(primaryCard, bizID)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Join request approved and member enrolled.", "data": member})
}
