package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/FTCService/JSJREWARD/models"
	"github.com/FTCService/JSJREWARD/services"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
)

// resolvePrimaryCard maps a scanned/secondary card number to its primary card
// for the business. If the resolver reports no association, the raw input is
// treated as already-primary so direct lookups still work.
func resolvePrimaryCard(cardNumber string, bizID int64) (string, error) {
	resolution, err := AuthServer.GetPrimaryCard(cardNumber, bizID)
	if err != nil {
		return "", err
	}
	if resolution.Success && resolution.PrimaryCardNumber != "" {
		return resolution.PrimaryCardNumber, nil
	}
	return cardNumber, nil
}

// rowQuerier is satisfied by *database.DB and *sql.Tx, so enrollment can run
// standalone or inside a caller's transaction.
type rowQuerier interface {
	QueryRow(query string, args ...interface{}) *sql.Row
}

// enrollMember creates an active membership for a resolved card under a rule.
// Shared by the enroll endpoint, join-request approval and the bulk upload.
// Callers fire the enrollment notification themselves once their work is
// committed.
func enrollMember(q rowQuerier, bizID int64, primaryCard string, ruleID int64) (*models.BusinessMember, int, string) {
	var validityYears int
	err := q.QueryRow(`SELECT validity_years FROM reward_rules WHERE id = $1 AND business_id = $2`,
		ruleID, bizID).Scan(&validityYears)
	if err == sql.ErrNoRows {
		return nil, http.StatusNotFound, "Reward Rule not found."
	}
	if err != nil {
		return nil, http.StatusInternalServerError, "Failed to enroll member"
	}

	validityEnd := time.Now().Add(time.Duration(validityYears) * 365 * 24 * time.Hour)

	var member models.BusinessMember
	err = q.QueryRow(`
		INSERT INTO business_members (business_id, card_number, rule_id, is_active, validity_end)
		VALUES ($1, $2, $3, TRUE, $4)
		RETURNING id, business_id, card_number, rule_id, is_active, issue_date, validity_end`,
		bizID, primaryCard, ruleID, validityEnd,
	).Scan(&member.ID, &member.BusinessID, &member.CardNumber, &member.RuleID,
		&member.IsActive, &member.IssueDate, &member.ValidityEnd)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, http.StatusConflict, "An active membership already exists for this card."
		}
		return nil, http.StatusInternalServerError, "Failed to enroll member"
	}

	return &member, http.StatusCreated, ""
}

// EnrollMember enrolls a card under the logged-in business against a rule
func EnrollMember(c *gin.Context) {
	bizID := businessID(c)

	var req struct {
		CardNumber string `json:"card_number" binding:"required"`
		RuleID     int64  `json:"rule_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "card_number and rule_id are required"})
		return
	}

	primaryCard, err := resolvePrimaryCard(req.CardNumber, bizID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Card resolution service unreachable. Try again later."})
		return
	}

	member, status, errMsg := enrollMember(DB, bizID, primaryCard, req.RuleID)
	if errMsg != "" {
		c.JSON(status, gin.H{"success": false, "error": errMsg})
		return
	}

	if Notifier != nil {
		Notifier.MemberEnrolled(primaryCard, bizID)
	}

	c.JSON(status, gin.H{"success": true, "message": "Member enrolled successfully.", "data": member})
}

// CheckMemberActive reports whether a card is actively enrolled under the
// logged-in business. A card active under some other business is reported
// distinctly from an unregistered card.
func CheckMemberActive(c *gin.Context) {
	cardNumber := c.Query("card_number")
	if cardNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "card_number is required"})
		return
	}
	checkMemberActive(c, businessID(c), cardNumber)
}

func checkMemberActive(c *gin.Context, bizID int64, cardNumber string) {
	primaryCard, err := resolvePrimaryCard(cardNumber, bizID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Card resolution service unreachable. Try again later."})
		return
	}

	var member models.BusinessMember
	err = DB.QueryRow(`
		SELECT id, business_id, card_number, rule_id, is_active, issue_date, validity_end
		FROM business_members
		WHERE business_id = $1 AND card_number = $2 AND is_active`,
		bizID, primaryCard,
	).Scan(&member.ID, &member.BusinessID, &member.CardNumber, &member.RuleID,
		&member.IsActive, &member.IssueDate, &member.ValidityEnd)
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Member found.", "data": member})
		return
	}
	if err != sql.ErrNoRows {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to check membership"})
		return
	}

	var otherBizID int64
	err = DB.QueryRow(`
		SELECT business_id FROM business_members
		WHERE card_number = $1 AND is_active AND business_id != $2
		LIMIT 1`, primaryCard, bizID).Scan(&otherBizID)
	if err == nil {
		c.JSON(http.StatusOK, gin.H{
			"success":                   false,
			"message":                   "Card belongs to another business.",
			"belongs_to_other_business": true,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": false, "message": "No active member found for this business.", "is_active": false})
}

// CheckMemberActiveByMobile resolves a mobile number through the member
// directory, then runs the same active check.
func CheckMemberActiveByMobile(c *gin.Context) {
	mobileNumber := c.Query("mobile_number")
	if mobileNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "mobile_number is required"})
		return
	}

	member, err := AuthServer.GetMemberByMobile(mobileNumber)
	if err != nil {
		if errors.Is(err, services.ErrAuthServerUnreachable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Member directory unreachable. Try again later."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to look up member"})
		return
	}
	if member == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Member does not exist."})
		return
	}

	checkMemberActive(c, businessID(c), member.CardNumber)
}

// GetMemberByCard returns the directory profile behind a card plus the
// membership of the logged-in business, if any.
func GetMemberByCard(c *gin.Context) {
	bizID := businessID(c)
	cardNumber := c.Param("card_number")

	details, err := AuthServer.GetMemberByCard(cardNumber)
	if err != nil {
		if errors.Is(err, services.ErrAuthServerUnreachable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Member directory unreachable. Try again later."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to look up member"})
		return
	}
	if details == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Member does not exist."})
		return
	}

	response := gin.H{"success": true, "data": details}

	var member models.BusinessMember
	err = DB.QueryRow(`
		SELECT id, business_id, card_number, rule_id, is_active, issue_date, validity_end
		FROM business_members
		WHERE business_id = $1 AND card_number = $2
		ORDER BY is_active DESC, issue_date DESC
		LIMIT 1`, bizID, cardNumber,
	).Scan(&member.ID, &member.BusinessID, &member.CardNumber, &member.RuleID,
		&member.IsActive, &member.IssueDate, &member.ValidityEnd)
	if err == nil {
		response["membership"] = member
	}

	c.JSON(http.StatusOK, response)
}

// UpdateMemberStatus activates/deactivates a membership or reassigns its rule.
// Reactivation re-checks the one-active-membership-per-card invariant.
func UpdateMemberStatus(c *gin.Context) {
	bizID := businessID(c)
	memberID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid member id"})
		return
	}

	var req struct {
		IsActive *bool  `json:"is_active"`
		RuleID   *int64 `json:"rule_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request format"})
		return
	}
	if req.IsActive == nil && req.RuleID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Nothing to update"})
		return
	}

	if req.RuleID != nil {
		var exists bool
		if err := DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM reward_rules WHERE id = $1 AND business_id = $2)`,
			*req.RuleID, bizID).Scan(&exists); err != nil || !exists {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Reward Rule not found."})
			return
		}
	}

	var member models.BusinessMember
	err = DB.QueryRow(`
		UPDATE business_members
		SET is_active = COALESCE($1, is_active),
		    rule_id = COALESCE($2, rule_id)
		WHERE id = $3 AND business_id = $4
		RETURNING id, business_id, card_number, rule_id, is_active, issue_date, validity_end`,
		req.IsActive, req.RuleID, memberID, bizID,
	).Scan(&member.ID, &member.BusinessID, &member.CardNumber, &member.RuleID,
		&member.IsActive, &member.IssueDate, &member.ValidityEnd)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Member not found."})
		return
	}
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Another active membership already exists for this card."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Member updated successfully.", "data": member})
}

// GetBusinessMembers lists all memberships of a business (staff dashboard)
func GetBusinessMembers(c *gin.Context) {
	bizID, err := strconv.ParseInt(c.Param("business_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid business id"})
		return
	}

	rows, err := DB.Query(`
		SELECT id, business_id, card_number, rule_id, is_active, issue_date, validity_end
		FROM business_members
		WHERE business_id = $1
		ORDER BY issue_date DESC`, bizID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load members"})
		return
	}
	defer rows.Close()

	var members []models.BusinessMember
	for rows.Next() {
		var member models.BusinessMember
		if err := rows.Scan(&member.ID, &member.BusinessID, &member.CardNumber, &member.RuleID,
			&member.IsActive, &member.IssueDate, &member.ValidityEnd); err != nil {
			continue
		}
		members = append(members, member)
	}
	if members == nil {
		members = []models.BusinessMember{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": members})
}
