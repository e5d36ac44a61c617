package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/FTCService/JSJREWARD/models"
	"github.com/FTCService/JSJREWARD/services"

	"github.com/gin-gonic/gin"
)

// GetBusinessStores lists every business the logged-in member is enrolled
// with, along with the card design and current balance for each.
func GetBusinessStores(c *gin.Context) {
	cardNumber := memberCardNumber(c)

	rows, err := DB.Query(`
		SELECT bm.business_id,
		       cd.design_template_id, cd.logo, cd.background_color, cd.text_color, cd.created_at,
		       COALESCE(cp.current_balance, 0)
		FROM business_members bm
		LEFT JOIN LATERAL (
			SELECT design_template_id, logo, background_color, text_color, created_at
			FROM card_designs
			WHERE business_id = bm.business_id
			ORDER BY created_at DESC
			LIMIT 1
		) cd ON true
		LEFT JOIN cumulative_points cp
			ON cp.card_number = bm.card_number AND cp.business_id = bm.business_id
		WHERE bm.card_number = $1
		ORDER BY bm.issue_date DESC`, cardNumber)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load business stores"})
		return
	}
	defer rows.Close()

	var businesses []gin.H
	for rows.Next() {
		var bizID int64
		var templateID, logo, backgroundColor, textColor sql.NullString
		var createdAt sql.NullTime
		var balance int64
		if err := rows.Scan(&bizID, &templateID, &logo, &backgroundColor, &textColor, &createdAt, &balance); err != nil {
			continue
		}

		businessName := ""
		if business, err := AuthServer.GetBusinessByID(bizID); err == nil && business != nil {
			businessName = business.BusinessName
		}

		entry := gin.H{
			"business_id":        bizID,
			"business_name":      businessName,
			"design_template_id": templateID.String,
			"logo":               logo.String,
			"background_color":   backgroundColor.String,
			"text_color":         textColor.String,
			"current_balance":    balance,
			"card_number":        cardNumber,
			"full_name":          c.GetString("full_name"),
		}
		businesses = append(businesses, entry)
	}
	if businesses == nil {
		businesses = []gin.H{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Business store list retrieved successfully.",
		"businesses": businesses,
	})
}

// GetBusinessStoreDetails returns the member's ledger snapshot for one
// business with milestone progress and redemption eligibility.
func GetBusinessStoreDetails(c *gin.Context) {
	cardNumber := memberCardNumber(c)
	bizID, err := strconv.ParseInt(c.Param("biz_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "business id is required"})
		return
	}

	business, err := AuthServer.GetBusinessByID(bizID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Business directory unreachable. Try again later."})
		return
	}
	if business == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Business not found"})
		return
	}

	ledger, err := Ledger.GetLedger(c.Request.Context(), bizID, cardNumber)
	if errors.Is(err, services.ErrLedgerNotFound) {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "No cumulative points found for this member and business."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load cumulative points"})
		return
	}

	// Milestone progress off the active rule, if any
	var milestone int64
	var achievedMilestones, pointsToNext int64
	var isEligible bool
	var ruleInfo gin.H

	var rule models.RewardRule
	err = DB.QueryRow(`
		SELECT r.id, r.rule_type, r.notional_value, r.rule_value, r.milestone
		FROM business_members bm
		JOIN reward_rules r ON bm.rule_id = r.id
		WHERE bm.business_id = $1 AND bm.card_number = $2 AND bm.is_active`,
		bizID, cardNumber,
	).Scan(&rule.ID, &rule.RuleType, &rule.NotionalValue, &rule.RuleValue, &rule.Milestone)
	if err == nil {
		milestone = rule.Milestone
		if milestone > 0 {
			achievedMilestones = ledger.LifetimeEarnedPoints / milestone
			pointsToNext = milestone - (ledger.LifetimeEarnedPoints % milestone)
			isEligible = ledger.CurrentBalance >= milestone
			if ledger.CurrentBalance >= milestone {
				pointsToNext = 0
			}
		}
		ruleInfo = gin.H{
			"rule_id":        rule.ID,
			"rule_type":      rule.RuleType,
			"notional_value": rule.NotionalValue,
			"rule_value":     rule.RuleValue,
		}
	}

	var design models.CardDesign
	designFound := false
	err = DB.QueryRow(`
		SELECT id, business_id, design_template_id, logo, background_color, text_color, created_at
		FROM card_designs
		WHERE business_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, bizID,
	).Scan(&design.ID, &design.BusinessID, &design.DesignTemplateID, &design.Logo,
		&design.BackgroundColor, &design.TextColor, &design.CreatedAt)
	if err == nil {
		designFound = true
	}

	response := gin.H{
		"business_id":              bizID,
		"business_name":            business.BusinessName,
		"card_number":              cardNumber,
		"full_name":                c.GetString("full_name"),
		"lifetime_earned_points":   ledger.LifetimeEarnedPoints,
		"lifetime_redeemed_points": ledger.LifetimeRedeemedPoints,
		"current_balance":          ledger.CurrentBalance,
		"total_purchase_amount":    ledger.TotalPurchaseAmount,
		"milestone_value":          milestone,
		"achieved_milestones":      achievedMilestones,
		"points_to_next_milestone": pointsToNext,
		"is_eligible":              isEligible,
		"reward_info":              ruleInfo,
	}
	if designFound {
		response["card_design"] = design
	}

	c.JSON(http.StatusOK, response)
}

// GetMemberTransactions returns the logged-in member's transaction history for
// one business plus the cumulative points summary.
func GetMemberTransactions(c *gin.Context) {
	cardNumber := memberCardNumber(c)
	bizID, err := strconv.ParseInt(c.Param("biz_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "business id is required"})
		return
	}

	typeFilter := c.Query("transaction_type")

	transactions, err := Ledger.ListTransactions(c.Request.Context(), bizID, cardNumber, typeFilter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load transactions"})
		return
	}

	ledger, err := Ledger.GetLedger(c.Request.Context(), bizID, cardNumber)
	if err != nil && !errors.Is(err, services.ErrLedgerNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load cumulative points"})
		return
	}

	if len(transactions) == 0 && ledger == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "No transactions or cumulative points found for this business."})
		return
	}
	if transactions == nil {
		transactions = []models.CardTransaction{}
	}

	response := gin.H{"success": true, "transactions": transactions}
	if ledger != nil {
		response["cumulative_points"] = ledger
	}
	c.JSON(http.StatusOK, response)
}

// GetMemberTransaction returns one transaction of the logged-in member
func GetMemberTransaction(c *gin.Context) {
	cardNumber := memberCardNumber(c)
	bizID, err := strconv.ParseInt(c.Param("biz_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "business id is required"})
		return
	}
	transactionID, err := strconv.ParseInt(c.Param("transaction_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "transaction id is required"})
		return
	}

	txn, err := Ledger.GetTransaction(c.Request.Context(), bizID, transactionID)
	if err == sql.ErrNoRows || (txn != nil && txn.CardNumber != cardNumber) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Transaction not found."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": txn})
}

// ScanBusinessQR files a join request after a member scans a business QR code
func ScanBusinessQR(c *gin.Context) {
	cardNumber := memberCardNumber(c)

	var req struct {
		BusinessID int64 `json:"business_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "business_id is required"})
		return
	}

	member, err := AuthServer.GetMemberByCard(cardNumber)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Member directory unreachable. Try again later."})
		return
	}
	if member == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Member does not exist."})
		return
	}

	var request models.JoinRequest
	err = DB.QueryRow(`
		INSERT INTO join_requests (business_id, card_number, full_name, mobile_number)
		VALUES ($1, $2, $3, $4)
		RETURNING id, business_id, card_number, full_name, mobile_number, status, created_at`,
		req.BusinessID, cardNumber, member.FullName, member.MobileNumber,
	).Scan(&request.ID, &request.BusinessID, &request.CardNumber, &request.FullName,
		&request.MobileNumber, &request.Status, &request.CreatedAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create join request"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Request sent to business.",
		"data":    request,
	})
}

// CheckMemberActiveForBusiness lets a member check their own enrollment status
// with a business.
func CheckMemberActiveForBusiness(c *gin.Context) {
	cardNumber := memberCardNumber(c)
	bizID, err := strconv.ParseInt(c.Query("business_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "business id is required"})
		return
	}

	var member models.BusinessMember
	err = DB.QueryRow(`
		SELECT id, business_id, card_number, rule_id, is_active, issue_date, validity_end
		FROM business_members
		WHERE business_id = $1 AND card_number = $2
		ORDER BY is_active DESC, issue_date DESC
		LIMIT 1`, bizID, cardNumber,
	).Scan(&member.ID, &member.BusinessID, &member.CardNumber, &member.RuleID,
		&member.IsActive, &member.IssueDate, &member.ValidityEnd)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "No active member found for this business.", "is_active": false})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to check membership"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Member found.", "data": member})
}
