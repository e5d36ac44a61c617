package handlers

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/FTCService/JSJREWARD/models"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
)

// GetRewardRules returns all reward rules of the logged-in business
func GetRewardRules(c *gin.Context) {
	bizID := businessID(c)

	rows, err := DB.Query(`
		SELECT id, business_id, rule_type, notional_value, rule_value, validity_years,
		       milestone, is_default, sequence_in_business, created_at, updated_at
		FROM reward_rules
		WHERE business_id = $1
		ORDER BY sequence_in_business`, bizID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load reward rules"})
		return
	}
	defer rows.Close()

	var rules []models.RewardRule
	for rows.Next() {
		var rule models.RewardRule
		if err := rows.Scan(&rule.ID, &rule.BusinessID, &rule.RuleType, &rule.NotionalValue,
			&rule.RuleValue, &rule.ValidityYears, &rule.Milestone, &rule.IsDefault,
			&rule.SequenceInBusiness, &rule.CreatedAt, &rule.UpdatedAt); err != nil {
			continue
		}
		rules = append(rules, rule)
	}
	if rules == nil {
		rules = []models.RewardRule{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": rules})
}

// CreateRewardRule creates a new reward rule for the logged-in business.
// The business's first rule becomes its default.
func CreateRewardRule(c *gin.Context) {
	bizID := businessID(c)

	var req struct {
		RuleType      string   `json:"rule_type" binding:"required"`
		NotionalValue float64  `json:"notional_value"`
		RuleValue     *float64 `json:"rule_value"`
		ValidityYears int      `json:"validity_years" binding:"required"`
		Milestone     int64    `json:"milestone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request format"})
		return
	}

	if !models.ValidRuleType(req.RuleType) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid rule_type. Expected percentage, purchase_value_to_points or flat."})
		return
	}
	if req.ValidityYears < 1 || req.ValidityYears > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Validity period must be between 1 and 100 years."})
		return
	}
	if req.Milestone < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Milestone must not be negative."})
		return
	}
	if req.NotionalValue < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Notional value must not be negative."})
		return
	}
	ruleValue := 1.0
	if req.RuleValue != nil {
		ruleValue = *req.RuleValue
	}
	if ruleValue < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Rule value must not be negative."})
		return
	}

	tx, err := DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create reward rule"})
		return
	}
	defer tx.Rollback()

	var existingCount int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM reward_rules WHERE business_id = $1`, bizID).Scan(&existingCount); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create reward rule"})
		return
	}

	var rule models.RewardRule
	err = tx.QueryRow(`
		INSERT INTO reward_rules (business_id, rule_type, notional_value, rule_value, validity_years,
		                          milestone, is_default, sequence_in_business)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, business_id, rule_type, notional_value, rule_value, validity_years,
		          milestone, is_default, sequence_in_business, created_at, updated_at`,
		bizID, req.RuleType, req.NotionalValue, ruleValue, req.ValidityYears,
		req.Milestone, existingCount == 0, existingCount+1,
	).Scan(&rule.ID, &rule.BusinessID, &rule.RuleType, &rule.NotionalValue, &rule.RuleValue,
		&rule.ValidityYears, &rule.Milestone, &rule.IsDefault, &rule.SequenceInBusiness,
		&rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error":   "A reward rule with type '" + req.RuleType + "' already exists. Please select another type.",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create reward rule"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create reward rule"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Business Reward Rule created successfully.",
		"data":    rule,
	})
}

// SetDefaultRewardRule makes one rule the business default. The clear and the
// set run in one transaction so no sibling is ever observed as default
// mid-operation.
func SetDefaultRewardRule(c *gin.Context) {
	bizID := businessID(c)
	ruleID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid rule id"})
		return
	}

	tx, err := DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to set default rule"})
		return
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM reward_rules WHERE id = $1 AND business_id = $2)`,
		ruleID, bizID).Scan(&exists); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to set default rule"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Reward Rule not found."})
		return
	}

	if _, err := tx.Exec(`UPDATE reward_rules SET is_default = FALSE, updated_at = now() WHERE business_id = $1 AND is_default`, bizID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to set default rule"})
		return
	}
	if _, err := tx.Exec(`UPDATE reward_rules SET is_default = TRUE, updated_at = now() WHERE id = $1`, ruleID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to set default rule"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to set default rule"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Default reward rule updated successfully."})
}

// GetRewardRule returns one rule of the logged-in business
func GetRewardRule(c *gin.Context) {
	bizID := businessID(c)
	ruleID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid rule id"})
		return
	}

	var rule models.RewardRule
	err = DB.QueryRow(`
		SELECT id, business_id, rule_type, notional_value, rule_value, validity_years,
		       milestone, is_default, sequence_in_business, created_at, updated_at
		FROM reward_rules
		WHERE id = $1 AND business_id = $2`, ruleID, bizID,
	).Scan(&rule.ID, &rule.BusinessID, &rule.RuleType, &rule.NotionalValue, &rule.RuleValue,
		&rule.ValidityYears, &rule.Milestone, &rule.IsDefault, &rule.SequenceInBusiness,
		&rule.CreatedAt, &rule.UpdatedAt)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Reward Rule not found."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load reward rule"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": rule})
}

// UpdateRewardRule updates the tunable fields of a rule
func UpdateRewardRule(c *gin.Context) {
	bizID := businessID(c)
	ruleID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid rule id"})
		return
	}

	var req struct {
		NotionalValue *float64 `json:"notional_value"`
		RuleValue     *float64 `json:"rule_value"`
		ValidityYears *int     `json:"validity_years"`
		Milestone     *int64   `json:"milestone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request format"})
		return
	}
	if req.ValidityYears != nil && (*req.ValidityYears < 1 || *req.ValidityYears > 100) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Validity period must be between 1 and 100 years."})
		return
	}
	if req.Milestone != nil && *req.Milestone < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Milestone must not be negative."})
		return
	}
	if req.NotionalValue != nil && *req.NotionalValue < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Notional value must not be negative."})
		return
	}
	if req.RuleValue != nil && *req.RuleValue < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Rule value must not be negative."})
		return
	}

	var rule models.RewardRule
	err = DB.QueryRow(`
		UPDATE reward_rules
		SET notional_value = COALESCE($1, notional_value),
		    rule_value = COALESCE($2, rule_value),
		    validity_years = COALESCE($3, validity_years),
		    milestone = COALESCE($4, milestone),
		    updated_at = now()
		WHERE id = $5 AND business_id = $6
		RETURNING id, business_id, rule_type, notional_value, rule_value, validity_years,
		          milestone, is_default, sequence_in_business, created_at, updated_at`,
		req.NotionalValue, req.RuleValue, req.ValidityYears, req.Milestone, ruleID, bizID,
	).Scan(&rule.ID, &rule.BusinessID, &rule.RuleType, &rule.NotionalValue, &rule.RuleValue,
		&rule.ValidityYears, &rule.Milestone, &rule.IsDefault, &rule.SequenceInBusiness,
		&rule.CreatedAt, &rule.UpdatedAt)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Reward Rule not found."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update reward rule"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Reward Rule updated successfully.", "data": rule})
}

// DeleteRewardRule removes a rule. Memberships under the rule go with it via
// the ON DELETE CASCADE foreign key.
func DeleteRewardRule(c *gin.Context) {
	bizID := businessID(c)
	ruleID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid rule id"})
		return
	}

	result, err := DB.Exec(`DELETE FROM reward_rules WHERE id = $1 AND business_id = $2`, ruleID, bizID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to delete reward rule"})
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Reward Rule not found."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Reward Rule deleted successfully."})
}
