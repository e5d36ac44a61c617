package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/FTCService/JSJREWARD/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SubmitSurvey stores a public feedback survey response. The first submission
// with both a phone number and an email gets a coupon code; repeat submissions
// from the same phone are stored without one.
func SubmitSurvey(c *gin.Context) {
	var req struct {
		Name      string          `json:"name"`
		Email     string          `json:"email"`
		Phone     string          `json:"phone"`
		Questions json.RawMessage `json:"questions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request format"})
		return
	}
	if len(req.Questions) == 0 {
		req.Questions = json.RawMessage("{}")
	}

	var alreadySubmitted bool
	if req.Phone != "" && req.Email != "" {
		if err := DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM survey_submissions WHERE phone = $1)`,
			req.Phone).Scan(&alreadySubmitted); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to submit survey"})
			return
		}
	}

	var couponCode *string
	message := "Thank you for submitting the survey."
	switch {
	case alreadySubmitted:
		message = "Thank you for re-taking the survey."
	case req.Phone != "" && req.Email != "":
		code := "COUPON-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
		couponCode = &code
		message = "Check your email for coupons. Your code: " + code
	}

	var submission models.SurveySubmission
	err := DB.QueryRow(`
		INSERT INTO survey_submissions (name, email, phone, coupon_code, questions)
		VALUES (NULLIF($1, ''), NULLIF($2, ''), NULLIF($3, ''), $4, $5)
		RETURNING id, name, email, phone, coupon_code, questions, created_at`,
		req.Name, req.Email, req.Phone, couponCode, string(req.Questions),
	).Scan(&submission.ID, &submission.Name, &submission.Email, &submission.Phone,
		&submission.CouponCode, &submission.Questions, &submission.CreatedAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to submit survey"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": message, "data": submission})
}
