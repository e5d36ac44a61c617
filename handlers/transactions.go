package handlers

import (
	"errors"
	"net/http"

	"github.com/FTCService/JSJREWARD/models"
	"github.com/FTCService/JSJREWARD/services"

	"github.com/gin-gonic/gin"
)

// RecordTransaction records a purchase (earn) or a redemption against a card.
// The points delta and the transaction row are applied atomically by the
// ledger service.
func RecordTransaction(c *gin.Context) {
	bizID := businessID(c)

	var req struct {
		CardNumber      string  `json:"card_number" binding:"required"`
		PurchaseAmount  float64 `json:"purchase_amount"`
		TransactionType string  `json:"transaction_type"`
		Points          int64   `json:"points"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "card_number is required"})
		return
	}
	if req.PurchaseAmount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "purchase_amount must not be negative"})
		return
	}
	if req.Points < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "points must not be negative"})
		return
	}
	if req.TransactionType == "" {
		req.TransactionType = models.TransactionTypeEarned
	}

	primaryCard, err := resolvePrimaryCard(req.CardNumber, bizID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Card resolution service unreachable. Try again later."})
		return
	}

	switch req.TransactionType {
	case models.TransactionTypeEarned:
		result, err := Ledger.RecordEarn(c.Request.Context(), bizID, primaryCard, req.PurchaseAmount)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to record transaction"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"success":           true,
			"message":           "Transaction recorded successfully.",
			"transaction":       result.Transaction,
			"cumulative_points": result.Ledger,
		})

	case models.TransactionTypeRedeemed:
		redeem(c, bizID, primaryCard, req.Points)

	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid transaction_type. Expected Points_Earned or Points_Redeemed."})
	}
}

// RedeemPoints is the standalone "redeem now" endpoint. It shares the
// milestone resolution and balance check with the transaction endpoint.
func RedeemPoints(c *gin.Context) {
	bizID := businessID(c)

	var req struct {
		CardNumber string `json:"card_number" binding:"required"`
		Points     int64  `json:"points"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "card_number is required"})
		return
	}
	if req.Points < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "points must not be negative"})
		return
	}

	primaryCard, err := resolvePrimaryCard(req.CardNumber, bizID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Card resolution service unreachable. Try again later."})
		return
	}

	redeem(c, bizID, primaryCard, req.Points)
}

func redeem(c *gin.Context, bizID int64, primaryCard string, suppliedPoints int64) {
	result, err := Ledger.Redeem(c.Request.Context(), bizID, primaryCard, suppliedPoints)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoActiveRule):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "No active reward rule found for this member."})
		case errors.Is(err, services.ErrInsufficientPoints):
			// An expected business outcome, not a fault
			c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": "Insufficient points for redemption."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to redeem points"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":           true,
		"message":           "Points redeemed successfully.",
		"transaction":       result.Transaction,
		"cumulative_points": result.Ledger,
	})
}

// GetCardTransactions returns a card's transaction history and cumulative
// points under the logged-in business.
func GetCardTransactions(c *gin.Context) {
	bizID := businessID(c)
	cardNumber := c.Param("card_number")
	typeFilter := c.Query("transaction_type")

	primaryCard, err := resolvePrimaryCard(cardNumber, bizID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Card resolution service unreachable. Try again later."})
		return
	}

	transactions, err := Ledger.ListTransactions(c.Request.Context(), bizID, primaryCard, typeFilter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load transactions"})
		return
	}
	if transactions == nil {
		transactions = []models.CardTransaction{}
	}

	response := gin.H{"success": true, "transactions": transactions}

	ledger, err := Ledger.GetLedger(c.Request.Context(), bizID, primaryCard)
	if err == nil {
		response["cumulative_points"] = ledger
	} else if !errors.Is(err, services.ErrLedgerNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load cumulative points"})
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetCardLedger returns the cumulative points snapshot for a card
func GetCardLedger(c *gin.Context) {
	bizID := businessID(c)
	cardNumber := c.Param("card_number")

	primaryCard, err := resolvePrimaryCard(cardNumber, bizID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Card resolution service unreachable. Try again later."})
		return
	}

	ledger, err := Ledger.GetLedger(c.Request.Context(), bizID, primaryCard)
	if errors.Is(err, services.ErrLedgerNotFound) {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "No cumulative points found for this member and business."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load cumulative points"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "cumulative_points": ledger})
}
