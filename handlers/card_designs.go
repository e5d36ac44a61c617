package handlers

import (
	"database/sql"
	"net/http"

	"github.com/FTCService/JSJREWARD/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetCardDesign returns the current card design of the logged-in business
func GetCardDesign(c *gin.Context) {
	bizID := businessID(c)

	var design models.CardDesign
	err := DB.QueryRow(`
		SELECT id, business_id, design_template_id, logo, background_color, text_color, created_at
		FROM card_designs
		WHERE business_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, bizID,
	).Scan(&design.ID, &design.BusinessID, &design.DesignTemplateID, &design.Logo,
		&design.BackgroundColor, &design.TextColor, &design.CreatedAt)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "No card design found."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load card design"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": design})
}

// CreateCardDesign stores a new card design for the logged-in business
func CreateCardDesign(c *gin.Context) {
	bizID := businessID(c)

	var req struct {
		DesignTemplateID *string `json:"design_template_id"`
		Logo             *string `json:"logo"`
		BackgroundColor  string  `json:"background_color"`
		TextColor        string  `json:"text_color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request format"})
		return
	}
	if req.BackgroundColor == "" {
		req.BackgroundColor = "#FFFFFF"
	}
	if req.TextColor == "" {
		req.TextColor = "#000000"
	}

	var design models.CardDesign
	err := DB.QueryRow(`
		INSERT INTO card_designs (business_id, design_template_id, logo, background_color, text_color)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, business_id, design_template_id, logo, background_color, text_color, created_at`,
		bizID, req.DesignTemplateID, req.Logo, req.BackgroundColor, req.TextColor,
	).Scan(&design.ID, &design.BusinessID, &design.DesignTemplateID, &design.Logo,
		&design.BackgroundColor, &design.TextColor, &design.CreatedAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create card design"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Card design created successfully.", "data": design})
}

// UpdateCardDesign updates an existing card design of the logged-in business
func UpdateCardDesign(c *gin.Context) {
	bizID := businessID(c)
	designID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid card design id"})
		return
	}

	var req struct {
		DesignTemplateID *string `json:"design_template_id"`
		Logo             *string `json:"logo"`
		BackgroundColor  *string `json:"background_color"`
		TextColor        *string `json:"text_color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request format"})
		return
	}

	var design models.CardDesign
	err = DB.QueryRow(`
		UPDATE card_designs
		SET design_template_id = COALESCE($1, design_template_id),
		    logo = COALESCE($2, logo),
		    background_color = COALESCE($3, background_color),
		    text_color = COALESCE($4, text_color)
		WHERE id = $5 AND business_id = $6
		RETURNING id, business_id, design_template_id, logo, background_color, text_color, created_at`,
		req.DesignTemplateID, req.Logo, req.BackgroundColor, req.TextColor, designID, bizID,
	).Scan(&design.ID, &design.BusinessID, &design.DesignTemplateID, &design.Logo,
		&design.BackgroundColor, &design.TextColor, &design.CreatedAt)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Card design not found."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update card design"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Card design updated successfully.", "data": design})
}
