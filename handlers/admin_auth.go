package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/FTCService/JSJREWARD/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// StaffSignup creates a staff dashboard account
func StaffSignup(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		FullName string `json:"full_name"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "A valid email and a password of at least 8 characters are required"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create account"})
		return
	}

	var staff models.StaffUser
	hashStr := string(hash)
	staff.PasswordHash = &hashStr
	err = DB.QueryRow(`
		INSERT INTO staff_users (email, full_name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, email, full_name, role, is_active, created_at`,
		strings.ToLower(req.Email), req.FullName, hashStr,
	).Scan(&staff.ID, &staff.Email, &staff.FullName, &staff.Role, &staff.IsActive, &staff.CreatedAt)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "An account with this email already exists"})
		return
	}

	token, err := generateStaffJWT(staff.ID.String(), staff.Email, staff.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "token": token, "staff": staff})
}

// StaffLogin authenticates a staff dashboard account and issues a JWT
func StaffLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "email and password are required"})
		return
	}

	var staff models.StaffUser
	var passwordHash sql.NullString
	err := DB.QueryRow(`
		SELECT id, email, full_name, password_hash, role, is_active, created_at
		FROM staff_users
		WHERE email = $1`, strings.ToLower(req.Email),
	).Scan(&staff.ID, &staff.Email, &staff.FullName, &passwordHash, &staff.Role, &staff.IsActive, &staff.CreatedAt)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid email or password"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Database error"})
		return
	}
	if !staff.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Account is deactivated"})
		return
	}
	if !passwordHash.Valid || bcrypt.CompareHashAndPassword([]byte(passwordHash.String), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid email or password"})
		return
	}

	token, err := generateStaffJWT(staff.ID.String(), staff.Email, staff.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "staff": staff})
}

// StaffAuthMiddleware validates the staff JWT and puts the claims on the context
func StaffAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseStaffJWT(extractToken(c))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authorization token is missing or incorrect."})
			c.Abort()
			return
		}

		c.Set("staff_id", claims.StaffID)
		c.Set("staff_role", claims.Role)
		c.Next()
	}
}
