package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"workplace-access-backend/internal/auth"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates an employee or admin account and issues an access
// token carrying the closed role claim.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.store.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil || !user.IsActive || !auth.VerifySecret(user.PasswordHash, req.Password) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	role := auth.RoleSubject
	if user.Role == "admin" {
		role = auth.RoleAdmin
	}
	token, err := auth.NewAccessToken(h.authCfg.Secret, user.ID, role, h.authCfg.AccessTTLMinutes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": token.Token,
		"expires_at":   token.Exp,
		"role":         role,
	})
}

type officerLoginRequest struct {
	BadgeNumber string `json:"badgeNumber" binding:"required"`
	PIN         string `json:"pin" binding:"required"`
}

// OfficerLogin authenticates a security officer by badge number and PIN.
func (h *Handler) OfficerLogin(c *gin.Context) {
	var req officerLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	officer, err := h.store.GetOfficerByBadge(c.Request.Context(), req.BadgeNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	if officer == nil || !officer.IsActive || !auth.VerifySecret(officer.PINHash, req.PIN) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid badge number or pin"})
		return
	}

	token, err := auth.NewAccessToken(h.authCfg.Secret, officer.ID, auth.RoleOfficer, h.authCfg.AccessTTLMinutes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": token.Token,
		"expires_at":   token.Exp,
		"role":         auth.RoleOfficer,
	})
}
