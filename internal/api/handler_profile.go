package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"workplace-access-backend/internal/auth"
	"workplace-access-backend/internal/mw"
)

// UpdateProfile handles PUT /api/v1/profile. Only the allow-listed fields
// are settable; identity, credentials and role are not, regardless of
// claims.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var upd auth.ProfileUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	claims, _ := mw.ClaimsFrom(c)

	user, err := h.store.GetUser(c.Request.Context(), claims.SubjectID)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if err := auth.ApplyProfileUpdate(claims, user, upd); err != nil {
		respondError(c, err)
		return
	}
	if err := h.store.SaveUser(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
