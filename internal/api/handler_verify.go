package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"workplace-access-backend/internal/mw"
)

type verifyQRRequest struct {
	CheckInID string `json:"checkinId" binding:"required"`
	OfficerID string `json:"officerId"`
}

// VerifyQR handles POST /api/v1/verify-qr. Officer only. The body may name
// the scanning officer explicitly (kiosk flows); it defaults to the
// authenticated officer.
func (h *Handler) VerifyQR(c *gin.Context) {
	var req verifyQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	claims, _ := mw.ClaimsFrom(c)
	officerID := req.OfficerID
	if officerID == "" {
		officerID = claims.SubjectID
	}

	ci, err := h.checkins.Verify(c.Request.Context(), req.CheckInID, officerID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		"message":     "QR code is valid and subject is now checked in",
		"checkin_id":  ci.ID,
		"verified_by": officerID,
	}
	if ci.UserID != nil {
		resp["user_id"] = *ci.UserID
	}
	if ci.VisitorID != nil {
		resp["visitor_id"] = *ci.VisitorID
	}
	c.JSON(http.StatusOK, resp)
}

// CheckInStatus handles GET /api/v1/verify-qr/status/:checkin_id. Public
// read-only projection.
func (h *Handler) CheckInStatus(c *gin.Context) {
	snapshot, err := h.checkins.GetStatus(c.Request.Context(), c.Param("checkin_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
