package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"workplace-access-backend/internal/auth"
	"workplace-access-backend/internal/checkin"
	"workplace-access-backend/internal/model"
	"workplace-access-backend/internal/mw"
	"workplace-access-backend/internal/store"
)

type createCheckInRequest struct {
	SubjectID         string `json:"subjectId"`
	VisitorID         string `json:"visitorId"`
	BuildingID        string `json:"buildingId"`
	Floor             string `json:"floor"`
	Block             string `json:"block"`
	LaptopModel       string `json:"laptopModel"`
	LaptopAssetNumber string `json:"laptopAssetNumber"`
	BookingID         string `json:"bookingId"`
}

// CreateCheckIn handles POST /api/v1/checkins. The response carries the
// opaque QR payload; rendering it to an image is the client's concern.
func (h *Handler) CreateCheckIn(c *gin.Context) {
	var req createCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	claims, _ := mw.ClaimsFrom(c)
	if req.SubjectID != "" {
		if !claims.CanModify(req.SubjectID) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not allowed to check in this subject"})
			return
		}
	} else if claims.Role != auth.RoleAdmin && claims.Role != auth.RoleOfficer {
		// Visitor check-ins come from kiosks operated by staff.
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not allowed to check in visitors"})
		return
	}

	ci, err := h.checkins.Create(c.Request.Context(), checkin.CreateRequest{
		UserID:            req.SubjectID,
		VisitorID:         req.VisitorID,
		BuildingID:        req.BuildingID,
		Floor:             req.Floor,
		Block:             req.Block,
		LaptopModel:       req.LaptopModel,
		LaptopAssetNumber: req.LaptopAssetNumber,
		BookingID:         req.BookingID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		"message":    "Check-in successful. Present this QR code to security.",
		"qr_payload": ci.QRPayload,
		"checkin_id": ci.ID,
	}
	if req.BookingID != "" {
		resp["booking_id"] = req.BookingID
	}
	c.JSON(http.StatusCreated, resp)
}

type checkoutRequest struct {
	CheckInID string `json:"checkinId" binding:"required"`
}

// Checkout handles POST /api/v1/checkins/checkout. Officer only.
func (h *Handler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	claims, _ := mw.ClaimsFrom(c)

	ci, err := h.checkins.Checkout(c.Request.Context(), req.CheckInID, claims.SubjectID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        "Subject checked out successfully",
		"checkin_id":     ci.ID,
		"checked_out_by": claims.SubjectID,
	})
}

// MyCheckIns handles GET /api/v1/checkins/mine.
func (h *Handler) MyCheckIns(c *gin.Context) {
	claims, _ := mw.ClaimsFrom(c)
	mine, err := h.checkins.ListMine(c.Request.Context(), claims.SubjectID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mine)
}

// ListCheckIns handles GET /api/v1/checkins. Admin/officer only.
func (h *Handler) ListCheckIns(c *gin.Context) {
	f := store.CheckInFilter{
		UserID:      c.Query("userId"),
		VisitorID:   c.Query("visitorId"),
		BuildingID:  c.Query("buildingId"),
		Floor:       c.Query("floor"),
		Block:       c.Query("block"),
		Status:      model.CheckInStatus(c.Query("status")),
		SubjectType: model.SubjectType(c.Query("subjectType")),
	}
	if v := c.Query("startDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid startDate, use RFC3339"})
			return
		}
		f.Since = &t
	}
	if v := c.Query("endDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid endDate, use RFC3339"})
			return
		}
		f.Until = &t
	}

	checkins, err := h.checkins.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, checkins)
}
