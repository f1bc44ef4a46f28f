package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"workplace-access-backend/internal/auth"
	"workplace-access-backend/internal/booking"
	"workplace-access-backend/internal/model"
	"workplace-access-backend/internal/mw"
	"workplace-access-backend/internal/store"
)

type bookingRequest struct {
	SubjectID  string `json:"subjectId" binding:"required"`
	BuildingID string `json:"buildingId" binding:"required"`
	Floor      string `json:"floor"`
	SpaceKind  string `json:"spaceKind" binding:"required"`
	Date       string `json:"date" binding:"required"`
	StartTime  string `json:"startTime" binding:"required"`
	EndTime    string `json:"endTime" binding:"required"`
}

func (r bookingRequest) toSchedulerRequest() booking.Request {
	return booking.Request{
		UserID:     r.SubjectID,
		BuildingID: r.BuildingID,
		Kind:       model.SpaceKind(r.SpaceKind),
		Date:       r.Date,
		Start:      r.StartTime,
		End:        r.EndTime,
	}
}

// CreateBooking handles POST /api/v1/bookings.
func (h *Handler) CreateBooking(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	claims, _ := mw.ClaimsFrom(c)
	if !claims.CanModify(req.SubjectID) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not allowed to book for this subject"})
		return
	}

	bk, err := h.scheduler.Create(c.Request.Context(), req.toSchedulerRequest())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    "Booking successful.",
		"booking_id": bk.ID,
	})
}

// Availability handles GET /api/v1/bookings/availability.
func (h *Handler) Availability(c *gin.Context) {
	avail, err := h.scheduler.CheckAvailability(
		c.Request.Context(),
		c.Query("buildingId"),
		model.SpaceKind(c.Query("spaceKind")),
		c.Query("date"),
		c.Query("startTime"),
		c.Query("endTime"),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, avail)
}

// ListBookings handles GET /api/v1/bookings. Subjects see their own
// bookings; admins and officers may filter freely.
func (h *Handler) ListBookings(c *gin.Context) {
	claims, _ := mw.ClaimsFrom(c)

	f := store.BookingFilter{
		UserID:     c.Query("userId"),
		BuildingID: c.Query("buildingId"),
		Kind:       model.SpaceKind(c.Query("spaceKind")),
		Date:       c.Query("date"),
		Status:     model.BookingStatus(c.Query("status")),
	}
	if claims.Role == auth.RoleSubject {
		f.UserID = claims.SubjectID
	}

	bookings, err := h.scheduler.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// UpdateBooking handles PUT /api/v1/bookings/:id.
func (h *Handler) UpdateBooking(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	claims, _ := mw.ClaimsFrom(c)
	if !claims.CanModify(req.SubjectID) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not allowed to modify this booking"})
		return
	}

	bk, err := h.scheduler.Update(c.Request.Context(), c.Param("id"), req.toSchedulerRequest())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bk)
}

// DeleteBooking handles DELETE /api/v1/bookings/:id.
func (h *Handler) DeleteBooking(c *gin.Context) {
	id := c.Param("id")
	bk, err := h.store.GetBooking(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if bk == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	claims, _ := mw.ClaimsFrom(c)
	if !claims.CanModify(bk.UserID) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not allowed to delete this booking"})
		return
	}

	if err := h.scheduler.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
