package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"workplace-access-backend/internal/model"
)

type createBuildingRequest struct {
	Name        string `json:"name" binding:"required"`
	Address     string `json:"address"`
	TotalFloors int    `json:"totalFloors"`
	TotalBlocks int    `json:"totalBlocks"`
}

// CreateBuilding handles POST /api/v1/buildings. Admin only.
func (h *Handler) CreateBuilding(c *gin.Context) {
	var req createBuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.TotalFloors <= 0 {
		req.TotalFloors = 1
	}
	if req.TotalBlocks <= 0 {
		req.TotalBlocks = 1
	}

	b := &model.Building{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Address:     req.Address,
		TotalFloors: req.TotalFloors,
		TotalBlocks: req.TotalBlocks,
		IsActive:    true,
	}
	if err := h.store.CreateBuilding(c.Request.Context(), b); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// ListBuildings handles GET /api/v1/buildings.
func (h *Handler) ListBuildings(c *gin.Context) {
	buildings, err := h.store.ListBuildings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildings)
}

type createSpaceRequest struct {
	BuildingID string `json:"buildingId" binding:"required"`
	Kind       string `json:"kind" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Floor      string `json:"floor"`
	Block      string `json:"block"`
	Capacity   int    `json:"capacity"`
}

// CreateSpace handles POST /api/v1/spaces. Admin only. The catalog holds
// at most one space per (building, kind); capacity is the quantity count.
func (h *Handler) CreateSpace(c *gin.Context) {
	var req createSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	kind := model.SpaceKind(req.Kind)
	if !kind.Valid() {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unknown space kind"})
		return
	}

	ctx := c.Request.Context()
	building, err := h.store.GetBuilding(ctx, req.BuildingID)
	if err != nil {
		respondError(c, err)
		return
	}
	if building == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "building not found"})
		return
	}
	existing, err := h.store.FindSpace(ctx, req.BuildingID, kind)
	if err != nil {
		respondError(c, err)
		return
	}
	if existing != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "space already exists for this building and kind"})
		return
	}

	if req.Capacity <= 0 {
		req.Capacity = 1
	}
	sp := &model.Space{
		ID:         uuid.NewString(),
		BuildingID: req.BuildingID,
		Kind:       kind,
		Name:       req.Name,
		Floor:      req.Floor,
		Block:      req.Block,
		Capacity:   req.Capacity,
		CreatedAt:  time.Now().UTC(),
	}
	if err := h.store.CreateSpace(ctx, sp); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sp)
}

// ListSpaces handles GET /api/v1/spaces with an optional buildingId query.
func (h *Handler) ListSpaces(c *gin.Context) {
	spaces, err := h.store.ListSpaces(c.Request.Context(), c.Query("buildingId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, spaces)
}
