package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"pepperfarm-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FarmHandler handles HTTP requests for farms and harvest seasons
type FarmHandler struct {
	farmService *service.FarmService
}

// NewFarmHandler creates a new farm handler
func NewFarmHandler(farmService *service.FarmService) *FarmHandler {
	return &FarmHandler{
		farmService: farmService,
	}
}

// CreateFarmRequest represents the request body for registering a farm
type CreateFarmRequest struct {
	UserID          string   `json:"user_id" binding:"required"`
	Name            string   `json:"name" binding:"required"`
	DistrictID      *int     `json:"district_id"`
	ChosenVarietyID *string  `json:"chosen_variety_id"`
	FarmStartDate   *string  `json:"farm_start_date"`
	AreaHectares    *float64 `json:"area_hectares"`
	VineCount       *int     `json:"vine_count"`
}

// CreateFarm handles POST /api/farms
func (h *FarmHandler) CreateFarm(c *gin.Context) {
	var req CreateFarmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_USER_ID",
				"message": "Invalid user_id format",
			},
		})
		return
	}

	var startDate *time.Time
	if req.FarmStartDate != nil && *req.FarmStartDate != "" {
		parsed, err := time.Parse("2006-01-02", *req.FarmStartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_START_DATE",
					"message": "farm_start_date must be YYYY-MM-DD",
				},
			})
			return
		}
		startDate = &parsed
	}

	serviceReq := service.CreateFarmRequest{
		UserID:          userID,
		Name:            req.Name,
		DistrictID:      req.DistrictID,
		ChosenVarietyID: req.ChosenVarietyID,
		FarmStartDate:   startDate,
		AreaHectares:    req.AreaHectares,
		VineCount:       req.VineCount,
	}

	result, err := h.farmService.CreateFarm(c.Request.Context(), serviceReq)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CREATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result.Farm,
	})
}

// GetFarm handles GET /api/farms/:id
func (h *FarmHandler) GetFarm(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid farm ID format",
			},
		})
		return
	}

	result, err := h.farmService.GetFarm(c.Request.Context(), service.GetFarmRequest{ID: id})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Farm not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Farm,
	})
}

// UpdateFarmRequest represents the request body for updating a farm
type UpdateFarmRequest struct {
	Name            string   `json:"name"`
	DistrictID      *int     `json:"district_id"`
	ChosenVarietyID *string  `json:"chosen_variety_id"`
	FarmStartDate   *string  `json:"farm_start_date"`
	AreaHectares    *float64 `json:"area_hectares"`
	VineCount       *int     `json:"vine_count"`
}

// UpdateFarm handles PUT /api/farms/:id
func (h *FarmHandler) UpdateFarm(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid farm ID format",
			},
		})
		return
	}

	getResult, err := h.farmService.GetFarm(c.Request.Context(), service.GetFarmRequest{ID: id})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Farm not found",
			},
		})
		return
	}

	farm := getResult.Farm

	var req UpdateFarmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	// Update fields if provided
	if req.Name != "" {
		farm.Name = req.Name
	}
	if req.DistrictID != nil {
		farm.DistrictID = req.DistrictID
	}
	if req.ChosenVarietyID != nil {
		farm.ChosenVarietyID = req.ChosenVarietyID
	}
	if req.FarmStartDate != nil {
		if *req.FarmStartDate == "" {
			farm.FarmStartDate = nil
		} else {
			parsed, err := time.Parse("2006-01-02", *req.FarmStartDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "INVALID_START_DATE",
						"message": "farm_start_date must be YYYY-MM-DD",
					},
				})
				return
			}
			farm.FarmStartDate = &parsed
		}
	}
	if req.AreaHectares != nil {
		farm.AreaHectares = req.AreaHectares
	}
	if req.VineCount != nil {
		farm.VineCount = req.VineCount
	}

	result, err := h.farmService.UpdateFarm(c.Request.Context(), service.UpdateFarmRequest{Farm: farm})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPDATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Farm,
	})
}

// DeleteFarm handles DELETE /api/farms/:id
func (h *FarmHandler) DeleteFarm(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid farm ID format",
			},
		})
		return
	}

	if err := h.farmService.DeleteFarm(c.Request.Context(), service.DeleteFarmRequest{ID: id}); err != nil {
		if errors.Is(err, service.ErrFarmNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Farm not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DELETE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"id": id},
	})
}

// ListFarms handles GET /api/farms?user_id=...
func (h *FarmHandler) ListFarms(c *gin.Context) {
	userIDStr := c.Query("user_id")
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_USER_ID",
				"message": "Valid user_id query parameter is required",
			},
		})
		return
	}

	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	offset := 0
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	result, err := h.farmService.ListFarms(c.Request.Context(), service.ListFarmsRequest{
		UserID: userID,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LIST_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Farms,
	})
}

// RecordSeasonRequest represents the request body for recording a harvest
// season
type RecordSeasonRequest struct {
	SeasonName string `json:"season_name" binding:"required"`
	StartMonth int    `json:"start_month" binding:"required"`
	StartYear  int    `json:"start_year" binding:"required"`
	EndMonth   int    `json:"end_month" binding:"required"`
	EndYear    int    `json:"end_year" binding:"required"`
	CreatedBy  string `json:"created_by" binding:"required"`
}

// RecordSeason handles POST /api/farms/:id/seasons
func (h *FarmHandler) RecordSeason(c *gin.Context) {
	idStr := c.Param("id")
	farmID, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid farm ID format",
			},
		})
		return
	}

	var req RecordSeasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	createdBy, err := uuid.Parse(req.CreatedBy)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_USER_ID",
				"message": "Invalid created_by format",
			},
		})
		return
	}

	serviceReq := service.RecordSeasonRequest{
		FarmID:     farmID,
		SeasonName: req.SeasonName,
		StartMonth: req.StartMonth,
		StartYear:  req.StartYear,
		EndMonth:   req.EndMonth,
		EndYear:    req.EndYear,
		CreatedBy:  createdBy,
	}

	result, err := h.farmService.RecordSeason(c.Request.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSeasonWindow):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_SEASON_WINDOW",
					"message": err.Error(),
				},
			})
		case errors.Is(err, service.ErrFarmNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Farm not found",
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "CREATE_FAILED",
					"message": err.Error(),
				},
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result.Season,
	})
}

// ListSeasons handles GET /api/farms/:id/seasons
func (h *FarmHandler) ListSeasons(c *gin.Context) {
	idStr := c.Param("id")
	farmID, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid farm ID format",
			},
		})
		return
	}

	result, err := h.farmService.ListSeasons(c.Request.Context(), service.ListSeasonsRequest{FarmID: farmID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LIST_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Seasons,
	})
}
