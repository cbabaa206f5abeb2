package handlers

import (
	"net/http"

	"pepperfarm-backend/repository"

	"github.com/gin-gonic/gin"
)

// ReferenceHandler serves the reference data used to describe farms:
// districts and pepper varieties
type ReferenceHandler struct {
	districtRepo *repository.DistrictRepository
	varietyRepo  *repository.VarietyRepository
}

// NewReferenceHandler creates a new reference data handler
func NewReferenceHandler(districtRepo *repository.DistrictRepository, varietyRepo *repository.VarietyRepository) *ReferenceHandler {
	return &ReferenceHandler{
		districtRepo: districtRepo,
		varietyRepo:  varietyRepo,
	}
}

// ListDistricts handles GET /api/districts
func (h *ReferenceHandler) ListDistricts(c *gin.Context) {
	districts, err := h.districtRepo.List(c.Request.Context())
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
		"data":    districts,
	})
}

// ListVarieties handles GET /api/varieties
func (h *ReferenceHandler) ListVarieties(c *gin.Context) {
	varieties, err := h.varietyRepo.List(c.Request.Context())
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
		"data":    varieties,
	})
}
