package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arcbsr/studentadmission-backend/internal/models"
	"github.com/arcbsr/studentadmission-backend/internal/services"
)

type UniversityHandler struct {
	universityService *services.UniversityService
}

func NewUniversityHandler(universityService *services.UniversityService) *UniversityHandler {
	return &UniversityHandler{universityService: universityService}
}

// GetActiveUniversities is the public catalog endpoint.
func (h *UniversityHandler) GetActiveUniversities(c *gin.Context) {
	universities, err := h.universityService.GetActiveUniversities(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get universities"})
		return
	}
	c.JSON(http.StatusOK, universities)
}

func (h *UniversityHandler) GetAllUniversities(c *gin.Context) {
	universities, err := h.universityService.GetAllUniversities(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get universities"})
		return
	}
	c.JSON(http.StatusOK, universities)
}

func (h *UniversityHandler) CreateUniversity(c *gin.Context) {
	university := new(models.University)
	if err := c.ShouldBindJSON(university); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.universityService.CreateUniversity(c.Request.Context(), university); err != nil {
		respondUniversityError(c, err)
		return
	}
	c.JSON(http.StatusCreated, university)
}

func (h *UniversityHandler) UpdateUniversity(c *gin.Context) {
	university := new(models.University)
	if err := c.ShouldBindJSON(university); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.universityService.UpdateUniversity(c.Request.Context(), university); err != nil {
		respondUniversityError(c, err)
		return
	}
	c.JSON(http.StatusOK, university)
}

func (h *UniversityHandler) UpdateUniversityStatus(c *gin.Context) {
	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.universityService.UpdateUniversityStatus(c.Request.Context(), c.Param("id"), *req.IsActive); err != nil {
		respondUniversityError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}

func (h *UniversityHandler) DeleteUniversity(c *gin.Context) {
	if err := h.universityService.DeleteUniversity(c.Request.Context(), c.Param("id")); err != nil {
		respondUniversityError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "University deleted"})
}

func respondUniversityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid university ID"})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "University not found"})
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "University already exists"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
