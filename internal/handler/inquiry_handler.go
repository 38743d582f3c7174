package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arcbsr/studentadmission-backend/internal/models"
	"github.com/arcbsr/studentadmission-backend/internal/services"
)

type InquiryHandler struct {
	inquiryService *services.InquiryService
}

func NewInquiryHandler(inquiryService *services.InquiryService) *InquiryHandler {
	return &InquiryHandler{inquiryService: inquiryService}
}

// Submit is the public inquiry form endpoint.
func (h *InquiryHandler) Submit(c *gin.Context) {
	var sub services.InquirySubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	inquiry, created, err := h.inquiryService.Submit(c.Request.Context(), &sub)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to submit inquiry, please try again"})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"id":      inquiry.ID.Hex(),
		"created": created,
		"message": "Inquiry submitted successfully",
	})
}

func (h *InquiryHandler) GetAllInquiries(c *gin.Context) {
	inquiries, err := h.inquiryService.GetAllInquiries(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get inquiries"})
		return
	}
	c.JSON(http.StatusOK, inquiries)
}

func (h *InquiryHandler) GetInquiry(c *gin.Context) {
	inquiry, err := h.inquiryService.GetInquiryByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondInquiryError(c, err)
		return
	}
	c.JSON(http.StatusOK, inquiry)
}

func (h *InquiryHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status models.InquiryStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.inquiryService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		respondInquiryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}

func (h *InquiryHandler) AddReply(c *gin.Context) {
	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	role, _ := c.Get("role")
	roleStr, _ := role.(string)

	if err := h.inquiryService.AddReply(c.Request.Context(), c.Param("id"), req.Message, roleStr); err != nil {
		respondInquiryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reply added"})
}

func (h *InquiryHandler) DeleteInquiry(c *gin.Context) {
	if err := h.inquiryService.DeleteInquiry(c.Request.Context(), c.Param("id")); err != nil {
		respondInquiryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Inquiry deleted"})
}

func respondInquiryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid inquiry ID"})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Inquiry not found"})
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
