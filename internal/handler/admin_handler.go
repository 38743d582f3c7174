package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/arcbsr/studentadmission-backend/internal/models"
	"github.com/arcbsr/studentadmission-backend/internal/services"
	"github.com/arcbsr/studentadmission-backend/internal/utils"
)

// AdminHandler covers user management, agent management, company settings
// and the OCR data-entry helper.
type AdminHandler struct {
	authService     *services.AuthService
	agentService    *services.AgentService
	inquiryService  *services.InquiryService
	settingsService *services.SettingsService
	ocr             *utils.OCRClient
}

func NewAdminHandler(authService *services.AuthService, agentService *services.AgentService, inquiryService *services.InquiryService, settingsService *services.SettingsService, ocr *utils.OCRClient) *AdminHandler {
	return &AdminHandler{
		authService:     authService,
		agentService:    agentService,
		inquiryService:  inquiryService,
		settingsService: settingsService,
		ocr:             ocr,
	}
}

// --- Users ---

func (h *AdminHandler) GetAllUsers(c *gin.Context) {
	users, err := h.authService.GetAllUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) SetUserActive(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.authService.SetUserActive(c.Request.Context(), userID, *req.IsActive); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User updated"})
}

func (h *AdminHandler) UpdatePermissions(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req struct {
		Permissions map[string]bool `json:"permissions" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.authService.UpdatePermissions(c.Request.Context(), userID, req.Permissions); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Permissions updated"})
}

func (h *AdminHandler) GetTotals(c *gin.Context) {
	users, err := h.authService.GetTotalUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get totals"})
		return
	}
	inquiries, err := h.inquiryService.CountInquiries(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get totals"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_users": users, "total_inquiries": inquiries})
}

// --- Agents ---

func (h *AdminHandler) GetAllAgents(c *gin.Context) {
	agents, err := h.agentService.GetAllAgents(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get agents"})
		return
	}
	c.JSON(http.StatusOK, agents)
}

func (h *AdminHandler) CreateAgent(c *gin.Context) {
	var req struct {
		Name           string  `json:"name" binding:"required"`
		Email          string  `json:"email" binding:"required,email"`
		Phone          string  `json:"phone"`
		CommissionRate float64 `json:"commission_rate" binding:"gte=0,lte=100"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	agent := &models.Agent{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		CommissionRate: req.CommissionRate,
		IsActive:       true,
	}
	created, err := h.agentService.CreateAgent(c.Request.Context(), agent)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *AdminHandler) UpdateCommissionRate(c *gin.Context) {
	var req struct {
		CommissionRate *float64 `json:"commission_rate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.agentService.UpdateCommissionRate(c.Request.Context(), c.Param("id"), *req.CommissionRate); err != nil {
		respondAgentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Commission rate updated"})
}

func (h *AdminHandler) SetAgentActive(c *gin.Context) {
	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.agentService.SetAgentActive(c.Request.Context(), c.Param("id"), *req.IsActive); err != nil {
		respondAgentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Agent updated"})
}

func (h *AdminHandler) DeleteAgent(c *gin.Context) {
	if err := h.agentService.DeleteAgent(c.Request.Context(), c.Param("id")); err != nil {
		respondAgentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Agent deleted"})
}

// --- Settings ---

// GetPublicSettings serves the contact details shown on the public site.
func (h *AdminHandler) GetPublicSettings(c *gin.Context) {
	settings, err := h.settingsService.GetSettings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get settings"})
		return
	}
	c.JSON(http.StatusOK, settings.Public())
}

func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.GetSettings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *AdminHandler) SaveSettings(c *gin.Context) {
	settings := new(models.CompanySettings)
	if err := c.ShouldBindJSON(settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.settingsService.SaveSettings(c.Request.Context(), settings); err != nil {
		if errors.Is(err, models.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Settings saved"})
}

// --- OCR helper ---

// ExtractText forwards a base64 image to the OCR provider and returns raw
// recognised text for the admin data-entry form.
func (h *AdminHandler) ExtractText(c *gin.Context) {
	if h.ocr == nil || !h.ocr.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "OCR is not configured"})
		return
	}

	var req struct {
		Image    string `json:"image" binding:"required"`
		Language string `json:"language"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	text, err := h.ocr.ExtractText(c.Request.Context(), req.Image, req.Language)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

func respondAgentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid agent ID"})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found"})
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Commission rate must be between 0 and 100"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
