package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arcbsr/studentadmission-backend/internal/models"
	"github.com/arcbsr/studentadmission-backend/internal/services"
)

type AgentHandler struct {
	agentService *services.AgentService
	authService  *services.AuthService
}

func NewAgentHandler(agentService *services.AgentService, authService *services.AuthService) *AgentHandler {
	return &AgentHandler{agentService: agentService, authService: authService}
}

// Dashboard returns the signed-in agent's attributed inquiries and
// commission stats.
func (h *AgentHandler) Dashboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	agent, err := h.agentService.ResolveAgent(c.Request.Context(), user.AgentID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Agent profile unavailable, please try again"})
		return
	}

	dashboard, err := h.agentService.GetDashboard(c.Request.Context(), agent)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// ValidateReferralKey lets the public inquiry form confirm a key and show
// the agent's name. An unknown key is a normal answer, not an error.
func (h *AgentHandler) ValidateReferralKey(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing referral key"})
		return
	}

	agent, err := h.agentService.GetAgentByReferralKey(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"valid": false})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate referral key"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"agent": agent.Snapshot(),
	})
}
