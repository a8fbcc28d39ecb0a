package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/pluginhost-backend/internal/platform/apierr"
	"github.com/yungbote/pluginhost-backend/internal/platform/logger"
	"github.com/yungbote/pluginhost-backend/internal/requestdata"
	"github.com/yungbote/pluginhost-backend/internal/services"
)

// PluginHandler maps the three lifecycle operations one-to-one onto HTTP.
// Domain failures become 400 with a stable code; anything else is a 500.
type PluginHandler struct {
	log       *logger.Logger
	lifecycle services.LifecycleService
}

func NewPluginHandler(baseLog *logger.Logger, lifecycle services.LifecycleService) *PluginHandler {
	return &PluginHandler{
		log:       baseLog.With("handler", "PluginHandler"),
		lifecycle: lifecycle,
	}
}

// POST /install
func (ph *PluginHandler) Install(c *gin.Context) {
	ownerID, ok := ph.ownerID(c)
	if !ok {
		return
	}

	result, err := ph.lifecycle.Install(c.Request.Context(), ownerID)
	if err != nil {
		ph.respondLifecycleError(c, "installation", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Plugin installed successfully",
		"data":    result,
	})
}

// DELETE /uninstall
func (ph *PluginHandler) Uninstall(c *gin.Context) {
	ownerID, ok := ph.ownerID(c)
	if !ok {
		return
	}

	result, err := ph.lifecycle.Uninstall(c.Request.Context(), ownerID)
	if err != nil {
		ph.respondLifecycleError(c, "uninstallation", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Plugin uninstalled successfully",
		"data":    result,
	})
}

// GET /status
func (ph *PluginHandler) Status(c *gin.Context) {
	ownerID, ok := ph.ownerID(c)
	if !ok {
		return
	}

	result, err := ph.lifecycle.Status(c.Request.Context(), ownerID)
	if err != nil {
		ph.respondLifecycleError(c, "status check", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   result,
	})
}

func (ph *PluginHandler) ownerID(c *gin.Context) (string, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return "", false
	}
	return rd.UserID.String(), true
}

func (ph *PluginHandler) respondLifecycleError(c *gin.Context, operation string, err error) {
	if le, ok := services.AsLifecycleError(err); ok && services.IsDomainCode(le.Code) {
		ae := apierr.New(http.StatusBadRequest, le.Code, le)
		body := gin.H{"error": ae.Error(), "code": ae.Code}
		if le.PluginID != "" {
			body["plugin_id"] = le.PluginID
		}
		c.JSON(ae.Status, body)
		return
	}
	ph.log.Error("Unexpected plugin lifecycle failure", "operation", operation, "error", err)
	ae := apierr.New(http.StatusInternalServerError, "", fmt.Errorf("internal server error during plugin %s", operation))
	c.JSON(ae.Status, gin.H{"error": ae.Error()})
}
