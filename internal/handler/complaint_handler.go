package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"complaint-portal/internal/auth"
	"complaint-portal/internal/models"
	"complaint-portal/internal/services"
	"complaint-portal/internal/utils"
)

type ComplaintHandler struct {
	svc         *services.ComplaintService
	attachments *services.AttachmentStore
}

func NewComplaintHandler(svc *services.ComplaintService, attachments *services.AttachmentStore) *ComplaintHandler {
	return &ComplaintHandler{svc: svc, attachments: attachments}
}

// resolveRequest turns the path category and the authenticated role into a
// descriptor plus scope. Role-partitioned categories require a resolvable
// scope; the rest are open to any authenticated admin.
func (h *ComplaintHandler) resolveRequest(c *gin.Context) (models.Category, auth.Scope, bool) {
	cat, ok := models.CategoryByName(c.Param("category"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid Category"})
		return models.Category{}, auth.Scope{}, false
	}

	if !cat.RoleScoped {
		return cat, auth.Scope{Unrestricted: true}, true
	}

	scope, err := auth.ResolveScope(c.GetString("role"))
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Unauthorized access"})
		return models.Category{}, auth.Scope{}, false
	}
	return cat, scope, true
}

func (h *ComplaintHandler) GetComplaints(c *gin.Context) {
	cat, scope, ok := h.resolveRequest(c)
	if !ok {
		return
	}

	// Paged listings must never come from an intermediary cache.
	c.Header("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")

	result, err := h.svc.Page(c.Request.Context(), cat, scope, services.PageRequest{
		RawFilters: c.Query("filters"),
		Limit:      c.Query("limit"),
		LastSeenID: c.Query("lastSeenId"),
		Scheme:     requestScheme(c),
		Host:       c.Request.Host,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type statsResponse struct {
	Success bool `json:"success"`
	models.Stats
}

func (h *ComplaintHandler) GetStats(c *gin.Context) {
	cat, scope, ok := h.resolveRequest(c)
	if !ok {
		return
	}
	stats := h.svc.Stats(c.Request.Context(), cat, scope)
	c.JSON(http.StatusOK, statsResponse{Success: true, Stats: stats})
}

type statusUpdateRequest struct {
	ID     string `json:"id" validate:"required"`
	Status string `json:"status" validate:"required"`
}

func (h *ComplaintHandler) UpdateStatus(c *gin.Context) {
	cat, scope, ok := h.resolveRequest(c)
	if !ok {
		return
	}

	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request payload"})
		return
	}
	if err := utils.GetValidator().Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": strings.Join(utils.ParseErrors(err), " // ")})
		return
	}

	updated, err := h.svc.UpdateStatus(c.Request.Context(), cat, scope, req.ID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "complaint": updated})
}

func (h *ComplaintHandler) UpdateRemarks(c *gin.Context) {
	cat, scope, ok := h.resolveRequest(c)
	if !ok {
		return
	}

	id := c.PostForm("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Complaint ID is required"})
		return
	}
	remarks := c.PostForm("AdminRemarks")

	var keys []string
	if form, err := c.MultipartForm(); err == nil && form != nil {
		saved, err := h.attachments.SaveAll(c.Request.Context(), form.File["attachments"])
		if err != nil {
			respondError(c, err)
			return
		}
		keys = saved
	}

	updated, err := h.svc.UpdateRemarks(c.Request.Context(), cat, scope, id, remarks, keys)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "complaint": updated})
}

func requestScheme(c *gin.Context) string {
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}

// respondError maps service errors onto the response taxonomy. Unclassified
// errors are logged server-side and answered with a generic 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrBadDate):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid date format"})
	case errors.Is(err, models.ErrDateRange):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "startDate must be before endDate"})
	case errors.Is(err, models.ErrInvalidCursor):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid lastSeenId"})
	case errors.Is(err, models.ErrBadStatus):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid status"})
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, models.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Unauthorized access"})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Complaint not found"})
	case errors.Is(err, models.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Database operation timed out. Please try again with more specific filters."})
	default:
		log.Printf("[ERROR] unhandled error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
	}
}
