package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/sysmod-go/internal/app"
	"github.com/yourusername/sysmod-go/internal/domain"
	"go.uber.org/zap"
)

// SubjectHandler handles subject intake HTTP requests
type SubjectHandler struct {
	svc    *app.SubjectService
	logger *zap.Logger
}

// NewSubjectHandler creates a new subject handler
func NewSubjectHandler(svc *app.SubjectService, logger *zap.Logger) *SubjectHandler {
	return &SubjectHandler{
		svc:    svc,
		logger: logger,
	}
}

// AddModuleRequest represents a request to issue a module-install subject
type AddModuleRequest struct {
	Name        string `json:"name" binding:"required"`
	Version     string `json:"version"`
	VersionCode int64  `json:"version_code"`
	ZipURL      string `json:"zip_url" binding:"required"`
	AutoLaunch  *bool  `json:"auto_launch,omitempty"`
}

// AddModule handles POST /api/v1/subjects/module
func (h *SubjectHandler) AddModule(c *gin.Context) {
	var req AddModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Auto-launch defaults to true when the caller does not say
	autoLaunch := true
	if req.AutoLaunch != nil {
		autoLaunch = *req.AutoLaunch
	}

	module := domain.ModuleInfo{
		Name:        req.Name,
		Version:     req.Version,
		VersionCode: req.VersionCode,
		ZipURL:      req.ZipURL,
	}

	record, err := h.svc.IssueModuleInstall(module, autoLaunch)
	if err != nil {
		h.logger.Error("Failed to issue module subject", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, record)
}

// AddUpdateRequest represents a request to issue an app-update subject
type AddUpdateRequest struct {
	Name        string `json:"name" binding:"required"`
	Version     string `json:"version"`
	VersionCode int64  `json:"version_code"`
	Link        string `json:"link" binding:"required"`
}

// AddUpdate handles POST /api/v1/subjects/update
func (h *SubjectHandler) AddUpdate(c *gin.Context) {
	var req AddUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	release := domain.ReleaseInfo{
		Name:        req.Name,
		Version:     req.Version,
		VersionCode: req.VersionCode,
		Link:        req.Link,
	}

	record, err := h.svc.IssueAppUpdate(release)
	if err != nil {
		h.logger.Error("Failed to issue update subject", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, record)
}

// AddTestRequest represents a request to issue a throughput-test subject
type AddTestRequest struct {
	Title string `json:"title,omitempty"`
}

// AddTest handles POST /api/v1/subjects/test
func (h *SubjectHandler) AddTest(c *gin.Context) {
	// The body is optional; an absent body means default title
	var req AddTestRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	record, err := h.svc.IssueTestTransfer(req.Title)
	if err != nil {
		h.logger.Error("Failed to issue test subject", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, record)
}

// GetSubject handles GET /api/v1/subjects/:id
func (h *SubjectHandler) GetSubject(c *gin.Context) {
	id := c.Param("id")

	record, err := h.svc.GetSubject(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "subject not found"})
		return
	}

	c.JSON(http.StatusOK, record)
}

// ListSubjects handles GET /api/v1/subjects
func (h *SubjectHandler) ListSubjects(c *gin.Context) {
	filters := make(map[string]interface{})

	if kind := c.Query("kind"); kind != "" {
		filters["kind"] = kind
	}
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}

	records, err := h.svc.ListSubjects(filters)
	if err != nil {
		h.logger.Error("Failed to list subjects", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, records)
}

// GetStats handles GET /api/v1/subjects/stats
func (h *SubjectHandler) GetStats(c *gin.Context) {
	stats, err := h.svc.Stats()
	if err != nil {
		h.logger.Error("Failed to get stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ClaimSubject handles POST /api/v1/subjects/claim. The transfer engine
// polls this to drain the handoff queue; 204 means nothing to claim.
func (h *SubjectHandler) ClaimSubject(c *gin.Context) {
	record, err := h.svc.ClaimNext()
	if err != nil {
		h.logger.Error("Failed to claim subject", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if record == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, record)
}
