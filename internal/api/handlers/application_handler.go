package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/jobwallah/internal/models"
	"github.com/yoockh/jobwallah/internal/services"
	"github.com/yoockh/jobwallah/internal/utils"
)

type ApplicationHandler struct {
	svc services.ApplicationService
}

func NewApplicationHandler(svc services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{svc: svc}
}

// Apply accepts an optional multipart "resume" file.
func (h *ApplicationHandler) Apply(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	resume, err := readResume(c, "ApplicationHandler.Apply")
	if err != nil {
		writeError(c, err)
		return
	}

	res, err := h.svc.Apply(c.Request.Context(), p, services.ApplyInput{JobID: c.Param("id"), Resume: resume})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

type updateStatusReq struct {
	Status          string `json:"status"`
	RejectionReason string `json:"rejection_reason"`
}

func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ApplicationHandler.UpdateStatus", "invalid json body", err))
		return
	}

	app, err := h.svc.UpdateStatus(c.Request.Context(), p, services.UpdateStatusInput{
		ApplicationID:   c.Param("id"),
		Status:          models.ApplicationStatus(req.Status),
		RejectionReason: req.RejectionReason,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) ListMine(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	rows, err := h.svc.ListMine(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": rows, "count": len(rows)})
}

func (h *ApplicationHandler) ListForJob(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	rows, err := h.svc.ListForJob(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": rows, "count": len(rows)})
}

func (h *ApplicationHandler) ListForRecruiter(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	rows, err := h.svc.ListForRecruiter(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": rows, "count": len(rows)})
}

func (h *ApplicationHandler) Events(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	rows, err := h.svc.Events(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": rows})
}
