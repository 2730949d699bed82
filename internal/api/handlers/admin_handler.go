package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/jobwallah/internal/services"
)

type AdminHandler struct {
	svc services.AdminService
}

func NewAdminHandler(svc services.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	rows, err := h.svc.ListUsers(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": rows, "count": len(rows)})
}

func (h *AdminHandler) Block(c *gin.Context)   { h.setBlocked(c, true) }
func (h *AdminHandler) Unblock(c *gin.Context) { h.setBlocked(c, false) }

func (h *AdminHandler) setBlocked(c *gin.Context, blocked bool) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if err := h.svc.SetBlocked(c.Request.Context(), p, c.Param("id"), blocked); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "is_blocked": blocked})
}

func (h *AdminHandler) ListJobs(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	rows, err := h.svc.ListJobs(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": rows, "count": len(rows)})
}

func (h *AdminHandler) DeleteJob(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteJob(c.Request.Context(), p, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) Analytics(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	out, err := h.svc.Analytics(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
