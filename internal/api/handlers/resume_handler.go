package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/jobwallah/internal/services"
	"github.com/yoockh/jobwallah/internal/utils"
)

type ResumeHandler struct {
	svc services.ResumeCheckService
}

func NewResumeHandler(svc services.ResumeCheckService) *ResumeHandler {
	return &ResumeHandler{svc: svc}
}

func (h *ResumeHandler) Check(c *gin.Context) {
	const op = "ResumeHandler.Check"
	p, ok := principal(c)
	if !ok {
		return
	}

	resume, err := readResume(c, op)
	if err != nil {
		writeError(c, err)
		return
	}
	if resume == nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "missing multipart field 'resume'", nil))
		return
	}

	row, err := h.svc.Check(c.Request.Context(), p, resume)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h *ResumeHandler) History(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	out, err := h.svc.History(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *ResumeHandler) Score(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	out, err := h.svc.Score(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
