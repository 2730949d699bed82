package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/jobwallah/internal/models"
	"github.com/yoockh/jobwallah/internal/services"
	"github.com/yoockh/jobwallah/internal/utils"
)

type JobHandler struct {
	svc services.JobService
}

func NewJobHandler(svc services.JobService) *JobHandler {
	return &JobHandler{svc: svc}
}

type jobReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Company     *string `json:"company"`
	Location    *string `json:"location"`
	Category    *string `json:"category"`
	Openings    *int    `json:"openings"`
	Deadline    *string `json:"deadline"` // YYYY-MM-DD or RFC3339
	Constraints *string `json:"constraints"`
	Salary      *string `json:"salary"`
}

func parseDeadline(op string, s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, *s); err == nil {
			return &t, nil
		}
	}
	return nil, utils.E(utils.CodeInvalidArgument, op, "deadline must be YYYY-MM-DD or RFC3339", nil)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func (h *JobHandler) List(c *gin.Context) {
	rows, err := h.svc.List(c.Request.Context(), models.JobFilter{
		Title:    c.Query("title"),
		Location: c.Query("location"),
		Category: models.JobCategory(c.Query("category")),
		Type:     c.Query("type"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": rows, "count": len(rows)})
}

func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) Create(c *gin.Context) {
	const op = "JobHandler.Create"
	p, ok := principal(c)
	if !ok {
		return
	}

	var req jobReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid json body", err))
		return
	}
	deadline, err := parseDeadline(op, req.Deadline)
	if err != nil {
		writeError(c, err)
		return
	}

	job, err := h.svc.Create(c.Request.Context(), p, services.CreateJobInput{
		Title:       deref(req.Title),
		Description: deref(req.Description),
		Company:     deref(req.Company),
		Location:    deref(req.Location),
		Category:    models.JobCategory(deref(req.Category)),
		Openings:    deref(req.Openings),
		Deadline:    deref(deadline),
		Constraints: deref(req.Constraints),
		Salary:      deref(req.Salary),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) Update(c *gin.Context) {
	const op = "JobHandler.Update"
	p, ok := principal(c)
	if !ok {
		return
	}

	var req jobReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid json body", err))
		return
	}
	deadline, err := parseDeadline(op, req.Deadline)
	if err != nil {
		writeError(c, err)
		return
	}

	in := services.UpdateJobInput{
		Title:       req.Title,
		Description: req.Description,
		Company:     req.Company,
		Location:    req.Location,
		Openings:    req.Openings,
		Deadline:    deadline,
		Constraints: req.Constraints,
		Salary:      req.Salary,
	}
	if req.Category != nil {
		cat := models.JobCategory(*req.Category)
		in.Category = &cat
	}

	job, err := h.svc.Update(c.Request.Context(), p, c.Param("id"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) ListMine(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	rows, err := h.svc.ListMine(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": rows, "count": len(rows)})
}
