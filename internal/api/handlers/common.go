package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/jobwallah/internal/models"
	"github.com/yoockh/jobwallah/internal/services"
	"github.com/yoockh/jobwallah/internal/utils"
)

// MaxResumeBytes caps a single resume upload.
const MaxResumeBytes = 10 << 20

type APIError struct {
	Code          utils.Code `json:"code"`
	Message       string     `json:"message"`
	NextCheckTime *time.Time `json:"next_check_time,omitempty"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)

	var ae *utils.AppError
	if errors.As(err, &ae) {
		body := APIError{
			Code:    ae.Code,
			Message: ae.Message,
		}
		if next, ok := utils.NextAllowed(err); ok {
			body.NextCheckTime = &next
		}
		if status >= http.StatusInternalServerError {
			_ = c.Error(err)
		}
		c.JSON(status, body)
		return
	}

	_ = c.Error(err)
	c.JSON(status, APIError{
		Code:    utils.CodeInternal,
		Message: http.StatusText(status),
	})
}

func requireUserID(c *gin.Context) (string, bool) {
	if v, ok := c.Get("user_id"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}

	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "unauthorized", nil))
	return "", false
}

// principal reads the caller set by middleware.JWTAuth.
func principal(c *gin.Context) (models.Principal, bool) {
	userID, ok := requireUserID(c)
	if !ok {
		return models.Principal{}, false
	}
	return models.Principal{UserID: userID, Role: models.UserRole(c.GetString("role"))}, true
}

// readResume loads the multipart "resume" field. A missing field yields nil;
// an empty file is passed through and left to extraction.
func readResume(c *gin.Context, op string) (*services.ResumeFile, error) {
	fh, err := c.FormFile("resume")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid multipart body", err)
	}
	if fh.Size > MaxResumeBytes {
		return nil, utils.E(utils.CodeInvalidArgument, op, "file too large (max 10MB)", nil)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to open upload", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxResumeBytes+1))
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to read upload", err)
	}
	if len(data) > MaxResumeBytes {
		return nil, utils.E(utils.CodeInvalidArgument, op, "file too large (max 10MB)", nil)
	}
	return &services.ResumeFile{Name: fh.Filename, Data: data}, nil
}
