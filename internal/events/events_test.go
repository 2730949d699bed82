package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/jobwallah/internal/models"
)

func TestDecode(t *testing.T) {
	e := models.ApplicationEvent{
		ID:            "ev-1",
		Type:          models.EventApplicationRejected,
		ApplicationID: "app-1",
		ApplicantID:   "user-1",
		RecruiterID:   "rec-1",
		Status:        models.StatusRejected,
		Reason:        "underqualified",
		OccurredAt:    time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC),
	}
	b, err := json.Marshal(e)
	require.NoError(t, err)

	got, err := Decode(map[string]any{"event": string(b)})
	require.NoError(t, err)
	assert.Equal(t, e, got)

	_, err = Decode(map[string]any{"type": "x"})
	assert.Error(t, err)

	_, err = Decode(map[string]any{"event": `{"id":""}`})
	assert.Error(t, err)
}

func TestRecipient(t *testing.T) {
	created := models.ApplicationEvent{Type: models.EventApplicationCreated, ApplicantID: "a", RecruiterID: "r"}
	selected := models.ApplicationEvent{Type: models.EventApplicationSelected, ApplicantID: "a", RecruiterID: "r"}

	assert.Equal(t, "r", Recipient(created))
	assert.Equal(t, "a", Recipient(selected))
	assert.Equal(t, "user:a:notifications", NotificationChannel("a"))
}
