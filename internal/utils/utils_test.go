package utils

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeInvalidArgument: http.StatusBadRequest,
		CodeInvalidState:    http.StatusBadRequest,
		CodeUnauthorized:    http.StatusUnauthorized,
		CodeForbidden:       http.StatusForbidden,
		CodeNotFound:        http.StatusNotFound,
		CodeConflict:        http.StatusConflict,
		CodeRateLimited:     http.StatusTooManyRequests,
	}
	for code, want := range cases {
		assert.Equal(t, want, HTTPStatus(E(code, "op", "msg", nil)), code)
	}
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}

func TestRateLimitedCarriesNextWindow(t *testing.T) {
	next := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	err := RateLimited("ResumeCheckService.Check", "daily limit reached", next)

	assert.True(t, IsCode(err, CodeRateLimited))
	got, ok := NextAllowed(err)
	require.True(t, ok)
	assert.Equal(t, next, got)

	_, ok = NextAllowed(E(CodeConflict, "op", "msg", nil))
	assert.False(t, ok)
}

func TestDayWindow(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	// 2025-03-11 01:30 at UTC+7 is still 2025-03-10 in UTC
	start, end := DayWindow(time.Date(2025, 3, 11, 1, 30, 0, 0, loc))
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), end)
	assert.Equal(t, "2025-03-10", DayKey(time.Date(2025, 3, 11, 1, 30, 0, 0, loc)))
}

func TestPassword(t *testing.T) {
	PasswordCost = 4
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NoError(t, CheckPassword(hash, "secret1"))
	assert.Error(t, CheckPassword(hash, "secret2"))

	_, err = HashPassword(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestTokenIssuer(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Minute, "jobwallah")
	raw, exp, err := issuer.Issue("user-1", "applicant")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), exp, 5*time.Second)

	claims, err := issuer.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "applicant", claims.Role)

	issuer.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = issuer.Parse(raw)
	assert.Error(t, err)

	_, err = NewTokenIssuer("other", time.Minute, "jobwallah").Parse(raw)
	assert.Error(t, err)

	_, _, err = NewTokenIssuer("", time.Minute, "").Issue("u", "applicant")
	assert.Error(t, err)
}
