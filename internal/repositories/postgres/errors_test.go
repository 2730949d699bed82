package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/yoockh/jobwallah/internal/utils"
	"gorm.io/gorm"
)

func TestMapErr(t *testing.T) {
	assert.NoError(t, mapErr(nil))
	assert.ErrorIs(t, mapErr(gorm.ErrRecordNotFound), utils.ErrNotFound)
	assert.ErrorIs(t, mapErr(gorm.ErrDuplicatedKey), utils.ErrDuplicate)

	badUUID := fmt.Errorf("select: %w", &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`})
	assert.ErrorIs(t, mapErr(badUUID), utils.ErrNotFound)

	other := &pgconn.PgError{Code: "23514"}
	assert.Same(t, other, mapErr(other))

	boom := errors.New("connection reset")
	assert.Equal(t, boom, mapErr(boom))
}

func TestValidID(t *testing.T) {
	assert.True(t, validID("3f1c2b9e-8a47-4d2f-9b61-0c7e5d4a2f10"))
	for _, id := range []string{"", "abc", "mine", "3f1c2b9e-8a47-4d2f-9b61", "'; drop table jobs;--"} {
		assert.False(t, validID(id), id)
	}
}

func TestRepos_MalformedIDIsNotFound(t *testing.T) {
	// a nil *gorm.DB would panic if the guard let the query through
	jobs := NewJobRepo(nil)
	_, err := jobs.GetByID(t.Context(), "abc")
	assert.ErrorIs(t, err, utils.ErrNotFound)
	assert.ErrorIs(t, jobs.Delete(t.Context(), "abc"), utils.ErrNotFound)

	_, err = NewApplicationRepo(nil).GetByID(t.Context(), "abc")
	assert.ErrorIs(t, err, utils.ErrNotFound)

	users := NewUserRepo(nil)
	_, err = users.GetByID(t.Context(), "abc")
	assert.ErrorIs(t, err, utils.ErrNotFound)
	assert.ErrorIs(t, users.SetBlocked(t.Context(), "abc", true), utils.ErrNotFound)
}
