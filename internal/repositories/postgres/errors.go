package postgres

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yoockh/jobwallah/internal/utils"
	"gorm.io/gorm"
)

// invalid_text_representation, raised when a malformed id meets a uuid column.
const pgInvalidText = "22P02"

// mapErr converts gorm errors into repository sentinels.
// Duplicate detection relies on gorm.Config.TranslateError.
func mapErr(err error) error {
	var pgErr *pgconn.PgError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return utils.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return utils.ErrDuplicate
	case errors.As(err, &pgErr) && pgErr.Code == pgInvalidText:
		return utils.ErrNotFound
	default:
		return err
	}
}

// validID reports whether id can address a uuid primary key. Ids come
// straight from request paths; anything else cannot match a row.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}
