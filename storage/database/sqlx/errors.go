package sqlxrepos

import (
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/liceo-app/liceo/core"
)

// trapNoRowsErr maps psql "no rows" err to a *core.NotFoundError
func trapNoRowsErr(err error, resource string, id int, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return core.NewNotFoundError(resource, id)
	}
	return errors.Wrap(err, msg)
}

// trapConstraintErr maps unique violations to *core.ConflictError and
// foreign key violations to *core.NotFoundError.
func trapConstraintErr(err error, msg string) error {
	if pqErr, ok := errors.Cause(err).(*pq.Error); ok {
		switch pqErr.Code.Name() {
		case "unique_violation":
			return core.NewConflictError("duplicate value violates " + pqErr.Constraint)
		case "foreign_key_violation":
			return core.NewNotFoundError("referenced row")
		}
	}
	return errors.Wrap(err, msg)
}

// checkAffected returns a *core.NotFoundError when res touched no row.
func checkAffected(res sql.Result, resource string, id int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "reading rows affected")
	}
	if n == 0 {
		return core.NewNotFoundError(resource, id)
	}
	return nil
}

func int64s(ids []int) pq.Int64Array {
	arr := make(pq.Int64Array, 0, len(ids))
	for _, id := range ids {
		arr = append(arr, int64(id))
	}
	return arr
}
