package sqlxrepos

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/subject"
)

type subjectRow struct {
	ID     int    `db:"id"`
	Nombre string `db:"nombre"`
}

func (r subjectRow) toSubject() subject.Subject {
	return subject.Subject{ID: r.ID, Name: r.Nombre}
}

type subjectRepository struct {
	db core.DBExecutor
}

var _ subject.Repository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(db core.DBExecutor) *subjectRepository {
	return &subjectRepository{db: db}
}

func (repo *subjectRepository) QuerySubjects(ctx context.Context) ([]subject.Subject, error) {
	var rows []subjectRow
	if err := repo.db.SelectContext(ctx, &rows, "SELECT id, nombre FROM asignatura ORDER BY id"); err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}
	subjects := make([]subject.Subject, 0, len(rows))
	for _, r := range rows {
		subjects = append(subjects, r.toSubject())
	}
	return subjects, nil
}

func (repo *subjectRepository) GetSubject(ctx context.Context, id int) (subject.Subject, error) {
	var r subjectRow
	if err := repo.db.GetContext(ctx, &r, "SELECT id, nombre FROM asignatura WHERE id = $1", id); err != nil {
		return subject.Subject{}, trapNoRowsErr(err, "subject", id, "finding subject by ID")
	}
	return r.toSubject(), nil
}

func (repo *subjectRepository) CreateSubject(ctx context.Context, s subject.Subject) (subject.Subject, error) {
	err := repo.db.QueryRowContext(ctx, "INSERT INTO asignatura (nombre) VALUES ($1) RETURNING id", s.Name).Scan(&s.ID)
	if err != nil {
		return subject.Subject{}, trapConstraintErr(err, "inserting subject")
	}
	return s, nil
}

func (repo *subjectRepository) UpdateSubject(ctx context.Context, s subject.Subject) (subject.Subject, error) {
	res, err := repo.db.ExecContext(ctx, "UPDATE asignatura SET nombre = $1 WHERE id = $2", s.Name, s.ID)
	if err != nil {
		return subject.Subject{}, trapConstraintErr(err, "updating subject")
	}
	if err = checkAffected(res, "subject", s.ID); err != nil {
		return subject.Subject{}, err
	}
	return s, nil
}

func (repo *subjectRepository) DeleteSubject(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM asignatura WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	return checkAffected(res, "subject", id)
}

type linkedSubjectRow struct {
	OwnerID int    `db:"owner_id"`
	ID      int    `db:"id"`
	Nombre  string `db:"nombre"`
}

// loadSubjects returns the subjects linked to each owner id through joinTable.
func loadSubjects(ctx context.Context, db core.DBExecutor, joinTable, ownerCol string, ownerIDs []int) (map[int][]subject.Subject, error) {
	linked := make(map[int][]subject.Subject, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return linked, nil
	}
	q := fmt.Sprintf(`
		SELECT j.%[2]s AS owner_id, a.id, a.nombre
		FROM %[1]s j JOIN asignatura a ON a.id = j.asignatura_id
		WHERE j.%[2]s = ANY($1)
		ORDER BY a.id`, joinTable, ownerCol)

	var rows []linkedSubjectRow
	if err := db.SelectContext(ctx, &rows, q, int64s(ownerIDs)); err != nil {
		return nil, errors.Wrapf(err, "loading %s", joinTable)
	}
	for _, r := range rows {
		linked[r.OwnerID] = append(linked[r.OwnerID], subject.Subject{ID: r.ID, Name: r.Nombre})
	}
	return linked, nil
}

func addLink(ctx context.Context, db core.DBExecutor, joinTable, ownerCol string, ownerID, subjectID int) error {
	q := fmt.Sprintf("INSERT INTO %s (%s, asignatura_id) VALUES ($1, $2) ON CONFLICT DO NOTHING", joinTable, ownerCol)
	if _, err := db.ExecContext(ctx, q, ownerID, subjectID); err != nil {
		return trapConstraintErr(err, "inserting "+joinTable)
	}
	return nil
}

func removeLink(ctx context.Context, db core.DBExecutor, joinTable, ownerCol, resource string, ownerID, subjectID int) error {
	q := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 AND asignatura_id = $2", joinTable, ownerCol)
	res, err := db.ExecContext(ctx, q, ownerID, subjectID)
	if err != nil {
		return errors.Wrap(err, "deleting "+joinTable)
	}
	return checkAffected(res, resource, subjectID)
}
