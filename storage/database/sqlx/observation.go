package sqlxrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/observation"
	"github.com/liceo-app/liceo/core/student"
	"github.com/liceo-app/liceo/core/teacher"
)

const observationSelect = `
	SELECT o.id, o.texto, o.estado, o.fecha, o.estudiante_id, o.profesor_id,
		e.nombre AS estudiante_nombre, e.apellido AS estudiante_apellido,
		p.nombre AS profesor_nombre, p.apellido AS profesor_apellido
	FROM observacion o
		JOIN estudiante e ON e.id = o.estudiante_id
		JOIN profesor p ON p.id = o.profesor_id`

type observationRow struct {
	ID                 int         `db:"id"`
	Texto              string      `db:"texto"`
	Estado             null.String `db:"estado"`
	Fecha              time.Time   `db:"fecha"`
	EstudianteID       int         `db:"estudiante_id"`
	ProfesorID         int         `db:"profesor_id"`
	EstudianteNombre   string      `db:"estudiante_nombre"`
	EstudianteApellido string      `db:"estudiante_apellido"`
	ProfesorNombre     string      `db:"profesor_nombre"`
	ProfesorApellido   string      `db:"profesor_apellido"`
}

func (r observationRow) toObservation() observation.Observation {
	return observation.Observation{
		ID:        r.ID,
		Text:      r.Texto,
		Status:    r.Estado,
		Date:      r.Fecha.UTC(),
		StudentID: r.EstudianteID,
		TeacherID: r.ProfesorID,
		Student:   &student.Ref{ID: r.EstudianteID, Name: r.EstudianteNombre, Surname: r.EstudianteApellido},
		Teacher:   &teacher.Ref{ID: r.ProfesorID, Name: r.ProfesorNombre, Surname: r.ProfesorApellido},
	}
}

type observationRepository struct {
	db core.DBExecutor
}

var _ observation.Repository = (*observationRepository)(nil) // interface compliance check

func NewObservationRepository(db core.DBExecutor) *observationRepository {
	return &observationRepository{db: db}
}

func (repo *observationRepository) query(ctx context.Context, q string, args ...interface{}) ([]observation.Observation, error) {
	var rows []observationRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying observations")
	}
	observations := make([]observation.Observation, 0, len(rows))
	for _, r := range rows {
		observations = append(observations, r.toObservation())
	}
	return observations, nil
}

func (repo *observationRepository) QueryObservations(ctx context.Context) ([]observation.Observation, error) {
	return repo.query(ctx, observationSelect+" ORDER BY o.id DESC")
}

func (repo *observationRepository) QueryObservationsByStudent(ctx context.Context, studentID int) ([]observation.Observation, error) {
	return repo.query(ctx, observationSelect+" WHERE o.estudiante_id = $1 ORDER BY o.id DESC", studentID)
}

func (repo *observationRepository) QueryObservationsByTeacher(ctx context.Context, teacherID int) ([]observation.Observation, error) {
	return repo.query(ctx, observationSelect+" WHERE o.profesor_id = $1 ORDER BY o.id DESC", teacherID)
}

func (repo *observationRepository) GetObservation(ctx context.Context, id int) (observation.Observation, error) {
	var r observationRow
	if err := repo.db.GetContext(ctx, &r, observationSelect+" WHERE o.id = $1", id); err != nil {
		return observation.Observation{}, trapNoRowsErr(err, "observation", id, "finding observation by ID")
	}
	return r.toObservation(), nil
}

func (repo *observationRepository) CreateObservation(ctx context.Context, o observation.Observation) (observation.Observation, error) {
	err := repo.db.QueryRowContext(ctx,
		"INSERT INTO observacion (texto, estado, fecha, estudiante_id, profesor_id) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		o.Text, o.Status, o.Date.UTC(), o.StudentID, o.TeacherID,
	).Scan(&o.ID)
	if err != nil {
		return observation.Observation{}, trapConstraintErr(err, "inserting observation")
	}
	return o, nil
}

func (repo *observationRepository) UpdateObservation(ctx context.Context, o observation.Observation) (observation.Observation, error) {
	res, err := repo.db.ExecContext(ctx,
		"UPDATE observacion SET texto = $1, estado = $2, estudiante_id = $3, profesor_id = $4 WHERE id = $5",
		o.Text, o.Status, o.StudentID, o.TeacherID, o.ID,
	)
	if err != nil {
		return observation.Observation{}, trapConstraintErr(err, "updating observation")
	}
	if err = checkAffected(res, "observation", o.ID); err != nil {
		return observation.Observation{}, err
	}
	return o, nil
}

func (repo *observationRepository) DeleteObservation(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM observacion WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting observation")
	}
	return checkAffected(res, "observation", id)
}
