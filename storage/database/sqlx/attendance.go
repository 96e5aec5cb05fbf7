package sqlxrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/attendance"
	"github.com/liceo-app/liceo/core/student"
)

// dia is read back as text so it does not depend on the session time zone.
const attendanceSelect = `
	SELECT s.id, s.fecha, to_char(s.dia, 'YYYY-MM-DD') AS dia, s.estado, s.estudiante_id,
		e.nombre AS estudiante_nombre, e.apellido AS estudiante_apellido
	FROM asistencia s JOIN estudiante e ON e.id = s.estudiante_id`

type attendanceRow struct {
	ID                 int       `db:"id"`
	Fecha              time.Time `db:"fecha"`
	Dia                string    `db:"dia"`
	Estado             string    `db:"estado"`
	EstudianteID       int       `db:"estudiante_id"`
	EstudianteNombre   string    `db:"estudiante_nombre"`
	EstudianteApellido string    `db:"estudiante_apellido"`
}

func (r attendanceRow) toAttendance() attendance.Attendance {
	return attendance.Attendance{
		ID:        r.ID,
		Date:      r.Fecha.UTC(),
		Day:       r.Dia,
		Status:    r.Estado,
		StudentID: r.EstudianteID,
		Student:   &student.Ref{ID: r.EstudianteID, Name: r.EstudianteNombre, Surname: r.EstudianteApellido},
	}
}

type attendanceRepository struct {
	db core.DBExecutor
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db core.DBExecutor) *attendanceRepository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) query(ctx context.Context, q string, args ...interface{}) ([]attendance.Attendance, error) {
	var rows []attendanceRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying attendance")
	}
	records := make([]attendance.Attendance, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.toAttendance())
	}
	return records, nil
}

func (repo *attendanceRepository) QueryAttendance(ctx context.Context) ([]attendance.Attendance, error) {
	return repo.query(ctx, attendanceSelect+" ORDER BY s.id")
}

func (repo *attendanceRepository) QueryAttendanceByStudent(ctx context.Context, studentID int) ([]attendance.Attendance, error) {
	return repo.query(ctx, attendanceSelect+" WHERE s.estudiante_id = $1 ORDER BY s.id", studentID)
}

func (repo *attendanceRepository) QueryAttendanceByDay(ctx context.Context, day string) ([]attendance.Attendance, error) {
	return repo.query(ctx, attendanceSelect+" WHERE s.dia = $1::date ORDER BY s.id", day)
}

func (repo *attendanceRepository) GetAttendance(ctx context.Context, id int) (attendance.Attendance, error) {
	var r attendanceRow
	if err := repo.db.GetContext(ctx, &r, attendanceSelect+" WHERE s.id = $1", id); err != nil {
		return attendance.Attendance{}, trapNoRowsErr(err, "attendance", id, "finding attendance by ID")
	}
	return r.toAttendance(), nil
}

func (repo *attendanceRepository) CreateAttendance(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	err := repo.db.QueryRowContext(ctx,
		"INSERT INTO asistencia (fecha, dia, estado, estudiante_id) VALUES ($1, $2::date, $3, $4) RETURNING id",
		a.Date.UTC(), a.Day, a.Status, a.StudentID,
	).Scan(&a.ID)
	if err != nil {
		return attendance.Attendance{}, trapConstraintErr(err, "inserting attendance")
	}
	return a, nil
}

func (repo *attendanceRepository) UpdateAttendance(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	res, err := repo.db.ExecContext(ctx,
		"UPDATE asistencia SET fecha = $1, dia = $2::date, estado = $3, estudiante_id = $4 WHERE id = $5",
		a.Date.UTC(), a.Day, a.Status, a.StudentID, a.ID,
	)
	if err != nil {
		return attendance.Attendance{}, trapConstraintErr(err, "updating attendance")
	}
	if err = checkAffected(res, "attendance", a.ID); err != nil {
		return attendance.Attendance{}, err
	}
	return a, nil
}

func (repo *attendanceRepository) DeleteAttendance(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM asistencia WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting attendance")
	}
	return checkAffected(res, "attendance", id)
}
