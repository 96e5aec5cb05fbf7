package sqlxrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/grade"
	"github.com/liceo-app/liceo/core/student"
	"github.com/liceo-app/liceo/core/subject"
	"github.com/liceo-app/liceo/core/teacher"
)

const gradeSelect = `
	SELECT g.id, g.valor, g.fecha, g.estudiante_id, g.asignatura_id, g.profesor_id,
		e.nombre AS estudiante_nombre, e.apellido AS estudiante_apellido,
		a.nombre AS asignatura_nombre,
		p.nombre AS profesor_nombre, p.apellido AS profesor_apellido
	FROM calificacion g
		JOIN estudiante e ON e.id = g.estudiante_id
		JOIN asignatura a ON a.id = g.asignatura_id
		JOIN profesor p ON p.id = g.profesor_id`

type gradeRow struct {
	ID                 int       `db:"id"`
	Valor              float64   `db:"valor"`
	Fecha              time.Time `db:"fecha"`
	EstudianteID       int       `db:"estudiante_id"`
	AsignaturaID       int       `db:"asignatura_id"`
	ProfesorID         int       `db:"profesor_id"`
	EstudianteNombre   string    `db:"estudiante_nombre"`
	EstudianteApellido string    `db:"estudiante_apellido"`
	AsignaturaNombre   string    `db:"asignatura_nombre"`
	ProfesorNombre     string    `db:"profesor_nombre"`
	ProfesorApellido   string    `db:"profesor_apellido"`
}

func (r gradeRow) toGrade() grade.Grade {
	return grade.Grade{
		ID:        r.ID,
		Value:     r.Valor,
		Date:      r.Fecha.UTC(),
		StudentID: r.EstudianteID,
		SubjectID: r.AsignaturaID,
		TeacherID: r.ProfesorID,
		Student:   &student.Ref{ID: r.EstudianteID, Name: r.EstudianteNombre, Surname: r.EstudianteApellido},
		Subject:   &subject.Subject{ID: r.AsignaturaID, Name: r.AsignaturaNombre},
		Teacher:   &teacher.Ref{ID: r.ProfesorID, Name: r.ProfesorNombre, Surname: r.ProfesorApellido},
	}
}

type gradeRepository struct {
	db core.DBExecutor
}

var _ grade.Repository = (*gradeRepository)(nil) // interface compliance check

func NewGradeRepository(db core.DBExecutor) *gradeRepository {
	return &gradeRepository{db: db}
}

func (repo *gradeRepository) query(ctx context.Context, q string, args ...interface{}) ([]grade.Grade, error) {
	var rows []gradeRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying grades")
	}
	grades := make([]grade.Grade, 0, len(rows))
	for _, r := range rows {
		grades = append(grades, r.toGrade())
	}
	return grades, nil
}

func (repo *gradeRepository) QueryGrades(ctx context.Context) ([]grade.Grade, error) {
	return repo.query(ctx, gradeSelect+" ORDER BY g.id")
}

func (repo *gradeRepository) QueryGradesByStudent(ctx context.Context, studentID int) ([]grade.Grade, error) {
	return repo.query(ctx, gradeSelect+" WHERE g.estudiante_id = $1 ORDER BY g.id", studentID)
}

func (repo *gradeRepository) QueryGradesBySubject(ctx context.Context, subjectID int) ([]grade.Grade, error) {
	return repo.query(ctx, gradeSelect+" WHERE g.asignatura_id = $1 ORDER BY g.id", subjectID)
}

func (repo *gradeRepository) QueryGradesByTeacher(ctx context.Context, teacherID int) ([]grade.Grade, error) {
	return repo.query(ctx, gradeSelect+" WHERE g.profesor_id = $1 ORDER BY g.id", teacherID)
}

func (repo *gradeRepository) GetGrade(ctx context.Context, id int) (grade.Grade, error) {
	var r gradeRow
	if err := repo.db.GetContext(ctx, &r, gradeSelect+" WHERE g.id = $1", id); err != nil {
		return grade.Grade{}, trapNoRowsErr(err, "grade", id, "finding grade by ID")
	}
	return r.toGrade(), nil
}

func (repo *gradeRepository) CreateGrade(ctx context.Context, g grade.Grade) (grade.Grade, error) {
	err := repo.db.QueryRowContext(ctx,
		"INSERT INTO calificacion (valor, fecha, estudiante_id, asignatura_id, profesor_id) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		g.Value, g.Date.UTC(), g.StudentID, g.SubjectID, g.TeacherID,
	).Scan(&g.ID)
	if err != nil {
		return grade.Grade{}, trapConstraintErr(err, "inserting grade")
	}
	return g, nil
}

func (repo *gradeRepository) UpdateGrade(ctx context.Context, g grade.Grade) (grade.Grade, error) {
	res, err := repo.db.ExecContext(ctx,
		"UPDATE calificacion SET valor = $1, estudiante_id = $2, asignatura_id = $3, profesor_id = $4 WHERE id = $5",
		g.Value, g.StudentID, g.SubjectID, g.TeacherID, g.ID,
	)
	if err != nil {
		return grade.Grade{}, trapConstraintErr(err, "updating grade")
	}
	if err = checkAffected(res, "grade", g.ID); err != nil {
		return grade.Grade{}, err
	}
	return g, nil
}

func (repo *gradeRepository) DeleteGrade(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM calificacion WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting grade")
	}
	return checkAffected(res, "grade", id)
}
