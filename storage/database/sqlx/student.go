package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/course"
	"github.com/liceo-app/liceo/core/student"
)

const studentSelect = `
	SELECT e.id, e.nombre, e.apellido, e.edad, e.sexo, e.curso_id, c.nombre AS curso_nombre
	FROM estudiante e LEFT JOIN curso c ON c.id = e.curso_id`

type studentRow struct {
	ID          int         `db:"id"`
	Nombre      string      `db:"nombre"`
	Apellido    string      `db:"apellido"`
	Edad        int         `db:"edad"`
	Sexo        string      `db:"sexo"`
	CursoID     null.Int    `db:"curso_id"`
	CursoNombre null.String `db:"curso_nombre"`
}

func (r studentRow) toStudent() student.Student {
	s := student.Student{
		ID:       r.ID,
		Name:     r.Nombre,
		Surname:  r.Apellido,
		Age:      r.Edad,
		Sex:      r.Sexo,
		CourseID: r.CursoID,
	}
	if r.CursoID.Valid {
		s.Course = &course.Ref{ID: r.CursoID.Int, Name: r.CursoNombre.String}
	}
	return s
}

type studentRepository struct {
	db core.DBExecutor
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db core.DBExecutor) *studentRepository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) QueryStudents(ctx context.Context) ([]student.Student, error) {
	var rows []studentRow
	if err := repo.db.SelectContext(ctx, &rows, studentSelect+" ORDER BY e.id"); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, r.toStudent())
	}
	return students, nil
}

func (repo *studentRepository) GetStudent(ctx context.Context, id int) (student.Student, error) {
	var r studentRow
	if err := repo.db.GetContext(ctx, &r, studentSelect+" WHERE e.id = $1", id); err != nil {
		return student.Student{}, trapNoRowsErr(err, "student", id, "finding student by ID")
	}
	return r.toStudent(), nil
}

func (repo *studentRepository) CreateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	err := repo.db.QueryRowContext(ctx,
		"INSERT INTO estudiante (nombre, apellido, edad, sexo, curso_id) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		s.Name, s.Surname, s.Age, s.Sex, s.CourseID,
	).Scan(&s.ID)
	if err != nil {
		return student.Student{}, trapConstraintErr(err, "inserting student")
	}
	return s, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	res, err := repo.db.ExecContext(ctx,
		"UPDATE estudiante SET nombre = $1, apellido = $2, edad = $3, sexo = $4, curso_id = $5 WHERE id = $6",
		s.Name, s.Surname, s.Age, s.Sex, s.CourseID, s.ID,
	)
	if err != nil {
		return student.Student{}, trapConstraintErr(err, "updating student")
	}
	if err = checkAffected(res, "student", s.ID); err != nil {
		return student.Student{}, err
	}
	return s, nil
}

func (repo *studentRepository) DeleteStudent(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM estudiante WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return checkAffected(res, "student", id)
}
