package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/course"
	"github.com/liceo-app/liceo/core/subject"
	"github.com/liceo-app/liceo/core/teacher"
)

const courseSelect = `
	SELECT c.id, c.nombre, c.jefe_id, p.nombre AS jefe_nombre, p.apellido AS jefe_apellido
	FROM curso c LEFT JOIN profesor p ON p.id = c.jefe_id`

type courseRow struct {
	ID           int         `db:"id"`
	Nombre       string      `db:"nombre"`
	JefeID       null.Int    `db:"jefe_id"`
	JefeNombre   null.String `db:"jefe_nombre"`
	JefeApellido null.String `db:"jefe_apellido"`
}

func (r courseRow) toCourse(subjects []subject.Subject) course.Course {
	if subjects == nil {
		subjects = []subject.Subject{}
	}
	c := course.Course{
		ID:            r.ID,
		Name:          r.Nombre,
		HeadTeacherID: r.JefeID,
		Subjects:      subjects,
	}
	if r.JefeID.Valid {
		c.HeadTeacher = &teacher.Ref{ID: r.JefeID.Int, Name: r.JefeNombre.String, Surname: r.JefeApellido.String}
	}
	return c
}

type courseRepository struct {
	db core.DBExecutor
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db core.DBExecutor) *courseRepository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) query(ctx context.Context, q string, args ...interface{}) ([]course.Course, error) {
	var rows []courseRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	ids := make([]int, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	subjects, err := loadSubjects(ctx, repo.db, "curso_asignatura", "curso_id", ids)
	if err != nil {
		return nil, err
	}
	courses := make([]course.Course, 0, len(rows))
	for _, r := range rows {
		courses = append(courses, r.toCourse(subjects[r.ID]))
	}
	return courses, nil
}

func (repo *courseRepository) QueryCourses(ctx context.Context) ([]course.Course, error) {
	return repo.query(ctx, courseSelect+" ORDER BY c.id")
}

func (repo *courseRepository) QueryCoursesByHeadTeacher(ctx context.Context, teacherID int) ([]course.Course, error) {
	return repo.query(ctx, courseSelect+" WHERE c.jefe_id = $1 ORDER BY c.id", teacherID)
}

func (repo *courseRepository) GetCourse(ctx context.Context, id int) (course.Course, error) {
	var r courseRow
	if err := repo.db.GetContext(ctx, &r, courseSelect+" WHERE c.id = $1", id); err != nil {
		return course.Course{}, trapNoRowsErr(err, "course", id, "finding course by ID")
	}
	subjects, err := loadSubjects(ctx, repo.db, "curso_asignatura", "curso_id", []int{id})
	if err != nil {
		return course.Course{}, err
	}
	return r.toCourse(subjects[id]), nil
}

func (repo *courseRepository) CreateCourse(ctx context.Context, c course.Course) (course.Course, error) {
	err := repo.db.QueryRowContext(ctx,
		"INSERT INTO curso (nombre, jefe_id) VALUES ($1, $2) RETURNING id", c.Name, c.HeadTeacherID,
	).Scan(&c.ID)
	if err != nil {
		return course.Course{}, trapConstraintErr(err, "inserting course")
	}
	return c, nil
}

func (repo *courseRepository) UpdateCourse(ctx context.Context, c course.Course) (course.Course, error) {
	res, err := repo.db.ExecContext(ctx, "UPDATE curso SET nombre = $1, jefe_id = $2 WHERE id = $3", c.Name, c.HeadTeacherID, c.ID)
	if err != nil {
		return course.Course{}, trapConstraintErr(err, "updating course")
	}
	if err = checkAffected(res, "course", c.ID); err != nil {
		return course.Course{}, err
	}
	return c, nil
}

func (repo *courseRepository) DeleteCourse(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM curso WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting course")
	}
	return checkAffected(res, "course", id)
}

func (repo *courseRepository) AddCourseSubject(ctx context.Context, courseID, subjectID int) error {
	return addLink(ctx, repo.db, "curso_asignatura", "curso_id", courseID, subjectID)
}

func (repo *courseRepository) RemoveCourseSubject(ctx context.Context, courseID, subjectID int) error {
	return removeLink(ctx, repo.db, "curso_asignatura", "curso_id", "course subject", courseID, subjectID)
}
