package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/subject"
	"github.com/liceo-app/liceo/core/teacher"
)

const teacherColumns = "id, nombre, apellido, edad, sexo"

type teacherRow struct {
	ID       int    `db:"id"`
	Nombre   string `db:"nombre"`
	Apellido string `db:"apellido"`
	Edad     int    `db:"edad"`
	Sexo     string `db:"sexo"`
}

func (r teacherRow) toTeacher(subjects []subject.Subject) teacher.Teacher {
	if subjects == nil {
		subjects = []subject.Subject{}
	}
	return teacher.Teacher{
		ID:       r.ID,
		Name:     r.Nombre,
		Surname:  r.Apellido,
		Age:      r.Edad,
		Sex:      r.Sexo,
		Subjects: subjects,
	}
}

type teacherRepository struct {
	db core.DBExecutor
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db core.DBExecutor) *teacherRepository {
	return &teacherRepository{db: db}
}

func (repo *teacherRepository) QueryTeachers(ctx context.Context) ([]teacher.Teacher, error) {
	var rows []teacherRow
	if err := repo.db.SelectContext(ctx, &rows, "SELECT "+teacherColumns+" FROM profesor ORDER BY id"); err != nil {
		return nil, errors.Wrap(err, "querying teachers")
	}
	ids := make([]int, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	subjects, err := loadSubjects(ctx, repo.db, "profesor_asignatura", "profesor_id", ids)
	if err != nil {
		return nil, err
	}
	teachers := make([]teacher.Teacher, 0, len(rows))
	for _, r := range rows {
		teachers = append(teachers, r.toTeacher(subjects[r.ID]))
	}
	return teachers, nil
}

func (repo *teacherRepository) GetTeacher(ctx context.Context, id int) (teacher.Teacher, error) {
	var r teacherRow
	if err := repo.db.GetContext(ctx, &r, "SELECT "+teacherColumns+" FROM profesor WHERE id = $1", id); err != nil {
		return teacher.Teacher{}, trapNoRowsErr(err, "teacher", id, "finding teacher by ID")
	}
	subjects, err := loadSubjects(ctx, repo.db, "profesor_asignatura", "profesor_id", []int{id})
	if err != nil {
		return teacher.Teacher{}, err
	}
	return r.toTeacher(subjects[id]), nil
}

func (repo *teacherRepository) CreateTeacher(ctx context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	err := repo.db.QueryRowContext(ctx,
		"INSERT INTO profesor (nombre, apellido, edad, sexo) VALUES ($1, $2, $3, $4) RETURNING id",
		t.Name, t.Surname, t.Age, t.Sex,
	).Scan(&t.ID)
	if err != nil {
		return teacher.Teacher{}, trapConstraintErr(err, "inserting teacher")
	}
	return t, nil
}

func (repo *teacherRepository) UpdateTeacher(ctx context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	res, err := repo.db.ExecContext(ctx,
		"UPDATE profesor SET nombre = $1, apellido = $2, edad = $3, sexo = $4 WHERE id = $5",
		t.Name, t.Surname, t.Age, t.Sex, t.ID,
	)
	if err != nil {
		return teacher.Teacher{}, trapConstraintErr(err, "updating teacher")
	}
	if err = checkAffected(res, "teacher", t.ID); err != nil {
		return teacher.Teacher{}, err
	}
	return t, nil
}

func (repo *teacherRepository) DeleteTeacher(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM profesor WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting teacher")
	}
	return checkAffected(res, "teacher", id)
}

func (repo *teacherRepository) AddTeacherSubject(ctx context.Context, teacherID, subjectID int) error {
	return addLink(ctx, repo.db, "profesor_asignatura", "profesor_id", teacherID, subjectID)
}

func (repo *teacherRepository) RemoveTeacherSubject(ctx context.Context, teacherID, subjectID int) error {
	return removeLink(ctx, repo.db, "profesor_asignatura", "profesor_id", "teacher subject", teacherID, subjectID)
}
