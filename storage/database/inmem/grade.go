package inmemdb

import (
	"context"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/grade"
)

type gradeRepository struct {
	db *DB
}

var _ grade.Repository = (*gradeRepository)(nil) // interface compliance check

func NewGradeRepository(db *DB) *gradeRepository {
	return &gradeRepository{db: db}
}

func (repo *gradeRepository) hydrate(g grade.Grade) grade.Grade {
	g.Student = repo.db.studentRef(g.StudentID)
	g.Teacher = repo.db.teacherRef(g.TeacherID)
	g.Subject = nil
	if s, ok := repo.db.subjects[g.SubjectID]; ok {
		g.Subject = &s
	}
	return g
}

func (repo *gradeRepository) query(keep func(grade.Grade) bool) []grade.Grade {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	grades := make([]grade.Grade, 0)
	for _, id := range sortedIDs(repo.db.grades) {
		if g := repo.db.grades[id]; keep(g) {
			grades = append(grades, repo.hydrate(g))
		}
	}
	return grades
}

func (repo *gradeRepository) QueryGrades(_ context.Context) ([]grade.Grade, error) {
	return repo.query(func(grade.Grade) bool { return true }), nil
}

func (repo *gradeRepository) QueryGradesByStudent(_ context.Context, studentID int) ([]grade.Grade, error) {
	return repo.query(func(g grade.Grade) bool { return g.StudentID == studentID }), nil
}

func (repo *gradeRepository) QueryGradesBySubject(_ context.Context, subjectID int) ([]grade.Grade, error) {
	return repo.query(func(g grade.Grade) bool { return g.SubjectID == subjectID }), nil
}

func (repo *gradeRepository) QueryGradesByTeacher(_ context.Context, teacherID int) ([]grade.Grade, error) {
	return repo.query(func(g grade.Grade) bool { return g.TeacherID == teacherID }), nil
}

func (repo *gradeRepository) GetGrade(_ context.Context, id int) (grade.Grade, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if g, ok := repo.db.grades[id]; ok {
		return repo.hydrate(g), nil
	}
	return grade.Grade{}, core.NewNotFoundError("grade", id)
}

func (repo *gradeRepository) checkRefs(g grade.Grade) error {
	if _, ok := repo.db.students[g.StudentID]; !ok {
		return core.NewNotFoundError("student", g.StudentID)
	}
	if _, ok := repo.db.subjects[g.SubjectID]; !ok {
		return core.NewNotFoundError("subject", g.SubjectID)
	}
	if _, ok := repo.db.teachers[g.TeacherID]; !ok {
		return core.NewNotFoundError("teacher", g.TeacherID)
	}
	return nil
}

func (repo *gradeRepository) CreateGrade(_ context.Context, g grade.Grade) (grade.Grade, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if err := repo.checkRefs(g); err != nil {
		return grade.Grade{}, err
	}
	g.ID = repo.db.nextID("calificacion")
	g.Date = g.Date.UTC()
	g.Student, g.Subject, g.Teacher = nil, nil, nil
	repo.db.grades[g.ID] = g
	return g, nil
}

func (repo *gradeRepository) UpdateGrade(_ context.Context, g grade.Grade) (grade.Grade, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.grades[g.ID]; !ok {
		return grade.Grade{}, core.NewNotFoundError("grade", g.ID)
	}
	if err := repo.checkRefs(g); err != nil {
		return grade.Grade{}, err
	}
	g.Student, g.Subject, g.Teacher = nil, nil, nil
	repo.db.grades[g.ID] = g
	return g, nil
}

func (repo *gradeRepository) DeleteGrade(_ context.Context, id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.grades[id]; !ok {
		return core.NewNotFoundError("grade", id)
	}
	delete(repo.db.grades, id)
	return nil
}
