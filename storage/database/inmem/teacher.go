package inmemdb

import (
	"context"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/teacher"
)

type teacherRepository struct {
	db *DB
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *DB) *teacherRepository {
	return &teacherRepository{db: db}
}

func (repo *teacherRepository) hydrate(t teacher.Teacher) teacher.Teacher {
	t.Subjects = repo.db.linkedSubjects(repo.db.teacherSubjects, t.ID)
	return t
}

func (repo *teacherRepository) QueryTeachers(_ context.Context) ([]teacher.Teacher, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	teachers := make([]teacher.Teacher, 0, len(repo.db.teachers))
	for _, id := range sortedIDs(repo.db.teachers) {
		teachers = append(teachers, repo.hydrate(repo.db.teachers[id]))
	}
	return teachers, nil
}

func (repo *teacherRepository) GetTeacher(_ context.Context, id int) (teacher.Teacher, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if t, ok := repo.db.teachers[id]; ok {
		return repo.hydrate(t), nil
	}
	return teacher.Teacher{}, core.NewNotFoundError("teacher", id)
}

func (repo *teacherRepository) CreateTeacher(_ context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	t.ID = repo.db.nextID("profesor")
	t.Subjects = nil
	repo.db.teachers[t.ID] = t
	return t, nil
}

func (repo *teacherRepository) UpdateTeacher(_ context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.teachers[t.ID]; !ok {
		return teacher.Teacher{}, core.NewNotFoundError("teacher", t.ID)
	}
	t.Subjects = nil
	repo.db.teachers[t.ID] = t
	return t, nil
}

func (repo *teacherRepository) DeleteTeacher(_ context.Context, id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.teachers[id]; !ok {
		return core.NewNotFoundError("teacher", id)
	}
	repo.db.deleteTeacher(id)
	return nil
}

func (repo *teacherRepository) AddTeacherSubject(_ context.Context, teacherID, subjectID int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.teachers[teacherID]; !ok {
		return core.NewNotFoundError("teacher", teacherID)
	}
	if _, ok := repo.db.subjects[subjectID]; !ok {
		return core.NewNotFoundError("subject", subjectID)
	}
	repo.db.teacherSubjects[link{teacherID, subjectID}] = struct{}{}
	return nil
}

func (repo *teacherRepository) RemoveTeacherSubject(_ context.Context, teacherID, subjectID int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	l := link{teacherID, subjectID}
	if _, ok := repo.db.teacherSubjects[l]; !ok {
		return core.NewNotFoundError("teacher subject", subjectID)
	}
	delete(repo.db.teacherSubjects, l)
	return nil
}
