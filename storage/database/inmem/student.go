package inmemdb

import (
	"context"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/student"
)

type studentRepository struct {
	db *DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) hydrate(s student.Student) student.Student {
	s.Course = nil
	if s.CourseID.Valid {
		if c, ok := repo.db.courses[s.CourseID.Int]; ok {
			ref := c.Ref()
			s.Course = &ref
		}
	}
	return s
}

func (repo *studentRepository) QueryStudents(_ context.Context) ([]student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	students := make([]student.Student, 0, len(repo.db.students))
	for _, id := range sortedIDs(repo.db.students) {
		students = append(students, repo.hydrate(repo.db.students[id]))
	}
	return students, nil
}

func (repo *studentRepository) GetStudent(_ context.Context, id int) (student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if s, ok := repo.db.students[id]; ok {
		return repo.hydrate(s), nil
	}
	return student.Student{}, core.NewNotFoundError("student", id)
}

func (repo *studentRepository) checkCourse(s student.Student) error {
	if s.CourseID.Valid {
		if _, ok := repo.db.courses[s.CourseID.Int]; !ok {
			return core.NewNotFoundError("course", s.CourseID.Int)
		}
	}
	return nil
}

func (repo *studentRepository) CreateStudent(_ context.Context, s student.Student) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if err := repo.checkCourse(s); err != nil {
		return student.Student{}, err
	}
	s.ID = repo.db.nextID("estudiante")
	s.Course = nil
	repo.db.students[s.ID] = s
	return s, nil
}

func (repo *studentRepository) UpdateStudent(_ context.Context, s student.Student) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.students[s.ID]; !ok {
		return student.Student{}, core.NewNotFoundError("student", s.ID)
	}
	if err := repo.checkCourse(s); err != nil {
		return student.Student{}, err
	}
	s.Course = nil
	repo.db.students[s.ID] = s
	return s, nil
}

func (repo *studentRepository) DeleteStudent(_ context.Context, id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.students[id]; !ok {
		return core.NewNotFoundError("student", id)
	}
	repo.db.deleteStudent(id)
	return nil
}
