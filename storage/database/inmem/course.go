package inmemdb

import (
	"context"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/course"
)

type courseRepository struct {
	db *DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) *courseRepository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) hydrate(c course.Course) course.Course {
	c.HeadTeacher = nil
	if c.HeadTeacherID.Valid {
		c.HeadTeacher = repo.db.teacherRef(c.HeadTeacherID.Int)
	}
	c.Subjects = repo.db.linkedSubjects(repo.db.courseSubjects, c.ID)
	return c
}

func (repo *courseRepository) query(keep func(course.Course) bool) []course.Course {
	courses := make([]course.Course, 0, len(repo.db.courses))
	for _, id := range sortedIDs(repo.db.courses) {
		if c := repo.db.courses[id]; keep(c) {
			courses = append(courses, repo.hydrate(c))
		}
	}
	return courses
}

func (repo *courseRepository) QueryCourses(_ context.Context) ([]course.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(func(course.Course) bool { return true }), nil
}

func (repo *courseRepository) QueryCoursesByHeadTeacher(_ context.Context, teacherID int) ([]course.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(func(c course.Course) bool {
		return c.HeadTeacherID.Valid && c.HeadTeacherID.Int == teacherID
	}), nil
}

func (repo *courseRepository) GetCourse(_ context.Context, id int) (course.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if c, ok := repo.db.courses[id]; ok {
		return repo.hydrate(c), nil
	}
	return course.Course{}, core.NewNotFoundError("course", id)
}

func (repo *courseRepository) checkHeadTeacher(c course.Course) error {
	if c.HeadTeacherID.Valid {
		if _, ok := repo.db.teachers[c.HeadTeacherID.Int]; !ok {
			return core.NewNotFoundError("teacher", c.HeadTeacherID.Int)
		}
	}
	return nil
}

func (repo *courseRepository) CreateCourse(_ context.Context, c course.Course) (course.Course, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if err := repo.checkHeadTeacher(c); err != nil {
		return course.Course{}, err
	}
	c.ID = repo.db.nextID("curso")
	c.HeadTeacher, c.Subjects = nil, nil
	repo.db.courses[c.ID] = c
	return c, nil
}

func (repo *courseRepository) UpdateCourse(_ context.Context, c course.Course) (course.Course, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.courses[c.ID]; !ok {
		return course.Course{}, core.NewNotFoundError("course", c.ID)
	}
	if err := repo.checkHeadTeacher(c); err != nil {
		return course.Course{}, err
	}
	c.HeadTeacher, c.Subjects = nil, nil
	repo.db.courses[c.ID] = c
	return c, nil
}

func (repo *courseRepository) DeleteCourse(_ context.Context, id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.courses[id]; !ok {
		return core.NewNotFoundError("course", id)
	}
	repo.db.deleteCourse(id)
	return nil
}

func (repo *courseRepository) AddCourseSubject(_ context.Context, courseID, subjectID int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.courses[courseID]; !ok {
		return core.NewNotFoundError("course", courseID)
	}
	if _, ok := repo.db.subjects[subjectID]; !ok {
		return core.NewNotFoundError("subject", subjectID)
	}
	repo.db.courseSubjects[link{courseID, subjectID}] = struct{}{}
	return nil
}

func (repo *courseRepository) RemoveCourseSubject(_ context.Context, courseID, subjectID int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	l := link{courseID, subjectID}
	if _, ok := repo.db.courseSubjects[l]; !ok {
		return core.NewNotFoundError("course subject", subjectID)
	}
	delete(repo.db.courseSubjects, l)
	return nil
}
