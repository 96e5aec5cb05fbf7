package course

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/subject"
	"github.com/liceo-app/liceo/core/teacher"
)

type (
	Repository interface {
		QueryCourses(ctx context.Context) ([]Course, error)
		QueryCoursesByHeadTeacher(ctx context.Context, teacherID int) ([]Course, error)
		GetCourse(ctx context.Context, id int) (Course, error)
		CreateCourse(ctx context.Context, c Course) (Course, error)
		UpdateCourse(ctx context.Context, c Course) (Course, error)
		DeleteCourse(ctx context.Context, id int) error
		// AddCourseSubject is a no-op when the link already exists.
		AddCourseSubject(ctx context.Context, courseID, subjectID int) error
		RemoveCourseSubject(ctx context.Context, courseID, subjectID int) error
	}

	TeacherFinder interface {
		GetByID(ctx context.Context, id int) (teacher.Teacher, error)
	}

	SubjectFinder interface {
		GetByID(ctx context.Context, id int) (subject.Subject, error)
	}

	Service struct {
		repo     Repository
		teachers TeacherFinder
		subjects SubjectFinder
		validate *core.Validator
	}
)

func NewService(repo Repository, teachers TeacherFinder, subjects SubjectFinder, validate *core.Validator) *Service {
	return &Service{repo: repo, teachers: teachers, subjects: subjects, validate: validate}
}

func (svc *Service) QueryAll(ctx context.Context) ([]Course, error) {
	return svc.repo.QueryCourses(ctx)
}

// QueryByHeadTeacher returns the courses headed by the given teacher.
func (svc *Service) QueryByHeadTeacher(ctx context.Context, teacherID int) ([]Course, error) {
	if _, err := svc.teachers.GetByID(ctx, teacherID); err != nil {
		return nil, err
	}
	return svc.repo.QueryCoursesByHeadTeacher(ctx, teacherID)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Course, error) {
	return svc.repo.GetCourse(ctx, id)
}

func (svc *Service) Create(ctx context.Context, nc NewCourse) (Course, error) {
	if err := nc.Validate(svc.validate); err != nil {
		return Course{}, err
	}
	if _, err := svc.teachers.GetByID(ctx, nc.HeadTeacherID); err != nil {
		return Course{}, err
	}
	c, err := svc.repo.CreateCourse(ctx, Course{Name: nc.Name, HeadTeacherID: null.IntFrom(nc.HeadTeacherID)})
	if err != nil {
		return Course{}, errors.Wrap(err, "creating course")
	}
	return svc.repo.GetCourse(ctx, c.ID)
}

func (svc *Service) Update(ctx context.Context, id int, uc UpdateCourse) (Course, error) {
	c, err := svc.repo.GetCourse(ctx, id)
	if err != nil {
		return Course{}, err
	}
	if err = uc.Validate(svc.validate); err != nil {
		return Course{}, err
	}
	if uc.Name != nil {
		c.Name = *uc.Name
	}
	if uc.HeadTeacherID != nil {
		if _, err = svc.teachers.GetByID(ctx, *uc.HeadTeacherID); err != nil {
			return Course{}, err
		}
		c.HeadTeacherID = null.IntFrom(*uc.HeadTeacherID)
	}
	if _, err = svc.repo.UpdateCourse(ctx, c); err != nil {
		return Course{}, errors.Wrap(err, "updating course")
	}
	return svc.repo.GetCourse(ctx, id)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	if _, err := svc.repo.GetCourse(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteCourse(ctx, id)
}

// AddSubject adds a subject to the course curriculum.
func (svc *Service) AddSubject(ctx context.Context, courseID, subjectID int) (Course, error) {
	if _, err := svc.repo.GetCourse(ctx, courseID); err != nil {
		return Course{}, err
	}
	if _, err := svc.subjects.GetByID(ctx, subjectID); err != nil {
		return Course{}, err
	}
	if err := svc.repo.AddCourseSubject(ctx, courseID, subjectID); err != nil {
		return Course{}, errors.Wrap(err, "adding course subject")
	}
	return svc.repo.GetCourse(ctx, courseID)
}

func (svc *Service) RemoveSubject(ctx context.Context, courseID, subjectID int) error {
	if _, err := svc.repo.GetCourse(ctx, courseID); err != nil {
		return err
	}
	return svc.repo.RemoveCourseSubject(ctx, courseID, subjectID)
}
