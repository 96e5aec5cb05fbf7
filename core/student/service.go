package student

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/course"
)

type (
	Repository interface {
		QueryStudents(ctx context.Context) ([]Student, error)
		GetStudent(ctx context.Context, id int) (Student, error)
		CreateStudent(ctx context.Context, s Student) (Student, error)
		UpdateStudent(ctx context.Context, s Student) (Student, error)
		DeleteStudent(ctx context.Context, id int) error
	}

	CourseFinder interface {
		GetByID(ctx context.Context, id int) (course.Course, error)
	}

	Service struct {
		repo     Repository
		courses  CourseFinder
		validate *core.Validator
	}
)

func NewService(repo Repository, courses CourseFinder, validate *core.Validator) *Service {
	return &Service{repo: repo, courses: courses, validate: validate}
}

func (svc *Service) QueryAll(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryStudents(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Student, error) {
	return svc.repo.GetStudent(ctx, id)
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	if err := ns.Validate(svc.validate); err != nil {
		return Student{}, err
	}
	s := Student{
		Name:    ns.Name,
		Surname: ns.Surname,
		Age:     ns.Age,
		Sex:     ns.Sex,
	}
	if ns.CourseID != nil {
		if _, err := svc.courses.GetByID(ctx, *ns.CourseID); err != nil {
			return Student{}, err
		}
		s.CourseID = null.IntFrom(*ns.CourseID)
	}
	s, err := svc.repo.CreateStudent(ctx, s)
	if err != nil {
		return Student{}, errors.Wrap(err, "creating student")
	}
	return svc.repo.GetStudent(ctx, s.ID)
}

func (svc *Service) Update(ctx context.Context, id int, us UpdateStudent) (Student, error) {
	s, err := svc.repo.GetStudent(ctx, id)
	if err != nil {
		return Student{}, err
	}
	if err = us.Validate(svc.validate); err != nil {
		return Student{}, err
	}
	if us.CourseID != nil {
		if _, err = svc.courses.GetByID(ctx, *us.CourseID); err != nil {
			return Student{}, err
		}
	}
	us.apply(&s)
	if _, err = svc.repo.UpdateStudent(ctx, s); err != nil {
		return Student{}, errors.Wrap(err, "updating student")
	}
	return svc.repo.GetStudent(ctx, id)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	if _, err := svc.repo.GetStudent(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteStudent(ctx, id)
}
