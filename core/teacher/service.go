package teacher

import (
	"context"

	"github.com/pkg/errors"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/subject"
)

type (
	Repository interface {
		QueryTeachers(ctx context.Context) ([]Teacher, error)
		GetTeacher(ctx context.Context, id int) (Teacher, error)
		CreateTeacher(ctx context.Context, t Teacher) (Teacher, error)
		UpdateTeacher(ctx context.Context, t Teacher) (Teacher, error)
		DeleteTeacher(ctx context.Context, id int) error
		// AddTeacherSubject is a no-op when the link already exists.
		AddTeacherSubject(ctx context.Context, teacherID, subjectID int) error
		RemoveTeacherSubject(ctx context.Context, teacherID, subjectID int) error
	}

	SubjectFinder interface {
		GetByID(ctx context.Context, id int) (subject.Subject, error)
	}

	Service struct {
		repo     Repository
		subjects SubjectFinder
		validate *core.Validator
	}
)

func NewService(repo Repository, subjects SubjectFinder, validate *core.Validator) *Service {
	return &Service{repo: repo, subjects: subjects, validate: validate}
}

func (svc *Service) QueryAll(ctx context.Context) ([]Teacher, error) {
	return svc.repo.QueryTeachers(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Teacher, error) {
	return svc.repo.GetTeacher(ctx, id)
}

func (svc *Service) Create(ctx context.Context, nt NewTeacher) (Teacher, error) {
	if err := nt.Validate(svc.validate); err != nil {
		return Teacher{}, err
	}
	t, err := svc.repo.CreateTeacher(ctx, Teacher{
		Name:    nt.Name,
		Surname: nt.Surname,
		Age:     nt.Age,
		Sex:     nt.Sex,
	})
	if err != nil {
		return Teacher{}, errors.Wrap(err, "creating teacher")
	}
	return t, nil
}

func (svc *Service) Update(ctx context.Context, id int, ut UpdateTeacher) (Teacher, error) {
	t, err := svc.repo.GetTeacher(ctx, id)
	if err != nil {
		return Teacher{}, err
	}
	if err = ut.Validate(svc.validate); err != nil {
		return Teacher{}, err
	}
	ut.apply(&t)
	return svc.repo.UpdateTeacher(ctx, t)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	if _, err := svc.repo.GetTeacher(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteTeacher(ctx, id)
}

// AddSubject links a subject to the subjects a teacher teaches.
func (svc *Service) AddSubject(ctx context.Context, teacherID, subjectID int) (Teacher, error) {
	if _, err := svc.repo.GetTeacher(ctx, teacherID); err != nil {
		return Teacher{}, err
	}
	if _, err := svc.subjects.GetByID(ctx, subjectID); err != nil {
		return Teacher{}, err
	}
	if err := svc.repo.AddTeacherSubject(ctx, teacherID, subjectID); err != nil {
		return Teacher{}, errors.Wrap(err, "adding teacher subject")
	}
	return svc.repo.GetTeacher(ctx, teacherID)
}

func (svc *Service) RemoveSubject(ctx context.Context, teacherID, subjectID int) error {
	if _, err := svc.repo.GetTeacher(ctx, teacherID); err != nil {
		return err
	}
	return svc.repo.RemoveTeacherSubject(ctx, teacherID, subjectID)
}
