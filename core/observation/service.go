package observation

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/student"
	"github.com/liceo-app/liceo/core/teacher"
)

var nowFunc = time.Now // mockable

type (
	// Repository lists observations newest first (descending id).
	Repository interface {
		QueryObservations(ctx context.Context) ([]Observation, error)
		QueryObservationsByStudent(ctx context.Context, studentID int) ([]Observation, error)
		QueryObservationsByTeacher(ctx context.Context, teacherID int) ([]Observation, error)
		GetObservation(ctx context.Context, id int) (Observation, error)
		CreateObservation(ctx context.Context, o Observation) (Observation, error)
		UpdateObservation(ctx context.Context, o Observation) (Observation, error)
		DeleteObservation(ctx context.Context, id int) error
	}

	StudentFinder interface {
		GetByID(ctx context.Context, id int) (student.Student, error)
	}

	TeacherFinder interface {
		GetByID(ctx context.Context, id int) (teacher.Teacher, error)
	}

	Service struct {
		repo     Repository
		students StudentFinder
		teachers TeacherFinder
		validate *core.Validator
	}
)

func NewService(repo Repository, students StudentFinder, teachers TeacherFinder, validate *core.Validator) *Service {
	return &Service{repo: repo, students: students, teachers: teachers, validate: validate}
}

func (svc *Service) QueryAll(ctx context.Context) ([]Observation, error) {
	return svc.repo.QueryObservations(ctx)
}

func (svc *Service) QueryByStudent(ctx context.Context, studentID int) ([]Observation, error) {
	if _, err := svc.students.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	return svc.repo.QueryObservationsByStudent(ctx, studentID)
}

func (svc *Service) QueryByTeacher(ctx context.Context, teacherID int) ([]Observation, error) {
	if _, err := svc.teachers.GetByID(ctx, teacherID); err != nil {
		return nil, err
	}
	return svc.repo.QueryObservationsByTeacher(ctx, teacherID)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Observation, error) {
	return svc.repo.GetObservation(ctx, id)
}

func (svc *Service) Create(ctx context.Context, no NewObservation) (Observation, error) {
	if err := no.Validate(svc.validate); err != nil {
		return Observation{}, err
	}
	if _, err := svc.students.GetByID(ctx, no.StudentID); err != nil {
		return Observation{}, err
	}
	if _, err := svc.teachers.GetByID(ctx, no.TeacherID); err != nil {
		return Observation{}, err
	}
	o := Observation{
		Text:      no.Text,
		Status:    null.StringFromPtr(no.Status),
		Date:      nowFunc().UTC(),
		StudentID: no.StudentID,
		TeacherID: no.TeacherID,
	}
	o, err := svc.repo.CreateObservation(ctx, o)
	if err != nil {
		return Observation{}, errors.Wrap(err, "creating observation")
	}
	return svc.repo.GetObservation(ctx, o.ID)
}

func (svc *Service) Update(ctx context.Context, id int, uo UpdateObservation) (Observation, error) {
	o, err := svc.repo.GetObservation(ctx, id)
	if err != nil {
		return Observation{}, err
	}
	if err = uo.Validate(svc.validate); err != nil {
		return Observation{}, err
	}
	if uo.StudentID != nil {
		if _, err = svc.students.GetByID(ctx, *uo.StudentID); err != nil {
			return Observation{}, err
		}
	}
	if uo.TeacherID != nil {
		if _, err = svc.teachers.GetByID(ctx, *uo.TeacherID); err != nil {
			return Observation{}, err
		}
	}
	uo.apply(&o)
	if _, err = svc.repo.UpdateObservation(ctx, o); err != nil {
		return Observation{}, errors.Wrap(err, "updating observation")
	}
	return svc.repo.GetObservation(ctx, id)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	if _, err := svc.repo.GetObservation(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteObservation(ctx, id)
}
