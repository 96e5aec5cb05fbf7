package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/student"
)

var nowFunc = time.Now // mockable

type (
	Repository interface {
		QueryAttendance(ctx context.Context) ([]Attendance, error)
		QueryAttendanceByStudent(ctx context.Context, studentID int) ([]Attendance, error)
		QueryAttendanceByDay(ctx context.Context, day string) ([]Attendance, error)
		GetAttendance(ctx context.Context, id int) (Attendance, error)
		// CreateAttendance and UpdateAttendance return a *core.ConflictError when the student
		// already has another record on the same Day.
		CreateAttendance(ctx context.Context, a Attendance) (Attendance, error)
		UpdateAttendance(ctx context.Context, a Attendance) (Attendance, error)
		DeleteAttendance(ctx context.Context, id int) error
	}

	StudentFinder interface {
		GetByID(ctx context.Context, id int) (student.Student, error)
	}

	Service struct {
		repo     Repository
		students StudentFinder
		validate *core.Validator
		loc      *time.Location
	}
)

// NewService returns an attendance Service; calendar days are computed in loc.
func NewService(repo Repository, students StudentFinder, validate *core.Validator, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, students: students, validate: validate, loc: loc}
}

func (svc *Service) QueryAll(ctx context.Context) ([]Attendance, error) {
	return svc.repo.QueryAttendance(ctx)
}

func (svc *Service) QueryByStudent(ctx context.Context, studentID int) ([]Attendance, error) {
	if _, err := svc.students.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	return svc.repo.QueryAttendanceByStudent(ctx, studentID)
}

// QueryByDate returns the records of the given calendar day (YYYY-MM-DD).
func (svc *Service) QueryByDate(ctx context.Context, day string) ([]Attendance, error) {
	d, err := time.ParseInLocation(core.DateLayout, core.CleanString(day), svc.loc)
	if err != nil {
		return nil, core.NewValidationError(nil, core.FieldError{Field: "fecha", Error: "fecha must be formatted as YYYY-MM-DD"})
	}
	return svc.repo.QueryAttendanceByDay(ctx, d.Format(core.DateLayout))
}

func (svc *Service) GetByID(ctx context.Context, id int) (Attendance, error) {
	return svc.repo.GetAttendance(ctx, id)
}

// Stats computes statistics over every record, or only those of studentID when given.
func (svc *Service) Stats(ctx context.Context, studentID *int) (Stats, error) {
	var (
		records []Attendance
		err     error
	)
	if studentID != nil {
		records, err = svc.QueryByStudent(ctx, *studentID)
	} else {
		records, err = svc.repo.QueryAttendance(ctx)
	}
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(records), nil
}

// parseDate resolves the "fecha" of a payload; blank means now. Future dates are rejected.
func (svc *Service) parseDate(s string) (time.Time, error) {
	now := nowFunc()
	if core.CleanString(s) == "" {
		return now.UTC(), nil
	}
	t, err := core.ParseTime(s, svc.loc)
	if err != nil {
		return time.Time{}, core.NewValidationError(nil, core.FieldError{
			Field: "fecha",
			Error: "fecha must be a date (YYYY-MM-DD) or an RFC 3339 timestamp",
		})
	}
	if t.After(now) {
		return time.Time{}, core.NewValidationError(nil, core.FieldError{Field: "fecha", Error: "fecha cannot be in the future"})
	}
	return t.UTC(), nil
}

func duplicateDayError(a Attendance) error {
	return core.NewConflictError(fmt.Sprintf("attendance already recorded for student %d on %s", a.StudentID, a.Day))
}

func (svc *Service) Create(ctx context.Context, na NewAttendance) (Attendance, error) {
	if err := na.Validate(svc.validate); err != nil {
		return Attendance{}, err
	}
	date, err := svc.parseDate(na.Date)
	if err != nil {
		return Attendance{}, err
	}
	if _, err = svc.students.GetByID(ctx, na.StudentID); err != nil {
		return Attendance{}, err
	}
	a := Attendance{
		Date:      date,
		Day:       core.Day(date, svc.loc),
		Status:    na.Status,
		StudentID: na.StudentID,
	}
	created, err := svc.repo.CreateAttendance(ctx, a)
	if err != nil {
		if core.IsConflict(err) {
			return Attendance{}, duplicateDayError(a)
		}
		return Attendance{}, errors.Wrap(err, "creating attendance")
	}
	return svc.repo.GetAttendance(ctx, created.ID)
}

func (svc *Service) Update(ctx context.Context, id int, ua UpdateAttendance) (Attendance, error) {
	a, err := svc.repo.GetAttendance(ctx, id)
	if err != nil {
		return Attendance{}, err
	}
	if err = ua.Validate(svc.validate); err != nil {
		return Attendance{}, err
	}
	if ua.Date != nil {
		if a.Date, err = svc.parseDate(*ua.Date); err != nil {
			return Attendance{}, err
		}
		a.Day = core.Day(a.Date, svc.loc)
	}
	if ua.Status != nil {
		a.Status = *ua.Status
	}
	if ua.StudentID != nil {
		if _, err = svc.students.GetByID(ctx, *ua.StudentID); err != nil {
			return Attendance{}, err
		}
		a.StudentID = *ua.StudentID
	}
	if _, err = svc.repo.UpdateAttendance(ctx, a); err != nil {
		if core.IsConflict(err) {
			return Attendance{}, duplicateDayError(a)
		}
		return Attendance{}, errors.Wrap(err, "updating attendance")
	}
	return svc.repo.GetAttendance(ctx, id)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	if _, err := svc.repo.GetAttendance(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteAttendance(ctx, id)
}
