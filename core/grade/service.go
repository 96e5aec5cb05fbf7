package grade

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/student"
	"github.com/liceo-app/liceo/core/subject"
	"github.com/liceo-app/liceo/core/teacher"
)

var nowFunc = time.Now // mockable

type (
	Repository interface {
		QueryGrades(ctx context.Context) ([]Grade, error)
		QueryGradesByStudent(ctx context.Context, studentID int) ([]Grade, error)
		QueryGradesBySubject(ctx context.Context, subjectID int) ([]Grade, error)
		QueryGradesByTeacher(ctx context.Context, teacherID int) ([]Grade, error)
		GetGrade(ctx context.Context, id int) (Grade, error)
		CreateGrade(ctx context.Context, g Grade) (Grade, error)
		UpdateGrade(ctx context.Context, g Grade) (Grade, error)
		DeleteGrade(ctx context.Context, id int) error
	}

	StudentFinder interface {
		GetByID(ctx context.Context, id int) (student.Student, error)
	}

	SubjectFinder interface {
		GetByID(ctx context.Context, id int) (subject.Subject, error)
	}

	TeacherFinder interface {
		GetByID(ctx context.Context, id int) (teacher.Teacher, error)
	}

	Service struct {
		repo     Repository
		students StudentFinder
		subjects SubjectFinder
		teachers TeacherFinder
		validate *core.Validator
	}
)

func NewService(repo Repository, students StudentFinder, subjects SubjectFinder, teachers TeacherFinder, validate *core.Validator) *Service {
	return &Service{
		repo:     repo,
		students: students,
		subjects: subjects,
		teachers: teachers,
		validate: validate,
	}
}

func (svc *Service) QueryAll(ctx context.Context) ([]Grade, error) {
	return svc.repo.QueryGrades(ctx)
}

func (svc *Service) QueryByStudent(ctx context.Context, studentID int) ([]Grade, error) {
	if _, err := svc.students.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	return svc.repo.QueryGradesByStudent(ctx, studentID)
}

func (svc *Service) QueryBySubject(ctx context.Context, subjectID int) ([]Grade, error) {
	if _, err := svc.subjects.GetByID(ctx, subjectID); err != nil {
		return nil, err
	}
	return svc.repo.QueryGradesBySubject(ctx, subjectID)
}

func (svc *Service) QueryByTeacher(ctx context.Context, teacherID int) ([]Grade, error) {
	if _, err := svc.teachers.GetByID(ctx, teacherID); err != nil {
		return nil, err
	}
	return svc.repo.QueryGradesByTeacher(ctx, teacherID)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Grade, error) {
	return svc.repo.GetGrade(ctx, id)
}

// Stats computes statistics over every recorded grade.
func (svc *Service) Stats(ctx context.Context) (Stats, error) {
	grades, err := svc.repo.QueryGrades(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(grades), nil
}

func (svc *Service) checkRefs(ctx context.Context, studentID, subjectID, teacherID int) error {
	if studentID > 0 {
		if _, err := svc.students.GetByID(ctx, studentID); err != nil {
			return err
		}
	}
	if subjectID > 0 {
		if _, err := svc.subjects.GetByID(ctx, subjectID); err != nil {
			return err
		}
	}
	if teacherID > 0 {
		if _, err := svc.teachers.GetByID(ctx, teacherID); err != nil {
			return err
		}
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ng NewGrade) (Grade, error) {
	if err := ng.Validate(svc.validate); err != nil {
		return Grade{}, err
	}
	if err := svc.checkRefs(ctx, ng.StudentID, ng.SubjectID, ng.TeacherID); err != nil {
		return Grade{}, err
	}
	g, err := svc.repo.CreateGrade(ctx, Grade{
		Value:     *ng.Value,
		Date:      nowFunc().UTC(),
		StudentID: ng.StudentID,
		SubjectID: ng.SubjectID,
		TeacherID: ng.TeacherID,
	})
	if err != nil {
		return Grade{}, errors.Wrap(err, "creating grade")
	}
	return svc.repo.GetGrade(ctx, g.ID)
}

func (svc *Service) Update(ctx context.Context, id int, ug UpdateGrade) (Grade, error) {
	g, err := svc.repo.GetGrade(ctx, id)
	if err != nil {
		return Grade{}, err
	}
	if err = ug.Validate(svc.validate); err != nil {
		return Grade{}, err
	}
	var stuID, subID, teachID int
	if ug.StudentID != nil {
		stuID = *ug.StudentID
	}
	if ug.SubjectID != nil {
		subID = *ug.SubjectID
	}
	if ug.TeacherID != nil {
		teachID = *ug.TeacherID
	}
	if err = svc.checkRefs(ctx, stuID, subID, teachID); err != nil {
		return Grade{}, err
	}
	ug.apply(&g)
	if _, err = svc.repo.UpdateGrade(ctx, g); err != nil {
		return Grade{}, errors.Wrap(err, "updating grade")
	}
	return svc.repo.GetGrade(ctx, id)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	if _, err := svc.repo.GetGrade(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteGrade(ctx, id)
}
