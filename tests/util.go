package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/attendance"
	"github.com/liceo-app/liceo/core/course"
	"github.com/liceo-app/liceo/core/grade"
	"github.com/liceo-app/liceo/core/observation"
	"github.com/liceo-app/liceo/core/student"
	"github.com/liceo-app/liceo/core/subject"
	"github.com/liceo-app/liceo/core/summary"
	"github.com/liceo-app/liceo/core/teacher"
	"github.com/liceo-app/liceo/core/user"
	"github.com/liceo-app/liceo/storage/database"
	"github.com/liceo-app/liceo/storage/database/inmem"
	"github.com/liceo-app/liceo/storage/database/sqlx"
)

// Services are every domain service, backed by one store.
type Services struct {
	DB          *inmemdb.DB // nil when backed by PostgreSQL
	UserRepo    user.Repository
	Validator   *core.Validator
	Subject     *subject.Service
	Teacher     *teacher.Service
	Course      *course.Service
	Student     *student.Service
	Grade       *grade.Service
	Attendance  *attendance.Service
	Observation *observation.Service
	Summary     *summary.Service
	User        *user.Service
}

// Repositories are the storage implementations Services are built on.
type Repositories struct {
	Subjects     subject.Repository
	Teachers     teacher.Repository
	Courses      course.Repository
	Students     student.Repository
	Grades       grade.Repository
	Attendance   attendance.Repository
	Observations observation.Repository
	Users        user.Repository
	Summary      summary.Repository
}

// NewServices returns Services backed by a fresh in-memory DB.
func NewServices(loc *time.Location) *Services {
	db := inmemdb.Open()
	s := NewServicesWith(loc, Repositories{
		Subjects:     inmemdb.NewSubjectRepository(db),
		Teachers:     inmemdb.NewTeacherRepository(db),
		Courses:      inmemdb.NewCourseRepository(db),
		Students:     inmemdb.NewStudentRepository(db),
		Grades:       inmemdb.NewGradeRepository(db),
		Attendance:   inmemdb.NewAttendanceRepository(db),
		Observations: inmemdb.NewObservationRepository(db),
		Users:        inmemdb.NewUserRepository(db),
		Summary:      inmemdb.NewSummaryRepository(db),
	})
	s.DB = db
	return s
}

// NewSQLServices returns Services backed by the PostgreSQL repositories on db.
func NewSQLServices(loc *time.Location, db *sqlx.DB) *Services {
	return NewServicesWith(loc, Repositories{
		Subjects:     sqlxrepos.NewSubjectRepository(db),
		Teachers:     sqlxrepos.NewTeacherRepository(db),
		Courses:      sqlxrepos.NewCourseRepository(db),
		Students:     sqlxrepos.NewStudentRepository(db),
		Grades:       sqlxrepos.NewGradeRepository(db),
		Attendance:   sqlxrepos.NewAttendanceRepository(db),
		Observations: sqlxrepos.NewObservationRepository(db),
		Users:        sqlxrepos.NewUserRepository(db),
		Summary:      sqlxrepos.NewSummaryRepository(db),
	})
}

func NewServicesWith(loc *time.Location, repos Repositories) *Services {
	validate := core.NewValidator()

	s := &Services{Validator: validate, UserRepo: repos.Users}
	s.Subject = subject.NewService(repos.Subjects, validate)
	s.Teacher = teacher.NewService(repos.Teachers, s.Subject, validate)
	s.Course = course.NewService(repos.Courses, s.Teacher, s.Subject, validate)
	s.Student = student.NewService(repos.Students, s.Course, validate)
	s.Grade = grade.NewService(repos.Grades, s.Student, s.Subject, s.Teacher, validate)
	s.Attendance = attendance.NewService(repos.Attendance, s.Student, validate, loc)
	s.Observation = observation.NewService(repos.Observations, s.Student, s.Teacher, validate)
	s.Summary = summary.NewService(repos.Summary)
	s.User = user.NewService(repos.Users, s.Teacher, s.Student, validate)
	return s
}

// Config returns a test-mode configuration that does not read the environment.
func Config() *core.Config {
	return &core.Config{
		Env:       "TEST",
		AppName:   "Liceo",
		TestMode:  true,
		SecretKey: "secret",
		Location:  time.UTC,
		Server: core.ServerConfig{
			Address:            ":0",
			ShutdownTimeout:    time.Second,
			JWTExpirationDelta: time.Hour,
		},
	}
}

// CreateUser stores a user directly, bypassing the password policy.
func CreateUser(t *testing.T, repo user.Repository, email, pwd, role string) user.User {
	usr := user.User{
		Email:     email,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateTeacher(t *testing.T, svc *teacher.Service, name, surname string) teacher.Teacher {
	tch, err := svc.Create(context.Background(), teacher.NewTeacher{Name: name, Surname: surname, Age: 40, Sex: "F"})
	if err != nil {
		t.Fatalf("CreateTeacher() failed: %v", err)
	}
	return tch
}

func CreateSubject(t *testing.T, svc *subject.Service, name string) subject.Subject {
	s, err := svc.Create(context.Background(), subject.NewSubject{Name: name})
	if err != nil {
		t.Fatalf("CreateSubject() failed: %v", err)
	}
	return s
}

func CreateStudent(t *testing.T, svc *student.Service, name, surname string, age int) student.Student {
	s, err := svc.Create(context.Background(), student.NewStudent{Name: name, Surname: surname, Age: age, Sex: "M"})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return s
}

// PrepareDB opens the PostgreSQL database at TEST_DATABASE_URL, migrates it and empties every table.
// The test is skipped when TEST_DATABASE_URL is not set.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.OpenURL(dbURL)
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(context.Background(), db.DB, "up"); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	_, err = db.Exec(`TRUNCATE usuario, observacion, asistencia, calificacion, estudiante, curso_asignatura,
		curso, profesor_asignatura, asignatura, profesor RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}
