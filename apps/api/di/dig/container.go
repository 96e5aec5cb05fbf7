package dig_container

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	echoapi "github.com/liceo-app/liceo/apps/api/echo"
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
	logsvc "github.com/liceo-app/liceo/services/logger"
	"github.com/liceo-app/liceo/storage/database"
	"github.com/liceo-app/liceo/storage/database/inmem"
	"github.com/liceo-app/liceo/storage/database/sqlx"
	"github.com/liceo-app/liceo/storage/tokens"
)

// Options are the command line switches that change how dependencies are built.
type Options struct {
	InMemory bool // use the in-memory store instead of PostgreSQL
}

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

type Closers struct {
	dig.In
	DB    io.Closer `name:"dbCloser"`
	Redis io.Closer `name:"redisCloser"`
}

type repositories struct {
	dig.Out
	Closer       io.Closer `name:"dbCloser"`
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

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

func newRepositories(opts Options, conf *core.Config, loggerParam DBLoggerParam) (repositories, error) {
	logger := loggerParam.Logger
	if opts.InMemory {
		logger.Info("using the in-memory store; data is lost on exit")
		db := inmemdb.Open()
		return repositories{
			Closer:       db,
			Subjects:     inmemdb.NewSubjectRepository(db),
			Teachers:     inmemdb.NewTeacherRepository(db),
			Courses:      inmemdb.NewCourseRepository(db),
			Students:     inmemdb.NewStudentRepository(db),
			Grades:       inmemdb.NewGradeRepository(db),
			Attendance:   inmemdb.NewAttendanceRepository(db),
			Observations: inmemdb.NewObservationRepository(db),
			Users:        inmemdb.NewUserRepository(db),
			Summary:      inmemdb.NewSummaryRepository(db),
		}, nil
	}

	if err := database.CreateIfNotExist(conf); err != nil {
		return repositories{}, errors.Wrap(err, "creating database")
	}
	db, err := database.Open(conf)
	if err != nil {
		return repositories{}, errors.Wrap(err, "opening database")
	}
	if err = database.Migrate(context.Background(), db.DB, "up"); err != nil {
		_ = db.Close()
		return repositories{}, errors.Wrap(err, "migrating database")
	}
	logger.Info(fmt.Sprintf("connected to %s at %s", conf.Database.Name, conf.Database.Address()))

	return repositories{
		Closer:       db,
		Subjects:     sqlxrepos.NewSubjectRepository(db),
		Teachers:     sqlxrepos.NewTeacherRepository(db),
		Courses:      sqlxrepos.NewCourseRepository(db),
		Students:     sqlxrepos.NewStudentRepository(db),
		Grades:       sqlxrepos.NewGradeRepository(db),
		Attendance:   sqlxrepos.NewAttendanceRepository(db),
		Observations: sqlxrepos.NewObservationRepository(db),
		Users:        sqlxrepos.NewUserRepository(db),
		Summary:      sqlxrepos.NewSummaryRepository(db),
	}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type tokenStore struct {
	dig.Out
	Store  echoapi.RevocationStore
	Closer io.Closer `name:"redisCloser"`
}

// newTokenStore uses Redis when an address is configured so that logouts survive restarts
// and are shared between instances.
func newTokenStore(conf *core.Config, logger core.Logger) (tokenStore, error) {
	if conf.Redis.Address == "" {
		logger.Info("no redis address configured; revoked tokens are kept in memory")
		return tokenStore{Store: tokens.NewMemoryStore(), Closer: nopCloser{}}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Address,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return tokenStore{}, errors.Wrap(err, "pinging redis")
	}
	return tokenStore{Store: tokens.NewRedisStore(client), Closer: client}, nil
}

func newTeacherService(repo teacher.Repository, subjects *subject.Service, v *core.Validator) *teacher.Service {
	return teacher.NewService(repo, subjects, v)
}

func newCourseService(repo course.Repository, teachers *teacher.Service, subjects *subject.Service, v *core.Validator) *course.Service {
	return course.NewService(repo, teachers, subjects, v)
}

func newStudentService(repo student.Repository, courses *course.Service, v *core.Validator) *student.Service {
	return student.NewService(repo, courses, v)
}

func newGradeService(
	repo grade.Repository,
	students *student.Service,
	subjects *subject.Service,
	teachers *teacher.Service,
	v *core.Validator,
) *grade.Service {
	return grade.NewService(repo, students, subjects, teachers, v)
}

func newAttendanceService(repo attendance.Repository, students *student.Service, v *core.Validator, conf *core.Config) *attendance.Service {
	return attendance.NewService(repo, students, v, conf.Location)
}

func newObservationService(
	repo observation.Repository,
	students *student.Service,
	teachers *teacher.Service,
	v *core.Validator,
) *observation.Service {
	return observation.NewService(repo, students, teachers, v)
}

func newUserService(repo user.Repository, teachers *teacher.Service, students *student.Service, v *core.Validator) *user.Service {
	return user.NewService(repo, teachers, students, v)
}

type serverDeps struct {
	dig.In
	Logger         core.Logger
	Validator      *core.Validator
	Tokens         echoapi.RevocationStore
	SubjectSvc     *subject.Service
	TeacherSvc     *teacher.Service
	CourseSvc      *course.Service
	StudentSvc     *student.Service
	GradeSvc       *grade.Service
	AttendanceSvc  *attendance.Service
	ObservationSvc *observation.Service
	SummarySvc     *summary.Service
	UserSvc        *user.Service
}

func newServer(conf *core.Config, deps serverDeps) *echoapi.Server {
	return echoapi.NewServer(conf, &echoapi.Deps{
		Logger:         deps.Logger,
		Validator:      deps.Validator,
		Tokens:         deps.Tokens,
		SubjectSvc:     deps.SubjectSvc,
		TeacherSvc:     deps.TeacherSvc,
		CourseSvc:      deps.CourseSvc,
		StudentSvc:     deps.StudentSvc,
		GradeSvc:       deps.GradeSvc,
		AttendanceSvc:  deps.AttendanceSvc,
		ObservationSvc: deps.ObservationSvc,
		SummarySvc:     deps.SummarySvc,
		UserSvc:        deps.UserSvc,
	})
}

// New returns a new dependency injection dig.Container
func New(opts Options) *dig.Container {
	c := dig.New()

	must(c.Provide(func() Options { return opts }))
	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newRepositories))
	must(c.Provide(newTokenStore))
	must(c.Provide(core.NewValidator))
	must(c.Provide(subject.NewService))
	must(c.Provide(newTeacherService))
	must(c.Provide(newCourseService))
	must(c.Provide(newStudentService))
	must(c.Provide(newGradeService))
	must(c.Provide(newAttendanceService))
	must(c.Provide(newObservationService))
	must(c.Provide(summary.NewService))
	must(c.Provide(newUserService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
