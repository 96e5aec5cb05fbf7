package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"

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
)

type (
	// Deps holds everything the API handlers need.
	Deps struct {
		Logger         core.Logger
		Validator      *core.Validator
		Tokens         RevocationStore
		DisableReqLogs bool

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

	Server struct {
		conf     *core.Config
		deps     *Deps
		app      *echo.Echo
		auth     *authenticator
		metrics  *metrics
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ http.Handler = (*Server)(nil) // interface compliance check

func NewServer(conf *core.Config, deps *Deps) *Server {
	s := &Server{
		conf:     conf,
		deps:     deps,
		app:      echo.New(),
		auth:     newAuthenticator(conf, deps.Tokens, deps.UserSvc),
		metrics:  newMetrics(strings.ToLower(conf.AppName)),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.Debug = s.conf.Debug
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.signalShutdown)

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(s.metrics.middleware()) // outermost: it handles the error it records
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in TEST mode
	if !s.conf.TestMode {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.conf.Server.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	s.app.GET("/", s.home)
	s.app.GET("/health", health)
	s.app.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})))

	api := s.app.Group("/api")
	registerAuthAPI(api, s.auth, s.deps.UserSvc, s.deps.Validator)

	// everything else requires a token
	authed := api.Group("", s.auth.jwtMiddleware())
	registerSubjectAPI(authed, s.auth, s.deps.SubjectSvc)
	registerTeacherAPI(authed, s.auth, s.deps.TeacherSvc)
	registerCourseAPI(authed, s.auth, s.deps.CourseSvc)
	registerStudentAPI(authed, s.auth, s.deps.StudentSvc)
	registerGradeAPI(authed, s.auth, s.deps.GradeSvc)
	registerAttendanceAPI(authed, s.auth, s.deps.AttendanceSvc)
	registerObservationAPI(authed, s.auth, s.deps.ObservationSvc)
	registerSummaryAPI(authed, s.deps.SummarySvc)
	registerUserAPI(authed, s.auth, s.deps.UserSvc)
}

// Start listens on the configured address. Listener errors are sent to Errors().
func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already shutting down
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

// GenerateToken issues an access token for usr, as a successful login would.
func (s *Server) GenerateToken(usr user.User) (string, error) {
	return s.auth.GenerateToken(s.auth.userClaims(usr))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.conf.AppName+" API!")
}

func health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
