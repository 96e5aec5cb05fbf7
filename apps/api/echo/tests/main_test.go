package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	. "github.com/liceo-app/liceo/apps/api/echo"
	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/user"
	"github.com/liceo-app/liceo/services/logger"
	"github.com/liceo-app/liceo/storage/tokens"
	"github.com/liceo-app/liceo/tests"
)

var (
	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
)

type env struct {
	app  *Server
	svcs *testutil.Services

	admin        user.User
	adminToken   string
	teacherToken string
	studentToken string
}

func setup(t *testing.T, conf ...*core.Config) *env {
	cfg := testutil.Config()
	if len(conf) > 0 {
		cfg = conf[0]
	}
	return setupServer(t, cfg, false)
}

// setupServer builds the server on a fresh in-memory store; reqLogs enables echo's request logger.
func setupServer(t *testing.T, cfg *core.Config, reqLogs bool) *env {
	svcs := testutil.NewServices(cfg.Location)

	app := NewServer(cfg, &Deps{
		Logger:         logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), cfg),
		Validator:      svcs.Validator,
		Tokens:         tokens.NewMemoryStore(),
		DisableReqLogs: !reqLogs,
		SubjectSvc:     svcs.Subject,
		TeacherSvc:     svcs.Teacher,
		CourseSvc:      svcs.Course,
		StudentSvc:     svcs.Student,
		GradeSvc:       svcs.Grade,
		AttendanceSvc:  svcs.Attendance,
		ObservationSvc: svcs.Observation,
		SummarySvc:     svcs.Summary,
		UserSvc:        svcs.User,
	})

	e := &env{app: app, svcs: svcs}
	e.admin = testutil.CreateUser(t, svcs.UserRepo, "admin@liceo.cl", "s3cr3tPwd!", user.RoleAdmin)
	e.adminToken = getToken(t, app, e.admin)
	e.teacherToken = getToken(t, app, testutil.CreateUser(t, svcs.UserRepo, "profe@liceo.cl", "s3cr3tPwd!", user.RoleTeacher))
	e.studentToken = getToken(t, app, testutil.CreateUser(t, svcs.UserRepo, "alumno@liceo.cl", "s3cr3tPwd!", user.RoleStudent))
	return e
}

// do serves one request and returns the recorder.
func (e *env) do(method, path, token string, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(method, path, token, data...)
	e.app.ServeHTTP(rec, req)
	return rec
}

type httpErr struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func getToken(t *testing.T, app *Server, usr user.User) string {
	token, err := app.GenerateToken(usr)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func unmarchall(t *testing.T, rec *httptest.ResponseRecorder, obj interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), obj); err != nil {
		t.Fatalf("unmarchall(): %v; body %s", err, rec.Body.String())
	}
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		if rec.Body.Len() != 0 {
			t.Errorf("failed! data = %v; want empty body", rec.Body.String())
		}
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHttpTests(t *testing.T, e *env, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(tt.method, tt.path, tt.token, tt.body)
			checkCodeAndData(t, tt, rec)
		})
	}
}
