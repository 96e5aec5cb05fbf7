package tests

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/liceo-app/liceo/apps/api/echo"
	"github.com/liceo-app/liceo/core/user"
	"github.com/liceo-app/liceo/tests"
)

func TestAuthAPI_login(t *testing.T) {
	e := setup(t)

	runHttpTests(t, e, []httpTest{
		{
			name:     "wrong password",
			method:   http.MethodPost,
			path:     "/api/auth/login",
			body:     []byte(`{"email": "admin@liceo.cl", "password": "nope"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "invalid credentials"}),
		},
		{
			name:     "unknown email",
			method:   http.MethodPost,
			path:     "/api/auth/login",
			body:     []byte(`{"email": "nadie@liceo.cl", "password": "s3cr3tPwd!"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "invalid credentials"}),
		},
		{
			name:     "missing fields",
			method:   http.MethodPost,
			path:     "/api/auth/login",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{
				Error: "validation failed",
				Fields: map[string]string{
					"email":    "email is required",
					"password": "password is required",
				},
			}),
		},
	})

	rec := e.do(http.MethodPost, "/api/auth/login", "", []byte(`{"email": "malformed`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// emails are case insensitive
	rec = e.do(http.MethodPost, "/api/auth/login", "", []byte(`{"email": " Admin@Liceo.cl ", "password": "s3cr3tPwd!"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp LoginResponse
	unmarchall(t, rec, &resp)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, e.admin.ID, resp.User.ID)
	assert.True(t, resp.User.LastLogin.Valid)

	// the token is accepted
	rec = e.do(http.MethodGet, "/api/summary", resp.Token)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestAuthAPI_verifyAndLogout(t *testing.T) {
	e := setup(t)

	rec := e.do(http.MethodPost, "/api/auth/verify", e.adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var verified VerifyResponse
	unmarchall(t, rec, &verified)
	require.NotNil(t, verified.User)
	assert.Equal(t, e.admin.ID, verified.User.ID)
	assert.Equal(t, user.RoleAdmin, verified.User.Role)

	runHttpTests(t, e, []httpTest{
		{
			name:     "verify without token",
			method:   http.MethodPost,
			path:     "/api/auth/verify",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "verify garbage token",
			method:   http.MethodPost,
			path:     "/api/auth/verify",
			token:    "not.a.jwt",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "invalid or expired jwt"}),
		},
		{
			name:     "logout",
			method:   http.MethodPost,
			path:     "/api/auth/logout",
			token:    e.adminToken,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, map[string]string{"success": "logged out"}),
		},
		{
			name:     "revoked token",
			method:   http.MethodPost,
			path:     "/api/auth/verify",
			token:    e.adminToken,
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "token has been revoked"}),
		},
		{
			name:     "revoked token on a resource",
			method:   http.MethodGet,
			path:     "/api/courses",
			token:    e.adminToken,
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "token has been revoked"}),
		},
		{
			name:     "other tokens still valid",
			method:   http.MethodGet,
			path:     "/api/courses",
			token:    e.teacherToken,
			wantCode: http.StatusOK,
			wantData: marchallList(t),
		},
	})
}

func TestAuthAPI_disabled(t *testing.T) {
	conf := testutil.Config()
	conf.AuthDisabled = true
	e := setup(t, conf)

	runHttpTests(t, e, []httpTest{
		{
			name:     "verify",
			method:   http.MethodPost,
			path:     "/api/auth/verify",
			wantCode: http.StatusOK,
			wantData: []byte(`{"user": null}`),
		},
		{
			name:     "admin write without token",
			method:   http.MethodPost,
			path:     "/api/asignaturas",
			body:     []byte(`{"nombre": "Historia"}`),
			wantCode: http.StatusCreated,
			wantData: []byte(`{"id": 1, "nombre": "Historia"}`),
		},
		{
			name:     "logout",
			method:   http.MethodPost,
			path:     "/api/auth/logout",
			wantCode: http.StatusOK,
			wantData: []byte(`{"success": "logged out"}`),
		},
	})
}

func TestServer_publicRoutes(t *testing.T) {
	e := setup(t)

	runHttpTests(t, e, []httpTest{
		{
			name:     "health",
			method:   http.MethodGet,
			path:     "/health",
			wantCode: http.StatusOK,
			wantData: []byte(`{"status": "ok"}`),
		},
		{
			name:     "unknown route",
			method:   http.MethodGet,
			path:     "/nope",
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "Not Found"}),
		},
	})

	rec := e.do(http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Liceo API!", rec.Body.String())

	e.do(http.MethodGet, "/health/", "") // trailing slash is removed
	rec = e.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `liceo_http_requests_total{code="200",method="GET",route="/health"} 2`)
}

func TestServer_errorMetrics(t *testing.T) {
	for _, reqLogs := range []bool{false, true} {
		t.Run(fmt.Sprintf("request logs %v", reqLogs), func(t *testing.T) {
			e := setupServer(t, testutil.Config(), reqLogs)

			runHttpTests(t, e, []httpTest{
				{
					name:     "unknown course",
					method:   http.MethodGet,
					path:     "/api/courses/999",
					token:    e.adminToken,
					wantCode: http.StatusNotFound,
					wantData: marchallObj(t, httpErr{Error: "course 999 not found"}),
				},
				{
					name:     "forbidden write",
					method:   http.MethodDelete,
					path:     "/api/courses/999",
					token:    e.studentToken,
					wantCode: http.StatusForbidden,
					wantData: marchallObj(t, errForbidden),
				},
			})

			rec := e.do(http.MethodGet, "/metrics", "")
			require.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			assert.Contains(t, body, `liceo_http_requests_total{code="404",method="GET",route="/api/courses/:id"} 1`)
			assert.Contains(t, body, `liceo_http_requests_total{code="403",method="DELETE",route="/api/courses/:id"} 1`)
		})
	}
}
