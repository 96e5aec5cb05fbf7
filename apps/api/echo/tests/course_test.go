package tests

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liceo-app/liceo/core/course"
	"github.com/liceo-app/liceo/tests"
)

func TestCourseLifecycle(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	jefe := testutil.CreateTeacher(t, e.svcs.Teacher, "Ana", "Rojas")

	// create
	rec := e.do(http.MethodPost, "/api/courses", e.adminToken,
		[]byte(fmt.Sprintf(`{"nombre": "1A", "jefeId": %d}`, jefe.ID)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created course.Course
	unmarchall(t, rec, &created)
	assert.Equal(t, "1A", created.Name)
	require.NotNil(t, created.HeadTeacher)
	assert.Equal(t, jefe.ID, created.HeadTeacher.ID)

	path := fmt.Sprintf("/api/courses/%d", created.ID)

	// list
	stored, err := e.svcs.Course.GetByID(ctx, created.ID)
	require.NoError(t, err)
	runHttpTests(t, e, []httpTest{
		{
			name:     "list includes the new course",
			method:   http.MethodGet,
			path:     "/api/courses",
			token:    e.studentToken,
			wantCode: http.StatusOK,
			wantData: marchallList(t, stored),
		},
		{
			name:     "courses by head teacher",
			method:   http.MethodGet,
			path:     fmt.Sprintf("/api/courses/profesor/%d", jefe.ID),
			token:    e.studentToken,
			wantCode: http.StatusOK,
			wantData: marchallList(t, stored),
		},
		{
			name:     "courses by unknown head teacher",
			method:   http.MethodGet,
			path:     "/api/courses/profesor/999",
			token:    e.studentToken,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "teacher 999 not found"}),
		},
	})

	// rename
	rec = e.do(http.MethodPut, path, e.adminToken, []byte(`{"nombre": "1B"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var renamed course.Course
	unmarchall(t, rec, &renamed)
	assert.Equal(t, "1B", renamed.Name)
	assert.Equal(t, created.ID, renamed.ID)
	assert.Equal(t, created.HeadTeacherID, renamed.HeadTeacherID)

	// delete, then gone
	runHttpTests(t, e, []httpTest{
		{
			name:     "delete",
			method:   http.MethodDelete,
			path:     path,
			token:    e.adminToken,
			wantCode: http.StatusNoContent,
		},
		{
			name:     "retrieve deleted",
			method:   http.MethodGet,
			path:     path,
			token:    e.adminToken,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: fmt.Sprintf("course %d not found", created.ID)}),
		},
		{
			name:     "delete deleted",
			method:   http.MethodDelete,
			path:     path,
			token:    e.adminToken,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: fmt.Sprintf("course %d not found", created.ID)}),
		},
	})
}

func TestCourseAPI_create(t *testing.T) {
	e := setup(t)
	jefe := testutil.CreateTeacher(t, e.svcs.Teacher, "Ana", "Rojas")

	runHttpTests(t, e, []httpTest{
		{
			name:     "no token",
			method:   http.MethodPost,
			path:     "/api/courses",
			body:     []byte(`{"nombre": "1A", "jefeId": 1}`),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "teacher cannot create courses",
			method:   http.MethodPost,
			path:     "/api/courses",
			body:     []byte(`{"nombre": "1A", "jefeId": 1}`),
			token:    e.teacherToken,
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
		},
		{
			name:     "blank name",
			method:   http.MethodPost,
			path:     "/api/courses",
			body:     []byte(fmt.Sprintf(`{"nombre": "   ", "jefeId": %d}`, jefe.ID)),
			token:    e.adminToken,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{
				Error:  "validation failed",
				Fields: map[string]string{"nombre": "nombre is required"},
			}),
		},
		{
			name:     "unknown head teacher",
			method:   http.MethodPost,
			path:     "/api/courses",
			body:     []byte(`{"nombre": "1A", "jefeId": 999}`),
			token:    e.adminToken,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "teacher 999 not found"}),
		},
		{
			name:     "malformed id",
			method:   http.MethodGet,
			path:     "/api/courses/abc",
			token:    e.adminToken,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{
				Error:  "validation failed",
				Fields: map[string]string{"id": "id must be a positive integer"},
			}),
		},
	})
}

func TestCourseAPI_subjects(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	jefe := testutil.CreateTeacher(t, e.svcs.Teacher, "Ana", "Rojas")
	math := testutil.CreateSubject(t, e.svcs.Subject, "Matematicas")
	c, err := e.svcs.Course.Create(ctx, course.NewCourse{Name: "1A", HeadTeacherID: jefe.ID})
	require.NoError(t, err)

	path := fmt.Sprintf("/api/courses/%d/asignaturas", c.ID)
	body := []byte(fmt.Sprintf(`{"asignaturaId": %d}`, math.ID))

	rec := e.do(http.MethodPost, path, e.adminToken, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = e.do(http.MethodPost, path, e.adminToken, body) // idempotent
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var linked course.Course
	unmarchall(t, rec, &linked)
	require.Len(t, linked.Subjects, 1)
	assert.Equal(t, math.ID, linked.Subjects[0].ID)

	runHttpTests(t, e, []httpTest{
		{
			name:     "unknown subject",
			method:   http.MethodPost,
			path:     path,
			body:     []byte(`{"asignaturaId": 999}`),
			token:    e.adminToken,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "subject 999 not found"}),
		},
		{
			name:     "missing subject id",
			method:   http.MethodPost,
			path:     path,
			body:     []byte(`{}`),
			token:    e.adminToken,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{
				Error:  "validation failed",
				Fields: map[string]string{"asignaturaId": "asignaturaId is required"},
			}),
		},
		{
			name:     "unlink",
			method:   http.MethodDelete,
			path:     fmt.Sprintf("%s/%d", path, math.ID),
			token:    e.adminToken,
			wantCode: http.StatusNoContent,
		},
	})

	rec = e.do(http.MethodDelete, fmt.Sprintf("%s/%d", path, math.ID), e.adminToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
