package tests

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liceo-app/liceo/core/grade"
	"github.com/liceo-app/liceo/core/student"
	"github.com/liceo-app/liceo/tests"
)

func TestStudentGrades(t *testing.T) {
	e := setup(t)
	profe := testutil.CreateTeacher(t, e.svcs.Teacher, "Ana", "Rojas")
	math := testutil.CreateSubject(t, e.svcs.Subject, "Matematicas")

	rec := e.do(http.MethodPost, "/api/estudiantes", e.adminToken,
		[]byte(`{"nombre": "Pedro", "apellido": "Soto", "edad": 15, "sexo": "M"}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var alumno student.Student
	unmarchall(t, rec, &alumno)
	assert.Equal(t, "Pedro", alumno.Name)
	assert.False(t, alumno.CourseID.Valid)

	rec = e.do(http.MethodPost, "/api/grades", e.teacherToken, []byte(fmt.Sprintf(
		`{"valor": 5.5, "estudianteId": %d, "asignaturaId": %d, "profesorId": %d}`, alumno.ID, math.ID, profe.ID,
	)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created grade.Grade
	unmarchall(t, rec, &created)
	assert.Equal(t, 5.5, created.Value)
	require.NotNil(t, created.Subject)
	assert.Equal(t, "Matematicas", created.Subject.Name)

	rec = e.do(http.MethodGet, fmt.Sprintf("/api/grades/estudiante/%d", alumno.ID), e.studentToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var grades []grade.Grade
	unmarchall(t, rec, &grades)
	require.Len(t, grades, 1)
	assert.Equal(t, created.ID, grades[0].ID)
	assert.Equal(t, 5.5, grades[0].Value)

	runHttpTests(t, e, []httpTest{
		{
			name:     "stats",
			method:   http.MethodGet,
			path:     "/api/grades",
			token:    e.studentToken,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, grade.Stats{Total: 1, Average: 5.5, Passed: 1, PassedPct: 100}),
		},
		{
			name:     "by subject",
			method:   http.MethodGet,
			path:     fmt.Sprintf("/api/grades/asignatura/%d", math.ID),
			token:    e.studentToken,
			wantCode: http.StatusOK,
			wantData: marchallList(t, created),
		},
		{
			name:     "by unknown student",
			method:   http.MethodGet,
			path:     "/api/grades/estudiante/999",
			token:    e.studentToken,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "student 999 not found"}),
		},
		{
			name:     "students cannot grade",
			method:   http.MethodPost,
			path:     "/api/grades",
			body:     []byte(`{"valor": 7}`),
			token:    e.studentToken,
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
		},
		{
			name:     "delete",
			method:   http.MethodDelete,
			path:     fmt.Sprintf("/api/grades/%d", created.ID),
			token:    e.teacherToken,
			wantCode: http.StatusNoContent,
		},
		{
			name:     "empty list after delete",
			method:   http.MethodGet,
			path:     "/api/grades/all",
			token:    e.studentToken,
			wantCode: http.StatusOK,
			wantData: marchallList(t),
		},
	})
}

func TestGradeAPI_bounds(t *testing.T) {
	e := setup(t)
	profe := testutil.CreateTeacher(t, e.svcs.Teacher, "Ana", "Rojas")
	math := testutil.CreateSubject(t, e.svcs.Subject, "Matematicas")
	alumno := testutil.CreateStudent(t, e.svcs.Student, "Pedro", "Soto", 15)

	body := func(value string) []byte {
		return []byte(fmt.Sprintf(
			`{"valor": %s, "estudianteId": %d, "asignaturaId": %d, "profesorId": %d}`, value, alumno.ID, math.ID, profe.ID,
		))
	}

	tests := []struct {
		value    string
		wantCode int
	}{
		{"1.0", http.StatusCreated},
		{"7.0", http.StatusCreated},
		{"4", http.StatusCreated},
		{"0.9", http.StatusBadRequest},
		{"7.1", http.StatusBadRequest},
		{"-3", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			rec := e.do(http.MethodPost, "/api/grades", e.adminToken, body(tt.value))
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantCode == http.StatusBadRequest {
				var herr httpErr
				unmarchall(t, rec, &herr)
				assert.Contains(t, herr.Fields, "valor")
			}
		})
	}

	rec := e.do(http.MethodPost, "/api/grades", e.adminToken, []byte(fmt.Sprintf(
		`{"estudianteId": %d, "asignaturaId": %d, "profesorId": %d}`, alumno.ID, math.ID, profe.ID,
	)))
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusBadRequest,
		wantData: marchallObj(t, httpErr{Error: "validation failed", Fields: map[string]string{"valor": "valor is required"}}),
	}, rec)

	grades, err := e.svcs.Grade.QueryAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, grades, 3)
}

func TestGradeAPI_valuesKeepTheirPrecision(t *testing.T) {
	e := setup(t)
	profe := testutil.CreateTeacher(t, e.svcs.Teacher, "Ana", "Rojas")
	math := testutil.CreateSubject(t, e.svcs.Subject, "Matematicas")
	alumno := testutil.CreateStudent(t, e.svcs.Student, "Pedro", "Soto", 15)

	for _, value := range []float64{5.55, 6} {
		rec := e.do(http.MethodPost, "/api/grades", e.teacherToken, []byte(fmt.Sprintf(
			`{"valor": %v, "estudianteId": %d, "asignaturaId": %d, "profesorId": %d}`, value, alumno.ID, math.ID, profe.ID,
		)))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var created grade.Grade
		unmarchall(t, rec, &created)
		assert.Equal(t, value, created.Value)
	}

	rec := e.do(http.MethodGet, "/api/grades", e.studentToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var stats grade.Stats
	unmarchall(t, rec, &stats)
	assert.InDelta(t, 5.775, stats.Average, 1e-9)
}

func TestStudentAPI_ageBounds(t *testing.T) {
	e := setup(t)

	tests := []struct {
		age      int
		wantCode int
	}{
		{2, http.StatusBadRequest},
		{3, http.StatusCreated},
		{25, http.StatusCreated},
		{26, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.age), func(t *testing.T) {
			rec := e.do(http.MethodPost, "/api/estudiantes", e.adminToken, []byte(fmt.Sprintf(
				`{"nombre": "Pedro", "apellido": "Soto", "edad": %d, "sexo": "M"}`, tt.age,
			)))
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}
}
