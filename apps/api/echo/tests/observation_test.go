package tests

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liceo-app/liceo/core/observation"
	"github.com/liceo-app/liceo/tests"
)

func TestObservationAPI(t *testing.T) {
	e := setup(t)
	profe := testutil.CreateTeacher(t, e.svcs.Teacher, "Ana", "Rojas")
	alumno := testutil.CreateStudent(t, e.svcs.Student, "Pedro", "Soto", 15)

	create := func(body string) observation.Observation {
		rec := e.do(http.MethodPost, "/api/observaciones", e.teacherToken, []byte(body))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var o observation.Observation
		unmarchall(t, rec, &o)
		return o
	}
	first := create(fmt.Sprintf(
		`{"texto": "Participa en clase", "estado": "positiva", "estudianteId": %d, "profesorId": %d}`, alumno.ID, profe.ID,
	))
	second := create(fmt.Sprintf(`{"texto": "Llega sin materiales", "estudianteId": %d, "profesorId": %d}`, alumno.ID, profe.ID))

	assert.Equal(t, "positiva", first.Status.String)
	assert.False(t, second.Status.Valid)
	require.Greater(t, second.ID, first.ID)

	for _, path := range []string{
		"/api/observaciones",
		fmt.Sprintf("/api/observaciones/estudiante/%d", alumno.ID),
		fmt.Sprintf("/api/observaciones/profesor/%d", profe.ID),
	} {
		t.Run("newest first "+path, func(t *testing.T) {
			rec := e.do(http.MethodGet, path, e.studentToken)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			var got []observation.Observation
			unmarchall(t, rec, &got)
			require.Len(t, got, 2)
			assert.Equal(t, second.ID, got[0].ID)
			assert.Equal(t, first.ID, got[1].ID)
		})
	}

	runHttpTests(t, e, []httpTest{
		{
			name:     "unknown status",
			method:   http.MethodPost,
			path:     "/api/observaciones",
			body:     []byte(fmt.Sprintf(`{"texto": "x", "estado": "mala", "estudianteId": %d, "profesorId": %d}`, alumno.ID, profe.ID)),
			token:    e.teacherToken,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{
				Error:  "validation failed",
				Fields: map[string]string{"estado": "estado must be one of [negativa neutro positiva]"},
			}),
		},
		{
			name:     "unknown teacher",
			method:   http.MethodPost,
			path:     "/api/observaciones",
			body:     []byte(fmt.Sprintf(`{"texto": "x", "estudianteId": %d, "profesorId": 999}`, alumno.ID)),
			token:    e.teacherToken,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "teacher 999 not found"}),
		},
		{
			name:     "update status",
			method:   http.MethodPut,
			path:     fmt.Sprintf("/api/observaciones/%d", second.ID),
			body:     []byte(`{"estado": "Negativa"}`),
			token:    e.teacherToken,
			wantCode: http.StatusOK,
			wantData: func() []byte {
				want := second
				want.Status.SetValid(observation.StatusNegative)
				return marchallObj(t, want)
			}(),
		},
		{
			name:     "delete",
			method:   http.MethodDelete,
			path:     fmt.Sprintf("/api/observaciones/%d", first.ID),
			token:    e.adminToken,
			wantCode: http.StatusNoContent,
		},
	})
}
