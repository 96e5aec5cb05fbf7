package tests

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liceo-app/liceo/core/attendance"
	"github.com/liceo-app/liceo/tests"
)

func TestAttendanceAPI(t *testing.T) {
	e := setup(t)
	pedro := testutil.CreateStudent(t, e.svcs.Student, "Pedro", "Soto", 15)
	maria := testutil.CreateStudent(t, e.svcs.Student, "Maria", "Lagos", 16)

	record := func(studentID int, date, status string) []byte {
		return []byte(fmt.Sprintf(`{"estudianteId": %d, "fecha": %q, "estado": %q}`, studentID, date, status))
	}

	rec := e.do(http.MethodPost, "/api/asistencias", e.teacherToken, record(pedro.ID, "2024-03-18", "presente"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var first attendance.Attendance
	unmarchall(t, rec, &first)
	assert.Equal(t, attendance.StatusPresent, first.Status)
	require.NotNil(t, first.Student)
	assert.Equal(t, "Pedro", first.Student.Name)

	runHttpTests(t, e, []httpTest{
		{
			name:     "same student same day",
			method:   http.MethodPost,
			path:     "/api/asistencias",
			body:     record(pedro.ID, "2024-03-18T15:30:00Z", "tarde"),
			token:    e.teacherToken,
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{
				Error: fmt.Sprintf("attendance already recorded for student %d on 2024-03-18", pedro.ID),
			}),
		},
		{
			name:     "future date",
			method:   http.MethodPost,
			path:     "/api/asistencias",
			body:     record(pedro.ID, "2999-01-01", "presente"),
			token:    e.teacherToken,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{
				Error:  "validation failed",
				Fields: map[string]string{"fecha": "fecha cannot be in the future"},
			}),
		},
		{
			name:     "unknown status",
			method:   http.MethodPost,
			path:     "/api/asistencias",
			body:     record(pedro.ID, "2024-03-19", "enfermo"),
			token:    e.teacherToken,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{
				Error:  "validation failed",
				Fields: map[string]string{"estado": "estado must be one of [presente ausente tarde]"},
			}),
		},
		{
			name:     "students cannot record attendance",
			method:   http.MethodPost,
			path:     "/api/asistencias",
			body:     record(pedro.ID, "2024-03-19", "presente"),
			token:    e.studentToken,
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
		},
		{
			name:     "malformed day filter",
			method:   http.MethodGet,
			path:     "/api/asistencias/fecha/18-03-2024",
			token:    e.studentToken,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{
				Error:  "validation failed",
				Fields: map[string]string{"fecha": "fecha must be formatted as YYYY-MM-DD"},
			}),
		},
	})

	// other day, other student
	for _, body := range [][]byte{
		record(pedro.ID, "2024-03-19", "ausente"),
		record(maria.ID, "2024-03-18", "tarde"),
	} {
		rec = e.do(http.MethodPost, "/api/asistencias", e.adminToken, body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec = e.do(http.MethodGet, "/api/asistencias/fecha/2024-03-18", e.studentToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var sameDay []attendance.Attendance
	unmarchall(t, rec, &sameDay)
	assert.Len(t, sameDay, 2)

	runHttpTests(t, e, []httpTest{
		{
			name:     "stats",
			method:   http.MethodGet,
			path:     "/api/asistencias/estadisticas",
			token:    e.studentToken,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, attendance.ComputeStats([]attendance.Attendance{
				{Status: attendance.StatusPresent}, {Status: attendance.StatusAbsent}, {Status: attendance.StatusLate},
			})),
		},
		{
			name:     "stats of one student",
			method:   http.MethodGet,
			path:     fmt.Sprintf("/api/asistencias/estadisticas?estudianteId=%d", pedro.ID),
			token:    e.studentToken,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, attendance.Stats{Total: 2, Present: 1, Absent: 1, PresentPct: 50, AbsentPct: 50}),
		},
		{
			name:     "stats of malformed student id",
			method:   http.MethodGet,
			path:     "/api/asistencias/estadisticas?estudianteId=x",
			token:    e.studentToken,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{
				Error:  "validation failed",
				Fields: map[string]string{"estudianteId": "estudianteId must be a positive integer"},
			}),
		},
		{
			name:     "move onto a taken day",
			method:   http.MethodPut,
			path:     fmt.Sprintf("/api/asistencias/%d", first.ID),
			body:     []byte(`{"fecha": "2024-03-19"}`),
			token:    e.teacherToken,
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{
				Error: fmt.Sprintf("attendance already recorded for student %d on 2024-03-19", pedro.ID),
			}),
		},
	})
}
