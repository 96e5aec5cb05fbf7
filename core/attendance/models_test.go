package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/liceo-app/liceo/core"
)

func TestComputeStats(t *testing.T) {
	records := func(statuses ...string) []Attendance {
		as := make([]Attendance, 0, len(statuses))
		for i, s := range statuses {
			as = append(as, Attendance{ID: i + 1, Status: s})
		}
		return as
	}

	tests := []struct {
		name    string
		records []Attendance
		want    Stats
	}{
		{name: "empty", want: Stats{}},
		{
			name:    "all present",
			records: records(StatusPresent, StatusPresent),
			want:    Stats{Total: 2, Present: 2, PresentPct: 100},
		},
		{
			name:    "mixed",
			records: records(StatusPresent, StatusAbsent, StatusLate, StatusPresent),
			want:    Stats{Total: 4, Present: 2, Absent: 1, Late: 1, PresentPct: 50, AbsentPct: 25, LatePct: 25},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStats(tt.records)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, ComputeStats(tt.records))
		})
	}
}

func TestNewAttendance_Validate(t *testing.T) {
	v := core.NewValidator()

	tests := []struct {
		name      string
		data      NewAttendance
		wantField string
	}{
		{name: "status required", data: NewAttendance{StudentID: 1}, wantField: "estado"},
		{name: "status unknown", data: NewAttendance{Status: "enfermo", StudentID: 1}, wantField: "estado"},
		{name: "student required", data: NewAttendance{Status: StatusLate}, wantField: "estudianteId"},
		{name: "status is cleaned", data: NewAttendance{Status: " Presente ", StudentID: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.data.Validate(v)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			vErr, ok := err.(*core.ValidationError)
			if assert.True(t, ok, "want *core.ValidationError, got %T", err) {
				assert.Equal(t, tt.wantField, vErr.Fields[0].Field)
			}
		})
	}
}
