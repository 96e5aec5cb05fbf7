package attendance

import (
	"strings"
	"time"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/student"
)

// Statuses
const (
	StatusPresent = "presente"
	StatusAbsent  = "ausente"
	StatusLate    = "tarde"
)

var Statuses = []string{StatusPresent, StatusAbsent, StatusLate}

type Attendance struct {
	ID        int          `json:"id"`
	Date      time.Time    `json:"fecha"` // UTC
	Day       string       `json:"-"`     // calendar day of Date in the school time zone, eg. "2024-03-18"
	Status    string       `json:"estado"`
	StudentID int          `json:"estudianteId"`
	Student   *student.Ref `json:"estudiante"`
}

// NewAttendance contains information needed to record a new Attendance.
// Date is optional and defaults to now; it accepts RFC 3339 timestamps or bare days.
type NewAttendance struct {
	Date      string `json:"fecha"`
	Status    string `json:"estado" validate:"required,oneof=presente ausente tarde"`
	StudentID int    `json:"estudianteId" validate:"required,gt=0"`
}

func (na *NewAttendance) Validate(v *core.Validator) error {
	na.Status = core.CleanString(na.Status, true /* lower */)
	return v.Struct(na)
}

// UpdateAttendance defines what information may be provided to modify an existing Attendance.
type UpdateAttendance struct {
	Date      *string `json:"fecha"`
	Status    *string `json:"estado" validate:"omitempty,oneof=presente ausente tarde"`
	StudentID *int    `json:"estudianteId" validate:"omitempty,gt=0"`
}

func (ua *UpdateAttendance) Validate(v *core.Validator) error {
	if ua.Status != nil {
		status := strings.ToLower(core.CleanString(*ua.Status))
		ua.Status = &status
	}
	return v.Struct(ua)
}

// Stats summarises a set of attendance records.
type Stats struct {
	Total      int     `json:"total"`
	Present    int     `json:"presentes"`
	Absent     int     `json:"ausentes"`
	Late       int     `json:"tardes"`
	PresentPct float64 `json:"porcentajePresentes"`
	AbsentPct  float64 `json:"porcentajeAusentes"`
	LatePct    float64 `json:"porcentajeTardes"`
}

// ComputeStats folds attendance records into Stats. An empty set yields zeroes.
func ComputeStats(records []Attendance) Stats {
	st := Stats{Total: len(records)}
	if st.Total == 0 {
		return st
	}
	for _, a := range records {
		switch a.Status {
		case StatusPresent:
			st.Present++
		case StatusAbsent:
			st.Absent++
		case StatusLate:
			st.Late++
		}
	}
	total := float64(st.Total)
	st.PresentPct = float64(st.Present) / total * 100
	st.AbsentPct = float64(st.Absent) / total * 100
	st.LatePct = float64(st.Late) / total * 100
	return st
}
