package grade

import (
	"time"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/student"
	"github.com/liceo-app/liceo/core/subject"
	"github.com/liceo-app/liceo/core/teacher"
)

const (
	MinValue = 1.0
	MaxValue = 7.0
	// PassingValue is the lowest passing grade.
	PassingValue = 4.0
)

type Grade struct {
	ID        int              `json:"id"`
	Value     float64          `json:"valor"`
	Date      time.Time        `json:"fecha"` // UTC
	StudentID int              `json:"estudianteId"`
	SubjectID int              `json:"asignaturaId"`
	TeacherID int              `json:"profesorId"`
	Student   *student.Ref     `json:"estudiante"`
	Subject   *subject.Subject `json:"asignatura"`
	Teacher   *teacher.Ref     `json:"profesor"`
}

// NewGrade contains information needed to create a new Grade.
type NewGrade struct {
	Value     *float64 `json:"valor" validate:"required,min=1,max=7"`
	StudentID int      `json:"estudianteId" validate:"required,gt=0"`
	SubjectID int      `json:"asignaturaId" validate:"required,gt=0"`
	TeacherID int      `json:"profesorId" validate:"required,gt=0"`
}

func (ng *NewGrade) Validate(v *core.Validator) error {
	return v.Struct(ng)
}

// UpdateGrade defines what information may be provided to modify an existing Grade.
type UpdateGrade struct {
	Value     *float64 `json:"valor" validate:"omitempty,min=1,max=7"`
	StudentID *int     `json:"estudianteId" validate:"omitempty,gt=0"`
	SubjectID *int     `json:"asignaturaId" validate:"omitempty,gt=0"`
	TeacherID *int     `json:"profesorId" validate:"omitempty,gt=0"`
}

func (ug *UpdateGrade) Validate(v *core.Validator) error {
	return v.Struct(ug)
}

func (ug UpdateGrade) apply(g *Grade) {
	if ug.Value != nil {
		g.Value = *ug.Value
	}
	if ug.StudentID != nil {
		g.StudentID = *ug.StudentID
	}
	if ug.SubjectID != nil {
		g.SubjectID = *ug.SubjectID
	}
	if ug.TeacherID != nil {
		g.TeacherID = *ug.TeacherID
	}
}

// Stats summarises a set of grades.
type Stats struct {
	Total     int     `json:"total"`
	Average   float64 `json:"promedio"`
	Passed    int     `json:"aprobadas"`
	Failed    int     `json:"reprobadas"`
	PassedPct float64 `json:"porcentajeAprobadas"`
}

// ComputeStats folds grades into Stats. An empty set yields zeroes.
func ComputeStats(grades []Grade) Stats {
	var (
		st  = Stats{Total: len(grades)}
		sum float64
	)
	if st.Total == 0 {
		return st
	}
	for _, g := range grades {
		sum += g.Value
		if g.Value >= PassingValue {
			st.Passed++
		} else {
			st.Failed++
		}
	}
	st.Average = sum / float64(st.Total)
	st.PassedPct = float64(st.Passed) / float64(st.Total) * 100
	return st
}
