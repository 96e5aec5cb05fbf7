package observation

import (
	"strings"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/student"
	"github.com/liceo-app/liceo/core/teacher"
)

// Statuses
const (
	StatusNegative = "negativa"
	StatusNeutral  = "neutro"
	StatusPositive = "positiva"
)

type Observation struct {
	ID        int          `json:"id"`
	Text      string       `json:"texto"`
	Status    null.String  `json:"estado"`
	Date      time.Time    `json:"fecha"` // UTC
	StudentID int          `json:"estudianteId"`
	TeacherID int          `json:"profesorId"`
	Student   *student.Ref `json:"estudiante"`
	Teacher   *teacher.Ref `json:"profesor"`
}

// NewObservation contains information needed to create a new Observation.
type NewObservation struct {
	Text      string  `json:"texto" validate:"required,notblank,max=2000"`
	Status    *string `json:"estado" validate:"omitempty,oneof=negativa neutro positiva"`
	StudentID int     `json:"estudianteId" validate:"required,gt=0"`
	TeacherID int     `json:"profesorId" validate:"required,gt=0"`
}

func cleanStatus(s *string) *string {
	if s == nil {
		return nil
	}
	status := strings.ToLower(core.CleanString(*s))
	if status == "" {
		return nil
	}
	return &status
}

func (no *NewObservation) Validate(v *core.Validator) error {
	no.Text = core.CleanString(no.Text)
	no.Status = cleanStatus(no.Status)
	return v.Struct(no)
}

// UpdateObservation defines what information may be provided to modify an existing Observation.
type UpdateObservation struct {
	Text      *string `json:"texto" validate:"omitempty,notblank,max=2000"`
	Status    *string `json:"estado" validate:"omitempty,oneof=negativa neutro positiva"`
	StudentID *int    `json:"estudianteId" validate:"omitempty,gt=0"`
	TeacherID *int    `json:"profesorId" validate:"omitempty,gt=0"`
}

func (uo *UpdateObservation) Validate(v *core.Validator) error {
	if uo.Text != nil {
		text := core.CleanString(*uo.Text)
		uo.Text = &text
	}
	uo.Status = cleanStatus(uo.Status)
	return v.Struct(uo)
}

func (uo UpdateObservation) apply(o *Observation) {
	if uo.Text != nil {
		o.Text = *uo.Text
	}
	if uo.Status != nil {
		o.Status = null.StringFrom(*uo.Status)
	}
	if uo.StudentID != nil {
		o.StudentID = *uo.StudentID
	}
	if uo.TeacherID != nil {
		o.TeacherID = *uo.TeacherID
	}
}
