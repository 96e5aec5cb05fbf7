package course

import (
	"github.com/volatiletech/null/v8"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/subject"
	"github.com/liceo-app/liceo/core/teacher"
)

type Course struct {
	ID            int               `json:"id"`
	Name          string            `json:"nombre"`
	HeadTeacherID null.Int          `json:"jefeId"`
	HeadTeacher   *teacher.Ref      `json:"jefe"`
	Subjects      []subject.Subject `json:"asignaturas"` // curriculum
}

func (c Course) Ref() Ref {
	return Ref{ID: c.ID, Name: c.Name}
}

// Ref is the short form of a Course embedded in related resources.
type Ref struct {
	ID   int    `json:"id"`
	Name string `json:"nombre"`
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Name          string `json:"nombre" validate:"required,notblank,max=100"`
	HeadTeacherID int    `json:"jefeId" validate:"required,gt=0"`
}

func (nc *NewCourse) Validate(v *core.Validator) error {
	nc.Name = core.CleanString(nc.Name)
	return v.Struct(nc)
}

// UpdateCourse defines what information may be provided to modify an existing Course.
type UpdateCourse struct {
	Name          *string `json:"nombre" validate:"omitempty,notblank,max=100"`
	HeadTeacherID *int    `json:"jefeId" validate:"omitempty,gt=0"`
}

func (uc *UpdateCourse) Validate(v *core.Validator) error {
	if uc.Name != nil {
		name := core.CleanString(*uc.Name)
		uc.Name = &name
	}
	return v.Struct(uc)
}
