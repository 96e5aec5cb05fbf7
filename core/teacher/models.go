package teacher

import (
	"strings"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/subject"
)

const (
	MinAge = 18
	MaxAge = 80
)

type Teacher struct {
	ID       int               `json:"id"`
	Name     string            `json:"nombre"`
	Surname  string            `json:"apellido"`
	Age      int               `json:"edad"`
	Sex      string            `json:"sexo"`
	Subjects []subject.Subject `json:"asignaturas"`
}

func (t Teacher) Ref() Ref {
	return Ref{ID: t.ID, Name: t.Name, Surname: t.Surname}
}

// Ref is the short form of a Teacher embedded in related resources.
type Ref struct {
	ID      int    `json:"id"`
	Name    string `json:"nombre"`
	Surname string `json:"apellido"`
}

// NewTeacher contains information needed to create a new Teacher.
type NewTeacher struct {
	Name    string `json:"nombre" validate:"required,notblank,max=100"`
	Surname string `json:"apellido" validate:"required,notblank,max=100"`
	Age     int    `json:"edad" validate:"required,min=18,max=80"`
	Sex     string `json:"sexo" validate:"required,oneof=M F"`
}

func (nt *NewTeacher) Validate(v *core.Validator) error {
	nt.Name = core.CleanString(nt.Name)
	nt.Surname = core.CleanString(nt.Surname)
	nt.Sex = strings.ToUpper(core.CleanString(nt.Sex))
	return v.Struct(nt)
}

// UpdateTeacher defines what information may be provided to modify an existing Teacher.
type UpdateTeacher struct {
	Name    *string `json:"nombre" validate:"omitempty,notblank,max=100"`
	Surname *string `json:"apellido" validate:"omitempty,notblank,max=100"`
	Age     *int    `json:"edad" validate:"omitempty,min=18,max=80"`
	Sex     *string `json:"sexo" validate:"omitempty,oneof=M F"`
}

func (ut *UpdateTeacher) Validate(v *core.Validator) error {
	if ut.Name != nil {
		name := core.CleanString(*ut.Name)
		ut.Name = &name
	}
	if ut.Surname != nil {
		surname := core.CleanString(*ut.Surname)
		ut.Surname = &surname
	}
	if ut.Sex != nil {
		sex := strings.ToUpper(core.CleanString(*ut.Sex))
		ut.Sex = &sex
	}
	return v.Struct(ut)
}

func (ut UpdateTeacher) apply(t *Teacher) {
	if ut.Name != nil {
		t.Name = *ut.Name
	}
	if ut.Surname != nil {
		t.Surname = *ut.Surname
	}
	if ut.Age != nil {
		t.Age = *ut.Age
	}
	if ut.Sex != nil {
		t.Sex = *ut.Sex
	}
}
