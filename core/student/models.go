package student

import (
	"strings"

	"github.com/volatiletech/null/v8"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/course"
)

const (
	MinAge = 3
	MaxAge = 25
)

type Student struct {
	ID       int         `json:"id"`
	Name     string      `json:"nombre"`
	Surname  string      `json:"apellido"`
	Age      int         `json:"edad"`
	Sex      string      `json:"sexo"`
	CourseID null.Int    `json:"cursoId"`
	Course   *course.Ref `json:"curso"`
}

func (s Student) Ref() Ref {
	return Ref{ID: s.ID, Name: s.Name, Surname: s.Surname}
}

// Ref is the short form of a Student embedded in related resources.
type Ref struct {
	ID      int    `json:"id"`
	Name    string `json:"nombre"`
	Surname string `json:"apellido"`
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	Name     string `json:"nombre" validate:"required,notblank,max=100"`
	Surname  string `json:"apellido" validate:"required,notblank,max=100"`
	Age      int    `json:"edad" validate:"required,min=3,max=25"`
	Sex      string `json:"sexo" validate:"required,oneof=M F"`
	CourseID *int   `json:"cursoId" validate:"omitempty,gt=0"`
}

func (ns *NewStudent) Validate(v *core.Validator) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Surname = core.CleanString(ns.Surname)
	ns.Sex = strings.ToUpper(core.CleanString(ns.Sex))
	return v.Struct(ns)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
type UpdateStudent struct {
	Name     *string `json:"nombre" validate:"omitempty,notblank,max=100"`
	Surname  *string `json:"apellido" validate:"omitempty,notblank,max=100"`
	Age      *int    `json:"edad" validate:"omitempty,min=3,max=25"`
	Sex      *string `json:"sexo" validate:"omitempty,oneof=M F"`
	CourseID *int    `json:"cursoId" validate:"omitempty,gt=0"`
}

func (us *UpdateStudent) Validate(v *core.Validator) error {
	if us.Name != nil {
		name := core.CleanString(*us.Name)
		us.Name = &name
	}
	if us.Surname != nil {
		surname := core.CleanString(*us.Surname)
		us.Surname = &surname
	}
	if us.Sex != nil {
		sex := strings.ToUpper(core.CleanString(*us.Sex))
		us.Sex = &sex
	}
	return v.Struct(us)
}

func (us UpdateStudent) apply(s *Student) {
	if us.Name != nil {
		s.Name = *us.Name
	}
	if us.Surname != nil {
		s.Surname = *us.Surname
	}
	if us.Age != nil {
		s.Age = *us.Age
	}
	if us.Sex != nil {
		s.Sex = *us.Sex
	}
	if us.CourseID != nil {
		s.CourseID = null.IntFrom(*us.CourseID)
	}
}
