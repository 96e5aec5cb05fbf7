package subject

import "github.com/liceo-app/liceo/core"

type Subject struct {
	ID   int    `json:"id"`
	Name string `json:"nombre"`
}

// NewSubject contains information needed to create a new Subject.
type NewSubject struct {
	Name string `json:"nombre" validate:"required,notblank,max=100"`
}

func (ns *NewSubject) Validate(v *core.Validator) error {
	ns.Name = core.CleanString(ns.Name)
	return v.Struct(ns)
}

// UpdateSubject defines what information may be provided to modify an existing Subject.
type UpdateSubject struct {
	Name *string `json:"nombre" validate:"omitempty,notblank,max=100"`
}

func (us *UpdateSubject) Validate(v *core.Validator) error {
	if us.Name != nil {
		name := core.CleanString(*us.Name)
		us.Name = &name
	}
	return v.Struct(us)
}
