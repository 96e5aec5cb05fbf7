package user

import (
	"time"

	"github.com/volatiletech/null/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/liceo-app/liceo/core"
)

// Roles
const (
	RoleAdmin   = "admin"
	RoleTeacher = "profesor"
	RoleStudent = "estudiante"
)

var AllRoles = []string{RoleAdmin, RoleTeacher, RoleStudent}

type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	Role         string    `json:"rol"`
	TeacherID    null.Int  `json:"profesorId"`
	StudentID    null.Int  `json:"estudianteId"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"` // UTC
	LastLogin    null.Time `json:"lastLogin"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u *User) IsStudent() bool { return u.Role == RoleStudent }

// NewUser contains information needed to create a new User.
type NewUser struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required"`
	Role      string `json:"rol" validate:"required,oneof=admin profesor estudiante"`
	TeacherID *int   `json:"profesorId" validate:"omitempty,gt=0"`
	StudentID *int   `json:"estudianteId" validate:"omitempty,gt=0"`
}

func (nu *NewUser) Validate(v *core.Validator) error {
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Role = core.CleanString(nu.Role, true /* lower */)
	return v.Struct(nu)
}

// ResetUserPassword sets a new password for the user identified by Email.
type ResetUserPassword struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

func (rp *ResetUserPassword) Validate(v *core.Validator) error {
	rp.Email = core.CleanString(rp.Email, true /* lower */)
	return v.Struct(rp)
}
