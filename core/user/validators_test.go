package user

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/liceo-app/liceo/core"
)

func TestNewUser_Validate(t *testing.T) {
	v := core.NewValidator()
	RegisterValidators(v)

	tests := []struct {
		name    string
		data    NewUser
		wantErr string // "" -> valid
	}{
		{
			name:    "email required",
			data:    NewUser{Password: "s3cure-Pass", Role: RoleAdmin},
			wantErr: "email is required",
		},
		{
			name:    "bad role",
			data:    NewUser{Email: "a@liceo.cl", Password: "s3cure-Pass", Role: "root"},
			wantErr: "rol must be one of [admin profesor estudiante]",
		},
		{
			name:    "password too short",
			data:    NewUser{Email: "a@liceo.cl", Password: "short", Role: RoleAdmin},
			wantErr: pwdMinLenText,
		},
		{
			name:    "password with spaces",
			data:    NewUser{Email: "a@liceo.cl", Password: "has some spaces", Role: RoleAdmin},
			wantErr: pwdNoSpaceText,
		},
		{
			name:    "password all numeric",
			data:    NewUser{Email: "a@liceo.cl", Password: "1234567890", Role: RoleAdmin},
			wantErr: pwdNotAllNumText,
		},
		{
			name:    "password similar to email",
			data:    NewUser{Email: "profesora.gomez@liceo.cl", Password: "ProfesoraGomez", Role: RoleTeacher},
			wantErr: pwdAttrSimText,
		},
		{
			name: "valid",
			data: NewUser{Email: " Admin@Liceo.CL ", Password: "s3cure-Pass", Role: "ADMIN"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.data.Validate(v)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				assert.Equal(t, "admin@liceo.cl", tt.data.Email)
				assert.Equal(t, RoleAdmin, tt.data.Role)
				return
			}
			vErr, ok := err.(*core.ValidationError)
			if assert.True(t, ok, "want *core.ValidationError, got %T", err) {
				assert.Equal(t, tt.wantErr, vErr.Fields[0].Error)
			}
		})
	}
}

func TestUser_CheckPassword(t *testing.T) {
	var usr User
	if err := usr.SetPassword("s3cure-Pass"); err != nil {
		t.Fatalf("SetPassword(): %v", err)
	}
	assert.NoError(t, usr.CheckPassword("s3cure-Pass"))
	assert.Error(t, usr.CheckPassword("wrong-Pass"))
}
