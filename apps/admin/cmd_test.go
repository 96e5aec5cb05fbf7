package main

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/user"
	"github.com/liceo-app/liceo/tests"
)

func setup(t *testing.T) (*commandLine, *testutil.Services) {
	svcs := testutil.NewServices(time.UTC)
	return &commandLine{usrSvc: svcs.User}, svcs
}

// mockPasswords makes the prompts return pwds in order, then empty passwords.
func mockPasswords(pwds ...string) {
	readPasswordFunc = func(fd int) ([]byte, error) {
		if len(pwds) == 0 {
			return nil, nil
		}
		pwd := pwds[0]
		pwds = pwds[1:]
		return []byte(pwd), nil
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	pwds       []string
	wantErr    error
	wantErrStr string
	wantField  string // a *core.ValidationError on this field
}

func runCliTests(t *testing.T, cli *commandLine, tests []cliTest) {
	t.Helper()
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		mockPasswords(tt.pwds...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantField != "":
				var vErr *core.ValidationError
				if assert.ErrorAs(t, err, &vErr) {
					var fields []string
					for _, f := range vErr.Fields {
						fields = append(fields, f.Field)
					}
					assert.Contains(t, fields, tt.wantField)
				}
			case tt.wantErrStr != "":
				if assert.Error(t, err) {
					assert.Equal(t, tt.wantErrStr, err.Error())
				}
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t)

	var ran []string
	migrateFunc = func(ctx context.Context, db *sql.DB, command string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		ran = append(ran, command)
		return nil
	}

	runCliTests(t, cli, []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "status", args: []string{"migrate", "status"}},
	})
	assert.Equal(t, []string{"up", "up-to", "down", "status"}, ran)
}

func Test_commandLine_addUser(t *testing.T) {
	cli, svcs := setup(t)
	profe := testutil.CreateTeacher(t, svcs.Teacher, "Ana", "Rojas")

	runCliTests(t, cli, []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no email", args: []string{"adduser"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"adduser", "-email", "director@liceo.cl"}, wantErr: errHelp},
		{
			name:    "passwords differ",
			args:    []string{"adduser", "-email", "director@liceo.cl"},
			pwds:    []string{"pizarra-verde", "pizarra-roja"},
			wantErr: errPasswordMismatch,
		},
		{
			name:       "unknown role",
			args:       []string{"adduser", "-email", "director@liceo.cl", "-rol", "director"},
			pwds:       []string{"pizarra-verde", "pizarra-verde"},
			wantErrStr: "rol: rol must be one of [admin profesor estudiante]",
		},
		{
			name:       "unknown teacher",
			args:       []string{"adduser", "-email", "profe@liceo.cl", "-rol", "profesor", "-profesor", "99"},
			pwds:       []string{"pizarra-verde", "pizarra-verde"},
			wantErrStr: "teacher 99 not found",
		},
		{
			name: "admin",
			args: []string{"adduser", "-email", "Director@Liceo.cl"},
			pwds: []string{"pizarra-verde", "pizarra-verde"},
		},
		{
			name: "teacher",
			args: []string{"adduser", "-email", "profe@liceo.cl", "-rol", "profesor", "-profesor", strconv.Itoa(profe.ID)},
			pwds: []string{"pizarra-verde", "pizarra-verde"},
		},
		{
			name:       "duplicate email",
			args:       []string{"adduser", "-email", "director@liceo.cl"},
			pwds:       []string{"pizarra-verde", "pizarra-verde"},
			wantErrStr: user.ErrEmailExists.Error(),
		},
	})

	ctx := context.Background()
	director, err := svcs.User.GetByEmail(ctx, "director@liceo.cl")
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, director.Role)
	assert.NoError(t, director.CheckPassword("pizarra-verde"))

	teacherUsr, err := svcs.User.GetByEmail(ctx, "profe@liceo.cl")
	require.NoError(t, err)
	assert.Equal(t, user.RoleTeacher, teacherUsr.Role)
	assert.Equal(t, int64(profe.ID), int64(teacherUsr.TeacherID.Int))
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, svcs := setup(t)
	usr := testutil.CreateUser(t, svcs.UserRepo, "alumno@liceo.cl", "s3cr3tPwd!", user.RoleStudent)

	runCliTests(t, cli, []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", usr.Email}, wantErr: errHelp},
		{
			name:       "user not found",
			args:       []string{"resetpassword", "-email", "nadie@liceo.cl"},
			pwds:       []string{"cuaderno-azul", "cuaderno-azul"},
			wantErrStr: "user not found",
		},
		{
			name:       "weak password",
			args:       []string{"resetpassword", "-email", usr.Email},
			pwds:       []string{"12345678", "12345678"},
			wantErrStr: "password: password cannot be entirely numeric",
		},
		{
			name:       "confirmation differs",
			args:       []string{"resetpassword", "-email", usr.Email},
			pwds:      []string{"cuaderno-azul", "cuaderno-rojo"},
			wantField: "passwordConfirm",
		},
		{
			name: "reset",
			args: []string{"resetpassword", "-email", " Alumno@Liceo.cl "},
			pwds: []string{"cuaderno-azul", "cuaderno-azul"},
		},
	})

	refreshed, err := svcs.User.GetByID(context.Background(), usr.ID)
	require.NoError(t, err)
	assert.NoError(t, refreshed.CheckPassword("cuaderno-azul"))
	assert.Error(t, refreshed.CheckPassword("s3cr3tPwd!"))
}
