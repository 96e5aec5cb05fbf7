package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/liceo-app/liceo/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db     *sql.DB
	usrSvc *user.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run a goose command (up, down, status, redo, ...) against the database")
	fmt.Println("  adduser -email EMAIL -rol ROLE [-profesor ID] [-estudiante ID] - create a user")
	fmt.Println("  resetpassword -email EMAIL - reset user's password")
}

// promptPassword reads a password and its confirmation without echoing them.
func promptPassword() (pwd, confirm string, err error) {
	fmt.Print("Enter password:")
	p, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", "", err
	}
	fmt.Print("Confirm password:")
	c, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", "", err
	}
	return string(p), string(c), nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserEmail := addUserCmd.String("email", "", "The user's email. The password will be prompted next.")
	addUserRole := addUserCmd.String("rol", user.RoleAdmin, "One of admin, profesor or estudiante.")
	addUserTeacher := addUserCmd.Int("profesor", 0, "The teacher linked to a profesor user.")
	addUserStudent := addUserCmd.Int("estudiante", 0, "The student linked to an estudiante user.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The user's email. The password will be prompted next.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserEmail == "" {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, confirm, err := promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			addUserCmd.Usage()
			return errHelp
		}
		if pwd != confirm {
			return errPasswordMismatch
		}
		nu := user.NewUser{Email: *addUserEmail, Password: pwd, Role: *addUserRole}
		if *addUserTeacher > 0 {
			nu.TeacherID = addUserTeacher
		}
		if *addUserStudent > 0 {
			nu.StudentID = addUserStudent
		}
		return cli.addUser(nu)

	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, confirm, err := promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(user.ResetUserPassword{
			Email:           *resetPasswordEmail,
			Password:        pwd,
			PasswordConfirm: confirm,
		})

	default:
		cli.printUsage()
		return errHelp
	}
}
