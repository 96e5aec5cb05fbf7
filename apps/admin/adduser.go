package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/liceo-app/liceo/core/user"
)

var errPasswordMismatch = errors.New("passwords do not match")

func (cli *commandLine) addUser(nu user.NewUser) error {
	usr, err := cli.usrSvc.Create(context.Background(), nu)
	if err != nil {
		return err
	}
	fmt.Printf("created %s user %d (%s)\n", usr.Role, usr.ID, usr.Email)
	return nil
}
