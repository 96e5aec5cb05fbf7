package main

import (
	"context"

	"github.com/liceo-app/liceo/core/user"
)

func (cli *commandLine) resetPassword(rp user.ResetUserPassword) error {
	return cli.usrSvc.ResetPassword(context.Background(), rp)
}
