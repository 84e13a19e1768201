package main

import (
	"context"

	"github.com/sagedu/sage/core/user"
)

func (cli *commandLine) register(args []string) error {
	cmd := cli.flagSet("register")
	name := cmd.String("name", "", "The user's full name.")
	email := cmd.String("email", "", "The user's email. The password will be prompted next.")
	if err := cli.parse(cmd, args, "name", "email"); err != nil {
		return err
	}

	pwd, err := cli.readPassword("Enter password")
	if err != nil {
		return err
	}
	confirm, err := cli.readPassword("Confirm password")
	if err != nil {
		return err
	}

	usr, err := cli.usrSvc.Register(context.Background(), user.NewUser{
		Name:            *name,
		Email:           *email,
		Password:        pwd,
		PasswordConfirm: confirm,
	})
	if err != nil {
		return err
	}
	cli.printf("user %s <%s> registered\n", usr.Name, usr.Email)
	return nil
}

func (cli *commandLine) login(args []string) error {
	cmd := cli.flagSet("login")
	email := cmd.String("email", "", "The user's email. The password will be prompted next.")
	if err := cli.parse(cmd, args, "email"); err != nil {
		return err
	}

	pwd, err := cli.readPassword("Enter password")
	if err != nil {
		return err
	}
	usr, err := cli.usrSvc.Authenticate(context.Background(), user.Credentials{Email: *email, Password: pwd})
	if err != nil {
		return err
	}
	cli.printf("welcome, %s\n", usr.Name)
	return nil
}

func (cli *commandLine) passwd(args []string) error {
	cmd := cli.flagSet("passwd")
	email := cmd.String("email", "", "The user's email. The passwords will be prompted next.")
	if err := cli.parse(cmd, args, "email"); err != nil {
		return err
	}

	prompts := []string{"Current password", "New password", "Confirm new password"}
	pwds := make([]string, len(prompts))
	for i, prompt := range prompts {
		pwd, err := cli.readPassword(prompt)
		if err != nil {
			return err
		}
		pwds[i] = pwd
	}

	err := cli.usrSvc.ChangePassword(context.Background(), user.ChangePassword{
		Email:           *email,
		CurrentPassword: pwds[0],
		Password:        pwds[1],
		PasswordConfirm: pwds[2],
	})
	if err != nil {
		return err
	}
	cli.println("password changed")
	return nil
}
