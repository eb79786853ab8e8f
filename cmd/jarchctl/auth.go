package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

func passwordFlag(cmd *cobra.Command, p *string) {
	cmd.Flags().StringVar(p, "password", "", "Password (default: JARCH_PASSWORD)")
}

func password(p string) (string, error) {
	if p != "" {
		return p, nil
	}
	if v := os.Getenv("JARCH_PASSWORD"); v != "" {
		return v, nil
	}
	return "", errors.New("password is required (--password or JARCH_PASSWORD)")
}

func newLoginCmd(o *options) *cobra.Command {
	var pw string
	cmd := &cobra.Command{
		Use:   "login EMAIL",
		Short: "Log in and store the token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := password(pw)
			if err != nil {
				return err
			}
			c, err := o.client()
			if err != nil {
				return err
			}
			if _, err := c.Login(cmd.Context(), args[0], p); err != nil {
				return err
			}
			cmd.Printf("Вход выполнен: %s\n", c.Session().Username())
			return nil
		},
	}
	passwordFlag(cmd, &pw)
	return cmd
}

func newRegisterCmd(o *options) *cobra.Command {
	var pw string
	cmd := &cobra.Command{
		Use:   "register USERNAME EMAIL",
		Short: "Create an account and store the token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := password(pw)
			if err != nil {
				return err
			}
			c, err := o.client()
			if err != nil {
				return err
			}
			if _, err := c.Register(cmd.Context(), args[0], p, args[1]); err != nil {
				return err
			}
			cmd.Printf("Регистрация выполнена: %s\n", c.Session().Username())
			return nil
		},
	}
	passwordFlag(cmd, &pw)
	return cmd
}

func newLogoutCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.client()
			if err != nil {
				return err
			}
			return c.Logout()
		},
	}
}

func newWhoamiCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the user of the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.client()
			if err != nil {
				return err
			}
			if !c.Session().IsAuthenticated() {
				cmd.Println("не выполнен вход")
				return nil
			}
			cmd.Println(c.Session().Username())
			return nil
		},
	}
}
