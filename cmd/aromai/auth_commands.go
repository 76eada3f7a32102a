package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/aromai/internal/app"
	"github.com/five82/aromai/internal/aromai"
)

func newLoginCommand(ctx *commandContext) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			var err error
			if email, err = promptIfEmpty(cmd, in, email, "Email: "); err != nil {
				return err
			}
			if password, err = promptIfEmpty(cmd, in, password, "Password: "); err != nil {
				return err
			}
			return ctx.withApp(func(a *app.App) error {
				claims, err := a.Store.Login(cmd.Context(), email, password)
				if err != nil {
					return fmt.Errorf("login: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", identity(claims.Name, claims.Email, email))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (prompted when omitted)")
	return cmd
}

func newLogoutCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app.App) error {
				if err := a.Store.Logout(); err != nil {
					return fmt.Errorf("logout: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
				return nil
			})
		},
	}
}

func newRegisterCommand(ctx *commandContext) *cobra.Command {
	var req aromai.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			var err error
			if req.Password, err = promptIfEmpty(cmd, in, req.Password, "Password: "); err != nil {
				return err
			}
			if strings.TrimSpace(req.Email) == "" {
				return errors.New("register: --email is required")
			}
			if strings.TrimSpace(req.UserName) == "" {
				req.UserName = strings.SplitN(req.Email, "@", 2)[0]
			}
			return ctx.withApp(func(a *app.App) error {
				if err := a.Store.Register(cmd.Context(), req); err != nil {
					return fmt.Errorf("register: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registered %s; sign in with `aromai login`\n", req.Email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "First name")
	cmd.Flags().StringVar(&req.Surname, "surname", "", "Last name")
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "Account email")
	cmd.Flags().StringVar(&req.UserName, "username", "", "User name (defaults to the email's local part)")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "Account password (prompted when omitted)")
	return cmd
}

func newWhoamiCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app.App) error {
				snap := a.Store.Snapshot()
				out := cmd.OutOrStdout()
				if !snap.Authenticated() {
					fmt.Fprintln(out, "Not signed in")
					return nil
				}
				fmt.Fprintf(out, "Name:        %s\n", snap.Name)
				fmt.Fprintf(out, "Email:       %s\n", snap.Email)
				fmt.Fprintf(out, "Use my info: %s\n", yesNo(snap.UseMyInfo))
				return nil
			})
		},
	}
}

func promptIfEmpty(cmd *cobra.Command, in *bufio.Reader, value, label string) (string, error) {
	if strings.TrimSpace(value) != "" {
		return value, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), label)
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.ToLower(label), ": "), err)
	}
	return strings.TrimSpace(line), nil
}

func identity(name, email, fallback string) string {
	switch {
	case name != "" && email != "":
		return fmt.Sprintf("%s <%s>", name, email)
	case name != "":
		return name
	case email != "":
		return email
	default:
		return fallback
	}
}
