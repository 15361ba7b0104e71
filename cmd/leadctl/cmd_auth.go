package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/conversion-pro/internal/domain/entity"
)

var (
	loginID       string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Iniciar sesión con id y contraseña",
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
		u, err := a.auth.SignIn(ctx, loginID, loginPassword)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "sesión iniciada: %s (%s)\n", u.Name, u.Role)
		return nil
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Cerrar la sesión guardada",
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
		if err := a.auth.SignOut(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "sesión cerrada")
		return nil
	}),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Usuario de la sesión actual",
	RunE: withUser(func(_ context.Context, _ *app, u entity.User, cmd *cobra.Command, _ []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", u.ID, u.Name, u.Role)
		return nil
	}),
}

func init() {
	loginCmd.Flags().StringVar(&loginID, "id", "", "id de empleado")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "contraseña")
	_ = loginCmd.MarkFlagRequired("id")
	_ = loginCmd.MarkFlagRequired("password")
}
