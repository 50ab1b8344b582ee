package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/torredebabel/icfes/internal/api"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the access token",
	Long: `Sign in with email and password. The password is read from the
first line of standard input, so it can be piped:

  echo "$PASSWORD" | icfes login --email ana@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := bufio.NewReader(cmd.InOrStdin())
		email, _ := cmd.Flags().GetString("email")
		if email == "" {
			fmt.Fprint(cmd.OutOrStdout(), "Correo: ")
			line, err := readLine(in)
			if err != nil {
				return err
			}
			email = line
		}
		fmt.Fprint(cmd.OutOrStdout(), "Contraseña: ")
		password, err := readLine(in)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout())

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.auth.Login(cmd.Context(), email, password); err != nil {
			if api.IsAuthError(err) {
				return errors.New("correo o contraseña incorrectos")
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Sesión iniciada como %s\n", strings.TrimSpace(email))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.auth.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Sesión cerrada")
		return nil
	},
}

func init() {
	loginCmd.Flags().String("email", "", "Account email (prompted when empty)")
}

// readLine returns the next input line without its line ending. A last
// line without a newline is accepted.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if errors.Is(err, io.EOF) && line == "" {
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimRight(line, "\r\n"), nil
}
