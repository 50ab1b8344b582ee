package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/torredebabel/icfes/internal/api"
	"github.com/torredebabel/icfes/internal/role"
)

var roleCmd = &cobra.Command{
	Use:   "role",
	Short: "Assign or sync your study role",
}

var roleAssessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Take the vocational test (answers read from stdin, one number per line)",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		res, err := assess(e.battery, bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return completeRole(cmd, e, role.VocationalRecord(res))
	},
}

var roleRandomCmd = &cobra.Command{
	Use:   "random",
	Short: "Get a random study role",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		return completeRole(cmd, e, role.RandomRecord(role.ClassifyRandom(nil)))
	},
}

var rolePickCmd = &cobra.Command{
	Use:       "pick <TANK|DPS|SUPPORT|SPECIALIST>",
	Short:     "Choose a study role directly",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"TANK", "DPS", "SUPPORT", "SPECIALIST"},
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := role.ParseCategory(args[0])
		if err != nil {
			return err
		}

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		return completeRole(cmd, e, role.ManualRecord(c))
	},
}

var roleSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Send role assignments that were only kept locally",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		n, err := e.roles.Sync(cmd.Context())
		fmt.Fprintf(cmd.OutOrStdout(), "%d asignaciones sincronizadas\n", n)
		return err
	},
}

var roleShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the latest local role assignment",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		a, err := e.roles.Latest(cmd.Context())
		if err != nil {
			return err
		}
		if a == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Aún no tienes un rol. Prueba: icfes role assess")
			return nil
		}
		printRole(cmd.OutOrStdout(), role.Category(a.AssignedRole))
		state := "sincronizado"
		if !a.Synced {
			state = "pendiente de sincronizar"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nAsignado %s (%s, %s)\n", a.CreatedAt.Local().Format("2006-01-02 15:04"), a.Method, state)
		return nil
	},
}

func init() {
	roleCmd.AddCommand(roleAssessCmd)
	roleCmd.AddCommand(roleRandomCmd)
	roleCmd.AddCommand(rolePickCmd)
	roleCmd.AddCommand(roleSyncCmd)
	roleCmd.AddCommand(roleShowCmd)
}

// assess runs the battery on a line-oriented terminal. Each answer is the
// 1-based option number; invalid lines are asked again.
func assess(b role.Battery, in *bufio.Reader, out io.Writer) (role.Result, error) {
	a := role.NewAssessment(b)
	for !a.Done() {
		q, _ := a.Current()
		fmt.Fprintf(out, "── Pregunta %d de %d ──\n%s\n", a.Answered()+1, a.Total(), q.Text)
		for i, opt := range q.Options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, opt.Text)
		}

		for {
			fmt.Fprint(out, "Tu respuesta: ")
			line, err := readLine(in)
			if err != nil {
				if errors.Is(err, io.ErrUnexpectedEOF) {
					return role.Result{}, errors.New("input closed before the test ended")
				}
				return role.Result{}, err
			}
			n, err := strconv.Atoi(strings.TrimSpace(line))
			if err == nil && a.Record(n-1) == nil {
				break
			}
			fmt.Fprintf(out, "Escribe un número entre 1 y %d.\n", len(q.Options))
		}
		fmt.Fprintln(out)
	}
	return a.Result()
}

// completeRole shows the assignment and records it. A remote failure
// leaves the record stored locally for role sync.
func completeRole(cmd *cobra.Command, e *env, rec role.Record) error {
	w := cmd.OutOrStdout()
	printRole(w, rec.Role)
	if rec.Scores != nil {
		fmt.Fprintln(w)
		for _, c := range role.Categories {
			fmt.Fprintf(w, "  %-10s %d\n", c, rec.Scores[c])
		}
	}

	err := e.roles.Complete(cmd.Context(), rec)
	var violation *role.ContractViolation
	switch {
	case err == nil:
		fmt.Fprintln(w, "\nRol guardado en tu perfil.")
	case errors.As(err, &violation):
		return err
	case api.IsAuthError(err):
		return fmt.Errorf("rol no guardado en el perfil, inicia sesión con icfes login: %w", err)
	default:
		fmt.Fprintf(w, "\nNo se pudo guardar en el perfil (%v).\nQuedó guardado localmente; ejecuta icfes role sync más tarde.\n", err)
	}
	return nil
}

func printRole(w io.Writer, c role.Category) {
	info, ok := role.InfoFor(c)
	if !ok {
		fmt.Fprintf(w, "Rol: %s\n", c)
		return
	}
	fmt.Fprintf(w, "%s  %s (%s)\n%s\n", info.Icon, info.Name, c, info.Description)
	if len(info.Traits) > 0 {
		fmt.Fprintf(w, "Rasgos: %s\n", strings.Join(info.Traits, ", "))
	}
	if info.Strategy != "" {
		fmt.Fprintf(w, "Estrategia: %s\n", info.Strategy)
	}
}
