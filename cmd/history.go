package cmd

import (
	"fmt"
	"io"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/torredebabel/icfes/internal/quiz"
	"github.com/torredebabel/icfes/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List finished quiz sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		attempts, err := e.store.AttemptRepo().ListAttempts(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("list attempts: %w", err)
		}
		printHistory(cmd.OutOrStdout(), attempts)
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of sessions to list (0 lists all)")
}

func printHistory(w io.Writer, attempts []store.Attempt) {
	if len(attempts) == 0 {
		fmt.Fprintln(w, "Aún no has completado ningún quiz.")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Fecha", "Área", "Dificultad", "Preguntas", "Puntaje", "XP", "Precisión")
	for _, a := range attempts {
		t.Row(
			a.CompletedAt.Local().Format("2006-01-02 15:04"),
			quiz.Label(a.Area),
			quiz.Label(a.Difficulty),
			fmt.Sprint(a.TotalQuestions),
			fmt.Sprint(a.FinalScore),
			fmt.Sprint(a.TotalXP),
			fmt.Sprintf("%.1f%%", a.Accuracy),
		)
	}
	fmt.Fprintln(w, t.String())
}
