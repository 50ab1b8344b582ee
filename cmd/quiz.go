package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/torredebabel/icfes/internal/api"
	"github.com/torredebabel/icfes/internal/quiz"
	"github.com/torredebabel/icfes/internal/store"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Play a quiz session without the terminal UI",
	Long: `Play one quiz session reading answers from standard input, one
option letter per line. Useful for scripted runs and for checking a backend.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		area, _ := cmd.Flags().GetString("area")
		difficulty, _ := cmd.Flags().GetString("difficulty")
		count, _ := cmd.Flags().GetInt("count")

		if !known(quiz.Areas, area) {
			return fmt.Errorf("unknown area %q (want one of %s)", area, ids(quiz.Areas))
		}
		difficulty = strings.ToUpper(difficulty)
		if !known(quiz.Difficulties, difficulty) {
			return fmt.Errorf("unknown difficulty %q (want one of %s)", difficulty, ids(quiz.Difficulties))
		}

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		run := quizRun{
			ctrl:     e.newQuiz(),
			attempts: e.store.AttemptRepo(),
			log:      e.log,
			in:       bufio.NewReader(cmd.InOrStdin()),
			out:      cmd.OutOrStdout(),
		}
		return run.play(cmd.Context(), area, difficulty, count)
	},
}

func init() {
	quizCmd.Flags().String("area", "matematicas", "Exam area")
	quizCmd.Flags().String("difficulty", quiz.DifficultyMedium, "Difficulty: EASY, MEDIUM or HARD")
	quizCmd.Flags().Int("count", 0, "Number of questions (0 uses the difficulty default)")
}

// quizRun plays one session on a line-oriented terminal.
type quizRun struct {
	ctrl     *quiz.Controller
	attempts store.AttemptRepo
	log      logrus.FieldLogger
	in       *bufio.Reader
	out      io.Writer
}

func (r quizRun) play(ctx context.Context, area, difficulty string, count int) error {
	defer r.ctrl.Reset()

	session, err := r.ctrl.Start(ctx, area, difficulty, count)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	fmt.Fprintf(r.out, "%s · %s · %d preguntas\n\n",
		quiz.Label(session.Area), quiz.Label(session.Difficulty), session.TotalQuestions)

	for {
		st := r.ctrl.State()
		q := st.Session.CurrentQuestion
		r.printQuestion(st.Session)

		key, err := r.readOption(q)
		if err != nil {
			return err
		}

		res, err := r.ctrl.Submit(ctx, q.ID, key)
		if err != nil {
			return fmt.Errorf("submit answer: %w", err)
		}
		if res.IsCorrect {
			fmt.Fprintf(r.out, "\033[32m✓ ¡Correcto!\033[0m  +%d pts  +%d XP\n", res.PointsEarned, res.XPEarned)
		} else {
			fmt.Fprintf(r.out, "\033[31m✗ Incorrecto.\033[0m Respuesta correcta: %s\n", res.CorrectAnswer)
		}
		if res.Explanation != "" {
			fmt.Fprintf(r.out, "Explicación: %s\n", res.Explanation)
		}
		fmt.Fprintln(r.out)

		outcome, err := r.ctrl.AdvanceAfter(ctx)
		if err != nil {
			return fmt.Errorf("advance: %w", err)
		}
		if outcome.Complete {
			r.finish(ctx)
			return nil
		}
	}
}

func (r quizRun) printQuestion(s *quiz.Session) {
	q := s.CurrentQuestion
	fmt.Fprintf(r.out, "── Pregunta %d/%d ──\n", min(s.Progress.Answered+1, s.TotalQuestions), s.TotalQuestions)
	if q.Title != "" {
		fmt.Fprintln(r.out, q.Title)
	}
	fmt.Fprintln(r.out, q.Content)
	if q.ImageURL != "" {
		fmt.Fprintf(r.out, "[imagen] %s\n", q.ImageURL)
	}
	for _, opt := range q.Options {
		fmt.Fprintf(r.out, "  %s) %s\n", opt.Key, opt.Text)
	}
}

// readOption prompts until the input names one of q's options.
func (r quizRun) readOption(q *api.Question) (string, error) {
	for {
		fmt.Fprint(r.out, "\nTu respuesta: ")
		line, err := readLine(r.in)
		if err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return "", errors.New("input closed before the session ended")
			}
			return "", err
		}
		key := strings.ToUpper(strings.TrimSpace(line))
		for _, opt := range q.Options {
			if strings.EqualFold(opt.Key, key) {
				return opt.Key, nil
			}
		}
		fmt.Fprintln(r.out, "Opción no válida.")
	}
}

func (r quizRun) finish(ctx context.Context) {
	st := r.ctrl.State()
	fb := st.Feedback
	fmt.Fprintf(r.out, "── Sesión completada: %d pts · %d XP · precisión %.1f%% ──\n",
		fb.FinalScore, st.Session.XP, fb.Accuracy)
	if fb.Message != "" {
		fmt.Fprintln(r.out, fb.Message)
	}
	for _, s := range fb.Strengths {
		fmt.Fprintf(r.out, "  + %s\n", s)
	}
	for _, s := range fb.Improvements {
		fmt.Fprintf(r.out, "  - %s\n", s)
	}

	if data, ok := st.Attempt(); ok && r.attempts != nil {
		if err := r.attempts.AppendAttempt(ctx, data); err != nil {
			r.log.WithError(err).Warn("record attempt")
		}
	}
}

func known(choices []quiz.Choice, id string) bool {
	for _, c := range choices {
		if c.ID == id {
			return true
		}
	}
	return false
}

func ids(choices []quiz.Choice) string {
	out := make([]string, len(choices))
	for i, c := range choices {
		out[i] = c.ID
	}
	return strings.Join(out, ", ")
}
