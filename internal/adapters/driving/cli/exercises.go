package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/studydeck/internal/core/domain"
	"github.com/custodia-labs/studydeck/internal/core/ports/driving"
)

var exercisesCmd = &cobra.Command{
	Use:     "exercises",
	Aliases: []string{"exercise"},
	Short:   "Extract exercises and build teacher prompts",
}

var exercisesExtractCmd = &cobra.Command{
	Use:   "extract [book] [start] [end]",
	Short: "Detect exercises on parsed pages with the LLM",
	Long: `Sends every parsed page between start and end (inclusive, 0-based) to the
LLM and stores the exercises it finds. Pages that already hold exercises
are skipped unless --force is given.`,
	Args: cobra.ExactArgs(3),
	RunE: runExercisesExtract,
}

var exercisesPromptsCmd = &cobra.Command{
	Use:   "prompts [book] [start end]",
	Short: "Write a teacher prompt file per stored exercise",
	Long: `Renders the teacher template for every stored exercise of the book and
writes one Markdown file per exercise under <out>/<book>_exercises.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 && len(args) != 3 {
			return fmt.Errorf("accepts 1 or 3 arg(s), received %d", len(args))
		}
		return nil
	},
	RunE: runExercisesPrompts,
}

var exercisesListCmd = &cobra.Command{
	Use:   "list [book]",
	Short: "List stored exercises",
	Args:  cobra.ExactArgs(1),
	RunE:  runExercisesList,
}

// Flags.
var (
	exerciseLLM   string
	exerciseForce bool
	exerciseOut   string
	exercisePage  int
)

func init() {
	exercisesExtractCmd.Flags().StringVar(&exerciseLLM, "llm", "", "LLM profile to use (default profile if empty)")
	exercisesExtractCmd.Flags().BoolVar(&exerciseForce, "force", false, "replace exercises already stored for a page")
	exercisesPromptsCmd.Flags().StringVarP(&exerciseOut, "out", "o", ".", "output directory")
	exercisesListCmd.Flags().IntVar(&exercisePage, "page", -1, "only list exercises of this page")

	exercisesCmd.AddCommand(exercisesExtractCmd)
	exercisesCmd.AddCommand(exercisesPromptsCmd)
	exercisesCmd.AddCommand(exercisesListCmd)
	rootCmd.AddCommand(exercisesCmd)
}

func runExercisesExtract(cmd *cobra.Command, args []string) error {
	if exerciseService == nil {
		return errors.New("exercise service not configured")
	}
	rng, err := parseRangeArgs(args[1], args[2])
	if err != nil {
		return err
	}

	var report *driving.ExtractReport
	err = withSpinner(cmd.ErrOrStderr(), "extracting exercises", func() error {
		var err error
		report, err = exerciseService.Extract(cmd.Context(), driving.ExtractRequest{
			Book:  args[0],
			Range: rng,
			LLM:   exerciseLLM,
			Force: exerciseForce,
		})
		return err
	})
	if report != nil {
		cmd.Printf("Visited %d pages (%d skipped), stored %d exercises.\n",
			report.PagesVisited, report.PagesSkipped, report.Exercises)
	}
	return err
}

func runExercisesPrompts(cmd *cobra.Command, args []string) error {
	if exerciseService == nil {
		return errors.New("exercise service not configured")
	}

	req := driving.PromptsRequest{Book: args[0], OutDir: exerciseOut}
	if len(args) == 3 {
		rng, err := parseRangeArgs(args[1], args[2])
		if err != nil {
			return err
		}
		req.Range = &rng
	}

	paths, err := exerciseService.BuildPrompts(cmd.Context(), req)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		cmd.Println("No exercises stored. Run 'studydeck exercises extract' first.")
		return nil
	}
	for _, p := range paths {
		cmd.Println(p)
	}
	cmd.Printf("Wrote %d prompts.\n", len(paths))
	return nil
}

func runExercisesList(cmd *cobra.Command, args []string) error {
	if exerciseService == nil {
		return errors.New("exercise service not configured")
	}

	var page *int
	if exercisePage >= 0 {
		page = &exercisePage
	}
	exercises, err := exerciseService.List(cmd.Context(), args[0], page)
	if err != nil {
		return err
	}
	if len(exercises) == 0 {
		cmd.Println("No exercises stored.")
		return nil
	}

	for _, ex := range exercises {
		cmd.Printf("[page %d] #%d %s\n", ex.PageNumber, ex.ID, ex.Title)
		if ex.Instructions != "" {
			cmd.Printf("  %s\n", ex.Instructions)
		}
		for i, q := range ex.Questions {
			cmd.Printf("  %d. %s\n", i+1, q)
		}
	}
	return nil
}

// parseRangeArgs reads an inclusive start/end pair of page arguments.
func parseRangeArgs(start, end string) (domain.PageRange, error) {
	from, err := parsePageArg("start", start)
	if err != nil {
		return domain.PageRange{}, err
	}
	to, err := parsePageArg("end", end)
	if err != nil {
		return domain.PageRange{}, err
	}
	rng := domain.PageRange{From: from, To: to}
	return rng, rng.Validate()
}

// parseCount reads a positive count argument.
func parseCount(value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, domain.Errorf(domain.KindInvalidInput, "parse arguments", "count must be a positive integer, got %q", value)
	}
	return n, nil
}
