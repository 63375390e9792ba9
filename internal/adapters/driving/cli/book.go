package cli

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/studydeck/internal/core/domain"
	"github.com/custodia-labs/studydeck/internal/core/ports/driving"
)

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Manage stored books",
	Long:  `Add, inspect, parse and delete the textbooks studydeck works from.`,
}

var bookAddCmd = &cobra.Command{
	Use:   "add [path]",
	Short: "Store a document as a book",
	Long: `Reads the document at path and stores it. The book is named after the
file without its extension unless --name is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runBookAdd,
}

var bookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored books",
	Args:  cobra.NoArgs,
	RunE:  runBookList,
}

var bookDescribeCmd = &cobra.Command{
	Use:   "describe [book]",
	Short: "Show a book and its parsed pages",
	Args:  cobra.ExactArgs(1),
	RunE:  runBookDescribe,
}

var bookPageCmd = &cobra.Command{
	Use:   "page [book] [page]",
	Short: "Print the text of one parsed page",
	Args:  cobra.ExactArgs(2),
	RunE:  runBookPage,
}

var bookParseCmd = &cobra.Command{
	Use:   "parse [book]",
	Short: "Extract the text of every page",
	Long: `Splits the book into pages and sends each page not yet stored to the OCR
service. Pages already parsed are skipped, so an interrupted run resumes
where it stopped. The first failed page ends the run.`,
	Args: cobra.ExactArgs(1),
	RunE: runBookParse,
}

var bookClearPagesCmd = &cobra.Command{
	Use:   "clear-pages [book]",
	Short: "Delete the parsed pages of a book",
	Args:  cobra.ExactArgs(1),
	RunE:  runBookClearPages,
}

var bookDeleteCmd = &cobra.Command{
	Use:   "delete [book]",
	Short: "Delete a book with its pages and exercises",
	Args:  cobra.ExactArgs(1),
	RunE:  runBookDelete,
}

// Flags.
var (
	bookName        string
	describeText    bool
	parseFrom       int
	parseTo         int
	parseForce      bool
	parseNoProgress bool
)

func init() {
	bookAddCmd.Flags().StringVarP(&bookName, "name", "n", "", "name to store the book under")
	bookDescribeCmd.Flags().BoolVar(&describeText, "content", false, "print the text of every parsed page")
	bookParseCmd.Flags().IntVar(&parseFrom, "from", 0, "first page index to parse (0-based)")
	bookParseCmd.Flags().IntVar(&parseTo, "to", -1, "last page index to parse, inclusive (-1 = last page)")
	bookParseCmd.Flags().BoolVar(&parseForce, "force", false, "clear stored pages and parse again")
	bookParseCmd.Flags().BoolVar(&parseNoProgress, "no-progress", false, "do not render a progress bar")

	bookCmd.AddCommand(bookAddCmd)
	bookCmd.AddCommand(bookListCmd)
	bookCmd.AddCommand(bookDescribeCmd)
	bookCmd.AddCommand(bookPageCmd)
	bookCmd.AddCommand(bookParseCmd)
	bookCmd.AddCommand(bookClearPagesCmd)
	bookCmd.AddCommand(bookDeleteCmd)
	rootCmd.AddCommand(bookCmd)
}

func runBookAdd(cmd *cobra.Command, args []string) error {
	if bookService == nil {
		return errors.New("book service not configured")
	}

	book, err := bookService.Add(cmd.Context(), args[0], bookName)
	if err != nil {
		return err
	}

	pages := "unknown"
	if book.PageCount > 0 {
		pages = strconv.Itoa(book.PageCount)
	}
	cmd.Printf("Added book %q (%s pages).\n", book.Name, pages)
	return nil
}

func runBookList(cmd *cobra.Command, _ []string) error {
	if bookService == nil {
		return errors.New("book service not configured")
	}

	books, err := bookService.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(books) == 0 {
		cmd.Println("No books stored. Add one with 'studydeck book add <path>'.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPAGES\tPARSED\tEXERCISES\tADDED")
	for _, b := range books {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
			b.Name, pageCount(b.PageCount), b.ParsedPages, b.Exercises, b.AddedAt.Local().Format(time.DateTime))
	}
	return w.Flush()
}

func runBookDescribe(cmd *cobra.Command, args []string) error {
	if bookService == nil {
		return errors.New("book service not configured")
	}

	desc, err := bookService.Describe(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	s := desc.Summary
	cmd.Printf("Book: %s\n", s.Name)
	cmd.Printf("  Added: %s\n", s.AddedAt.Local().Format(time.DateTime))
	cmd.Printf("  Pages: %s\n", pageCount(s.PageCount))
	cmd.Printf("  Parsed pages: %d\n", s.ParsedPages)
	cmd.Printf("  Exercises: %d\n", s.Exercises)

	for _, p := range desc.Pages {
		cmd.Println()
		cmd.Printf("--- page %d (parsed %s) ---\n", p.PageNumber, p.ParsedAt.Local().Format(time.DateTime))
		if describeText {
			cmd.Println(p.Content)
		} else {
			cmd.Println(preview(p.Content, 120))
		}
	}
	return nil
}

func runBookPage(cmd *cobra.Command, args []string) error {
	if bookService == nil {
		return errors.New("book service not configured")
	}
	page, err := parsePageArg("page", args[1])
	if err != nil {
		return err
	}

	p, err := bookService.GetPage(cmd.Context(), args[0], page)
	if err != nil {
		return err
	}
	cmd.Println(p.Content)
	return nil
}

func runBookParse(cmd *cobra.Command, args []string) error {
	if parseService == nil {
		return errors.New("parse service not configured")
	}

	opts := driving.ParseOptions{Force: parseForce}
	if cmd.Flags().Changed("from") || cmd.Flags().Changed("to") {
		opts.Range = &domain.PageRange{From: parseFrom, To: parseTo}
	}

	var bar *pageBar
	if !parseNoProgress {
		bar = newPageBar(cmd.ErrOrStderr(), "parsing")
		opts.Progress = bar.Observe
	}

	report, err := parseService.Parse(cmd.Context(), args[0], opts)
	if bar != nil {
		bar.Finish()
	}
	if report != nil {
		cmd.Printf("Run %s: %d parsed, %d skipped, %d empty of %d pages in %s.\n",
			report.RunID, report.Parsed, report.Skipped, report.Empty, report.TotalPages,
			report.Duration.Round(time.Millisecond))
	}
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}
	return nil
}

func runBookClearPages(cmd *cobra.Command, args []string) error {
	if bookService == nil {
		return errors.New("book service not configured")
	}
	if err := bookService.ClearPages(cmd.Context(), args[0]); err != nil {
		return err
	}
	cmd.Printf("Cleared parsed pages of %q.\n", args[0])
	return nil
}

func runBookDelete(cmd *cobra.Command, args []string) error {
	if bookService == nil {
		return errors.New("book service not configured")
	}
	if err := bookService.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	cmd.Printf("Deleted book %q.\n", args[0])
	return nil
}

func pageCount(n int) string {
	if n <= 0 {
		return "?"
	}
	return strconv.Itoa(n)
}

// preview returns the first line of s cut to limit runes.
func preview(s string, limit int) string {
	for i, r := range s {
		if r == '\n' {
			s = s[:i]
			break
		}
	}
	runes := []rune(s)
	if len(runes) > limit {
		return string(runes[:limit]) + "..."
	}
	return s
}

func parsePageArg(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, domain.Errorf(domain.KindInvalidInput, "parse arguments", "%s must be a non-negative integer, got %q", name, value)
	}
	return n, nil
}
