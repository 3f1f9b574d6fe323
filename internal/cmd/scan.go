package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/framelabel/internal/dataset"
	"github.com/Iron-Ham/framelabel/internal/labels"
	"github.com/Iron-Ham/framelabel/internal/tui/styles"
)

var scanCmd = &cobra.Command{
	Use:   "scan [base-folder]",
	Short: "List batches and subjects with their frame counts",
	Long: `Walk a base folder and list every subject with its frame count, the number of
frame files whose names carry no frame number, and whether it is labeled.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().String("results", "", "label table file (default is paths.results_file)")
	scanCmd.Flags().BoolP("verbose", "v", false, "list malformed frame names")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	base := cfg.Paths.ResolveBaseDir()
	if len(args) > 0 {
		base = args[0]
	}
	verbose, _ := cmd.Flags().GetBool("verbose")

	summaries, err := dataset.Scan(base, cfg.Frames.Extensions)
	if err != nil {
		return err
	}

	labeled := make(map[[2]string]bool)
	// A missing or unreadable table only hides the labeled column.
	if rows, err := labels.ReadRows(resultsPath(cmd, cfg)); err == nil {
		for _, row := range rows {
			labeled[[2]string{row.Batch, row.Subject}] = row.Labeled()
		}
	}

	out := cmd.OutOrStdout()
	if len(summaries) == 0 {
		fmt.Fprintf(out, "No batches in %s\n", base)
		return nil
	}

	var (
		cells              [][]string
		subjects, complete int
		problems           []string
	)
	for _, b := range summaries {
		if b.Err != nil {
			cells = append(cells, []string{b.Name, "", "", "", "error"})
			problems = append(problems, b.Err.Error())
			continue
		}
		for _, s := range b.Subjects {
			subjects++
			done := labeled[[2]string{b.Name, s.Name}]
			if done {
				complete++
			}
			frames := strconv.Itoa(s.Frames)
			if s.Err != nil {
				frames = "error"
				problems = append(problems, s.Err.Error())
			}
			cells = append(cells, []string{
				b.Name,
				s.Name,
				frames,
				strconv.Itoa(len(s.Malformed)),
				styles.LabelIcon(done),
			})
			if len(s.Unordered) > 0 {
				problems = append(problems, fmt.Sprintf("%s/%s: frame numbers out of name order at %s",
					b.Name, s.Name, strings.Join(s.Unordered, ", ")))
			}
			if verbose {
				for _, m := range s.Malformed {
					problems = append(problems, m.Error())
				}
			}
		}
	}

	fmt.Fprintln(out, renderTable(out,
		[]string{"Batch", "Subject", "Frames", "Malformed", "Labeled"}, cells,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft}))
	fmt.Fprintf(out, "%d batches, %d subjects, %d labeled\n", len(summaries), subjects, complete)
	for _, p := range problems {
		fmt.Fprintf(out, "  %s\n", p)
	}
	return nil
}
