package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/framelabel/internal/errors"
	"github.com/Iron-Ham/framelabel/internal/labels"
)

var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "Print the label table",
	Long: `Print the rows of the label table. The file is read without taking the
session lock, so this works while a session is running.`,
	Args: cobra.NoArgs,
	RunE: runLabels,
}

func init() {
	labelsCmd.Flags().String("results", "", "label table file (default is paths.results_file)")
	labelsCmd.Flags().String("batch", "", "only show rows of this batch")
	labelsCmd.Flags().Bool("unlabeled", false, "only show rows without a time alive")
	rootCmd.AddCommand(labelsCmd)
}

func runLabels(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path := resultsPath(cmd, cfg)
	batch, _ := cmd.Flags().GetString("batch")
	unlabeled, _ := cmd.Flags().GetBool("unlabeled")

	out := cmd.OutOrStdout()
	rows, err := labels.ReadRows(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(out, "No label table at %s\n", path)
			return nil
		}
		return err
	}

	var (
		cells   [][]string
		labeled int
	)
	for _, row := range rows {
		if batch != "" && row.Batch != batch {
			continue
		}
		if unlabeled && row.Labeled() {
			continue
		}
		if row.Labeled() {
			labeled++
		}
		cells = append(cells, []string{
			row.Batch,
			row.Subject,
			row.TimeAlive.String(),
			row.Metamorphosis.String(),
		})
	}

	if len(cells) == 0 {
		fmt.Fprintln(out, "No matching rows.")
		return nil
	}

	fmt.Fprintln(out, renderTable(out, labels.Header(), cells,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight}))
	fmt.Fprintf(out, "%d rows, %d labeled\n", len(cells), labeled)
	return nil
}
