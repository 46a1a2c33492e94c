package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/salewski/sourcegraph--cody/internal/store"
)

// LogOptions holds flags for the log command.
type LogOptions struct {
	*RootOptions
	Query string // restrict listing to one query name
}

// NewLogCommand creates the log command.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "log <db-path>",
		Short: "List recorded prepare outcomes",
		Long: `List the prepare outcomes recorded in a prepare-log database, in
insertion order. Identical outcomes are stored once, keyed by their
content hash.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "list only outcomes for this query")

	return cmd
}

func runLog(opts *LogOptions, dbPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	st, err := store.Open(dbPath)
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return NewExitError(ExitCommandError, "prepare log open failed")
	}
	defer st.Close()

	var records []store.PrepareRecord
	if opts.Query != "" {
		records, err = st.ListByQuery(cmd.Context(), opts.Query)
	} else {
		records, err = st.ListAll(cmd.Context())
	}
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return NewExitError(ExitCommandError, "prepare log read failed")
	}

	if opts.Format == "json" {
		return formatter.Success(map[string]any{
			"count":   len(records),
			"records": records,
		})
	}

	if len(records) == 0 {
		return formatter.Success("no recorded outcomes")
	}

	var b strings.Builder
	for i, rec := range records {
		if i > 0 {
			b.WriteByte('\n')
		}
		text := "(none)"
		if rec.Text != nil {
			text = *rec.Text
		}
		fmt.Fprintf(&b, "%4d  %s  %s@%s  defaults=%d\n      %s",
			rec.Seq, rec.ID, rec.QueryName, rec.TargetVersion, rec.DefaultsCount, text)
	}
	return formatter.Success(b.String())
}
