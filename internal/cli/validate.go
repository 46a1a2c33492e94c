package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/salewski/sourcegraph--cody/internal/catalog"
	"github.com/salewski/sourcegraph--cody/internal/query"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Query string // restrict validation to one query
}

// ValidationReport is the JSON payload of a validate run.
type ValidationReport struct {
	Queries  int                 `json:"queries"`
	OK       bool                `json:"ok"`
	Warnings map[string][]string `json:"warnings,omitempty"` // query name to defect list
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <catalog-dir>",
		Short: "Check catalog queries for structural defects",
		Long: `Load a query catalog and check every query for constructions that
would fail at prepare time: empty field names, misplaced argument
fields, wrappers applied directly over version gates, and version
bounds that do not parse.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "validate only this query")

	return cmd
}

func runValidate(opts *ValidateOptions, catalogDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	cat, err := catalog.Load(catalogDir)
	if err != nil {
		formatter.Error(ErrCodeLoad, err.Error(), nil)
		return NewExitError(ExitCommandError, "catalog load failed")
	}

	names := cat.Names()
	if opts.Query != "" {
		if _, ok := cat.Get(opts.Query); !ok {
			formatter.Error(ErrCodeQueryNotFound, fmt.Sprintf("query %q not in catalog", opts.Query), nil)
			return NewExitError(ExitCommandError, "unknown query")
		}
		names = []string{opts.Query}
	}
	sort.Strings(names)

	report := ValidationReport{Queries: len(names), OK: true}
	for _, name := range names {
		spec, _ := cat.Get(name)
		result := query.Validate(spec.Fields...)
		if result.OK {
			continue
		}
		report.OK = false
		if report.Warnings == nil {
			report.Warnings = make(map[string][]string)
		}
		report.Warnings[name] = result.Warnings
	}

	if !report.OK {
		formatter.Error(ErrCodeValidation, formatValidationText(report), report.Warnings)
		return NewExitError(ExitFailure, "catalog has defects")
	}

	if opts.Format == "json" {
		return formatter.Success(report)
	}
	return formatter.Success(fmt.Sprintf("%d quer%s checked, no defects", report.Queries, pluralIES(report.Queries)))
}

func formatValidationText(report ValidationReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d quer%s with defects", len(report.Warnings), pluralIES(len(report.Warnings)))
	names := make([]string, 0, len(report.Warnings))
	for name := range report.Warnings {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, w := range report.Warnings[name] {
			fmt.Fprintf(&b, "\n  %s: %s", name, w)
		}
	}
	return b.String()
}

func pluralIES(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
