package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/salewski/sourcegraph--cody/internal/catalog"
	"github.com/salewski/sourcegraph--cody/internal/querytext"
	"github.com/salewski/sourcegraph--cody/internal/store"
)

// PrepareOptions holds flags for the prepare command.
type PrepareOptions struct {
	*RootOptions
	Query         string
	TargetVersion string
	LogDB         string // optional prepare-log database path
}

// PrepareOutput is the JSON payload of a successful prepare.
type PrepareOutput struct {
	Query         string       `json:"query"`
	TargetVersion string       `json:"target_version"`
	Text          *string      `json:"text"` // null when no network call is necessary
	Formals       []FormalView `json:"formals"`
	DefaultsCount int          `json:"defaults_count"`
	ContentHash   string       `json:"content_hash"`
}

// FormalView is the JSON shape of one renamed formal declaration.
type FormalView struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// NewPrepareCommand creates the prepare command.
func NewPrepareCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PrepareOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "prepare <catalog-dir>",
		Short: "Serialize a catalog query for a target server version",
		Long: `Serialize a named catalog query into wire text for a server of the
given version. Version-gated fields the server predates are excluded
and counted as pending defaults; a fully excluded document reports a
null text, meaning no network call is necessary.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrepare(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "catalog query name (required)")
	cmd.Flags().StringVarP(&opts.TargetVersion, "target-version", "t", "", "server version to prepare for (required)")
	cmd.Flags().StringVar(&opts.LogDB, "db", "", "record the outcome in this prepare-log database")
	cmd.MarkFlagRequired("query")
	cmd.MarkFlagRequired("target-version")

	return cmd
}

func runPrepare(opts *PrepareOptions, catalogDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	cat, err := catalog.Load(catalogDir)
	if err != nil {
		formatter.Error(ErrCodeLoad, err.Error(), nil)
		return NewExitError(ExitCommandError, "catalog load failed")
	}

	spec, ok := cat.Get(opts.Query)
	if !ok {
		formatter.Error(ErrCodeQueryNotFound, fmt.Sprintf("query %q not in catalog (have: %s)", opts.Query, strings.Join(cat.Names(), ", ")), nil)
		return NewExitError(ExitCommandError, "unknown query")
	}

	formatter.VerboseLog("Preparing %s for server version %s", opts.Query, opts.TargetVersion)

	prepared, err := querytext.Prepare(opts.TargetVersion, spec.Fields...)
	if err != nil {
		formatter.Error(ErrCodePrepare, err.Error(), nil)
		return NewExitError(ExitCommandError, "prepare failed")
	}

	hash, err := querytext.ContentHash(opts.Query, opts.TargetVersion, prepared)
	if err != nil {
		formatter.Error(ErrCodePrepare, err.Error(), nil)
		return NewExitError(ExitCommandError, "prepare failed")
	}

	if opts.LogDB != "" {
		if err := recordPrepare(cmd.Context(), opts, prepared, formatter); err != nil {
			return err
		}
	}

	output := PrepareOutput{
		Query:         opts.Query,
		TargetVersion: opts.TargetVersion,
		Text:          prepared.Text,
		DefaultsCount: len(prepared.Defaults),
		ContentHash:   hash,
	}
	output.Formals = make([]FormalView, len(prepared.Formals))
	for i, f := range prepared.Formals {
		output.Formals[i] = FormalView{Name: f.Name, Type: string(f.Type)}
	}

	if opts.Format == "json" {
		return formatter.Success(output)
	}

	return formatter.Success(formatPrepareText(output))
}

func recordPrepare(ctx context.Context, opts *PrepareOptions, prepared *querytext.PreparedQuery, formatter *OutputFormatter) error {
	st, err := store.Open(opts.LogDB)
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return NewExitError(ExitCommandError, "prepare log open failed")
	}
	defer st.Close()

	rec, inserted, err := st.RecordPrepare(ctx, opts.Query, opts.TargetVersion, prepared)
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return NewExitError(ExitCommandError, "prepare log write failed")
	}
	if inserted {
		formatter.VerboseLog("Recorded prepare outcome %s (seq %d)", rec.ID, rec.Seq)
	} else {
		formatter.VerboseLog("Outcome already logged as %s (seq %d)", rec.ID, rec.Seq)
	}
	return nil
}

func formatPrepareText(out PrepareOutput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "query:          %s\n", out.Query)
	fmt.Fprintf(&b, "target version: %s\n", out.TargetVersion)
	if out.Text != nil {
		fmt.Fprintf(&b, "text:           %s\n", *out.Text)
	} else {
		b.WriteString("text:           (none - no network call necessary)\n")
	}
	if len(out.Formals) > 0 {
		b.WriteString("formals:\n")
		for _, f := range out.Formals {
			fmt.Fprintf(&b, "  $%s: %s\n", f.Name, f.Type)
		}
	}
	fmt.Fprintf(&b, "pending defaults: %d\n", out.DefaultsCount)
	fmt.Fprintf(&b, "content hash:     %s", out.ContentHash)
	return b.String()
}
