package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/salewski/sourcegraph--cody/internal/backfill"
	"github.com/salewski/sourcegraph--cody/internal/catalog"
	"github.com/salewski/sourcegraph--cody/internal/querytext"
	"github.com/salewski/sourcegraph--cody/internal/respval"
)

// ApplyOptions holds flags for the apply command.
type ApplyOptions struct {
	*RootOptions
	Query         string
	TargetVersion string
	ResponseFile  string // "-" reads from stdin-less default empty object
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ApplyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "apply <catalog-dir>",
		Short: "Backfill defaults into a server response",
		Long: `Prepare a named catalog query for the given server version, then walk
the recorded default instructions into a JSON response, writing each
default where the excluded field would have appeared. Fields already
present in the response are left untouched.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "catalog query name (required)")
	cmd.Flags().StringVarP(&opts.TargetVersion, "target-version", "t", "", "server version the response came from (required)")
	cmd.Flags().StringVarP(&opts.ResponseFile, "response", "r", "", "JSON response file (defaults to an empty object)")
	cmd.MarkFlagRequired("query")
	cmd.MarkFlagRequired("target-version")

	return cmd
}

func runApply(opts *ApplyOptions, catalogDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	cat, err := catalog.Load(catalogDir)
	if err != nil {
		formatter.Error(ErrCodeLoad, err.Error(), nil)
		return NewExitError(ExitCommandError, "catalog load failed")
	}

	spec, ok := cat.Get(opts.Query)
	if !ok {
		formatter.Error(ErrCodeQueryNotFound, fmt.Sprintf("query %q not in catalog", opts.Query), nil)
		return NewExitError(ExitCommandError, "unknown query")
	}

	prepared, err := querytext.Prepare(opts.TargetVersion, spec.Fields...)
	if err != nil {
		formatter.Error(ErrCodePrepare, err.Error(), nil)
		return NewExitError(ExitCommandError, "prepare failed")
	}

	response, err := loadResponse(opts.ResponseFile)
	if err != nil {
		formatter.Error(ErrCodeResponse, err.Error(), nil)
		return NewExitError(ExitCommandError, "response load failed")
	}

	formatter.VerboseLog("Applying %d default(s) for %s at version %s", len(prepared.Defaults), opts.Query, opts.TargetVersion)

	filled, err := backfill.ApplyDefaults(response, prepared.Defaults)
	if err != nil {
		formatter.Error(ErrCodeBackfill, err.Error(), nil)
		return NewExitError(ExitCommandError, "backfill failed")
	}

	encoded, err := respval.Marshal(filled)
	if err != nil {
		formatter.Error(ErrCodeBackfill, err.Error(), nil)
		return NewExitError(ExitCommandError, "encode failed")
	}

	if opts.Format == "json" {
		return formatter.Success(map[string]any{
			"query":            opts.Query,
			"target_version":   opts.TargetVersion,
			"defaults_applied": len(prepared.Defaults),
			"response":         json.RawMessage(encoded),
		})
	}

	return formatter.Success(string(encoded))
}

// loadResponse reads and decodes the response file. An unset path means
// the server was never contacted, which corresponds to an empty object.
func loadResponse(path string) (respval.Value, error) {
	if path == "" {
		return respval.Object{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return respval.Decode(data)
}
