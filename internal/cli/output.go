package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/schemalab/internal/demo"
)

// exitErr carries the exit code a failure maps to.
type exitErr struct {
	code int
	err  error
}

func (e *exitErr) Error() string { return e.err.Error() }
func (e *exitErr) Unwrap() error { return e.err }

func userError(err error) error { return &exitErr{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitErr{code: exitSysError, err: err} }

// exitCode maps err to a process exit code. Errors raised by cobra itself
// (unknown command, bad flag, wrong arg count) are user errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var e *exitErr
	if errors.As(err, &e) {
		return e.code
	}
	return exitUserError
}

// emit writes v as indented JSON in --json mode, otherwise calls text.
func (a *app) emit(cmd *cobra.Command, v any, text func(w io.Writer) error) error {
	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return sysError(errors.Wrap(err, "encode json"))
		}
		return nil
	}
	if err := text(out); err != nil {
		return sysError(err)
	}
	return nil
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// step is one scripted demo action and its outcome.
type step struct {
	Action string      `json:"action"`
	Result demo.Result `json:"result"`
}

func writeSteps(w io.Writer, steps []step) error {
	for _, s := range steps {
		mark := "ok"
		if !s.Result.OK {
			mark = "rejected"
		}
		if _, err := fmt.Fprintf(w, "%s\n  [%s] %s\n", s.Action, mark, s.Result.Message); err != nil {
			return err
		}
	}
	return nil
}
