package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/schemalab/internal/normalize"
)

func newNormalizeCmd(a *app) *cobra.Command {
	var showRows bool
	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Walk the employee data from UNF to 3NF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			steps, err := normalize.Steps(sess.Store())
			if err != nil {
				return sysError(err)
			}
			if !showRows {
				for i := range steps {
					steps[i].Rows = nil
				}
			}
			return a.emit(cmd, steps, func(w io.Writer) error {
				for _, s := range steps {
					fmt.Fprintf(w, "Step %d: %s\n  %s\n", s.Number, s.Form, s.Description)
					for _, t := range sortedKeys(s.Tables) {
						fmt.Fprintf(w, "  %-24s %d rows, %d repeated values\n", t, s.Tables[t], s.Redundancy[t])
						if showRows {
							for _, r := range s.Rows[t] {
								fmt.Fprintf(w, "    %v\n", r)
							}
						}
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&showRows, "rows", false, "include the rows of every step")
	return cmd
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
