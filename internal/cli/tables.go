package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/schemalab/internal/demo"
	"github.com/mesh-intelligence/schemalab/pkg/types"
)

type tableSummary struct {
	Name    string   `json:"name"`
	Rows    int      `json:"rows"`
	Columns []string `json:"columns"`
}

func newTablesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tables [name]",
		Short: "List the sample tables or print one table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			st := sess.Store()
			schema := st.Schema()

			if len(args) == 0 {
				var out []tableSummary
				for _, name := range st.GetTableIDs() {
					ts, _ := schema.Table(name)
					out = append(out, tableSummary{Name: name, Rows: st.RowCount(name), Columns: ts.ColumnNames()})
				}
				return a.emit(cmd, out, func(w io.Writer) error {
					tw := newTable(w)
					fmt.Fprintln(tw, "TABLE\tROWS\tCOLUMNS")
					for _, t := range out {
						fmt.Fprintf(tw, "%s\t%d\t%s\n", t.Name, t.Rows, strings.Join(t.Columns, ", "))
					}
					return tw.Flush()
				})
			}

			ts, ok := schema.Table(args[0])
			if !ok {
				return userError(errors.Wrapf(types.ErrTableNotFound, "%s (valid: %s)",
					args[0], strings.Join(schema.Names(), ", ")))
			}
			tbl := st.GetTable(ts.Name)
			return a.emit(cmd, tbl, func(w io.Writer) error {
				return writeRows(w, ts, tbl)
			})
		},
	}
}

func writeRows(w io.Writer, ts types.TableSchema, tbl types.Table) error {
	tw := newTable(w)
	cols := ts.ColumnNames()
	fmt.Fprintf(tw, "ROW\t%s\n", strings.ToUpper(strings.Join(cols, "\t")))
	for _, id := range tbl.RowIDs {
		row := tbl.Rows[id]
		cells := make([]string, len(cols))
		for i, c := range cols {
			v, ok := row[c]
			if !ok || v.IsZero() {
				cells[i] = "NULL"
				continue
			}
			cells[i] = v.String()
		}
		fmt.Fprintf(tw, "%s\t%s\n", id, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func newInsertCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "insert <table> <column=value>...",
		Short: "Insert a row into the seeded tables, enforcing every constraint",
		Long: "Parse column=value pairs by the column types, fill DEFAULT columns, check\n" +
			"NOT NULL, PRIMARY KEY, UNIQUE, FOREIGN KEY, and CHECK rules, and insert the\n" +
			"row into a freshly seeded copy of the sample tables.",
		Example: "  schemalab insert users_constraints user_id=3 username=carol email=carol@example.com",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			ts, ok := sess.Store().Schema().Table(args[0])
			if !ok {
				return userError(errors.Wrapf(types.ErrTableNotFound, "%s", args[0]))
			}
			row, err := demo.ParseRow(ts, args[1:])
			if err != nil {
				return userError(err)
			}
			res := sess.Insert(ts.Name, row)
			if err := a.emit(cmd, res, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, res.Message)
				return err
			}); err != nil {
				return err
			}
			if !res.OK {
				return userError(errors.New("insert rejected"))
			}
			return nil
		},
	}
}
