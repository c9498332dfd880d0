package cli

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/schemalab/internal/constraint"
	"github.com/mesh-intelligence/schemalab/internal/demo"
	"github.com/mesh-intelligence/schemalab/internal/erd"
	"github.com/mesh-intelligence/schemalab/internal/sqlmirror"
	"github.com/mesh-intelligence/schemalab/internal/store"
	"github.com/mesh-intelligence/schemalab/pkg/types"
)

type erdGraph struct {
	Roots []string   `json:"roots"`
	Order []string   `json:"order"`
	Edges []erd.Edge `json:"edges"`
}

func newERDCmd(a *app) *cobra.Command {
	var ddl bool
	cmd := &cobra.Command{
		Use:   "erd",
		Short: "Print the sample schema as a Mermaid ER diagram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema := types.DemoSchema()
			g := erd.Build(schema)
			res := erd.TopoSort(g)
			if err := erd.ValidateCycles(res); err != nil {
				return sysError(err)
			}
			if ddl {
				stmts, err := sqlmirror.RenderDDL(schema)
				if err != nil {
					return sysError(err)
				}
				return a.emit(cmd, stmts, func(w io.Writer) error {
					for _, s := range stmts {
						fmt.Fprintf(w, "%s\n\n", s)
					}
					return nil
				})
			}
			return a.emit(cmd, erdGraph{Roots: g.Roots(), Order: res.Order, Edges: g.Edges}, func(w io.Writer) error {
				return erd.WriteMermaid(w, g, schema)
			})
		},
	}
	cmd.Flags().BoolVar(&ddl, "ddl", false, "print CREATE TABLE statements instead")
	return cmd
}

// mirrorRow compares the application rules with the SQLite engine for one
// scenario.
type mirrorRow struct {
	Scenario string            `json:"scenario"`
	Table    string            `json:"table"`
	Expect   constraint.Kind   `json:"expect,omitempty"`
	App      constraint.Kind   `json:"app,omitempty"`
	AppMsg   string            `json:"app_message"`
	Engine   sqlmirror.Verdict `json:"engine"`
	Rows     rowCounts         `json:"rows"`
	Agree    bool              `json:"agree"`
}

// rowCounts is the scenario table's row count after the insert on each side.
type rowCounts struct {
	Store  int `json:"store"`
	Engine int `json:"engine"`
}

func newMirrorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mirror",
		Short: "Run the constraint scenarios through the rules and through SQLite",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sess, err := a.session()
			if err != nil {
				return err
			}
			m, err := openMirror(cmd, sess.Store())
			if err != nil {
				return err
			}
			defer m.Close()

			var rows []mirrorRow
			disagree := 0
			for _, sc := range demo.Scenarios() {
				kind, res := sess.Evaluate(sc)
				v, err := m.Insert(ctx, sc.Table, sc.Row)
				if err != nil {
					return sysError(err)
				}
				n, err := m.Count(ctx, sc.Table)
				if err != nil {
					return sysError(err)
				}
				counts := rowCounts{Store: sess.Store().RowCount(sc.Table), Engine: n}
				r := mirrorRow{
					Scenario: sc.Name, Table: sc.Table, Expect: sc.Expect,
					App: kind, AppMsg: res.Message, Engine: v, Rows: counts,
					Agree: kind == v.Kind && counts.Store == counts.Engine,
				}
				if !r.Agree {
					disagree++
				}
				rows = append(rows, r)
			}
			if err := a.emit(cmd, rows, func(w io.Writer) error {
				tw := newTable(w)
				fmt.Fprintln(tw, "SCENARIO\tRULES\tSQLITE\tROWS\tAGREE")
				for _, r := range rows {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d/%d\t%v\n",
						r.Scenario, verdict(r.App), verdict(r.Engine.Kind), r.Rows.Store, r.Rows.Engine, r.Agree)
				}
				return tw.Flush()
			}); err != nil {
				return err
			}
			if disagree > 0 {
				return sysError(errors.Newf("%d scenarios disagree", disagree))
			}
			return nil
		},
	}
}

func openMirror(cmd *cobra.Command, st *store.Store) (*sqlmirror.Mirror, error) {
	m, err := sqlmirror.Open(cmd.Context(), st.Schema())
	if err != nil {
		return nil, sysError(err)
	}
	if err := m.Load(cmd.Context(), st); err != nil {
		m.Close()
		return nil, sysError(err)
	}
	return m, nil
}

func verdict(k constraint.Kind) string {
	if k == "" {
		return "accepted"
	}
	return string(k)
}
