package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/schemalab/internal/demo"
	"github.com/mesh-intelligence/schemalab/internal/store"
)

func newDemoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted design-principle walk-through",
	}
	cmd.PersistentFlags().Bool("trace", false, "print every cell change to stderr as the script runs")
	cmd.AddCommand(
		newScriptCmd(a, "keys", "Primary, candidate, and surrogate keys", keysScript),
		newScriptCmd(a, "constraints", "NOT NULL, UNIQUE, FOREIGN KEY, CHECK, and DEFAULT", constraintsScript),
		newScriptCmd(a, "anomalies", "Update, insert, and delete anomalies versus a normalized design", anomaliesScript),
		newRelationshipsCmd(a),
	)
	return cmd
}

func newScriptCmd(a *app, name, short string, script func(*demo.Session) []step) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			if trace, _ := cmd.Flags().GetBool("trace"); trace {
				id := sess.Store().AddCellListener("", "", "", func(ch store.Change) {
					writeChange(cmd.ErrOrStderr(), ch)
				})
				defer sess.Store().DelListener(id)
			}
			steps := script(sess)
			return a.emit(cmd, steps, func(w io.Writer) error {
				return writeSteps(w, steps)
			})
		},
	}
}

func keysScript(s *demo.Session) []step {
	steps := []step{
		{"add user 4 \"dave\"", s.AddUser("4", "dave")},
		{"add user 1 \"eve\" (user id already taken)", s.AddUser("1", "eve")},
		{"add user 5 with no username", s.AddUser("5", "")},
		{"delete user 4", s.DeleteUser("4")},
		{"add surrogate product PROD-004", s.AddSurrogateProduct("PROD-004", "Smart Mug", "19.99")},
		{"add surrogate product PROD-001 (sku already taken)", s.AddSurrogateProduct("PROD-001", "Copy", "9.99")},
	}
	for _, ck := range s.CandidateKeys() {
		msg := fmt.Sprintf("unique=%v primary=%v", ck.Unique, ck.Primary)
		steps = append(steps, step{"candidate key " + ck.Column, demo.Result{OK: ck.Unique, Message: msg}})
	}
	return steps
}

func constraintsScript(s *demo.Session) []step {
	return []step{
		{"NOT NULL: add user with empty username", s.AddUserNotNull("", "nobody@example.com")},
		{"NOT NULL: add user carol", s.AddUserNotNull("carol", "carol@example.com")},
		{"UNIQUE: add a second \"alice\"", s.AddUserUnique("alice", "alice2@example.com")},
		{"FOREIGN KEY: order for customer 999", s.AddOrderFK("999", "10.00")},
		{"FOREIGN KEY: order for customer 101", s.AddOrderFK("101", "10.00")},
		{"CHECK: product with price -1", s.AddProductCheck("Product C", "-1", "1")},
		{"CHECK: product with stock -5", s.AddProductCheck("Product C", "1", "-5")},
		{"CHECK: product C", s.AddProductCheck("Product C", "9.99", "3")},
		{"DEFAULT: order without status", s.AddOrderDefault("101", "")},
		{"DEFAULT: order with status shipped", s.AddOrderDefault("102", "shipped")},
	}
}

func anomaliesScript(s *demo.Session) []step {
	return []step{
		{"bad design: add a product nobody has bought", s.BadInsertProduct("Smart Mug", "19.99")},
		{"bad design: change row 1 price to 19.99", s.BadUpdatePrice("1", 19.99)},
		{"bad design: delete row 2", s.BadDelete("2")},
		{"good design: add product Smart Mug", s.GoodInsertProduct("Smart Mug", "19.99")},
		{"good design: change product 1 price to 19.99", s.GoodUpdatePrice("1", 19.99)},
		{"good design: delete product 2", s.GoodDeleteProduct("2")},
	}
}

// writeChange prints one cell change as table[row].column: old -> new.
func writeChange(w io.Writer, ch store.Change) {
	old, next := "(none)", "(deleted)"
	if ch.HadOld {
		old = ch.Old.String()
	}
	if ch.HasNew {
		next = ch.New.String()
	}
	fmt.Fprintf(w, "trace: %s[%s].%s: %s -> %s\n", ch.Table, ch.RowID, ch.Column, old, next)
}

type relationships struct {
	Orders []demo.OrderView            `json:"orders"`
	Lines  map[string][]demo.OrderLine `json:"lines"`
}

func newRelationshipsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "relationships",
		Short: "Follow foreign keys from orders to customers and products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			rel := relationships{Orders: sess.OrdersWithCustomers(), Lines: map[string][]demo.OrderLine{}}
			for _, o := range rel.Orders {
				rel.Lines[o.OrderID] = sess.OrderLines(o.OrderID)
			}
			return a.emit(cmd, rel, func(w io.Writer) error {
				for _, o := range rel.Orders {
					fmt.Fprintf(w, "order %s  %s  customer %s %s <%s>  total %.2f\n",
						o.OrderID, o.OrderDate, o.CustomerID, o.CustomerName, o.CustomerEmail, o.TotalAmount)
					tw := newTable(w)
					for _, l := range rel.Lines[o.OrderID] {
						fmt.Fprintf(tw, "  item %s\tproduct %s\t%s\tx%g\t%.2f\t= %.2f\n",
							l.OrderItemID, l.ProductID, l.ProductName, l.Quantity, l.UnitPrice, l.Subtotal)
					}
					if err := tw.Flush(); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
