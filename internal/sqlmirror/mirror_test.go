package sqlmirror

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/schemalab/internal/constraint"
	"github.com/mesh-intelligence/schemalab/internal/demo"
	"github.com/mesh-intelligence/schemalab/internal/store"
	"github.com/mesh-intelligence/schemalab/pkg/types"
)

func openSeeded(t *testing.T) (*Mirror, *store.Store) {
	t.Helper()
	ctx := context.Background()
	st, err := store.NewSeeded(time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC))
	require.NoError(t, err)

	m, err := Open(ctx, st.Schema())
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	require.NoError(t, m.Load(ctx, st))
	return m, st
}

func TestRenderDDL_ParentsFirst(t *testing.T) {
	stmts, err := RenderDDL(types.DemoSchema())
	require.NoError(t, err)
	require.Len(t, stmts, len(types.DemoSchema()))

	pos := func(table string) int {
		for i, s := range stmts {
			if strings.HasPrefix(s, `CREATE TABLE "`+table+`"`) {
				return i
			}
		}
		t.Fatalf("no statement for %s", table)
		return -1
	}
	assert.Less(t, pos(types.TableCustomers), pos(types.TableOrders))
	assert.Less(t, pos(types.TableOrders), pos(types.TableOrderItems))
	assert.Less(t, pos(types.TableDepartments), pos(types.TableEmployees))
	assert.Less(t, pos(types.TableEmployees), pos(types.TableEmployeeSkills))
}

func TestRenderTable(t *testing.T) {
	s := types.DemoSchema()

	users, _ := s.Table(types.TableUsersConstraints)
	ddl := RenderTable(users)
	assert.Contains(t, ddl, `"user_id" INTEGER PRIMARY KEY`)
	assert.Contains(t, ddl, `"username" TEXT NOT NULL CONSTRAINT "nn_users_constraints_username" CHECK (trim("username", char(32, 9, 10, 11, 12, 13)) <> '') UNIQUE`)

	orders, _ := s.Table(types.TableOrdersConstraints)
	ddl = RenderTable(orders)
	assert.Contains(t, ddl, `DEFAULT 'pending'`)
	assert.Contains(t, ddl, `DEFAULT CURRENT_TIMESTAMP`)
	assert.Contains(t, ddl, `FOREIGN KEY ("customer_id") REFERENCES "customers"("customer_id")`)

	skills, _ := s.Table(types.TableEmployeeSkills)
	assert.Contains(t, RenderTable(skills), `PRIMARY KEY ("employee_id", "skill")`)
}

func TestLoad_CopiesSeedRows(t *testing.T) {
	m, st := openSeeded(t)
	ctx := context.Background()

	for _, table := range st.GetTableIDs() {
		n, err := m.Count(ctx, table)
		require.NoError(t, err)
		assert.Equal(t, st.RowCount(table), n, table)
	}

	_, err := m.Count(ctx, "nope")
	assert.ErrorIs(t, err, types.ErrTableNotFound)
}

func TestInsert_AgreesWithRules(t *testing.T) {
	m, st := openSeeded(t)
	ctx := context.Background()
	sess := demo.NewSession(st)

	for _, sc := range demo.Scenarios() {
		t.Run(sc.Name, func(t *testing.T) {
			v, err := m.Insert(ctx, sc.Table, sc.Row)
			require.NoError(t, err)
			assert.Equal(t, sc.Expect == "", v.Accepted, v.Detail)
			assert.Equal(t, sc.Expect, v.Kind, v.Detail)

			kind, _ := sess.Evaluate(sc)
			assert.Equal(t, kind, v.Kind)
		})
	}
}

func TestInsert_EmptyTextIsNotNull(t *testing.T) {
	m, _ := openSeeded(t)
	v, err := m.Insert(context.Background(), types.TableUsersConstraints, types.Row{
		"user_id": types.Number(9), "username": types.Text(""), "email": types.Text("x@example.com"),
	})
	require.NoError(t, err)
	assert.False(t, v.Accepted)
	assert.Equal(t, constraint.KindNotNull, v.Kind)
	assert.Contains(t, v.Detail, "nn_users_constraints_username")
}

func TestInsert_BlankTextMatchesRules(t *testing.T) {
	m, st := openSeeded(t)
	ts, _ := st.Schema().Table(types.TableUsersConstraints)
	for _, blank := range []string{"   ", "\t\n"} {
		row := types.Row{"user_id": types.Number(9), "username": types.Text(blank), "email": types.Text("x@example.com")}
		v, err := m.Insert(context.Background(), types.TableUsersConstraints, row)
		require.NoError(t, err)
		assert.Equal(t, constraint.KindNotNull, v.Kind, "%q", blank)

		viol, ok := constraint.AsViolation(constraint.Validate(st, types.TableUsersConstraints, "9", row, constraint.RulesFor(ts)...))
		require.True(t, ok)
		assert.Equal(t, viol.Kind, v.Kind)
	}
}

func TestInsert_CompositeKey(t *testing.T) {
	m, _ := openSeeded(t)
	v, err := m.Insert(context.Background(), types.TableEmployeeSkills, types.Row{
		"employee_id": types.Number(1), "skill": types.Text("SQL"),
	})
	require.NoError(t, err)
	assert.Equal(t, constraint.KindPrimaryKey, v.Kind)
}

func TestInsert_UnknownTable(t *testing.T) {
	m, _ := openSeeded(t)
	_, err := m.Insert(context.Background(), "nope", types.Row{})
	assert.ErrorIs(t, err, types.ErrTableNotFound)
}
