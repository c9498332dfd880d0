package constraint

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/schemalab/internal/store"
	"github.com/mesh-intelligence/schemalab/pkg/types"
)

func seeded(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.NewSeeded(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return st
}

func requireViolation(t *testing.T, err error, kind Kind, message string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrViolation))
	v, ok := AsViolation(err)
	require.True(t, ok)
	assert.Equal(t, kind, v.Kind)
	assert.Equal(t, message, v.Message)
}

func TestNotNull(t *testing.T) {
	st := seeded(t)
	rule := NotNull("username", "email")

	err := rule.Check(st, types.TableUsersConstraints, "3", types.Row{"email": types.Text("c@example.com")})
	requireViolation(t, err, KindNotNull, "NOT NULL constraint violation: username is required (NULL not allowed)")

	err = rule.Check(st, types.TableUsersConstraints, "3", types.Row{"username": types.Text("  "), "email": types.Text("c@example.com")})
	requireViolation(t, err, KindNotNull, "NOT NULL constraint violation: username is required (NULL not allowed)")

	assert.NoError(t, rule.Check(st, types.TableUsersConstraints, "3",
		types.Row{"username": types.Text("carol"), "email": types.Text("c@example.com")}))
}

func TestPrimaryKey(t *testing.T) {
	st := seeded(t)
	rule := PrimaryKey("user_id")

	tests := []struct {
		name    string
		rowID   string
		row     types.Row
		message string
	}{
		{"taken row id", "1", types.Row{"user_id": types.Number(1)},
			"PRIMARY KEY constraint violation: user_id 1 already exists (uniqueness constraint)"},
		{"key matches another row", "99", types.Row{"user_id": types.Number(2)},
			"PRIMARY KEY constraint violation: user_id 2 already exists (uniqueness constraint)"},
		{"missing key", "4", types.Row{"username": types.Text("dave")},
			"PRIMARY KEY constraint violation: user_id is required (primary key cannot be NULL)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireViolation(t, rule.Check(st, types.TableUsers, tt.rowID, tt.row), KindPrimaryKey, tt.message)
		})
	}

	assert.NoError(t, rule.Check(st, types.TableUsers, "4", types.Row{"user_id": types.Number(4)}))
}

func TestPrimaryKey_Composite(t *testing.T) {
	st := seeded(t)
	rule := PrimaryKey("employee_id", "skill")

	err := rule.Check(st, types.TableEmployeeSkills, "x", types.Row{"employee_id": types.Number(1), "skill": types.Text("SQL")})
	requireViolation(t, err, KindPrimaryKey,
		"PRIMARY KEY constraint violation: (employee_id, skill) (1, SQL) already exists (uniqueness constraint)")

	assert.NoError(t, rule.Check(st, types.TableEmployeeSkills, "1-Rust",
		types.Row{"employee_id": types.Number(1), "skill": types.Text("Rust")}))
}

func TestUnique(t *testing.T) {
	st := seeded(t)
	rule := Unique("username", "email")

	err := rule.Check(st, types.TableUsersConstraints, "3", types.Row{"username": types.Text("alice"), "email": types.Text("new@example.com")})
	requireViolation(t, err, KindUnique, `UNIQUE constraint violation: username "alice" already exists (duplicates not allowed)`)

	err = rule.Check(st, types.TableUsersConstraints, "3", types.Row{"username": types.Text("carol"), "email": types.Text("bob@example.com")})
	requireViolation(t, err, KindUnique, `UNIQUE constraint violation: email "bob@example.com" already exists (duplicates not allowed)`)

	// A row does not collide with itself.
	assert.NoError(t, rule.Check(st, types.TableUsersConstraints, "1", types.Row{"username": types.Text("alice")}))
	// Empty values never collide.
	assert.NoError(t, rule.Check(st, types.TableUsersConstraints, "3", types.Row{"username": types.Text("carol")}))
}

func TestForeignKey(t *testing.T) {
	st := seeded(t)
	rule := ForeignKey("customer_id", types.TableCustomers, "customer_id")

	err := rule.Check(st, types.TableOrdersConstraints, "3", types.Row{"customer_id": types.Number(999)})
	requireViolation(t, err, KindForeignKey,
		"FOREIGN KEY constraint violation: customer_id 999 does not exist in the customers table (referential integrity violation)")

	assert.NoError(t, rule.Check(st, types.TableOrdersConstraints, "3", types.Row{"customer_id": types.Number(103)}))
	assert.NoError(t, rule.Check(st, types.TableOrdersConstraints, "3", types.Row{}))

	// Text "101" is not the number 101.
	err = rule.Check(st, types.TableOrdersConstraints, "3", types.Row{"customer_id": types.Text("101")})
	assert.ErrorIs(t, err, ErrViolation)
}

func TestCheck(t *testing.T) {
	st := seeded(t)

	err := Check("price", 0).Check(st, types.TableProductsConstraints, "3", types.Row{"price": types.Number(-1)})
	requireViolation(t, err, KindCheck, "CHECK constraint violation: price must be 0 or greater")

	err = Check("quantity", 1).Check(st, types.TableOrderItems, "4", types.Row{"quantity": types.Number(0)})
	requireViolation(t, err, KindCheck, "CHECK constraint violation: quantity must be 1 or greater")

	assert.NoError(t, Check("price", 0).Check(st, types.TableProductsConstraints, "3", types.Row{"price": types.Number(0)}))
	assert.NoError(t, Check("price", 0).Check(st, types.TableProductsConstraints, "3", types.Row{}))
}

func TestValidate_FirstViolationWins(t *testing.T) {
	st := seeded(t)
	ts, ok := st.Schema().Table(types.TableUsersConstraints)
	require.True(t, ok)

	// Missing email and a duplicate username: NOT NULL runs first.
	row := types.Row{"user_id": types.Number(3), "username": types.Text("alice")}
	err := Validate(st, ts.Name, "3", row, RulesFor(ts)...)
	requireViolation(t, err, KindNotNull, "NOT NULL constraint violation: email is required (NULL not allowed)")

	row["email"] = types.Text("alice2@example.com")
	err = Validate(st, ts.Name, "3", row, RulesFor(ts)...)
	assert.Equal(t, KindUnique, mustViolation(t, err).Kind)

	row["username"] = types.Text("carol")
	assert.NoError(t, Validate(st, ts.Name, "3", row, RulesFor(ts)...))
}

func TestRulesFor_Order(t *testing.T) {
	ts, ok := types.DemoSchema().Table(types.TableOrderItems)
	require.True(t, ok)

	rules := RulesFor(ts)
	require.Len(t, rules, 6)
	assert.IsType(t, notNullRule{}, rules[0])
	assert.IsType(t, primaryKeyRule{}, rules[1])
	assert.IsType(t, foreignKeyRule{}, rules[2])
	assert.IsType(t, foreignKeyRule{}, rules[3])
	assert.IsType(t, checkRule{}, rules[4])
	assert.IsType(t, checkRule{}, rules[5])
}

func TestNextID(t *testing.T) {
	st := seeded(t)
	assert.Equal(t, int64(4), NextID(st, types.TableProductsSurrogate, "product_id"))
	assert.Equal(t, int64(104), NextID(st, types.TableCustomers, "customer_id"))

	st.DelRow(types.TableProducts, "1")
	st.DelRow(types.TableProducts, "2")
	assert.Equal(t, int64(1), NextID(st, types.TableProducts, "product_id"))
}

func TestUniqueColumns(t *testing.T) {
	st := seeded(t)
	got := UniqueColumns(st, types.TableBadDesign, "product_id", "customer_id")
	assert.Equal(t, map[string]bool{"product_id": false, "customer_id": true}, got)
}

func mustViolation(t *testing.T, err error) *Violation {
	t.Helper()
	v, ok := AsViolation(err)
	require.True(t, ok, "expected a violation, got %v", err)
	return v
}
