package demo

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/schemalab/internal/store"
	"github.com/mesh-intelligence/schemalab/pkg/types"
)

var (
	seedTime = time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	tokyo    = time.FixedZone("JST", 9*60*60)
)

func newSession(t *testing.T) *Session {
	t.Helper()
	st, err := store.NewSeeded(seedTime)
	require.NoError(t, err)
	return NewSession(st,
		WithClock(func() time.Time { return seedTime }),
		WithLocation(tokyo),
	)
}

// --- Anomalies ---

func TestBadInsertProduct_AlwaysFails(t *testing.T) {
	s := newSession(t)
	r := s.BadInsertProduct("Widget", "10")
	assert.False(t, r.OK)
	assert.Contains(t, r.Message, "insertion anomaly")

	r = s.BadInsertProduct("", "")
	assert.False(t, r.OK)
	assert.Contains(t, r.Message, "customer data")
	assert.Equal(t, 3, s.Store().RowCount(types.TableBadDesign))
}

func TestBadUpdatePrice_TouchesEveryCopy(t *testing.T) {
	s := newSession(t)
	r := s.BadUpdatePrice("1", 19.99)
	require.True(t, r.OK)
	assert.Contains(t, r.Message, "update anomaly")
	assert.Contains(t, r.Message, "2 rows")

	for _, id := range []string{"1", "3"} {
		v, _ := s.Store().GetCell(types.TableBadDesign, id, "price")
		assert.True(t, v.Equal(types.Number(19.99)), id)
	}

	r = s.BadUpdatePrice("2", 9.99)
	require.True(t, r.OK)
	assert.Equal(t, "price updated in 1 row", r.Message)
}

func TestBadDelete(t *testing.T) {
	s := newSession(t)

	r := s.BadDelete("1")
	assert.False(t, r.OK)
	assert.Contains(t, r.Message, `customer "John Doe"`)
	assert.True(t, s.Store().HasRow(types.TableBadDesign, "1"))

	// Make customer John Doe appear twice so only the product check applies.
	require.NoError(t, s.Store().SetRow(types.TableBadDesign, "4", types.Row{
		"product_id": types.Number(3), "name": types.Text("Unicorn Horn"),
		"customer_name": types.Text("John Doe"),
	}))
	r = s.BadDelete("4")
	assert.False(t, r.OK)
	assert.Contains(t, r.Message, `product "Unicorn Horn"`)

	r = s.BadDelete("1")
	assert.True(t, r.OK)
	assert.False(t, s.Store().HasRow(types.TableBadDesign, "1"))

	assert.False(t, s.BadDelete("99").OK)
}

func TestGoodDesign(t *testing.T) {
	s := newSession(t)

	r := s.GoodInsertProduct("Unicorn Horn", "39.99")
	require.True(t, r.OK, r.Message)
	assert.Equal(t, "3", r.RowID)
	assert.Equal(t, 3, s.Store().RowCount(types.TableCustomers))

	r = s.GoodInsertProduct("Broken", "-1")
	assert.False(t, r.OK)
	assert.Equal(t, "CHECK constraint violation: price must be 0 or greater", r.Message)

	assert.False(t, s.GoodInsertProduct("x", "abc").OK)

	r = s.GoodUpdatePrice("1", 21)
	require.True(t, r.OK)
	v, _ := s.Store().GetCell(types.TableProducts, "1", "price")
	assert.True(t, v.Equal(types.Number(21)))
	assert.False(t, s.GoodUpdatePrice("1", -5).OK)

	r = s.GoodDeleteProduct("2")
	require.True(t, r.OK)
	assert.Contains(t, r.Message, `"Cat-Poop Coffee"`)
	assert.Equal(t, 3, s.Store().RowCount(types.TableCustomers))
	assert.False(t, s.GoodDeleteProduct("2").OK)
}

// --- Keys ---

func TestAddUser(t *testing.T) {
	s := newSession(t)

	before := s.Store().RowCount(types.TableUsers)
	r := s.AddUser("1", "mallory")
	assert.False(t, r.OK)
	assert.Equal(t, "PRIMARY KEY constraint violation: user_id 1 already exists (uniqueness constraint)", r.Message)
	assert.Equal(t, before, s.Store().RowCount(types.TableUsers))
	assert.Equal(t, 1, countRows(s, types.TableUsers, "user_id", types.Number(1)))
	name, _ := s.Store().GetCell(types.TableUsers, "1", "username")
	assert.Equal(t, "alice", name.String())

	assert.Equal(t, "user id and username are required", s.AddUser("", "x").Message)
	assert.Equal(t, "user id must be a number", s.AddUser("abc", "x").Message)
	assert.Equal(t, "user id must be a number", s.AddUser("NaN", "x").Message)

	r = s.AddUser(" 4 ", "dave")
	require.True(t, r.OK, r.Message)
	assert.Equal(t, "4", r.RowID)
	assert.Equal(t, `user "dave" added with user id 4`, r.Message)

	assert.True(t, s.DeleteUser("4").OK)
	assert.False(t, s.DeleteUser("4").OK)
}

func TestCandidateKeys(t *testing.T) {
	s := newSession(t)
	keys := s.CandidateKeys()
	require.Len(t, keys, 4)
	assert.Equal(t, CandidateKey{Column: "user_id", Primary: true, Unique: true}, keys[0])
	for _, k := range keys[1:] {
		assert.False(t, k.Primary)
		assert.True(t, k.Unique, k.Column)
	}

	// A duplicate phone breaks that candidate key.
	require.NoError(t, s.Store().SetCell(types.TableUsers, "2", "phone", types.Text("090-1234-5678")))
	for _, k := range s.CandidateKeys() {
		if k.Column == "phone" {
			assert.False(t, k.Unique)
		}
	}
}

func TestAddSurrogateProduct(t *testing.T) {
	s := newSession(t)

	r := s.AddSurrogateProduct("PROD-004", "Dragon Egg", "49.99")
	require.True(t, r.OK, r.Message)
	assert.Equal(t, "4", r.RowID)

	r = s.AddSurrogateProduct("PROD-001", "Copy", "1")
	assert.False(t, r.OK)
	assert.Equal(t, `UNIQUE constraint violation: sku "PROD-001" already exists (duplicates not allowed)`, r.Message)
	assert.Equal(t, 4, s.Store().RowCount(types.TableProductsSurrogate))
}

// --- Relationships ---

func TestOrdersWithCustomers(t *testing.T) {
	s := newSession(t)
	views := s.OrdersWithCustomers()
	require.Len(t, views, 3)
	assert.Equal(t, "Jane Smith", views[1].CustomerName)
	assert.Equal(t, "2025/04/01 21:00:00", views[0].OrderDate)

	s.Store().DelRow(types.TableCustomers, "101")
	assert.Empty(t, s.OrdersWithCustomers()[0].CustomerName)
}

func TestOrderLines(t *testing.T) {
	s := newSession(t)
	lines := s.OrderLines("3")
	require.Len(t, lines, 1)
	assert.Equal(t, "Selfie Toaster", lines[0].ProductName)
	assert.InDelta(t, 24.99, lines[0].Subtotal, 1e-9)
	assert.Empty(t, s.OrderLines("99"))
}

// --- Constraints ---

func TestAddUserNotNull(t *testing.T) {
	s := newSession(t)
	assert.Equal(t, "NOT NULL constraint violation: username is required (NULL not allowed)", s.AddUserNotNull("", "x@example.com").Message)
	assert.Equal(t, "NOT NULL constraint violation: email is required (NULL not allowed)", s.AddUserNotNull("carol", "").Message)

	r := s.AddUserNotNull("carol", "carol@example.com")
	require.True(t, r.OK)
	assert.Equal(t, "3", r.RowID)
}

func TestAddUserUnique(t *testing.T) {
	s := newSession(t)
	assert.Equal(t, `UNIQUE constraint violation: username "alice" already exists (duplicates not allowed)`,
		s.AddUserUnique("alice", "new@example.com").Message)
	assert.Equal(t, `UNIQUE constraint violation: email "bob@example.com" already exists (duplicates not allowed)`,
		s.AddUserUnique("robert", "bob@example.com").Message)
	assert.True(t, s.AddUserUnique("carol", "carol@example.com").OK)
}

func TestAddOrderFK(t *testing.T) {
	s := newSession(t)
	before := s.Store().RowCount(types.TableOrdersConstraints)
	r := s.AddOrderFK("999", "10")
	assert.False(t, r.OK)
	assert.Equal(t, "FOREIGN KEY constraint violation: customer_id 999 does not exist in the customers table (referential integrity violation)", r.Message)
	assert.Equal(t, before, s.Store().RowCount(types.TableOrdersConstraints))
	assert.Zero(t, countRows(s, types.TableOrdersConstraints, "customer_id", types.Number(999)))
	assert.Equal(t, "customer_id must be a number", s.AddOrderFK("abc", "10").Message)

	r = s.AddOrderFK("103", "15.5")
	require.True(t, r.OK, r.Message)
	v, _ := s.Store().GetCell(types.TableOrdersConstraints, r.RowID, "status")
	assert.Equal(t, types.StatusPending, v.String())
}

func TestAddProductCheck(t *testing.T) {
	s := newSession(t)
	before := s.Store().RowCount(types.TableProductsConstraints)
	r := s.AddProductCheck("P", "-10", "1")
	assert.False(t, r.OK)
	assert.Equal(t, "CHECK constraint violation: price must be 0 or greater", r.Message)
	assert.Equal(t, before, s.Store().RowCount(types.TableProductsConstraints))
	assert.Zero(t, countRows(s, types.TableProductsConstraints, "name", types.Text("P")))

	assert.Equal(t, "CHECK constraint violation: price must be 0 or greater", s.AddProductCheck("C", "-1", "3").Message)
	assert.Equal(t, "CHECK constraint violation: stock must be 0 or greater", s.AddProductCheck("C", "1", "-3").Message)
	assert.Equal(t, "all fields are required", s.AddProductCheck("C", "", "3").Message)
	assert.True(t, s.AddProductCheck("C", "0", "0").OK)
}

func TestAddOrderDefault(t *testing.T) {
	s := newSession(t)
	r := s.AddOrderDefault("101", "")
	require.True(t, r.OK, r.Message)

	row, ok := s.Store().GetRow(types.TableOrdersConstraints, r.RowID)
	require.True(t, ok)
	assert.Equal(t, types.StatusPending, row["status"].String())
	assert.Equal(t, "2025/04/01 21:00:00", row["created_at"].String())

	r = s.AddOrderDefault("102", "shipped")
	require.True(t, r.OK)
	v, _ := s.Store().GetCell(types.TableOrdersConstraints, r.RowID, "status")
	assert.Equal(t, "shipped", v.String())
}

// --- Generic insert ---

func TestInsert_UsesPrimaryKeyAsRowID(t *testing.T) {
	s := newSession(t)
	ts, _ := s.Store().Schema().Table(types.TableEmployeeSkills)
	row, err := ParseRow(ts, []string{"employee_id=2", "skill=Rust"})
	require.NoError(t, err)

	r := s.Insert(types.TableEmployeeSkills, row)
	require.True(t, r.OK, r.Message)
	assert.Equal(t, "2-Rust", r.RowID)

	r = s.Insert(types.TableEmployeeSkills, row)
	assert.False(t, r.OK)
}

func TestInsert_NoPrimaryKeyGetsNextRowID(t *testing.T) {
	s := newSession(t)
	r := s.Insert(types.TableBadDesign, types.Row{"name": types.Text("x")})
	require.True(t, r.OK, r.Message)
	assert.Equal(t, "4", r.RowID)
}

func TestInsert_UnknownTable(t *testing.T) {
	s := newSession(t)
	assert.False(t, s.Insert("nope", types.Row{}).OK)
}

func TestInsert_NonFiniteNumberRejected(t *testing.T) {
	s := newSession(t)
	before := s.Store().RowCount(types.TableUsers)
	r := s.Insert(types.TableUsers, types.Row{"user_id": types.Number(math.NaN()), "username": types.Text("x")})
	assert.False(t, r.OK)
	assert.Equal(t, before, s.Store().RowCount(types.TableUsers))

	data, err := json.Marshal(s.Store().GetTable(types.TableUsers))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "NaN")
}

// A mixed run of accepted and rejected inserts leaves the primary keys
// distinct and every foreign key pointing at an existing parent.
func TestInsert_SequenceKeepsKeysAndReferences(t *testing.T) {
	s := newSession(t)
	s.AddUserUnique("carol", "carol@example.com")
	s.AddUserUnique("carol", "other@example.com")
	s.AddUserUnique("dave", "carol@example.com")
	s.AddOrderFK("101", "5")
	s.AddOrderFK("404", "5")
	s.AddOrderDefault("102", "")
	s.AddOrderDefault("0", "")
	for _, pairs := range [][]string{
		{"user_id=2", "username=dup", "email=dup@example.com"},
		{"user_id=9", "username=erin", "email=erin@example.com"},
	} {
		row, err := ParseRow(usersConstraints(t), pairs)
		require.NoError(t, err)
		s.Insert(types.TableUsersConstraints, row)
	}

	st := s.Store()
	for _, col := range []string{"user_id", "username", "email"} {
		seen := map[string]bool{}
		for _, id := range st.GetRowIDs(types.TableUsersConstraints) {
			v, _ := st.GetCell(types.TableUsersConstraints, id, col)
			assert.False(t, seen[v.String()], "duplicate %s %s", col, v)
			seen[v.String()] = true
		}
	}
	assert.Equal(t, 4, st.RowCount(types.TableUsersConstraints))

	for _, id := range st.GetRowIDs(types.TableOrdersConstraints) {
		v, ok := st.GetCell(types.TableOrdersConstraints, id, "customer_id")
		require.True(t, ok)
		assert.Equal(t, 1, countRows(s, types.TableCustomers, "customer_id", v), "order %s", id)
	}
	assert.Equal(t, 4, st.RowCount(types.TableOrdersConstraints))
}

func usersConstraints(t *testing.T) types.TableSchema {
	t.Helper()
	ts, ok := types.DemoSchema().Table(types.TableUsersConstraints)
	require.True(t, ok)
	return ts
}

// countRows counts the rows of table whose column equals v.
func countRows(s *Session, table, column string, v types.Value) int {
	n := 0
	for _, id := range s.Store().GetRowIDs(table) {
		if got, ok := s.Store().GetCell(table, id, column); ok && got.Equal(v) {
			n++
		}
	}
	return n
}

func TestParseRow_Errors(t *testing.T) {
	ts, _ := types.DemoSchema().Table(types.TableProducts)
	_, err := ParseRow(ts, []string{"price"})
	assert.Error(t, err)
	_, err = ParseRow(ts, []string{"color=red"})
	assert.ErrorIs(t, err, types.ErrUnknownColumn)
	_, err = ParseRow(ts, []string{"price=cheap"})
	assert.ErrorIs(t, err, types.ErrInvalidValue)
	_, err = ParseRow(ts, []string{"price=NaN"})
	assert.ErrorIs(t, err, types.ErrInvalidValue)
}

func TestScenarios_MatchExpectations(t *testing.T) {
	s := newSession(t)
	for _, sc := range Scenarios() {
		kind, r := s.Evaluate(sc)
		assert.Equal(t, sc.Expect, kind, sc.Name)
		assert.Equal(t, sc.Expect == "", r.OK, "%s: %s", sc.Name, r.Message)
	}
	assert.Equal(t, 3, s.Store().RowCount(types.TableOrdersConstraints))
}
