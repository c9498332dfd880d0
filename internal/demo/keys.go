package demo

import (
	"fmt"

	"github.com/mesh-intelligence/schemalab/internal/constraint"
	"github.com/mesh-intelligence/schemalab/pkg/types"
)

// CandidateKey reports whether a users column currently identifies rows.
type CandidateKey struct {
	Column  string `json:"column"`
	Primary bool   `json:"primary"`
	Unique  bool   `json:"unique"`
}

// AddUser inserts into users with user_id as primary key.
func (s *Session) AddUser(userID, username string) Result {
	if blank(userID, username) {
		return fail("user id and username are required")
	}
	id, ok := parseInt(userID)
	if !ok {
		return fail("user id must be a number")
	}
	row := types.Row{
		"user_id":  types.Number(float64(id)),
		"username": types.Text(username),
		"email":    types.Text(""),
		"phone":    types.Text(""),
	}
	return s.write(types.TableUsers, idString(id), row,
		[]constraint.Rule{constraint.PrimaryKey("user_id"), constraint.NotNull("username")},
		fmt.Sprintf("user %s added with user id %d", quoted(username), id))
}

// DeleteUser removes a user by row id.
func (s *Session) DeleteUser(rowID string) Result {
	if !s.store.HasRow(types.TableUsers, rowID) {
		return fail(fmt.Sprintf("user id %s does not exist", rowID))
	}
	s.store.DelRow(types.TableUsers, rowID)
	return Result{OK: true, Message: fmt.Sprintf("user id %s deleted", rowID), RowID: rowID}
}

// CandidateKeys lists the candidate keys of users and whether each still
// holds unique values.
func (s *Session) CandidateKeys() []CandidateKey {
	ts, _ := s.store.Schema().Table(types.TableUsers)
	unique := constraint.UniqueColumns(s.store, types.TableUsers, ts.CandidateKeys...)
	out := make([]CandidateKey, 0, len(ts.CandidateKeys))
	for _, col := range ts.CandidateKeys {
		out = append(out, CandidateKey{
			Column:  col,
			Primary: ts.IsPrimaryKey(col),
			Unique:  unique[col],
		})
	}
	return out
}

// AddSurrogateProduct adds to products_surrogate with a generated
// product_id. The SKU is the natural key and must stay unique.
func (s *Session) AddSurrogateProduct(sku, name, price string) Result {
	if blank(sku, name, price) {
		return fail("sku, name, and price are required")
	}
	p, ok := parseFloat(price)
	if !ok {
		return fail("price must be a number")
	}
	id := constraint.NextID(s.store, types.TableProductsSurrogate, "product_id")
	row := types.Row{
		"product_id": types.Number(float64(id)),
		"sku":        types.Text(sku),
		"name":       types.Text(name),
		"price":      types.Number(p),
	}
	ts, _ := s.store.Schema().Table(types.TableProductsSurrogate)
	return s.write(types.TableProductsSurrogate, idString(id), row, constraint.RulesFor(ts),
		fmt.Sprintf("product %s added with surrogate key %d (natural key %s)", quoted(name), id, sku))
}
