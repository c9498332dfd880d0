// Package demo implements the scripted actions behind each design-principle
// walk-through. A Session owns one store; every action validates with the
// constraint package before writing and reports a Result.
package demo

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/schemalab/internal/constraint"
	"github.com/mesh-intelligence/schemalab/internal/datatype"
	"github.com/mesh-intelligence/schemalab/internal/logging"
	"github.com/mesh-intelligence/schemalab/internal/store"
	"github.com/mesh-intelligence/schemalab/pkg/types"
)

// Result is the outcome of one demo action. Rejections carry the violation
// message and leave the store untouched.
type Result struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	RowID   string `json:"row_id,omitempty"`
}

// Session drives the demos against one store.
type Session struct {
	store  *store.Store
	now    func() time.Time
	loc    *time.Location
	logger *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the source of "current time" for DEFAULT columns.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithLocation sets the zone used to render local date-times.
func WithLocation(loc *time.Location) Option {
	return func(s *Session) { s.loc = loc }
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// NewSession wraps st. The store is expected to be seeded already.
func NewSession(st *store.Store, opts ...Option) *Session {
	s := &Session{
		store:  st,
		now:    time.Now,
		loc:    time.Local,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying store.
func (s *Session) Store() *store.Store { return s.store }

func (s *Session) localTime() string {
	return datatype.FormatDateTime(s.now().In(s.loc))
}

// write validates row and, when every rule passes, stores it.
func (s *Session) write(table, rowID string, row types.Row, rules []constraint.Rule, success string) Result {
	if err := constraint.Validate(s.store, table, rowID, row, rules...); err != nil {
		return s.reject(table, err)
	}
	if err := s.store.SetRow(table, rowID, row); err != nil {
		s.logger.Error("write failed", "table", table, "row_id", rowID, "error", err)
		return fail(err.Error())
	}
	s.logger.Debug("row written", "table", table, "row_id", rowID)
	return Result{OK: true, Message: success, RowID: rowID}
}

func (s *Session) reject(table string, err error) Result {
	if v, ok := constraint.AsViolation(err); ok {
		s.logger.Debug("row rejected", "table", table, "kind", string(v.Kind), "column", v.Column)
		return fail(v.Message)
	}
	s.logger.Error("validation failed", "table", table, "error", err)
	return fail(err.Error())
}

func fail(msg string) Result { return Result{Message: msg} }

func idString(id int64) string { return strconv.FormatInt(id, 10) }

// parseInt accepts a whole number with surrounding spaces.
func parseInt(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n, err == nil
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f, err == nil
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

func cellText(st *store.Store, table, rowID, column string) string {
	v, ok := st.GetCell(table, rowID, column)
	if !ok {
		return ""
	}
	return v.String()
}

func cellFloat(st *store.Store, table, rowID, column string) float64 {
	v, _ := st.GetCell(table, rowID, column)
	f, _ := v.Float()
	return f
}

func quoted(s string) string { return fmt.Sprintf("%q", s) }
