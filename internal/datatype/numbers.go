package datatype

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Number parsing errors.
var (
	ErrNotInteger  = errors.New("not an integer")
	ErrNotDecimal  = errors.New("not a decimal number")
	ErrUnknownType = errors.New("unknown integer type")
)

// IntegerRange is the value range of one integer type.
type IntegerRange struct {
	Name   string
	Signed bool
	Min    *big.Int
	Max    *big.Int
}

func bigInt(s string) *big.Int {
	n, _ := new(big.Int).SetString(s, 10)
	return n
}

// IntegerRanges lists TINYINT, INT, and BIGINT, unsigned then signed.
var IntegerRanges = []IntegerRange{
	{Name: "TINYINT", Min: bigInt("0"), Max: bigInt("255")},
	{Name: "INT", Min: bigInt("0"), Max: bigInt("4294967295")},
	{Name: "BIGINT", Min: bigInt("0"), Max: bigInt("18446744073709551615")},
	{Name: "TINYINT", Signed: true, Min: bigInt("-128"), Max: bigInt("127")},
	{Name: "INT", Signed: true, Min: bigInt("-2147483648"), Max: bigInt("2147483647")},
	{Name: "BIGINT", Signed: true, Min: bigInt("-9223372036854775808"), Max: bigInt("9223372036854775807")},
}

// Label returns e.g. "INT (UNSIGNED)".
func (r IntegerRange) Label() string {
	if r.Signed {
		return r.Name + " (SIGNED)"
	}
	return r.Name + " (UNSIGNED)"
}

// Describe renders the range with grouped digits.
func (r IntegerRange) Describe() string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("%s to %s", groupBig(p, r.Min), groupBig(p, r.Max))
}

func groupBig(p *message.Printer, n *big.Int) string {
	if n.IsInt64() {
		return p.Sprintf("%d", n.Int64())
	}
	if n.IsUint64() {
		return p.Sprintf("%d", n.Uint64())
	}
	return n.String()
}

// LookupInteger finds the range for a type name.
func LookupInteger(name string, signed bool) (IntegerRange, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for _, r := range IntegerRanges {
		if r.Name == name && r.Signed == signed {
			return r, nil
		}
	}
	return IntegerRange{}, errors.Wrapf(ErrUnknownType, "%q", name)
}

// IntegerCheck is the outcome of fitting a value into an integer type.
type IntegerCheck struct {
	Input string `json:"input"`
	Type  string `json:"type"`
	Range string `json:"range"`
	Fits  bool   `json:"fits"`
}

// CheckInteger reports whether input fits the named integer type.
func CheckInteger(typ string, signed bool, input string) (IntegerCheck, error) {
	r, err := LookupInteger(typ, signed)
	if err != nil {
		return IntegerCheck{}, err
	}
	n, ok := new(big.Int).SetString(strings.TrimSpace(input), 10)
	if !ok {
		return IntegerCheck{}, errors.Wrapf(ErrNotInteger, "%q", input)
	}
	return IntegerCheck{
		Input: n.String(),
		Type:  r.Label(),
		Range: r.Describe(),
		Fits:  n.Cmp(r.Min) >= 0 && n.Cmp(r.Max) <= 0,
	}, nil
}

// RecommendInteger picks the smallest integer type holding n. Non-negative
// values get unsigned types.
func RecommendInteger(n int64) string {
	signed := n < 0
	v := big.NewInt(n)
	for _, r := range IntegerRanges {
		if r.Signed == signed && v.Cmp(r.Min) >= 0 && v.Cmp(r.Max) <= 0 {
			return r.Label()
		}
	}
	return "BIGINT (SIGNED)"
}

// DecimalCheck is the outcome of fitting input into DECIMAL(p, s).
type DecimalCheck struct {
	Input   string `json:"input"`
	Type    string `json:"type"`
	Stored  string `json:"stored"`
	Fits    bool   `json:"fits"`
	Rounded bool   `json:"rounded"`
}

// CheckDecimal fits input into DECIMAL(precision, scale). Extra fraction
// digits round; too many integer digits do not fit.
func CheckDecimal(input string, precision, scale int) (DecimalCheck, error) {
	in := strings.TrimSpace(input)
	r, ok := new(big.Rat).SetString(in)
	if !ok || strings.ContainsAny(in, "/eE") {
		return DecimalCheck{}, errors.Wrapf(ErrNotDecimal, "%q", input)
	}
	stored := r.FloatString(scale)
	intPart := strings.TrimLeft(strings.SplitN(strings.TrimLeft(stored, "-+"), ".", 2)[0], "0")
	frac := ""
	if _, f, found := strings.Cut(in, "."); found {
		frac = f
	}
	return DecimalCheck{
		Input:   in,
		Type:    "DECIMAL(" + strconv.Itoa(precision) + ", " + strconv.Itoa(scale) + ")",
		Stored:  stored,
		Fits:    len(intPart) <= precision-scale,
		Rounded: len(strings.TrimRight(frac, "0")) > scale,
	}, nil
}

// Drift compares exact decimal text with its float32 approximation.
type Drift struct {
	Exact   string  `json:"exact"`
	Float32 string  `json:"float32"`
	Error   float64 `json:"error"`
}

// FloatDrift shows the rounding error FLOAT introduces for input.
func FloatDrift(input string) (Drift, error) {
	in := strings.TrimSpace(input)
	f, err := strconv.ParseFloat(in, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return Drift{}, errors.Wrapf(ErrNotDecimal, "%q", input)
	}
	approx := float64(float32(f))
	return Drift{
		Exact:   in,
		Float32: strconv.FormatFloat(approx, 'f', -1, 64),
		Error:   approx - f,
	}, nil
}
