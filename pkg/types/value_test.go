package types

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestValueString(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"integer number", Number(101), "101"},
		{"decimal number", Number(24.99), "24.99"},
		{"negative number", Number(-10), "-10"},
		{"text", Text("alice"), "alice"},
		{"unset", Value{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValueIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"unset", Value{}, true},
		{"empty text", Text(""), true},
		{"blank text", Text("   "), true},
		{"text", Text("bob"), false},
		{"zero number", Number(0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValueEqual(t *testing.T) {
	if !Number(1).Equal(Number(1)) {
		t.Error("Number(1) should equal Number(1)")
	}
	if Number(1).Equal(Text("1")) {
		t.Error("Number(1) must not equal Text(\"1\"): kinds differ")
	}
	if Text("a").Equal(Text("b")) {
		t.Error("Text(a) must not equal Text(b)")
	}
}

func TestValueJSON(t *testing.T) {
	row := Row{"product_id": Number(1), "name": Text("Selfie Toaster")}
	data, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `{"name":"Selfie Toaster","product_id":1}` {
		t.Errorf("Marshal = %s", data)
	}

	var back Row
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back["product_id"].Kind() != KindNumber {
		t.Errorf("product_id kind = %v, want number", back["product_id"].Kind())
	}
	if s, ok := back["name"].Str(); !ok || s != "Selfie Toaster" {
		t.Errorf("name = %q, %v", s, ok)
	}

	var v Value
	if err := json.Unmarshal([]byte(`true`), &v); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Unmarshal(true) error = %v, want ErrInvalidValue", err)
	}
}

func TestParseValue(t *testing.T) {
	v, err := ParseValue(KindNumber, " 29.99 ")
	if err != nil {
		t.Fatalf("ParseValue: %v", err)
	}
	if f, _ := v.Float(); f != 29.99 {
		t.Errorf("ParseValue = %v, want 29.99", f)
	}

	for _, in := range []string{"abc", "NaN", "nan", "Inf", "-Inf", "+Infinity", "1e400"} {
		if _, err := ParseValue(KindNumber, in); !errors.Is(err, ErrInvalidValue) {
			t.Errorf("ParseValue(%q) error = %v, want ErrInvalidValue", in, err)
		}
	}

	v, err = ParseValue(KindText, "abc")
	if err != nil || v.String() != "abc" {
		t.Errorf("ParseValue(text) = %v, %v", v, err)
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"number": KindNumber, "string": KindText, "TEXT": KindText} {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseKind("float"); !errors.Is(err, ErrInvalidKind) {
		t.Errorf("ParseKind(float) error = %v, want ErrInvalidKind", err)
	}
}
