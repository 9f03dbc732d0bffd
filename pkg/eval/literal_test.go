package eval

import (
	"testing"

	"github.com/ormasoftchile/cutter/pkg/schema"
)

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		in   string
		want schema.Value
	}{
		{"1", schema.IntValue(1)},
		{"-42", schema.IntValue(-42)},
		{"+7", schema.IntValue(7)},
		{"1.0", schema.NumberValue("1.0")},
		{".5", schema.NumberValue("0.5")},
		{"2.", schema.NumberValue("2.0")},
		{"1e3", schema.NumberValue("1e3")},
		{"true", schema.BoolValue(true)},
		{"False", schema.BoolValue(false)},
		{"None", schema.NullValue()},
		{"[1, \"a\"]", schema.ListValue(schema.IntValue(1), schema.StringValue("a"))},
	}
	for _, tt := range tests {
		got, ok := ParseLiteral(tt.in)
		if !ok {
			t.Errorf("ParseLiteral(%q) not a literal", tt.in)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseLiteral(%q) = %s (%s), want %s", tt.in, got, got.Kind(), tt.want)
		}
	}
}

func TestParseLiteral_Object(t *testing.T) {
	got, ok := ParseLiteral(`{"b": 1, "a": [true,], /* note */ }`)
	if !ok {
		t.Fatal("expected object literal")
	}
	if got.Text() != `{"b":1,"a":[true]}` {
		t.Errorf("got %s", got.Text())
	}
}

func TestParseLiteral_NotLiterals(t *testing.T) {
	for _, in := range []string{"", "hello", "0.1.0", "007", "1_000", "[unclosed", "{'a': 1}", "NaN", "Inf", "yes"} {
		if v, ok := ParseLiteral(in); ok {
			t.Errorf("ParseLiteral(%q) = %s, want no literal", in, v)
		}
	}
}
