package engine

import (
	"errors"
	"testing"

	"github.com/ormasoftchile/cutter/pkg/prompt"
	"github.com/ormasoftchile/cutter/pkg/schema"
)

func TestProcessDict_Sentinel(t *testing.T) {
	def := mustValue(t, `{"x": "y"}`)
	got, err := ProcessDict("cfg", "default", def, "default")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(def) {
		t.Errorf("got %s", got)
	}
}

func TestProcessDict_Object(t *testing.T) {
	got, err := ProcessDict("cfg", `{"a":1}`, mustValue(t, `{}`), "default")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(mustValue(t, `{"a": 1}`)) {
		t.Errorf("got %s", got)
	}
}

func TestProcessDict_Lenient(t *testing.T) {
	got, err := ProcessDict("cfg", "{\"a\": 1, // note\n}", mustValue(t, `{}`), "default")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(mustValue(t, `{"a": 1}`)) {
		t.Errorf("got %s", got)
	}
}

func TestProcessDict_Malformed(t *testing.T) {
	for _, input := range []string{"[1,2]", "not json", "", `"text"`} {
		_, err := ProcessDict("cfg", input, mustValue(t, `{}`), "default")
		var mi *MalformedInputError
		if !errors.As(err, &mi) {
			t.Errorf("%q: err = %v, want MalformedInputError", input, err)
		}
	}
}

func TestProcessDict_DefaultMustBeMap(t *testing.T) {
	_, err := ProcessDict("cfg", "default", schema.StringValue("x"), "default")
	var te *TypeError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want TypeError", err)
	}
}

func TestReadDict_CustomSentinel(t *testing.T) {
	p := prompt.NewScripted("keep")
	def := mustValue(t, `{"x": 1}`)
	got, err := ReadDict(p, "cfg", def, "keep")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(def) {
		t.Errorf("got %s", got)
	}
	if p.Calls[0].Default != "keep" {
		t.Errorf("default shown = %q", p.Calls[0].Default)
	}
}

func TestReadScalar_KeepsTypedDefault(t *testing.T) {
	got, err := ReadScalar(prompt.NewScripted(""), "count", schema.IntValue(3))
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(schema.IntValue(3)) {
		t.Errorf("got %s %s", got.Kind(), got)
	}

}

func TestReadScalar_AnswerFollowsDefaultType(t *testing.T) {
	tests := []struct {
		def    schema.Value
		answer string
		want   schema.Value
	}{
		{schema.IntValue(8080), "9090", schema.IntValue(9090)},
		{schema.IntValue(8080), "0.5", schema.NumberValue("0.5")},
		{schema.IntValue(8080), "auto", schema.StringValue("auto")},
		{schema.IntValue(8080), "true", schema.StringValue("true")},
		{schema.StringValue("v1"), "12", schema.StringValue("12")},
	}
	for _, tt := range tests {
		got, err := ReadScalar(prompt.NewScripted(tt.answer), "port", tt.def)
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equal(tt.want) {
			t.Errorf("default %s, answer %q: got %s %s, want %s %s", tt.def, tt.answer, got.Kind(), got, tt.want.Kind(), tt.want)
		}
	}
}

func TestReadBool(t *testing.T) {
	got, err := ReadBool(prompt.NewScripted("maybe", "off"), "docker", true)
	if err != nil {
		t.Fatal(err)
	}
	if got.Bool() {
		t.Error("want false")
	}
}

func TestReaders_NeedPrompter(t *testing.T) {
	if _, err := ReadBool(nil, "x", true); !errors.Is(err, ErrNoPrompter) {
		t.Errorf("ReadBool: %v", err)
	}
	if _, err := ReadScalar(nil, "x", schema.StringValue("")); !errors.Is(err, ErrNoPrompter) {
		t.Errorf("ReadScalar: %v", err)
	}
	if _, err := ReadDict(nil, "x", mustValue(t, `{}`), ""); !errors.Is(err, ErrNoPrompter) {
		t.Errorf("ReadDict: %v", err)
	}
}
