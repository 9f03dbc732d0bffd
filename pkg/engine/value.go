package engine

import (
	"github.com/ormasoftchile/cutter/pkg/eval"
	"github.com/ormasoftchile/cutter/pkg/prompt"
	"github.com/ormasoftchile/cutter/pkg/schema"
	"github.com/tidwall/jsonc"
)

// DefaultDictSentinel is the answer that keeps a structured variable's default.
const DefaultDictSentinel = "default"

// ReadBool asks a yes/no question defaulting to def.
func ReadBool(p prompt.Prompter, key string, def bool) (schema.Value, error) {
	if p == nil {
		return schema.Value{}, ErrNoPrompter
	}
	b, err := p.YesNo(key, def)
	if err != nil {
		return schema.Value{}, err
	}
	return schema.BoolValue(b), nil
}

// ReadScalar asks for text defaulting to the rendered value. Accepting the
// default keeps its rendered type. A numeric default reads a numeric answer
// as a number; any other answer is a string.
func ReadScalar(p prompt.Prompter, key string, def schema.Value) (schema.Value, error) {
	if p == nil {
		return schema.Value{}, ErrNoPrompter
	}
	text := def.Text()
	answer, err := p.Text(key, text)
	if err != nil {
		return schema.Value{}, err
	}
	if answer == text {
		return def, nil
	}
	if def.Kind() == schema.Number {
		if v, ok := eval.ParseLiteral(answer); ok && v.Kind() == schema.Number {
			return v, nil
		}
	}
	return schema.StringValue(answer), nil
}

// ReadDict asks once for a structured variable, offering sentinel as the
// default answer. See ProcessDict.
func ReadDict(p prompt.Prompter, key string, def schema.Value, sentinel string) (schema.Value, error) {
	if p == nil {
		return schema.Value{}, ErrNoPrompter
	}
	if def.Kind() != schema.Map {
		return schema.Value{}, &TypeError{Key: key, Want: schema.Map, Got: def.Kind()}
	}
	if sentinel == "" {
		sentinel = DefaultDictSentinel
	}
	answer, err := p.Text(key, sentinel)
	if err != nil {
		return schema.Value{}, err
	}
	return ProcessDict(key, answer, def, sentinel)
}

// ProcessDict interprets an answer for a structured variable. The sentinel
// keeps def unchanged; anything else must be a JSON object. Comments and
// trailing commas are tolerated.
func ProcessDict(key, input string, def schema.Value, sentinel string) (schema.Value, error) {
	if def.Kind() != schema.Map {
		return schema.Value{}, &TypeError{Key: key, Want: schema.Map, Got: def.Kind()}
	}
	if input == sentinel {
		return def, nil
	}
	v, err := schema.ParseJSON(jsonc.ToJSON([]byte(input)))
	if err != nil {
		return schema.Value{}, &MalformedInputError{Key: key, Input: input, Reason: "unable to decode to JSON", Err: err}
	}
	if v.Kind() != schema.Map {
		return schema.Value{}, &MalformedInputError{Key: key, Input: input, Reason: "requires JSON dict"}
	}
	return v, nil
}
