package eval

import (
	"regexp"
	"strings"

	"github.com/ormasoftchile/cutter/pkg/schema"
	"github.com/tidwall/jsonc"
)

var (
	intLiteral   = regexp.MustCompile(`^[-+]?(0|[1-9][0-9]*)$`)
	floatLiteral = regexp.MustCompile(`^[-+]?([0-9]+\.[0-9]*|\.[0-9]+|[0-9]+)([eE][-+]?[0-9]+)?$`)
)

// ParseLiteral reinterprets rendered text as a typed value when it reads
// unambiguously as one: integers, decimals, true/false, null, and JSON-like
// lists and objects. ok is false for anything else, including malformed
// containers; callers keep the plain string then.
func ParseLiteral(text string) (v schema.Value, ok bool) {
	defer func() {
		if recover() != nil {
			v, ok = schema.Value{}, false
		}
	}()

	s := strings.TrimSpace(text)
	if s == "" {
		return schema.Value{}, false
	}
	switch s {
	case "true", "True":
		return schema.BoolValue(true), true
	case "false", "False":
		return schema.BoolValue(false), true
	case "null", "None":
		return schema.NullValue(), true
	}

	switch s[0] {
	case '[', '{':
		parsed, err := schema.ParseJSON(jsonc.ToJSON([]byte(s)))
		if err != nil {
			return schema.Value{}, false
		}
		return parsed, true
	}

	if intLiteral.MatchString(s) {
		return schema.NumberValue(strings.TrimPrefix(s, "+")), true
	}
	if floatLiteral.MatchString(s) && !leadingZeroInt(s) {
		return schema.NumberValue(normalizeFloat(s)), true
	}
	return schema.Value{}, false
}

// leadingZeroInt rejects "007"-style integer parts, which are not literals.
func leadingZeroInt(s string) bool {
	s = strings.TrimLeft(s, "+-")
	intPart := s
	if i := strings.IndexAny(s, ".eE"); i >= 0 {
		intPart = s[:i]
	}
	return len(intPart) > 1 && intPart[0] == '0'
}

// normalizeFloat makes the literal valid JSON: "+1.5" → "1.5", "1." → "1.0",
// ".5" → "0.5".
func normalizeFloat(s string) string {
	s = strings.TrimPrefix(s, "+")
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	s = strings.Replace(s, ".e", ".0e", 1)
	s = strings.Replace(s, ".E", ".0E", 1)
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	if neg {
		s = "-" + s
	}
	return s
}
