package engine

import (
	"errors"
	"testing"
)

func TestParseGuard_Present(t *testing.T) {
	scope := GuardScope(mustObject(t, `{"x": 1, "flag?x==1": "on"}`))
	g, err := ParseGuard(scope, "flag?x==1")
	if err != nil {
		t.Fatal(err)
	}
	if g.Base != "flag" || !g.Present || g.Failure != nil {
		t.Errorf("guard = %+v", g)
	}
}

func TestParseGuard_NotPresent(t *testing.T) {
	scope := GuardScope(mustObject(t, `{"x": 2}`))
	g, err := ParseGuard(scope, "flag?x==1")
	if err != nil {
		t.Fatal(err)
	}
	if g.Base != "flag" || g.Present || g.Failure != nil {
		t.Errorf("guard = %+v", g)
	}
}

func TestParseGuard_Template(t *testing.T) {
	scope := GuardScope(mustObject(t, `{"db": "postgres"}`))
	g, err := ParseGuard(scope, `port?{{ if eq .cookiecutter.db "postgres" }}true{{ end }}`)
	if err != nil {
		t.Fatal(err)
	}
	if !g.Present {
		t.Errorf("guard = %+v", g)
	}
}

func TestParseGuard_OnlyExactTrue(t *testing.T) {
	scope := GuardScope(mustObject(t, `{"x": "True"}`))
	g, err := ParseGuard(scope, "flag?x")
	if err != nil {
		t.Fatal(err)
	}
	if g.Present {
		t.Error(`"True" is not "true"`)
	}
}

func TestParseGuard_FailureIsDistinct(t *testing.T) {
	scope := GuardScope(mustObject(t, `{"x": 1}`))
	g, err := ParseGuard(scope, "flag?nope.y == 1")
	if err != nil {
		t.Fatal(err)
	}
	if g.Present {
		t.Error("failed guard must not be present")
	}
	if g.Failure == nil {
		t.Fatal("expected Failure")
	}
	if g.Failure.Key != "flag?nope.y == 1" || g.Failure.Expr != "nope.y == 1" {
		t.Errorf("failure = %+v", g.Failure)
	}
}

func TestParseGuard_Malformed(t *testing.T) {
	for _, key := range []string{"plain", "a?b?c"} {
		_, err := ParseGuard(nil, key)
		var mk *MalformedKeyError
		if !errors.As(err, &mk) {
			t.Errorf("%q: err = %v, want MalformedKeyError", key, err)
		}
	}
}

func TestGuardScope_ExposesContextKey(t *testing.T) {
	scope := GuardScope(mustObject(t, `{"x": 1}`))
	inner, ok := scope["cookiecutter"].(map[string]any)
	if !ok || inner["x"] != 1 {
		t.Errorf("scope = %v", scope)
	}
	if scope["x"] != 1 {
		t.Errorf("x = %#v, want int 1", scope["x"])
	}
}
