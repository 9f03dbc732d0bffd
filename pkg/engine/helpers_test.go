package engine

import (
	"context"
	"testing"

	"github.com/ormasoftchile/cutter/pkg/ctxlog"
	"github.com/ormasoftchile/cutter/pkg/schema"
)

func mustObject(t *testing.T, src string) *schema.Object {
	t.Helper()
	v, err := schema.ParseJSON([]byte(src))
	if err != nil {
		t.Fatalf("parse %s: %v", src, err)
	}
	if v.Kind() != schema.Map {
		t.Fatalf("%s is not an object", src)
	}
	return v.Object()
}

func mustValue(t *testing.T, src string) schema.Value {
	t.Helper()
	v, err := schema.ParseJSON([]byte(src))
	if err != nil {
		t.Fatalf("parse %s: %v", src, err)
	}
	return v
}

func quietContext() context.Context {
	return ctxlog.WithLogger(context.Background(), ctxlog.Discard())
}

func assertEnv(t *testing.T, got *schema.Object, want string) {
	t.Helper()
	if !got.Equal(mustObject(t, want)) {
		data, _ := got.MarshalJSON()
		t.Errorf("env = %s\nwant  %s", data, want)
	}
}
