package replay

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ormasoftchile/cutter/pkg/schema"
)

func mustValue(t *testing.T, src string) schema.Value {
	t.Helper()
	v, err := schema.ParseJSON([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "replay")
	ctx := mustValue(t, `{"cookiecutter": {"name": "x", "n": 1.50, "tags": ["a", "<b>"], "_template": "/t/proj"}}`)

	path, err := Save(dir, "proj", ctx)
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(dir, "proj.json") {
		t.Errorf("path = %s", path)
	}

	got, err := Load(dir, "proj")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(ctx.Object()) {
		t.Errorf("loaded %v, want input", got.Keys())
	}
}

func TestSave_PrettyAndUnescaped(t *testing.T) {
	dir := t.TempDir()
	if _, err := Save(dir, "proj", mustValue(t, `{"cookiecutter": {"html": "<b>"}}`)); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "proj.json"))
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"cookiecutter\": {\n    \"html\": \"<b>\"\n  }\n}\n"
	if string(data) != want {
		t.Errorf("record =\n%s\nwant\n%s", data, want)
	}
}

func TestSave_MissingKey(t *testing.T) {
	_, err := Save(t.TempDir(), "proj", mustValue(t, `{"other": {}}`))
	var mk *MissingKeyError
	if !errors.As(err, &mk) {
		t.Fatalf("err = %v, want MissingKeyError", err)
	}
}

func TestSave_TypeErrors(t *testing.T) {
	dir := t.TempDir()
	var te *TypeError
	if _, err := Save(dir, "", mustValue(t, `{"cookiecutter": {}}`)); !errors.As(err, &te) {
		t.Errorf("empty name: %v", err)
	}
	if _, err := Save(dir, "proj", mustValue(t, `["cookiecutter"]`)); !errors.As(err, &te) {
		t.Errorf("list context: %v", err)
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(t.TempDir(), "absent")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("NotFoundError should unwrap to fs.ErrNotExist")
	}
}

func TestLoad_MissingKey(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "proj.json"), []byte(`{"other": {}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(dir, "proj")
	var mk *MissingKeyError
	if !errors.As(err, &mk) {
		t.Fatalf("err = %v, want MissingKeyError", err)
	}
	if !strings.Contains(err.Error(), "proj.json") {
		t.Errorf("error should name the record: %v", err)
	}
}

func TestLoad_EmptyName(t *testing.T) {
	var te *TypeError
	if _, err := Load(t.TempDir(), ""); !errors.As(err, &te) {
		t.Fatalf("err = %v, want TypeError", err)
	}
}

func TestLoad_Corrupt(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "proj.json"), []byte(`{"cookiecutter":`), 0o644)
	if _, err := Load(dir, "proj"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestFileName_Suffix(t *testing.T) {
	tests := map[string]string{
		"proj":      "proj.json",
		"proj.json": "proj.json",
		"a.b":       "a.b.json",
	}
	for in, want := range tests {
		if got := FileName(in); got != want {
			t.Errorf("FileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoad_NameWithSuffix(t *testing.T) {
	dir := t.TempDir()
	ctx := mustValue(t, `{"cookiecutter": {"a": true}}`)
	if _, err := Save(dir, "proj.json", ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir, "proj"); err != nil {
		t.Errorf("same record should load without suffix: %v", err)
	}
}

func TestSplit(t *testing.T) {
	dir, name := Split(filepath.Join("replays", "proj.json"))
	if dir != "replays" || name != "proj" {
		t.Errorf("Split = %q, %q", dir, name)
	}
	dir, name = Split("proj.json")
	if dir != "." || name != "proj" {
		t.Errorf("Split = %q, %q", dir, name)
	}
}
