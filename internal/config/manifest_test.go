package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest([]byte("name: hello\nversion: 0.1.0\ndependencies:\n  std: ../std\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Name != "hello" || m.Version != "0.1.0" {
		t.Errorf("got=%+v", m)
	}
	if m.Dependencies["std"] != "../std" {
		t.Errorf("std dependency got=%q, want=%q", m.Dependencies["std"], "../std")
	}
}

func TestManifestValidation(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing name", "version: 1\n"},
		{"bad name", "name: 9lives\n"},
		{"dotted name", "name: a.b\n"},
		{"bad dependency", "name: app\ndependencies:\n  my-lib: ../x\n"},
		{"empty dependency path", "name: app\ndependencies:\n  std: \"\"\n"},
		{"not yaml", "name: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseManifest([]byte(tt.data)); err == nil {
				t.Errorf("expected an error")
			}
		})
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadManifest(dir); err == nil {
		t.Fatalf("expected error for missing manifest")
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestName), []byte("name: app\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := LoadManifest(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Name != "app" {
		t.Errorf("got=%q, want=app", m.Name)
	}
}

func TestTrimBuiltinPrefix(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"buildin_print", "print", true},
		{"Buildin_str_concat", "str_concat", true},
		{"BUILDIN_print", "", false},
		{"print", "", false},
	}
	for _, tt := range tests {
		got, ok := TrimBuiltinPrefix(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("TrimBuiltinPrefix(%q) got=(%q, %v), want=(%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
