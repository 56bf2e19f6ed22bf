package input

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "body.md")
	if err := os.WriteFile(path, []byte("# From file\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		value string
		stdin string
		want  string
	}{
		{"literal", "plain text", "", "plain text"},
		{"stdin", "-", "piped\nbody\n", "piped\nbody\n"},
		{"file", "@" + path, "", "# From file\n"},
		{"lone at sign", "@", "", "@"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Text(tt.value, strings.NewReader(tt.stdin))
			if err != nil {
				t.Fatalf("Text: %v", err)
			}
			if got != tt.want {
				t.Errorf("Text(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestTextMissingFile(t *testing.T) {
	if _, err := Text("@"+filepath.Join(t.TempDir(), "nope"), strings.NewReader("")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.txt")
	if err := os.WriteFile(path, []byte("u3\n\n u4 \n"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Values([]string{"u1", "-", "@" + path}, strings.NewReader("u2\n"))
	if err != nil {
		t.Fatalf("Values: %v", err)
	}
	want := []string{"u1", "u2", "u3", "u4"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Values = %v, want %v", got, want)
	}
}

func TestValuesStdinOnce(t *testing.T) {
	_, err := Values([]string{"-", "-"}, strings.NewReader("u1\n"))
	if !errors.Is(err, ErrStdinTwice) {
		t.Errorf("err = %v, want ErrStdinTwice", err)
	}
}
