// Package input reads flag values that name stdin (-) or a file (@path).
package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Text expands one flag value. "-" reads all of stdin and "@path" reads
// the file; any other value is returned unchanged.
func Text(value string, stdin io.Reader) (string, error) {
	switch {
	case value == "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	case strings.HasPrefix(value, "@") && len(value) > 1:
		path := strings.TrimPrefix(value, "@")
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return string(b), nil
	}
	return value, nil
}

// Values expands list flag values. "-" and "@path" contribute one value
// per non-empty line; stdin may be named once.
func Values(values []string, stdin io.Reader) ([]string, error) {
	var out []string
	stdinRead := false
	for _, v := range values {
		if v != "-" && !(strings.HasPrefix(v, "@") && len(v) > 1) {
			out = append(out, v)
			continue
		}
		if v == "-" {
			if stdinRead {
				return nil, ErrStdinTwice
			}
			stdinRead = true
		}
		text, err := Text(v, stdin)
		if err != nil {
			return nil, err
		}
		out = append(out, lines(text)...)
	}
	return out, nil
}

// ErrStdinTwice is returned when more than one value reads stdin.
var ErrStdinTwice = errors.New("stdin can only be read once")

func lines(text string) []string {
	var out []string
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			out = append(out, line)
		}
	}
	return out
}
