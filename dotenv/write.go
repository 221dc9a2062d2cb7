package dotenv

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// QuoteMode controls whether written values are wrapped in double quotes.
type QuoteMode string

const (
	// QuoteAlways quotes every value.
	QuoteAlways QuoteMode = "always"
	// QuoteAuto quotes only values that would not survive unquoted: values
	// containing a space or line break, with leading or trailing whitespace,
	// or starting with a quote character.
	QuoteAuto QuoteMode = "auto"
)

// ParseQuoteMode converts s to a QuoteMode.
func ParseQuoteMode(s string) (QuoteMode, error) {
	mode := QuoteMode(s)
	if err := mode.Validate(); err != nil {
		return "", err
	}
	return mode, nil
}

// Validate reports ErrInvalidQuoteMode for unknown modes.
func (m QuoteMode) Validate() error {
	switch m {
	case QuoteAlways, QuoteAuto:
		return nil
	default:
		return fmt.Errorf("quote mode %q is invalid: %w", string(m), ErrInvalidQuoteMode)
	}
}

func (m QuoteMode) String() string { return string(m) }

// Format renders a single KEY=VALUE line, newline included.
func (m QuoteMode) Format(key, value string) string {
	if m == QuoteAlways || needsQuotes(value) {
		return fmt.Sprintf("%s=\"%s\"\n", key, encodeEscapes(value))
	}
	return fmt.Sprintf("%s=%s\n", key, value)
}

func needsQuotes(value string) bool {
	if strings.ContainsAny(value, " \n\r") || value != strings.TrimSpace(value) {
		return true
	}
	return strings.HasPrefix(value, `"`) || strings.HasPrefix(value, "'")
}

// Write replaces the file at path with values, one line per key in order.
//
// The content is written to a temporary file in the same directory which is
// then renamed over path. The original file mode is kept.
func Write(path string, values *Values, mode QuoteMode) error {
	if err := mode.Validate(); err != nil {
		return err
	}

	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	w := bufio.NewWriter(tmp)
	for _, e := range values.Entries() {
		if _, err := w.WriteString(mode.Format(e.Key, e.Value)); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write temp file: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("failed to set file mode: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}
