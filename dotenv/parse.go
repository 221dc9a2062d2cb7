package dotenv

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// posixVariable matches ${NAME} references.
var posixVariable = regexp.MustCompile(`\$\{[^}]*\}`)

// LookupFunc looks up a variable by name, reporting whether it is set.
type LookupFunc func(key string) (string, bool)

// Parse reads the file at path without expanding references.
// It returns ErrNotFound if the file does not exist.
func Parse(path string) (*Values, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, err
	}
	defer f.Close()

	values, err := ParseReader(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return values, nil
}

// ParseReader parses dotenv content from r without expanding references.
func ParseReader(r io.Reader) (*Values, error) {
	values := NewValues()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		key, value, ok := parseLine(scanner.Text())
		if !ok {
			continue
		}
		values.Set(key, value)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

// parseLine splits a single line into key and value.
func parseLine(line string) (string, string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", false
	}
	key, value = strings.TrimSpace(key), strings.TrimSpace(value)

	if n := len(value); n >= 2 && value[0] == value[n-1] && (value[0] == '"' || value[0] == '\'') {
		value = decodeEscapes(value[1 : n-1])
	}
	return key, value, true
}

// Resolve expands every ${NAME} reference in values, in file order.
// A reference resolves to lookup(NAME) when set, then to NAME within values,
// then to the empty string. Expanded text is not scanned again.
// A nil lookup uses os.LookupEnv. values is modified and returned.
func Resolve(values *Values, lookup LookupFunc) *Values {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for _, key := range values.keys {
		values.m[key] = posixVariable.ReplaceAllStringFunc(values.m[key], func(match string) string {
			name := match[2 : len(match)-1]
			if v, ok := lookup(name); ok {
				return v
			}
			return values.m[name]
		})
	}
	return values
}

// decodeEscapes decodes backslash escape sequences.
// Unknown or malformed escapes are kept as written.
func decodeEscapes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}

		next := s[i+1]
		switch next {
		case 'n':
			b.WriteByte('\n')
			i++
		case 't':
			b.WriteByte('\t')
			i++
		case 'r':
			b.WriteByte('\r')
			i++
		case 'a':
			b.WriteByte('\a')
			i++
		case 'b':
			b.WriteByte('\b')
			i++
		case 'f':
			b.WriteByte('\f')
			i++
		case 'v':
			b.WriteByte('\v')
			i++
		case '\\', '\'', '"':
			b.WriteByte(next)
			i++
		case 'x', 'u', 'U':
			width := hexWidth[next]
			r, ok := hexRune(s[i+2:], width)
			if !ok {
				b.WriteByte(c)
				continue
			}
			b.WriteRune(r)
			i += 1 + width
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i + 1
			for j < len(s) && j < i+4 && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			n, _ := strconv.ParseUint(s[i+1:j], 8, 32)
			b.WriteRune(rune(n))
			i = j - 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// hexWidth is the digit count of each hex escape.
var hexWidth = map[byte]int{'x': 2, 'u': 4, 'U': 8}

// hexRune parses exactly width hex digits from the start of s.
func hexRune(s string, width int) (rune, bool) {
	if len(s) < width {
		return 0, false
	}
	n, err := strconv.ParseUint(s[:width], 16, 32)
	if err != nil || !utf8.ValidRune(rune(n)) {
		return 0, false
	}
	return rune(n), true
}

// encodeEscapes is the inverse of decodeEscapes for the characters that
// cannot appear verbatim inside a double-quoted value.
func encodeEscapes(s string) string {
	return escapeReplacer.Replace(s)
}

var escapeReplacer = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)
