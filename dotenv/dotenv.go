package dotenv

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

var (
	// ErrNotFound is returned when the dotenv file does not exist.
	ErrNotFound = errors.New("dotenv: file not found")
	// ErrKeyNotFound is returned when a key is absent from the dotenv file.
	ErrKeyNotFound = errors.New("dotenv: key not found")
	// ErrInvalidQuoteMode is returned for a quote mode other than always or auto.
	ErrInvalidQuoteMode = errors.New("dotenv: invalid quote mode")
)

// Option configures a dotenv operation.
type Option func(*options)

type options struct {
	verbose bool
	logger  *slog.Logger
	lookup  LookupFunc
}

// WithVerbose logs a warning whenever a file or key is missing.
func WithVerbose() Option {
	return func(o *options) { o.verbose = true }
}

// WithLogger sets the logger used for warnings. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithLookup replaces os.LookupEnv when resolving ${NAME} references.
func WithLookup(fn LookupFunc) Option {
	return func(o *options) { o.lookup = fn }
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.lookup == nil {
		o.lookup = os.LookupEnv
	}
	return o
}

func (o *options) warn(msg string, args ...any) {
	if o.verbose {
		o.logger.Warn(msg, args...)
	}
}

// Read parses the file at path and resolves its ${NAME} references.
func Read(path string, opts ...Option) (*Values, error) {
	o := newOptions(opts)
	values, err := Parse(path)
	if err != nil {
		return nil, err
	}
	return Resolve(values, o.lookup), nil
}

// Load sets every variable of the file at path that is not already present
// in the process environment. Existing variables always win.
//
// It returns false and ErrNotFound if the file does not exist.
func Load(path string, opts ...Option) (bool, error) {
	o := newOptions(opts)
	if !exists(path) {
		o.warn("Not loading dotenv file, it doesn't exist.", "path", path)
		return false, fmt.Errorf("%s: %w", path, ErrNotFound)
	}

	values, err := Read(path, opts...)
	if err != nil {
		return false, err
	}
	for _, e := range values.Entries() {
		if _, ok := os.LookupEnv(e.Key); ok {
			continue
		}
		if err := os.Setenv(e.Key, e.Value); err != nil {
			return false, fmt.Errorf("set %s: %w", e.Key, err)
		}
	}
	return true, nil
}

// Get returns the resolved value of key in the file at path.
func Get(path, key string, opts ...Option) (string, error) {
	o := newOptions(opts)
	if !exists(path) {
		o.warn("Can't read dotenv file, it doesn't exist.", "path", path)
		return "", fmt.Errorf("%s: %w", path, ErrNotFound)
	}

	values, err := Read(path, opts...)
	if err != nil {
		return "", err
	}
	value, ok := values.Get(key)
	if !ok {
		o.warn("key not found in dotenv file.", "path", path, "key", key)
		return "", fmt.Errorf("%s in %s: %w", key, path, ErrKeyNotFound)
	}
	return value, nil
}

// Set adds or updates key in the file at path and rewrites the file.
// Surrounding quotes are stripped from value before it is stored.
//
// The file must already exist: Set never creates an orphan dotenv file.
// The returned entry holds the key and value as written.
func Set(path, key, value string, mode QuoteMode, opts ...Option) (Entry, error) {
	o := newOptions(opts)
	entry := Entry{Key: key, Value: strings.Trim(strings.Trim(value, "'"), `"`)}

	if err := mode.Validate(); err != nil {
		return entry, err
	}
	if !exists(path) {
		o.warn("Can't write to dotenv file, it doesn't exist.", "path", path)
		return entry, fmt.Errorf("%s: %w", path, ErrNotFound)
	}

	values, err := Parse(path)
	if err != nil {
		return entry, err
	}
	values.Set(entry.Key, entry.Value)
	if err := Write(path, values, mode); err != nil {
		return entry, err
	}
	return entry, nil
}

// Unset removes key from the file at path and rewrites the file.
// Like Set, the remaining values are written unresolved.
// It returns the removed key.
func Unset(path, key string, mode QuoteMode, opts ...Option) (string, error) {
	o := newOptions(opts)
	if err := mode.Validate(); err != nil {
		return key, err
	}
	if !exists(path) {
		o.warn("Can't delete from dotenv file, it doesn't exist.", "path", path)
		return key, fmt.Errorf("%s: %w", path, ErrNotFound)
	}

	values, err := Parse(path)
	if err != nil {
		return key, err
	}
	if !values.Delete(key) {
		o.warn("Key not removed from dotenv file, key doesn't exist.", "path", path, "key", key)
		return key, fmt.Errorf("%s in %s: %w", key, path, ErrKeyNotFound)
	}
	if err := Write(path, values, mode); err != nil {
		return key, err
	}
	return key, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
