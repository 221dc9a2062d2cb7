package knobs

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"
)

// Entry is the type-erased view of a knob kept by a Registry.
type Entry interface {
	Name() string
	Kind() Kind
	Description() string
	Unit() string
	Secret() bool
	DefaultString() string
	Help() string
}

// Registry maps environment variable names to the knob declared for them.
// Declaring a second knob with the same name replaces the first.
//
// A Registry is not safe for concurrent use. Knobs are normally declared
// during package initialization, before any goroutine reads them.
type Registry struct {
	knobs map[string]Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{knobs: make(map[string]Entry)}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry used when no WithRegistry option
// is given.
func Default() *Registry { return defaultRegistry }

// Register adds e, replacing any entry with the same name.
func (r *Registry) Register(e Entry) {
	r.knobs[e.Name()] = e
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	e, ok := r.knobs[name]
	return e, ok
}

// Len returns the number of registered knobs.
func (r *Registry) Len() int { return len(r.knobs) }

// Clear removes every entry.
func (r *Registry) Clear() {
	r.knobs = make(map[string]Entry)
}

// Entries returns the registered knobs sorted by name.
func (r *Registry) Entries() []Entry {
	names := make([]string, 0, len(r.knobs))
	for name := range r.knobs {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Entry, 0, len(names))
	for _, name := range names {
		out = append(out, r.knobs[name])
	}
	return out
}

// ExportDefaults renders a commented .env template, one block per knob
// sorted by name and separated by a blank line:
//
//	# Number of pirates (souls)
//	#JOLLY_ROGER_PIRATES=124
func (r *Registry) ExportDefaults() string {
	blocks := make([]string, 0, len(r.knobs))
	for _, e := range r.Entries() {
		comment := e.Description()
		if unit := strings.TrimSpace(e.Unit()); unit != "" {
			comment = strings.TrimSpace(comment + " (" + unit + ")")
		}
		blocks = append(blocks, fmt.Sprintf("%s\n#%s=%s",
			strings.TrimRight("# "+comment, " "), e.Name(), displayDefault(e)))
	}
	return strings.Join(blocks, "\n\n")
}

// ExportTable renders the knobs as an aligned NAME/DESCRIPTION/DEFAULT table
// sorted by name.
func (r *Registry) ExportTable() string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDESCRIPTION\tDEFAULT")
	for _, e := range r.Entries() {
		fmt.Fprintf(w, "%s\t%s\t%s%s\n", e.Name(), e.Description(), displayDefault(e), e.Unit())
	}
	w.Flush()
	return buf.String()
}

// WriteDefaults writes every knob's default to a new .env file at path,
// replacing any existing file. Secret defaults are written unmasked.
func (r *Registry) WriteDefaults(path string) error {
	env := make(map[string]string, len(r.knobs))
	for name, e := range r.knobs {
		env[name] = e.DefaultString()
	}
	if err := godotenv.Write(env, path); err != nil {
		return fmt.Errorf("write defaults to %s: %w", path, err)
	}
	return nil
}

func displayDefault(e Entry) string {
	if e.Secret() {
		return mask(e.DefaultString())
	}
	return e.DefaultString()
}

// mask keeps the first 3 characters of secret and replaces the rest with
// asterisks. Secrets of 3 characters or fewer are fully masked.
func mask(secret string) string {
	const keep = 3
	n := len(secret)
	if n <= keep {
		return strings.Repeat("*", n)
	}
	return secret[:keep] + strings.Repeat("*", n-keep)
}
