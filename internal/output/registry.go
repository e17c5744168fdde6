package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Encoder renders a structured report onto w.
type Encoder func(w io.Writer, v any) error

// Registry maps format names to Encoders, enabling pluggable machine-readable
// formats for report commands such as inspect.
type Registry struct {
	mu       sync.RWMutex
	encoders map[string]Encoder
}

// NewRegistry creates an empty encoder registry.
func NewRegistry() *Registry {
	return &Registry{
		encoders: make(map[string]Encoder),
	}
}

// Register adds an encoder under the given format name.
// Existing entries for the same name are overwritten.
func (r *Registry) Register(name string, enc Encoder) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.encoders[name] = enc
}

// Encoder returns the encoder for the given format, or an error if not found.
func (r *Registry) Encoder(name string) (Encoder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	enc, ok := r.encoders[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (available: %s)", name, r.availableLocked())
	}

	return enc, nil
}

// Formats returns the sorted list of registered format names.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.formatsLocked()
}

// AvailableFormats returns a comma-separated string of registered format names.
func (r *Registry) AvailableFormats() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.availableLocked()
}

func (r *Registry) formatsLocked() []string {
	names := make([]string, 0, len(r.encoders))
	for name := range r.encoders {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func (r *Registry) availableLocked() string {
	formats := r.formatsLocked()
	if len(formats) == 0 {
		return "none"
	}

	return strings.Join(formats, ", ")
}

// DefaultRegistry returns a registry pre-populated with the built-in
// formats: json and yaml.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register("json", EncodeJSON)
	r.Register("yaml", EncodeYAML)

	return r
}

// EncodeJSON writes v as indented JSON followed by a newline.
func EncodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

// EncodeYAML writes v as a YAML document indented by two spaces.
func EncodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}

	return enc.Close()
}
