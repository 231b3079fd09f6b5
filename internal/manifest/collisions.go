package manifest

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Collision describes two or more entries sharing an output path or symbol.
type Collision struct {
	Field   string
	Value   string
	Entries []Entry
}

func (c Collision) String() string {
	labels := make([]string, 0, len(c.Entries))
	for _, entry := range c.Entries {
		labels = append(labels, entry.Label())
	}
	return fmt.Sprintf("duplicate %s %q used by %s", c.Field, c.Value, strings.Join(labels, ", "))
}

// FindCollisions reports duplicated output paths and symbols across all entries
// of the given manifests. Results are ordered by field, then value.
func FindCollisions(manifests ...*Manifest) []Collision {
	outputs := map[string][]Entry{}
	symbols := map[string][]Entry{}
	for _, m := range manifests {
		for _, entry := range m.Entries() {
			if entry.Output != "" {
				key := filepath.Clean(entry.Output)
				outputs[key] = append(outputs[key], entry)
			}
			if entry.Name != "" {
				symbols[entry.Name] = append(symbols[entry.Name], entry)
			}
		}
	}

	var collisions []Collision
	collisions = append(collisions, collect("output", outputs)...)
	collisions = append(collisions, collect("symbol", symbols)...)
	return collisions
}

func collect(field string, index map[string][]Entry) []Collision {
	keys := make([]string, 0, len(index))
	for key, entries := range index {
		if len(entries) > 1 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	collisions := make([]Collision, 0, len(keys))
	for _, key := range keys {
		collisions = append(collisions, Collision{Field: field, Value: key, Entries: index[key]})
	}
	return collisions
}
