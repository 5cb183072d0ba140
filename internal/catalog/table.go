package catalog

import (
	"sort"
	"strings"
)

// NormalizeKey lowercases and trims s; all lookups go through it.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Table holds the two exact-match lookups derived from a catalog.
// It is immutable after construction and safe for concurrent reads.
type Table struct {
	meaningByName map[string]string // name key -> meaning
	nameByMeaning map[string]string // meaning key -> display name

	overwritten []string
}

// NewTable builds the lookups from entries in order. On a duplicate key the
// later row wins; the overwritten keys are reported by Overwritten.
func NewTable(entries []Entry) *Table {
	t := &Table{
		meaningByName: make(map[string]string, len(entries)),
		nameByMeaning: make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		name := e.DisplayName()

		nameKey := NormalizeKey(name)
		if _, dup := t.meaningByName[nameKey]; dup {
			t.overwritten = append(t.overwritten, nameKey)
		}
		t.meaningByName[nameKey] = e.Meaning

		meaningKey := NormalizeKey(e.Meaning)
		if _, dup := t.nameByMeaning[meaningKey]; dup {
			t.overwritten = append(t.overwritten, meaningKey)
		}
		t.nameByMeaning[meaningKey] = name
	}
	return t
}

// Meaning returns the meaning recorded for a flower name.
func (t *Table) Meaning(name string) (string, bool) {
	m, ok := t.meaningByName[NormalizeKey(name)]
	return m, ok
}

// Flower returns the display name of the flower recorded for a meaning.
func (t *Table) Flower(meaning string) (string, bool) {
	n, ok := t.nameByMeaning[NormalizeKey(meaning)]
	return n, ok
}

// Names returns all flower name keys, sorted.
func (t *Table) Names() []string {
	return sortedKeys(t.meaningByName)
}

// Meanings returns all meaning keys, sorted.
func (t *Table) Meanings() []string {
	return sortedKeys(t.nameByMeaning)
}

// Len returns the number of distinct flower names.
func (t *Table) Len() int {
	return len(t.meaningByName)
}

// Overwritten lists keys (names or meanings) that a later row replaced.
func (t *Table) Overwritten() []string {
	out := make([]string, len(t.overwritten))
	copy(out, t.overwritten)
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
