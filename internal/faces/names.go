package faces

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// removeDiacritics strips diacritical marks ("Jiří" -> "Jiri").
func removeDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// NormalizeName normalizes a person display name for comparison: lowercase,
// diacritics stripped, dashes treated as spaces.
func NormalizeName(name string) string {
	name = removeDiacritics(name)
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "-", " ")
	return strings.TrimSpace(name)
}

// NameIndex maps normalized display names to person IDs so lookups are
// case- and accent-insensitive. Not safe for concurrent mutation; the caller
// owns serialization, like the rest of the engine's outputs.
type NameIndex struct {
	byName map[string]string
}

// NewNameIndex builds an index over the named persons in the slice.
func NewNameIndex(persons []Person) *NameIndex {
	ix := &NameIndex{byName: make(map[string]string)}
	for i := range persons {
		ix.Set(persons[i].ID, persons[i].Name)
	}
	return ix
}

// Set registers or replaces the name for a person. Empty names are ignored.
func (ix *NameIndex) Set(personID, name string) {
	normalized := NormalizeName(name)
	if normalized == "" {
		return
	}
	ix.byName[normalized] = personID
}

// Lookup resolves a display name to a person ID.
func (ix *NameIndex) Lookup(name string) (string, bool) {
	id, ok := ix.byName[NormalizeName(name)]
	return id, ok
}
