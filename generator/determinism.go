package generator

import (
	"sort"

	"golang.org/x/exp/maps"
)

// sortedKeys returns the keys of a set-shaped map in sorted order. Used
// anywhere ranging over a Go map would otherwise make emitted byte-for-
// byte output depend on map iteration order, which Go deliberately
// randomizes per process.
func sortedKeys(set map[string]bool) []string {
	keys := maps.Keys(set)
	sort.Strings(keys)
	return keys
}
