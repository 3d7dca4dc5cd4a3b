package generator

import (
	"strings"
)

// rubyConstName title-cases a proto identifier's underscore-separated
// words into a Ruby constant/class name: "my_message" -> "MyMessage".
// Names already in that shape (the common case — proto style favors
// CamelCase message names) pass through untouched.
func rubyConstName(protoName string) string {
	if !strings.Contains(protoName, "_") {
		if protoName == "" {
			return protoName
		}
		return strings.ToUpper(protoName[:1]) + protoName[1:]
	}
	parts := strings.Split(protoName, "_")
	for i, p := range parts {
		if len(p) > 0 {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "")
}

// rubyNamespace derives the nested-module path for a file per §6: an
// explicit override is split on "::"; otherwise the dot-separated proto
// package is split, each component capitalized. An empty package with no
// override emits at the top level (no wrapping module).
func rubyNamespace(protoPackage, override string) []string {
	if override != "" {
		return strings.Split(override, "::")
	}
	if protoPackage == "" {
		return nil
	}
	parts := strings.Split(protoPackage, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, rubyConstName(p))
	}
	return out
}

// outputFileName maps a "foo/bar.proto" input path to "foo/bar_pb.rb",
// the convention the gem this spec is drawn from uses for generated
// sibling files.
func outputFileName(protoFileName string) string {
	trimmed := strings.TrimSuffix(protoFileName, ".proto")
	return trimmed + "_pb.rb"
}

// rubyFieldName sanitizes a proto field/oneof name into a safe Ruby
// identifier, consulting the reserved-word trie built at generator
// construction.
func (g *Generator) rubyFieldName(protoName string) string {
	if g.reserved.has(protoName) {
		return protoName + "_"
	}
	return protoName
}
