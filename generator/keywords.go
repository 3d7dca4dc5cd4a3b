package generator

import (
	"strings"

	"github.com/derekparker/trie"
)

// rubyKeywords are reserved words, plus Object/Kernel instance methods,
// that would collide with a generated accessor, mutator, or to_h if used
// verbatim as a field or constant name.
var rubyKeywords = []string{
	// reserved words
	"alias", "and", "begin", "break", "case", "class", "def", "defined?",
	"do", "else", "elsif", "end", "ensure", "false", "for", "if", "in",
	"module", "next", "nil", "not", "or", "redo", "rescue", "retry",
	"return", "self", "super", "then", "true", "undef", "unless", "until",
	"when", "while", "yield", "__FILE__", "__LINE__",
	// Object/Kernel instance methods an accessor or to_h would shadow
	"class", "clone", "dup", "freeze", "frozen?", "hash", "inspect",
	"instance_of?", "instance_variable_get", "instance_variable_set",
	"is_a?", "kind_of?", "method", "methods", "nil?", "object_id",
	"respond_to?", "send", "public_send", "tap", "then", "to_h", "to_s",
	"extend", "instance_eval", "instance_exec",
}

// reservedTrie is a prefix trie over rubyKeywords, consulted once per field
// and oneof name during classification.
type reservedTrie struct {
	t *trie.Trie
}

func newReservedTrie() *reservedTrie {
	t := trie.New()
	for _, kw := range rubyKeywords {
		t.Add(strings.ToLower(kw), true)
	}
	return &reservedTrie{t: t}
}

// has reports whether name is itself (case-insensitively) one of the
// reserved words, found by taking name's own PrefixSearch results and
// checking membership rather than relying on an exact-match method.
func (r *reservedTrie) has(name string) bool {
	lower := strings.ToLower(name)
	for _, k := range r.t.PrefixSearch(lower) {
		if k == lower {
			return true
		}
	}
	return false
}
