package generator

// emitEnum writes a module exposing one named integer constant per value
// plus the lookup/resolve pair described in §4.2: both are total on the
// known constants and — since Ruby's case/when falls through to nil on no
// match — naturally return nothing for an unrecognized input without any
// explicit else branch.
func emitEnum(b *WriteableBuffer, e *Enum) {
	b.P("module %s", e.Name)
	b.Indent()

	for _, c := range e.Constants {
		b.P("%s = %d", c.Name, c.Number)
	}
	b.P0()

	b.P("def self.lookup(value)")
	b.Indent()
	b.P("case value")
	for _, c := range e.Constants {
		b.P("when %d then :%s", c.Number, c.Name)
	}
	b.P("end")
	b.Unindent()
	b.P("end")
	b.P0()

	b.P("def self.resolve(symbol)")
	b.Indent()
	b.P("case symbol")
	for _, c := range e.Constants {
		b.P("when :%s then %d", c.Name, c.Number)
	}
	b.P("end")
	b.Unindent()
	b.P("end")

	b.Unindent()
	b.P("end")
	b.P0()
}
