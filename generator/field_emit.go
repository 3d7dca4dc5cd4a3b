package generator

import (
	"fmt"
	"strings"

	"google.golang.org/protobuf/types/descriptorpb"
)

// emitAccessor writes the reader for one field. A singular enum field (the
// only place §4.3 calls for "enum-via-lookup") returns the symbol its
// stored integer resolves to, falling back to the raw stored value when
// it's an unknown integer (or, via the mutator's unknown-symbol path, an
// unresolved symbol); lookup returns nil for either case, and unknown enum
// values must pass through unchanged (§3.4, §9). Everything else returns
// the ivar as stored.
func emitAccessor(b *WriteableBuffer, f *Field) {
	b.P("def %s", f.Name)
	b.Indent()
	if f.IsEnum && (f.Shape == ShapeScalar || f.Shape == ShapeOneofMember) {
		b.P("%s.lookup(@%s) || @%s", f.EnumConst, f.Name, f.Name)
	} else {
		b.P("@%s", f.Name)
	}
	b.Unindent()
	b.P("end")
	b.P0()
}

// emitDiscriminatorAccessor writes the reader for a oneof group's
// discriminator: the symbol naming whichever member is currently set, or
// nil if none is.
func emitDiscriminatorAccessor(b *WriteableBuffer, o *Oneof) {
	b.P("def %s", o.Name)
	b.Indent()
	b.P("@%s", o.Name)
	b.Unindent()
	b.P("end")
	b.P0()
}

// emitMutator writes the setter for one field, including whatever
// invariant-preserving side effect its shape requires: a presence bit for
// an optional scalar or a message field, the discriminator for a oneof
// member, elementwise bounds validation for a bounded-integer repeated
// field.
func emitMutator(b *WriteableBuffer, f *Field) {
	b.P("def %s=(value)", f.Name)
	b.Indent()

	switch f.Shape {
	case ShapeMessage:
		b.P("@%s = value", f.Name)
		b.P("@_bits |= %s", presenceMask(f))

	case ShapeRepeated:
		if lo, hi, ok := bounds(f.ProtoType); ok {
			b.P("value.each { |e| raise RangeError, \"%s element out of range\" unless e.is_a?(Integer) && e >= %s && e <= %s }", f.Name, lo, hi)
		}
		b.P("@%s = value.dup", f.Name)

	case ShapeMap:
		b.P("@%s = value.dup", f.Name)

	case ShapeOneofMember:
		emitScalarAssign(b, f)
		b.P("@%s = :%s", f.OneofName, f.Name)

	default: // ShapeScalar, required or explicit optional
		emitScalarAssign(b, f)
		if f.HasPresence {
			b.P("@_bits |= %s", presenceMask(f))
		}
	}

	b.Unindent()
	b.P("end")
	b.P0()
}

// emitScalarAssign handles the value-storage half of a mutator shared by
// plain scalar fields and oneof members: enum fields resolve a symbol
// argument to its integer, bounded integer fields range-check, everything
// else (bool, float/double, string, bytes, message) assigns as given.
func emitScalarAssign(b *WriteableBuffer, f *Field) {
	if f.IsEnum {
		b.P("@%s = value.is_a?(Symbol) ? (%s.resolve(value) || value) : value", f.Name, f.EnumConst)
		return
	}
	if lo, hi, ok := bounds(f.ProtoType); ok {
		b.P("raise RangeError, \"%s out of range\" unless value.is_a?(Integer) && value >= %s && value <= %s", f.Name, lo, hi)
	}
	b.P("@%s = value", f.Name)
}

func presenceMask(f *Field) string {
	return fmt.Sprintf("0x%x", uint64(1)<<uint(f.BitIndex))
}

// emitPresencePredicate writes has_<field>?, readable only for fields the
// presence bitmask actually tracks (explicit optional scalars and message
// fields — oneof members report presence through their discriminator
// instead).
func emitPresencePredicate(b *WriteableBuffer, f *Field) {
	b.P("def has_%s?", f.Name)
	b.Indent()
	b.P("(@_bits & %s) != 0", presenceMask(f))
	b.Unindent()
	b.P("end")
	b.P0()
}

// emitConstructor writes a keyword-argument initializer accepting every
// field by name. Presence-bearing fields (message fields, explicit
// optional scalars, oneof members) default to nil and only invoke their
// mutator — and so only mark themselves present — when the caller actually
// passes something; every other field routes through its mutator
// unconditionally so construction enforces the same bounds a later mutator
// call would.
func emitConstructor(b *WriteableBuffer, msg *Message) {
	var params []string
	for _, f := range msg.Fields {
		def := canonicalDefault(f)
		if f.Shape == ShapeOneofMember || (f.Shape == ShapeScalar && f.HasPresence) || f.Shape == ShapeMessage {
			def = "nil"
		}
		params = append(params, fmt.Sprintf("%s: %s", f.Name, def))
	}

	if len(params) == 0 {
		b.P("def initialize")
	} else {
		b.P("def initialize(%s)", strings.Join(params, ", "))
	}
	b.Indent()

	if msg.PresenceCount > 0 {
		b.P("@_bits = 0")
	}
	for _, o := range msg.Oneofs {
		b.P("@%s = nil", o.Name)
	}

	for _, f := range msg.Fields {
		switch {
		case f.Shape == ShapeMessage:
			b.P("@%s = nil", f.Name)
			b.P("self.%s = %s unless %s.nil?", f.Name, f.Name, f.Name)
		case f.Shape == ShapeOneofMember:
			b.P("@%s = %s", f.Name, canonicalDefault(f))
			b.P("self.%s = %s unless %s.nil?", f.Name, f.Name, f.Name)
		case f.Shape == ShapeScalar && f.HasPresence:
			b.P("@%s = %s", f.Name, canonicalDefault(f))
			b.P("self.%s = %s unless %s.nil?", f.Name, f.Name, f.Name)
		default:
			b.P("self.%s = %s", f.Name, f.Name)
		}
	}

	b.Unindent()
	b.P("end")
	b.P0()
}

// emitToH writes to_h per §6: scalar/enum/repeated/map fields contribute
// their stored value as-is, a singular submessage field recurses into its
// own to_h (nil-safe, since it may be unset), and an active oneof member
// contributes one entry keyed by its own name — omitted entirely when no
// member is set.
func emitToH(b *WriteableBuffer, msg *Message) {
	b.P("def to_h")
	b.Indent()
	b.P("h = {}")

	for _, f := range msg.Fields {
		if f.Shape == ShapeOneofMember {
			continue
		}
		if f.Shape == ShapeMessage {
			b.P("h[:%s] = @%s&.to_h", f.Name, f.Name)
		} else {
			b.P("h[:%s] = @%s", f.Name, f.Name)
		}
	}

	for _, o := range msg.Oneofs {
		for _, m := range o.Members {
			b.P("h[:%s] = %s if @%s == :%s", m.Name, toHValueExpr(m), o.Name, m.Name)
		}
	}

	b.P("h")
	b.Unindent()
	b.P("end")
	b.P0()
}

func toHValueExpr(f *Field) string {
	if f.ProtoType == descriptorpb.FieldDescriptorProto_TYPE_MESSAGE {
		return fmt.Sprintf("@%s&.to_h", f.Name)
	}
	return "@" + f.Name
}
