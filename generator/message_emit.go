package generator

import "google.golang.org/protobuf/types/descriptorpb"

// emitMessage writes one message class in the order §4.3 lays out: the
// static decode/encode entry points, nested enums and messages, then the
// per-instance surface (accessors, mutators, constructor, presence
// predicates, to_h) and finally the two wire-format methods everything
// else in the class is built to serve.
func (g *Generator) emitMessage(b *WriteableBuffer, m *Message) {
	b.P("class %s", m.Name)
	b.Indent()

	emitDecodeStatic(b)
	emitEncodeStatic(b)

	for _, e := range m.NestedEnums {
		emitEnum(b, e)
	}
	for _, nm := range m.NestedMessages {
		g.emitMessage(b, nm)
	}

	for _, f := range m.Fields {
		emitAccessor(b, f)
	}
	for _, o := range m.Oneofs {
		emitDiscriminatorAccessor(b, o)
	}

	for _, f := range m.Fields {
		emitMutator(b, f)
	}

	emitConstructor(b, m)

	for _, f := range m.Fields {
		if f.HasPresence {
			emitPresencePredicate(b, f)
		}
	}

	emitToH(b, m)

	emitEncodeInstance(b, m, g.config.AllowEmptyPackedArrays)
	emitDecodeFrom(b, m)

	b.Unindent()
	b.P("end")
	b.P0()
}

func emitDecodeStatic(b *WriteableBuffer) {
	b.P("def self.decode(bytes)")
	b.Indent()
	b.P("instance = allocate")
	b.P("instance.decode_from(bytes, 0, bytes.bytesize)")
	b.P("instance")
	b.Unindent()
	b.P("end")
	b.P0()
}

func emitEncodeStatic(b *WriteableBuffer) {
	b.P("def self.encode(instance)")
	b.Indent()
	b.P("buf = String.new(encoding: Encoding::ASCII_8BIT)")
	b.P("instance._encode(buf)")
	b.P("buf")
	b.Unindent()
	b.P("end")
	b.P0()
}

// emitEncodeInstance writes _encode(buf), which appends this instance's
// wire-format bytes to the caller-supplied buffer. Every field omits
// itself under the proto3 default-omission rule: message fields omit on an
// unset presence bit, scalars (explicit optional ones included) omit on an
// equal-to-default value, repeated and map fields omit when empty; oneof
// members omit unless their discriminator names them.
func emitEncodeInstance(b *WriteableBuffer, m *Message, allowEmptyPacked bool) {
	b.P("def _encode(buf)")
	b.Indent()
	for _, f := range m.Fields {
		emitFieldEncode(b, f, allowEmptyPacked)
	}
	b.Unindent()
	b.P("end")
	b.P0()
}

func emitFieldEncode(b *WriteableBuffer, f *Field, allowEmptyPacked bool) {
	switch f.Shape {
	case ShapeMessage:
		b.P("if has_%s?", f.Name)
		b.Indent()
		emitSubmessageEncode(b, "@"+f.Name, tagBytes(f.Number, WireLen))
		b.Unindent()
		b.P("end")

	case ShapeRepeated:
		// An empty packed field is normally omitted under plain
		// default-omission (§4.4); allowEmptyPacked opts into a generator
		// that instead always emits the zero-length LEN record, which some
		// consumers use to distinguish "field present but empty" from
		// "field never touched" at the wire level.
		if f.Packed && allowEmptyPacked {
			emitRepeatedEncode(b, f)
		} else {
			b.P("unless @%s.empty?", f.Name)
			b.Indent()
			emitRepeatedEncode(b, f)
			b.Unindent()
			b.P("end")
		}

	case ShapeMap:
		b.P("unless @%s.empty?", f.Name)
		b.Indent()
		emitMapEncode(b, f)
		b.Unindent()
		b.P("end")

	case ShapeOneofMember:
		b.P("if @%s == :%s", f.OneofName, f.Name)
		b.Indent()
		emitScalarOrSubmessageEncode(b, "@"+f.Name, f)
		b.Unindent()
		b.P("end")

	default: // ShapeScalar
		b.P("unless %s", defaultEqualityCheck(f))
		b.Indent()
		b.P("buf << %s", rubyByteLiteral(tagBytes(f.Number, f.WireType)))
		emitScalarWrite(b, "@"+f.Name, f.ProtoType)
		b.Unindent()
		b.P("end")
	}
}

func emitScalarOrSubmessageEncode(b *WriteableBuffer, valueExpr string, f *Field) {
	if f.ProtoType == descriptorpb.FieldDescriptorProto_TYPE_MESSAGE {
		emitSubmessageEncode(b, valueExpr, tagBytes(f.Number, WireLen))
		return
	}
	b.P("buf << %s", rubyByteLiteral(tagBytes(f.Number, f.WireType)))
	emitScalarWrite(b, valueExpr, f.ProtoType)
}

func emitRepeatedEncode(b *WriteableBuffer, f *Field) {
	if f.Packed {
		b.P("buf << %s", rubyByteLiteral(tagBytes(f.Number, WireLen)))
		b.P("Protoboeuf::Wire.w_submessage(buf) do")
		b.Indent()
		b.P("@%s.each { |e| %s }", f.Name, scalarWriteInline(f.ProtoType))
		b.Unindent()
		b.P("end")
		return
	}

	b.P("@%s.each do |e|", f.Name)
	b.Indent()
	if f.ProtoType == descriptorpb.FieldDescriptorProto_TYPE_MESSAGE {
		emitSubmessageEncode(b, "e", tagBytes(f.Number, WireLen))
	} else {
		b.P("buf << %s", rubyByteLiteral(tagBytes(f.Number, f.ElemWireType)))
		emitScalarWrite(b, "e", f.ProtoType)
	}
	b.Unindent()
	b.P("end")
}

// scalarWriteInline renders a single-statement Wire call suitable for use
// inside a `.each { ... }` block, used only by the packed-repeated path
// where the element loop body is one call wide.
func scalarWriteInline(t descriptorpb.FieldDescriptorProto_Type) string {
	tmp := NewWriteableBuffer()
	emitScalarWrite(tmp, "e", t)
	s := tmp.String()
	return s[:len(s)-1] // drop the trailing newline P() added
}

func emitMapEncode(b *WriteableBuffer, f *Field) {
	b.P("@%s.each do |k, v|", f.Name)
	b.Indent()
	b.P("buf << %s", rubyByteLiteral(tagBytes(f.Number, WireLen)))
	b.P("Protoboeuf::Wire.w_submessage(buf) do")
	b.Indent()
	b.P("buf << %s", rubyByteLiteral(tagBytes(f.MapKey.Number, f.MapKey.WireType)))
	emitScalarWrite(b, "k", f.MapKey.ProtoType)
	if f.MapValue.ProtoType == descriptorpb.FieldDescriptorProto_TYPE_MESSAGE {
		emitSubmessageEncode(b, "v", tagBytes(f.MapValue.Number, WireLen))
	} else {
		b.P("buf << %s", rubyByteLiteral(tagBytes(f.MapValue.Number, f.MapValue.WireType)))
		emitScalarWrite(b, "v", f.MapValue.ProtoType)
	}
	b.Unindent()
	b.P("end")
	b.Unindent()
	b.P("end")
}

func defaultEqualityCheck(f *Field) string {
	switch f.ProtoType {
	case descriptorpb.FieldDescriptorProto_TYPE_STRING, descriptorpb.FieldDescriptorProto_TYPE_BYTES:
		return "@" + f.Name + ".empty?"
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		return "@" + f.Name + " == false"
	case descriptorpb.FieldDescriptorProto_TYPE_FLOAT, descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:
		return "@" + f.Name + " == 0.0"
	default:
		return "@" + f.Name + " == 0"
	}
}

// emitDecodeFrom writes decode_from(buf, pos, limit), the one-pass
// tag-reading loop every message decodes through. Every ivar is seeded to
// its canonical default up front since decode_from runs against an
// allocate-d instance that never went through initialize.
func emitDecodeFrom(b *WriteableBuffer, m *Message) {
	b.P("def decode_from(buf, pos, limit)")
	b.Indent()

	if m.PresenceCount > 0 {
		b.P("@_bits = 0")
	}
	for _, o := range m.Oneofs {
		b.P("@%s = nil", o.Name)
	}
	for _, f := range m.Fields {
		b.P("@%s = %s", f.Name, canonicalDefault(f))
	}

	b.P("while pos < limit")
	b.Indent()
	b.P("tag, pos = Protoboeuf::Wire.r_varint(buf, pos)")
	b.P("field_number = tag >> 3")
	b.P("wire_type = tag & 0x7")
	b.P("case field_number")
	for _, f := range m.Fields {
		b.P("when %d", f.Number)
		b.Indent()
		emitFieldDecode(b, f)
		b.Unindent()
	}
	b.P("else")
	b.Indent()
	b.P("pos = Protoboeuf::Wire.skip(buf, pos, wire_type)")
	b.Unindent()
	b.P("end")
	b.Unindent()
	b.P("end")

	b.Unindent()
	b.P("end")
	b.P0()
}

func emitFieldDecode(b *WriteableBuffer, f *Field) {
	switch f.Shape {
	case ShapeMessage:
		emitSubmessageDecode(b, "@"+f.Name, f.MessageConst)
		b.P("@_bits |= %s", presenceMask(f))

	case ShapeRepeated:
		emitRepeatedDecode(b, f)

	case ShapeMap:
		emitMapDecode(b, f)

	case ShapeOneofMember:
		if f.ProtoType == descriptorpb.FieldDescriptorProto_TYPE_MESSAGE {
			emitSubmessageDecode(b, "@"+f.Name, f.MessageConst)
		} else {
			emitScalarRead(b, "@"+f.Name, f.ProtoType, "buf", "pos")
		}
		b.P("@%s = :%s", f.OneofName, f.Name)

	default: // ShapeScalar
		emitScalarRead(b, "@"+f.Name, f.ProtoType, "buf", "pos")
		if f.HasPresence {
			b.P("@_bits |= %s", presenceMask(f))
		}
	}
}

func emitRepeatedDecode(b *WriteableBuffer, f *Field) {
	if f.ProtoType == descriptorpb.FieldDescriptorProto_TYPE_MESSAGE {
		b.P("elem = nil")
		emitSubmessageDecode(b, "elem", f.MessageConst)
		b.P("@%s << elem", f.Name)
		return
	}

	if !isPackable(f.ProtoType) {
		// strings and bytes are never packed; one occurrence, one value.
		emitScalarRead(b, "elem", f.ProtoType, "buf", "pos")
		b.P("@%s << elem", f.Name)
		return
	}

	b.P("if wire_type == 2")
	b.Indent()
	b.P("batch, pos = Protoboeuf::Wire.r_len(buf, pos)")
	b.P("bpos = 0")
	b.P("while bpos < batch.bytesize")
	b.Indent()
	emitScalarRead(b, "elem", f.ProtoType, "batch", "bpos")
	b.P("@%s << elem", f.Name)
	b.Unindent()
	b.P("end")
	b.Unindent()
	b.P("else")
	b.Indent()
	emitScalarRead(b, "elem", f.ProtoType, "buf", "pos")
	b.P("@%s << elem", f.Name)
	b.Unindent()
	b.P("end")
}

func emitMapDecode(b *WriteableBuffer, f *Field) {
	b.P("entry_len, pos = Protoboeuf::Wire.r_varint(buf, pos)")
	b.P("entry_limit = pos + entry_len")
	b.P("mk = %s", canonicalDefault(f.MapKey))
	b.P("mv = %s", canonicalDefault(f.MapValue))
	b.P("while pos < entry_limit")
	b.Indent()
	b.P("entry_tag, pos = Protoboeuf::Wire.r_varint(buf, pos)")
	b.P("entry_field = entry_tag >> 3")
	b.P("entry_wire = entry_tag & 0x7")
	b.P("case entry_field")
	b.P("when %d", f.MapKey.Number)
	b.Indent()
	emitScalarRead(b, "mk", f.MapKey.ProtoType, "buf", "pos")
	b.Unindent()
	b.P("when %d", f.MapValue.Number)
	b.Indent()
	if f.MapValue.ProtoType == descriptorpb.FieldDescriptorProto_TYPE_MESSAGE {
		emitSubmessageDecode(b, "mv", f.MapValue.MessageConst)
	} else {
		emitScalarRead(b, "mv", f.MapValue.ProtoType, "buf", "pos")
	}
	b.Unindent()
	b.P("else")
	b.Indent()
	b.P("pos = Protoboeuf::Wire.skip(buf, pos, entry_wire)")
	b.Unindent()
	b.P("end")
	b.Unindent()
	b.P("end")
	b.P("@%s[mk] = mv", f.Name)
}
