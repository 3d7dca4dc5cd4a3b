package generator

import "google.golang.org/protobuf/types/descriptorpb"

// emitScalarWrite writes one Wire call that serializes valueExpr according
// to f's proto type, appending to the local `buf`.
func emitScalarWrite(b *WriteableBuffer, valueExpr string, t descriptorpb.FieldDescriptorProto_Type) {
	switch t {
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		b.P("Protoboeuf::Wire.w_varint(buf, %s ? 1 : 0)", valueExpr)
	case descriptorpb.FieldDescriptorProto_TYPE_INT32,
		descriptorpb.FieldDescriptorProto_TYPE_INT64,
		descriptorpb.FieldDescriptorProto_TYPE_UINT32,
		descriptorpb.FieldDescriptorProto_TYPE_UINT64,
		descriptorpb.FieldDescriptorProto_TYPE_ENUM:
		b.P("Protoboeuf::Wire.w_varint(buf, %s)", valueExpr)
	case descriptorpb.FieldDescriptorProto_TYPE_SINT32, descriptorpb.FieldDescriptorProto_TYPE_SINT64:
		b.P("Protoboeuf::Wire.w_varint(buf, Protoboeuf::Wire.zigzag(%s))", valueExpr)
	case descriptorpb.FieldDescriptorProto_TYPE_FIXED32:
		b.P("Protoboeuf::Wire.w_ufixed32(buf, %s)", valueExpr)
	case descriptorpb.FieldDescriptorProto_TYPE_SFIXED32:
		b.P("Protoboeuf::Wire.w_fixed32(buf, %s)", valueExpr)
	case descriptorpb.FieldDescriptorProto_TYPE_FLOAT:
		b.P("Protoboeuf::Wire.w_float(buf, %s)", valueExpr)
	case descriptorpb.FieldDescriptorProto_TYPE_FIXED64:
		b.P("Protoboeuf::Wire.w_ufixed64(buf, %s)", valueExpr)
	case descriptorpb.FieldDescriptorProto_TYPE_SFIXED64:
		b.P("Protoboeuf::Wire.w_fixed64(buf, %s)", valueExpr)
	case descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:
		b.P("Protoboeuf::Wire.w_double(buf, %s)", valueExpr)
	case descriptorpb.FieldDescriptorProto_TYPE_STRING, descriptorpb.FieldDescriptorProto_TYPE_BYTES:
		b.P("Protoboeuf::Wire.w_len(buf, %s.b)", valueExpr)
	}
}

// emitScalarRead writes the statement(s) that decode one value of type t
// out of bufVar at posVar, assigning the value to target and reassigning
// posVar. bufVar/posVar are almost always "buf"/"pos" (the message's own
// cursor); a packed-repeated run passes the name of the sliced-out batch
// and a cursor local to it instead, since the run is addressed relative
// to its own start, not the message's.
func emitScalarRead(b *WriteableBuffer, target string, t descriptorpb.FieldDescriptorProto_Type, bufVar, posVar string) {
	switch t {
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		b.P("raw, %s = Protoboeuf::Wire.r_varint(%s, %s)", posVar, bufVar, posVar)
		b.P("%s = raw != 0", target)
	case descriptorpb.FieldDescriptorProto_TYPE_INT32:
		b.P("%s, %s = Protoboeuf::Wire.r_varint_i32(%s, %s)", target, posVar, bufVar, posVar)
	case descriptorpb.FieldDescriptorProto_TYPE_UINT32:
		b.P("%s, %s = Protoboeuf::Wire.r_varint_u32(%s, %s)", target, posVar, bufVar, posVar)
	case descriptorpb.FieldDescriptorProto_TYPE_INT64:
		b.P("%s, %s = Protoboeuf::Wire.r_varint_i64(%s, %s)", target, posVar, bufVar, posVar)
	case descriptorpb.FieldDescriptorProto_TYPE_UINT64:
		b.P("%s, %s = Protoboeuf::Wire.r_varint(%s, %s)", target, posVar, bufVar, posVar)
	case descriptorpb.FieldDescriptorProto_TYPE_SINT32, descriptorpb.FieldDescriptorProto_TYPE_SINT64:
		b.P("%s, %s = Protoboeuf::Wire.r_zigzag(%s, %s)", target, posVar, bufVar, posVar)
	case descriptorpb.FieldDescriptorProto_TYPE_FIXED32:
		b.P("%s, %s = Protoboeuf::Wire.r_ufixed32(%s, %s)", target, posVar, bufVar, posVar)
	case descriptorpb.FieldDescriptorProto_TYPE_SFIXED32:
		b.P("%s, %s = Protoboeuf::Wire.r_fixed32(%s, %s)", target, posVar, bufVar, posVar)
	case descriptorpb.FieldDescriptorProto_TYPE_FLOAT:
		b.P("%s, %s = Protoboeuf::Wire.r_float(%s, %s)", target, posVar, bufVar, posVar)
	case descriptorpb.FieldDescriptorProto_TYPE_FIXED64:
		b.P("%s, %s = Protoboeuf::Wire.r_ufixed64(%s, %s)", target, posVar, bufVar, posVar)
	case descriptorpb.FieldDescriptorProto_TYPE_SFIXED64:
		b.P("%s, %s = Protoboeuf::Wire.r_fixed64(%s, %s)", target, posVar, bufVar, posVar)
	case descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:
		b.P("%s, %s = Protoboeuf::Wire.r_double(%s, %s)", target, posVar, bufVar, posVar)
	case descriptorpb.FieldDescriptorProto_TYPE_STRING:
		b.P("raw, %s = Protoboeuf::Wire.r_len(%s, %s)", posVar, bufVar, posVar)
		b.P("%s = raw.dup.force_encoding(Encoding::UTF_8)", target)
	case descriptorpb.FieldDescriptorProto_TYPE_BYTES:
		b.P("%s, %s = Protoboeuf::Wire.r_len(%s, %s)", target, posVar, bufVar, posVar)
	case descriptorpb.FieldDescriptorProto_TYPE_ENUM:
		b.P("%s, %s = Protoboeuf::Wire.r_varint_i32(%s, %s)", target, posVar, bufVar, posVar)
	}
}

// emitSubmessageDecode writes the statements that allocate and decode a
// message-typed value of constant rubyClass from `buf` at `pos` into
// target, advancing pos past it.
func emitSubmessageDecode(b *WriteableBuffer, target, rubyClass string) {
	b.P("sublen, pos = Protoboeuf::Wire.r_varint(buf, pos)")
	b.P("%s = %s.allocate", target, rubyClass)
	b.P("%s.decode_from(buf, pos, pos + sublen)", target)
	b.P("pos += sublen")
}

// emitSubmessageEncode writes the tag plus length-delimited body for a
// message-typed valueExpr.
func emitSubmessageEncode(b *WriteableBuffer, valueExpr string, tag []byte) {
	b.P("buf << %s", rubyByteLiteral(tag))
	b.P("Protoboeuf::Wire.w_submessage(buf) { %s._encode(buf) }", valueExpr)
}
