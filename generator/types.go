package generator

import "google.golang.org/protobuf/types/descriptorpb"

// bounds returns the inclusive [min, max] literal pair from §4.3's bounds
// table for integer scalar types; fixed32/sfixed32/fixed64/sfixed64 get the
// same ranges as uint32/int32/uint64/int64. ok is false for types the table doesn't
// cover (bool, float/double, string/bytes, enum — enum values are stored
// as plain int32 but the table does not list them, so no bound is
// enforced on enum mutators beyond what resolve/lookup already do).
func bounds(t descriptorpb.FieldDescriptorProto_Type) (lo, hi string, ok bool) {
	switch t {
	case descriptorpb.FieldDescriptorProto_TYPE_UINT32, descriptorpb.FieldDescriptorProto_TYPE_FIXED32:
		return "0", "4294967295", true
	case descriptorpb.FieldDescriptorProto_TYPE_INT32,
		descriptorpb.FieldDescriptorProto_TYPE_SINT32,
		descriptorpb.FieldDescriptorProto_TYPE_SFIXED32:
		return "-2147483648", "2147483647", true
	case descriptorpb.FieldDescriptorProto_TYPE_UINT64, descriptorpb.FieldDescriptorProto_TYPE_FIXED64:
		return "0", "18446744073709551615", true
	case descriptorpb.FieldDescriptorProto_TYPE_INT64,
		descriptorpb.FieldDescriptorProto_TYPE_SINT64,
		descriptorpb.FieldDescriptorProto_TYPE_SFIXED64:
		return "-9223372036854775808", "9223372036854775807", true
	default:
		return "", "", false
	}
}

// canonicalDefault returns the Ruby literal for a field's proto3 default,
// per §4.3's canonical-defaults table.
func canonicalDefault(f *Field) string {
	if f.ProtoType == descriptorpb.FieldDescriptorProto_TYPE_MESSAGE {
		return "nil" // covers both a plain message field and a message-typed oneof member
	}
	switch f.Shape {
	case ShapeRepeated:
		return "[]"
	case ShapeMap:
		return "{}"
	}
	return scalarDefault(f.ProtoType)
}

func scalarDefault(t descriptorpb.FieldDescriptorProto_Type) string {
	switch t {
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		return "false"
	case descriptorpb.FieldDescriptorProto_TYPE_STRING:
		return "''"
	case descriptorpb.FieldDescriptorProto_TYPE_BYTES:
		return "''.b"
	case descriptorpb.FieldDescriptorProto_TYPE_FLOAT, descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:
		return "0.0"
	default:
		return "0" // covers every integer scalar type and enum
	}
}
