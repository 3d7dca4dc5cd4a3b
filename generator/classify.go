package generator

import (
	"strings"

	"google.golang.org/protobuf/types/descriptorpb"
)

// WireType is the 3-bit tag suffix proto3 uses to say how to parse a
// field's payload.
type WireType int

const (
	WireVarint WireType = 0
	WireI64    WireType = 1
	WireLen    WireType = 2
	WireI32    WireType = 5
)

// FieldShape distinguishes the handful of ways a classified field needs to
// be emitted; it is finer-grained than the raw descriptor label.
type FieldShape int

const (
	ShapeScalar      FieldShape = iota // required or explicit-optional, non-repeated, non-message
	ShapeMessage                       // singular message-typed field (implicit proto3 presence)
	ShapeRepeated                      // repeated scalar, enum, or message
	ShapeMap                           // repeated synthetic map-entry field
	ShapeOneofMember                   // a true (non-synthetic) oneof member
)

// Field is a descriptor field canonicalized for emission.
type Field struct {
	Desc         *descriptorpb.FieldDescriptorProto
	Name         string // sanitized Ruby identifier
	Number       int32
	ProtoType    descriptorpb.FieldDescriptorProto_Type
	Shape        FieldShape
	Packed       bool
	HasPresence  bool
	BitIndex     int
	IsEnum       bool
	EnumConst    string // resolved Ruby constant path, set when IsEnum
	MessageConst string // resolved Ruby constant path, set when ProtoType is TYPE_MESSAGE
	WireType     WireType
	ElemWireType WireType // for ShapeRepeated: wire type of one element
	OneofName    string   // for ShapeOneofMember
	MapKey       *Field   // for ShapeMap
	MapValue     *Field   // for ShapeMap
	WellKnown    *WellKnownType
}

// Oneof groups the true (non-synthetic) members sharing one discriminator.
type Oneof struct {
	Name        string // sanitized Ruby identifier for the discriminator ivar
	Members     []*Field
}

// Message is a descriptor message canonicalized for emission.
type Message struct {
	Desc           *descriptorpb.DescriptorProto
	Name           string
	Fields         []*Field // descriptor order; includes ShapeOneofMember entries
	Oneofs         []*Oneof
	NestedEnums    []*Enum
	NestedMessages []*Message
	PresenceCount  int
}

// Enum is a descriptor enum canonicalized for emission.
type Enum struct {
	Desc      *descriptorpb.EnumDescriptorProto
	Name      string
	Constants []EnumConstant
}

// EnumConstant is one named integer value of an Enum.
type EnumConstant struct {
	Name   string
	Number int32
}

func wireTypeForScalar(t descriptorpb.FieldDescriptorProto_Type) (WireType, bool) {
	switch t {
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL,
		descriptorpb.FieldDescriptorProto_TYPE_INT32,
		descriptorpb.FieldDescriptorProto_TYPE_INT64,
		descriptorpb.FieldDescriptorProto_TYPE_UINT32,
		descriptorpb.FieldDescriptorProto_TYPE_UINT64,
		descriptorpb.FieldDescriptorProto_TYPE_SINT32,
		descriptorpb.FieldDescriptorProto_TYPE_SINT64,
		descriptorpb.FieldDescriptorProto_TYPE_ENUM:
		return WireVarint, true
	case descriptorpb.FieldDescriptorProto_TYPE_FIXED64,
		descriptorpb.FieldDescriptorProto_TYPE_SFIXED64,
		descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:
		return WireI64, true
	case descriptorpb.FieldDescriptorProto_TYPE_FIXED32,
		descriptorpb.FieldDescriptorProto_TYPE_SFIXED32,
		descriptorpb.FieldDescriptorProto_TYPE_FLOAT:
		return WireI32, true
	case descriptorpb.FieldDescriptorProto_TYPE_STRING,
		descriptorpb.FieldDescriptorProto_TYPE_BYTES,
		descriptorpb.FieldDescriptorProto_TYPE_MESSAGE:
		return WireLen, true
	default:
		return 0, false
	}
}

// isPackable reports whether a scalar type may participate in packed
// repeated encoding (proto3 default-packs these unless packed=false).
func isPackable(t descriptorpb.FieldDescriptorProto_Type) bool {
	wt, ok := wireTypeForScalar(t)
	if !ok {
		return false
	}
	return wt != WireLen
}

func typeName(d string) string {
	return strings.TrimPrefix(d, ".")
}

func simpleName(fqn string) string {
	parts := strings.Split(fqn, ".")
	return parts[len(parts)-1]
}

// findMapEntry returns the nested map-entry descriptor a repeated message
// field refers to, if any.
func findMapEntry(field *descriptorpb.FieldDescriptorProto, parent *descriptorpb.DescriptorProto) *descriptorpb.DescriptorProto {
	if field.GetLabel() != descriptorpb.FieldDescriptorProto_LABEL_REPEATED ||
		field.GetType() != descriptorpb.FieldDescriptorProto_TYPE_MESSAGE {
		return nil
	}
	want := simpleName(typeName(field.GetTypeName()))
	for _, nested := range parent.GetNestedType() {
		if nested.GetName() == want && nested.GetOptions().GetMapEntry() {
			return nested
		}
	}
	return nil
}

// isSyntheticOneof reports whether a OneofDescriptorProto exists only to
// carry a single proto3 `optional` field's presence tracking, rather than
// being a user-declared oneof group. protoc itself synthesizes these: a
// lone member with Proto3Optional set and no siblings.
func isSyntheticOneof(msg *descriptorpb.DescriptorProto, oneofIndex int32) bool {
	memberCount := 0
	allOptional := true
	for _, f := range msg.GetField() {
		if f.OneofIndex == nil || f.GetOneofIndex() != oneofIndex {
			continue
		}
		memberCount++
		if !f.GetProto3Optional() {
			allOptional = false
		}
	}
	return memberCount == 1 && allOptional
}
