package generator

import (
	"strings"
	"testing"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/pluginpb"
)

// generateSource runs a single-file request end to end and returns the
// emitted Ruby source, for assertions against the literal byte sequences
// documented for each wire-format scenario.
func generateSource(t *testing.T, file *descriptorpb.FileDescriptorProto) string {
	t.Helper()
	g := New(&pluginpb.CodeGeneratorRequest{
		ProtoFile:      []*descriptorpb.FileDescriptorProto{file},
		FileToGenerate: []string{file.GetName()},
	}, "test")
	g.buildRegistry()

	out, err := g.generateFile(file)
	if err != nil {
		t.Fatalf("generateFile() error = %v", err)
	}
	return out.GetContent()
}

func mustContain(t *testing.T, src, substr, why string) {
	t.Helper()
	if !strings.Contains(src, substr) {
		t.Errorf("%s: expected generated source to contain %q, got:\n%s", why, substr, src)
	}
}

// message M { int32 a = 1; optional string b = 2; } — encoding {a:150,
// b:unset} must write field a's tag+varint (08 96 01) and must be able to
// observe has_b? == false; field b must carry a presence bit and be
// skippable on encode.
func TestScenario_OptionalScalarOmission(t *testing.T) {
	desc := &descriptorpb.DescriptorProto{
		Name: proto.String("M"),
		Field: []*descriptorpb.FieldDescriptorProto{
			{
				Name:   proto.String("a"),
				Number: proto.Int32(1),
				Type:   descriptorpb.FieldDescriptorProto_TYPE_INT32.Enum(),
				Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
			},
			{
				Name:           proto.String("b"),
				Number:         proto.Int32(2),
				Type:           descriptorpb.FieldDescriptorProto_TYPE_STRING.Enum(),
				Label:          descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
				Proto3Optional: proto.Bool(true),
				OneofIndex:     proto.Int32(0),
			},
		},
		OneofDecl: []*descriptorpb.OneofDescriptorProto{{Name: proto.String("_b")}},
	}
	file := &descriptorpb.FileDescriptorProto{
		Name:        proto.String("m.proto"),
		Syntax:      proto.String("proto3"),
		Package:     proto.String("test"),
		MessageType: []*descriptorpb.DescriptorProto{desc},
	}

	src := generateSource(t, file)

	// field a (a plain int32) writes tag 0x08 then the varint body for 150
	// (0x96 0x01) inline, guarded only by default-equality, not by a
	// presence check.
	mustContain(t, src, `buf << "\x08"`, "field a's tag byte")
	mustContain(t, src, "Protoboeuf::Wire.w_varint(buf, @a)", "field a's varint write")

	// field b carries its own presence bit, exposed through has_b?.
	mustContain(t, src, "def has_b?", "has_b? predicate")
	mustContain(t, src, "(@_bits & 0x1) != 0", "b's presence bit, the only presence-tracked field")
}

// message M { int32 a = 1; string b = 2; } with {a:0, b:"hi"} — b's tag
// (field 2, LEN = 0x12) plus its length-delimited write must appear, and a
// zero-valued required int32 must be omitted via default-equality.
func TestScenario_StringFieldEncode(t *testing.T) {
	desc := &descriptorpb.DescriptorProto{
		Name: proto.String("M"),
		Field: []*descriptorpb.FieldDescriptorProto{
			{Name: proto.String("a"), Number: proto.Int32(1), Type: descriptorpb.FieldDescriptorProto_TYPE_INT32.Enum(), Label: descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum()},
			{Name: proto.String("b"), Number: proto.Int32(2), Type: descriptorpb.FieldDescriptorProto_TYPE_STRING.Enum(), Label: descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum()},
		},
	}
	file := &descriptorpb.FileDescriptorProto{
		Name:        proto.String("m.proto"),
		Syntax:      proto.String("proto3"),
		Package:     proto.String("test"),
		MessageType: []*descriptorpb.DescriptorProto{desc},
	}

	src := generateSource(t, file)

	mustContain(t, src, "unless @a == 0", "required int32 omitted at its zero default")
	mustContain(t, src, `buf << "\x12"`, "field b's tag byte (field 2, LEN)")
	mustContain(t, src, "Protoboeuf::Wire.w_len(buf, @b.b)", "field b's length-delimited write")
}

// message S { repeated int32 xs = 1 [packed=true]; } with xs=[1,2,3]
// encodes to 0a 03 01 02 03 — tag 0x0a (field 1, LEN), the packed run
// reserved/spliced via w_submessage, each element written with w_varint.
func TestScenario_PackedRepeated(t *testing.T) {
	desc := &descriptorpb.DescriptorProto{
		Name: proto.String("S"),
		Field: []*descriptorpb.FieldDescriptorProto{
			{
				Name:   proto.String("xs"),
				Number: proto.Int32(1),
				Type:   descriptorpb.FieldDescriptorProto_TYPE_INT32.Enum(),
				Label:  descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum(),
			},
		},
	}
	file := &descriptorpb.FileDescriptorProto{
		Name:        proto.String("s.proto"),
		Syntax:      proto.String("proto3"),
		Package:     proto.String("test"),
		MessageType: []*descriptorpb.DescriptorProto{desc},
	}

	src := generateSource(t, file)

	mustContain(t, src, `buf << "\x0a"`, "xs's tag byte (field 1, LEN)")
	mustContain(t, src, "Protoboeuf::Wire.w_submessage(buf) do", "packed run uses the reserve/splice helper")
	mustContain(t, src, "@xs.each { |e| Protoboeuf::Wire.w_varint(buf, e) }", "each packed element written as a varint")

	// decode side must tolerate both packed and unpacked wire forms.
	mustContain(t, src, "if wire_type == 2", "packed-batch decode branch")
	mustContain(t, src, "batch, pos = Protoboeuf::Wire.r_len(buf, pos)", "sliced batch buffer for packed decode")
}

// Same schema as TestScenario_PackedRepeated, but with AllowEmptyPackedArrays
// set: the emitted encoder must skip the "unless empty?" guard entirely so
// an empty xs still emits the zero-length LEN record.
func TestScenario_AllowEmptyPackedArrays(t *testing.T) {
	desc := &descriptorpb.DescriptorProto{
		Name: proto.String("S"),
		Field: []*descriptorpb.FieldDescriptorProto{
			{
				Name:   proto.String("xs"),
				Number: proto.Int32(1),
				Type:   descriptorpb.FieldDescriptorProto_TYPE_INT32.Enum(),
				Label:  descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum(),
			},
		},
	}
	file := &descriptorpb.FileDescriptorProto{
		Name:        proto.String("s.proto"),
		Syntax:      proto.String("proto3"),
		Package:     proto.String("test"),
		MessageType: []*descriptorpb.DescriptorProto{desc},
	}

	g := New(&pluginpb.CodeGeneratorRequest{
		ProtoFile:      []*descriptorpb.FileDescriptorProto{file},
		FileToGenerate: []string{file.GetName()},
	}, "test")
	g.buildRegistry()
	g.config.AllowEmptyPackedArrays = true

	out, err := g.generateFile(file)
	if err != nil {
		t.Fatalf("generateFile() error = %v", err)
	}
	src := out.GetContent()

	if strings.Contains(src, "unless @xs.empty?") {
		t.Errorf("expected no empty?-guard around a packed field under AllowEmptyPackedArrays, got:\n%s", src)
	}
	mustContain(t, src, "Protoboeuf::Wire.w_submessage(buf) do", "packed run still uses the reserve/splice helper unconditionally")
}

// sint32 field 1, value -1, encodes to 08 01 — tag 0x08 (field 1, VARINT),
// zigzag(-1) == 1.
func TestScenario_Sint32Zigzag(t *testing.T) {
	desc := &descriptorpb.DescriptorProto{
		Name: proto.String("M"),
		Field: []*descriptorpb.FieldDescriptorProto{
			{Name: proto.String("a"), Number: proto.Int32(1), Type: descriptorpb.FieldDescriptorProto_TYPE_SINT32.Enum(), Label: descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum()},
		},
	}
	file := &descriptorpb.FileDescriptorProto{
		Name:        proto.String("m.proto"),
		Syntax:      proto.String("proto3"),
		Package:     proto.String("test"),
		MessageType: []*descriptorpb.DescriptorProto{desc},
	}

	src := generateSource(t, file)

	mustContain(t, src, `buf << "\x08"`, "field a's tag byte (field 1, VARINT)")
	mustContain(t, src, "Protoboeuf::Wire.w_varint(buf, Protoboeuf::Wire.zigzag(@a))", "sint32 encode applies zigzag before varint")
	mustContain(t, src, "Protoboeuf::Wire.r_zigzag(buf, pos)", "sint32 decode applies the zigzag reader")
}

// message Outer { Inner inner = 1; } where Inner has one int32 field 1 =
// 150 — Outer encodes to 0a 03 08 96 01: tag 0x0a (field 1, LEN), then
// Inner's 3-byte body spliced in via w_submessage.
func TestScenario_NestedMessage(t *testing.T) {
	inner := &descriptorpb.DescriptorProto{
		Name: proto.String("Inner"),
		Field: []*descriptorpb.FieldDescriptorProto{
			{Name: proto.String("a"), Number: proto.Int32(1), Type: descriptorpb.FieldDescriptorProto_TYPE_INT32.Enum(), Label: descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum()},
		},
	}
	outer := &descriptorpb.DescriptorProto{
		Name: proto.String("Outer"),
		Field: []*descriptorpb.FieldDescriptorProto{
			{
				Name:     proto.String("inner"),
				Number:   proto.Int32(1),
				Type:     descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum(),
				Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
				TypeName: proto.String(".test.Inner"),
			},
		},
	}
	file := &descriptorpb.FileDescriptorProto{
		Name:        proto.String("outer.proto"),
		Syntax:      proto.String("proto3"),
		Package:     proto.String("test"),
		MessageType: []*descriptorpb.DescriptorProto{outer, inner},
	}

	src := generateSource(t, file)

	mustContain(t, src, "def has_inner?", "a singular message field is presence-tracked")
	mustContain(t, src, `buf << "\x0a"`, "inner's tag byte (field 1, LEN)")
	mustContain(t, src, "Protoboeuf::Wire.w_submessage(buf) { @inner._encode(buf) }", "nested message body spliced through w_submessage, reusing the same reserve/back-patch path a 200-byte Inner would need a 2-byte length for")
	mustContain(t, src, "sublen, pos = Protoboeuf::Wire.r_varint(buf, pos)", "decode reads the submessage length before recursing")
}

// a map<string, int32> field must decode key/value by the map-entry's own
// field numbers (1 and 2) rather than hardcoding them, and must tolerate
// unrecognized entry fields via skip.
func TestScenario_MapField(t *testing.T) {
	desc := &descriptorpb.DescriptorProto{
		Name: proto.String("M"),
		Field: []*descriptorpb.FieldDescriptorProto{
			{
				Name:     proto.String("counts"),
				Number:   proto.Int32(1),
				Type:     descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum(),
				Label:    descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum(),
				TypeName: proto.String(".test.M.CountsEntry"),
			},
		},
		NestedType: []*descriptorpb.DescriptorProto{
			{
				Name:    proto.String("CountsEntry"),
				Options: &descriptorpb.MessageOptions{MapEntry: proto.Bool(true)},
				Field: []*descriptorpb.FieldDescriptorProto{
					{Name: proto.String("key"), Number: proto.Int32(1), Type: descriptorpb.FieldDescriptorProto_TYPE_STRING.Enum(), Label: descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum()},
					{Name: proto.String("value"), Number: proto.Int32(2), Type: descriptorpb.FieldDescriptorProto_TYPE_INT32.Enum(), Label: descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum()},
				},
			},
		},
	}
	file := &descriptorpb.FileDescriptorProto{
		Name:        proto.String("m.proto"),
		Syntax:      proto.String("proto3"),
		Package:     proto.String("test"),
		MessageType: []*descriptorpb.DescriptorProto{desc},
	}

	src := generateSource(t, file)

	mustContain(t, src, "entry_limit = pos + entry_len", "map entry decode bounds its inner loop to the entry's own length")
	mustContain(t, src, "when 1", "map entry decode dispatches on the key's own field number")
	mustContain(t, src, "when 2", "map entry decode dispatches on the value's own field number")
	mustContain(t, src, "pos = Protoboeuf::Wire.skip(buf, pos, entry_wire)", "unrecognized map entry fields are skipped, not fatal")
	mustContain(t, src, "@counts[mk] = mv", "decoded key/value pair stored into the map ivar")
}
