package generator

import (
	"testing"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/pluginpb"
)

func testGenerator(t *testing.T, file *descriptorpb.FileDescriptorProto) *Generator {
	t.Helper()
	g := New(&pluginpb.CodeGeneratorRequest{
		ProtoFile:      []*descriptorpb.FileDescriptorProto{file},
		FileToGenerate: []string{file.GetName()},
	}, "test")
	g.buildRegistry()
	return g
}

func scalarField(name string, number int32, t descriptorpb.FieldDescriptorProto_Type, optional bool, oneofIndex int32) *descriptorpb.FieldDescriptorProto {
	f := &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Type:   t.Enum(),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
	}
	if optional {
		f.Proto3Optional = proto.Bool(true)
		f.OneofIndex = proto.Int32(oneofIndex)
	}
	return f
}

func TestAssignPresenceBits(t *testing.T) {
	desc := &descriptorpb.DescriptorProto{
		Name: proto.String("Sample"),
		Field: []*descriptorpb.FieldDescriptorProto{
			scalarField("required_one", 1, descriptorpb.FieldDescriptorProto_TYPE_INT32, false, 0),
			scalarField("opt_a", 2, descriptorpb.FieldDescriptorProto_TYPE_INT32, true, 0),
			scalarField("opt_b", 3, descriptorpb.FieldDescriptorProto_TYPE_STRING, true, 1),
		},
		OneofDecl: []*descriptorpb.OneofDescriptorProto{
			{Name: proto.String("_opt_a")},
			{Name: proto.String("_opt_b")},
		},
	}
	file := &descriptorpb.FileDescriptorProto{
		Name:    proto.String("sample.proto"),
		Syntax:  proto.String("proto3"),
		Package: proto.String("test"),
		MessageType: []*descriptorpb.DescriptorProto{desc},
	}

	g := testGenerator(t, file)
	msg, err := g.classifyMessage(desc, "test")
	if err != nil {
		t.Fatalf("classifyMessage() error = %v", err)
	}

	if msg.PresenceCount != 2 {
		t.Fatalf("PresenceCount = %d, want 2", msg.PresenceCount)
	}

	var gotBits []int
	for _, f := range msg.Fields {
		if f.HasPresence {
			gotBits = append(gotBits, f.BitIndex)
		}
	}
	want := []int{0, 1}
	if len(gotBits) != len(want) || gotBits[0] != want[0] || gotBits[1] != want[1] {
		t.Errorf("presence bit indices = %v, want %v", gotBits, want)
	}

	// A real, non-synthetic oneof would have shown up in msg.Oneofs; these
	// two single-member Proto3Optional groups must not have.
	if len(msg.Oneofs) != 0 {
		t.Errorf("Oneofs = %v, want none (both are synthetic optional wrappers)", msg.Oneofs)
	}
}

func TestCapacityErrorOverflowsBitmask(t *testing.T) {
	desc := &descriptorpb.DescriptorProto{Name: proto.String("TooBig")}
	for i := 0; i < maxPresenceBits+1; i++ {
		desc.Field = append(desc.Field, scalarField("f", int32(i+1), descriptorpb.FieldDescriptorProto_TYPE_INT32, true, int32(i)))
		desc.OneofDecl = append(desc.OneofDecl, &descriptorpb.OneofDescriptorProto{Name: proto.String("_f")})
	}
	// field names collide ("f" repeated); rename them uniquely since proto
	// requires distinct field names within a message.
	for i, f := range desc.Field {
		f.Name = proto.String(fieldNameFor(i))
	}

	file := &descriptorpb.FileDescriptorProto{
		Name:        proto.String("toobig.proto"),
		Syntax:      proto.String("proto3"),
		Package:     proto.String("test"),
		MessageType: []*descriptorpb.DescriptorProto{desc},
	}

	g := testGenerator(t, file)
	_, err := g.classifyMessage(desc, "test")
	if err == nil {
		t.Fatal("classifyMessage() error = nil, want CapacityError")
	}
	if _, ok := err.(*CapacityError); !ok {
		t.Errorf("classifyMessage() error type = %T, want *CapacityError", err)
	}
}

func fieldNameFor(i int) string {
	return "f" + string(rune('a'+i%26)) + string(rune('0'+i/26))
}

func TestFieldOrderErrorOnNonMonotonicNumbers(t *testing.T) {
	desc := &descriptorpb.DescriptorProto{
		Name: proto.String("Sample"),
		Field: []*descriptorpb.FieldDescriptorProto{
			scalarField("a", 2, descriptorpb.FieldDescriptorProto_TYPE_INT32, false, 0),
			scalarField("b", 1, descriptorpb.FieldDescriptorProto_TYPE_INT32, false, 0),
		},
	}
	file := &descriptorpb.FileDescriptorProto{
		Name:        proto.String("sample.proto"),
		Syntax:      proto.String("proto3"),
		Package:     proto.String("test"),
		MessageType: []*descriptorpb.DescriptorProto{desc},
	}

	// Out-of-order field numbers are valid proto3 (protoc itself permits
	// them), so the default configuration must accept this descriptor.
	g := testGenerator(t, file)
	if _, err := g.classifyMessage(desc, "test"); err != nil {
		t.Fatalf("classifyMessage() with default config error = %v, want nil", err)
	}

	// The strict monotonic-order sanity check is opt-in.
	g.config.AllowNonMonotonicFields = false
	_, err := g.classifyMessage(desc, "test")
	if _, ok := err.(*FieldOrderError); !ok {
		t.Fatalf("classifyMessage() with AllowNonMonotonicFields=false error = %v (%T), want *FieldOrderError", err, err)
	}
}

func TestFieldNumberErrorOutOfRange(t *testing.T) {
	desc := &descriptorpb.DescriptorProto{
		Name: proto.String("Sample"),
		Field: []*descriptorpb.FieldDescriptorProto{
			scalarField("a", 0, descriptorpb.FieldDescriptorProto_TYPE_INT32, false, 0),
		},
	}
	file := &descriptorpb.FileDescriptorProto{
		Name:        proto.String("sample.proto"),
		Syntax:      proto.String("proto3"),
		Package:     proto.String("test"),
		MessageType: []*descriptorpb.DescriptorProto{desc},
	}

	g := testGenerator(t, file)
	_, err := g.classifyMessage(desc, "test")
	if _, ok := err.(*FieldNumberError); !ok {
		t.Fatalf("classifyMessage() error = %v (%T), want *FieldNumberError", err, err)
	}

	g.config.StrictFieldNumbers = false
	if _, err := g.classifyMessage(desc, "test"); err != nil {
		t.Errorf("classifyMessage() with StrictFieldNumbers=false error = %v, want nil", err)
	}
}

func TestEnumValueErrorOnNonZeroFirstValue(t *testing.T) {
	enumDesc := &descriptorpb.EnumDescriptorProto{
		Name: proto.String("Status"),
		Value: []*descriptorpb.EnumValueDescriptorProto{
			{Name: proto.String("ACTIVE"), Number: proto.Int32(1)},
		},
	}
	file := &descriptorpb.FileDescriptorProto{
		Name:     proto.String("sample.proto"),
		Syntax:   proto.String("proto3"),
		Package:  proto.String("test"),
		EnumType: []*descriptorpb.EnumDescriptorProto{enumDesc},
	}

	g := testGenerator(t, file)
	if _, err := g.buildEnumChecked(enumDesc); err == nil {
		t.Fatal("buildEnumChecked() error = nil, want *EnumValueError")
	} else if _, ok := err.(*EnumValueError); !ok {
		t.Errorf("buildEnumChecked() error type = %T, want *EnumValueError", err)
	}

	g.config.StrictEnumValidation = false
	if _, err := g.buildEnumChecked(enumDesc); err != nil {
		t.Errorf("buildEnumChecked() with StrictEnumValidation=false error = %v, want nil", err)
	}
}

func TestIsSyntheticOneof(t *testing.T) {
	tests := []struct {
		desc string
		msg  *descriptorpb.DescriptorProto
		idx  int32
		want bool
	}{
		{
			desc: "single proto3-optional member is synthetic",
			msg: &descriptorpb.DescriptorProto{Field: []*descriptorpb.FieldDescriptorProto{
				scalarField("a", 1, descriptorpb.FieldDescriptorProto_TYPE_INT32, true, 0),
			}},
			idx:  0,
			want: true,
		},
		{
			desc: "two members is a real oneof",
			msg: &descriptorpb.DescriptorProto{Field: []*descriptorpb.FieldDescriptorProto{
				{Name: proto.String("a"), OneofIndex: proto.Int32(0)},
				{Name: proto.String("b"), OneofIndex: proto.Int32(0)},
			}},
			idx:  0,
			want: false,
		},
		{
			desc: "single member without proto3_optional is a real (degenerate) oneof",
			msg: &descriptorpb.DescriptorProto{Field: []*descriptorpb.FieldDescriptorProto{
				{Name: proto.String("a"), OneofIndex: proto.Int32(0)},
			}},
			idx:  0,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got := isSyntheticOneof(tt.msg, tt.idx)
			if got != tt.want {
				t.Errorf("isSyntheticOneof() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRepeatedPackedDefaults(t *testing.T) {
	tests := []struct {
		desc       string
		fieldType  descriptorpb.FieldDescriptorProto_Type
		packedOpt  *bool
		wantPacked bool
	}{
		{desc: "int32 defaults packed", fieldType: descriptorpb.FieldDescriptorProto_TYPE_INT32, wantPacked: true},
		{desc: "int32 explicit packed=false", fieldType: descriptorpb.FieldDescriptorProto_TYPE_INT32, packedOpt: proto.Bool(false), wantPacked: false},
		{desc: "string is never packable", fieldType: descriptorpb.FieldDescriptorProto_TYPE_STRING, wantPacked: false},
		{desc: "message is never packable", fieldType: descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, wantPacked: false},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			field := &descriptorpb.FieldDescriptorProto{
				Name:   proto.String("xs"),
				Number: proto.Int32(1),
				Type:   tt.fieldType.Enum(),
				Label:  descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum(),
			}
			if tt.fieldType == descriptorpb.FieldDescriptorProto_TYPE_MESSAGE {
				field.TypeName = proto.String(".test.Nested")
			}
			if tt.packedOpt != nil {
				field.Options = &descriptorpb.FieldOptions{Packed: tt.packedOpt}
			}

			desc := &descriptorpb.DescriptorProto{
				Name:  proto.String("Holder"),
				Field: []*descriptorpb.FieldDescriptorProto{field},
			}

			file := &descriptorpb.FileDescriptorProto{
				Name:        proto.String("holder.proto"),
				Syntax:      proto.String("proto3"),
				Package:     proto.String("test"),
				MessageType: []*descriptorpb.DescriptorProto{desc},
			}
			if tt.fieldType == descriptorpb.FieldDescriptorProto_TYPE_MESSAGE {
				file.MessageType = append(file.MessageType, &descriptorpb.DescriptorProto{Name: proto.String("Nested")})
			}

			g := testGenerator(t, file)
			msg, err := g.classifyMessage(desc, "test")
			if err != nil {
				t.Fatalf("classifyMessage() error = %v", err)
			}
			if msg.Fields[0].Packed != tt.wantPacked {
				t.Errorf("Packed = %v, want %v", msg.Fields[0].Packed, tt.wantPacked)
			}
		})
	}
}
