package generator

import (
	"google.golang.org/protobuf/types/descriptorpb"
)

func buildEnum(desc *descriptorpb.EnumDescriptorProto) *Enum {
	e := &Enum{Desc: desc, Name: rubyConstName(desc.GetName())}
	for _, v := range desc.GetValue() {
		e.Constants = append(e.Constants, EnumConstant{Name: v.GetName(), Number: v.GetNumber()})
	}
	return e
}

// buildEnumChecked wraps buildEnum with the proto3-first-value-is-zero
// check, applied only when the generator's configuration opts into it.
func (g *Generator) buildEnumChecked(desc *descriptorpb.EnumDescriptorProto) (*Enum, error) {
	e := buildEnum(desc)
	if g.config.StrictEnumValidation && len(e.Constants) > 0 && e.Constants[0].Number != 0 {
		return nil, &EnumValueError{Enum: e.Name}
	}
	return e, nil
}

// classifyMessage canonicalizes one descriptor message, recursing into
// nested messages and enums. protoPrefix is the fully qualified proto name
// of the enclosing scope; extended by this message's name, it is passed to
// nested messages. Field type references are resolved through the registry
// by their own fully qualified names, not through protoPrefix.
func (g *Generator) classifyMessage(desc *descriptorpb.DescriptorProto, protoPrefix string) (*Message, error) {
	fullProto := joinProto(protoPrefix, desc.GetName())

	msg := &Message{
		Desc: desc,
		Name: rubyConstName(desc.GetName()),
	}

	oneofDecls := desc.GetOneofDecl()
	realOneofs := make(map[int32]*Oneof)

	var prevNumber int32
	for _, field := range desc.GetField() {
		cf, err := g.classifyField(field, desc, oneofDecls, realOneofs)
		if err != nil {
			return nil, err
		}
		if g.config.StrictFieldNumbers && (cf.Number < 1 || cf.Number > maxFieldNumber) {
			return nil, &FieldNumberError{Message: msg.Name, Field: cf.Name, Number: cf.Number}
		}
		if !g.config.AllowNonMonotonicFields && cf.Number <= prevNumber {
			return nil, &FieldOrderError{Message: msg.Name, Field: cf.Name, Number: cf.Number, Prev: prevNumber}
		}
		prevNumber = cf.Number
		msg.Fields = append(msg.Fields, cf)
		if cf.Shape == ShapeOneofMember {
			realOneofs[field.GetOneofIndex()].Members = append(realOneofs[field.GetOneofIndex()].Members, cf)
		}
	}

	// Preserve oneof_decl order for the emitted discriminator groups.
	for idx := range oneofDecls {
		if o, ok := realOneofs[int32(idx)]; ok {
			msg.Oneofs = append(msg.Oneofs, o)
		}
	}

	if err := assignPresenceBits(msg); err != nil {
		return nil, err
	}

	for _, nestedEnum := range desc.GetEnumType() {
		e, err := g.buildEnumChecked(nestedEnum)
		if err != nil {
			return nil, err
		}
		msg.NestedEnums = append(msg.NestedEnums, e)
	}
	for _, nested := range desc.GetNestedType() {
		if nested.GetOptions().GetMapEntry() {
			continue // synthetic; only reachable through its owning map field
		}
		nm, err := g.classifyMessage(nested, fullProto)
		if err != nil {
			return nil, err
		}
		msg.NestedMessages = append(msg.NestedMessages, nm)
	}

	return msg, nil
}

// classifyField canonicalizes one field. The owning Oneof struct (if any)
// is created here on first sight of one of its members, keyed by oneof
// index in realOneofs, and the caller appends the field to it.
func (g *Generator) classifyField(field *descriptorpb.FieldDescriptorProto, parent *descriptorpb.DescriptorProto, oneofDecls []*descriptorpb.OneofDescriptorProto, realOneofs map[int32]*Oneof) (*Field, error) {
	cf := &Field{
		Desc:      field,
		Name:      g.rubyFieldName(field.GetName()),
		Number:    field.GetNumber(),
		ProtoType: field.GetType(),
	}

	mapEntry := findMapEntry(field, parent)

	switch {
	case field.OneofIndex != nil && !isSyntheticOneof(parent, field.GetOneofIndex()):
		idx := field.GetOneofIndex()
		decl := oneofDecls[idx]
		if _, ok := realOneofs[idx]; !ok {
			realOneofs[idx] = &Oneof{Name: g.rubyFieldName(decl.GetName())}
		}
		cf.Shape = ShapeOneofMember
		cf.OneofName = realOneofs[idx].Name

	case mapEntry != nil:
		cf.Shape = ShapeMap
		key, val := mapEntry.GetField()[0], mapEntry.GetField()[1]
		keyField, err := g.classifyMapSide(key)
		if err != nil {
			return nil, err
		}
		valField, err := g.classifyMapSide(val)
		if err != nil {
			return nil, err
		}
		cf.MapKey = keyField
		cf.MapValue = valField
		cf.WireType = WireLen

	case field.GetLabel() == descriptorpb.FieldDescriptorProto_LABEL_REPEATED:
		cf.Shape = ShapeRepeated
		elemWire, ok := wireTypeForScalar(field.GetType())
		if !ok {
			return nil, &UnknownTypeError{Message: parent.GetName(), Field: field.GetName()}
		}
		cf.ElemWireType = elemWire
		cf.WireType = elemWire
		if isPackable(field.GetType()) {
			if field.GetOptions() != nil && field.GetOptions().Packed != nil {
				cf.Packed = field.GetOptions().GetPacked()
			} else {
				cf.Packed = true
			}
		}

	case field.GetType() == descriptorpb.FieldDescriptorProto_TYPE_MESSAGE:
		cf.Shape = ShapeMessage
		cf.HasPresence = true
		cf.WireType = WireLen

	default:
		cf.Shape = ShapeScalar
		cf.HasPresence = field.GetProto3Optional()
		wt, ok := wireTypeForScalar(field.GetType())
		if !ok {
			return nil, &UnknownTypeError{Message: parent.GetName(), Field: field.GetName()}
		}
		cf.WireType = wt
	}

	// A map field's own type is its synthetic entry message, which the
	// registry never holds; its key and value sides were resolved above.
	if cf.Shape != ShapeMap {
		if err := g.resolveFieldType(cf, field); err != nil {
			return nil, err
		}
	}

	return cf, nil
}

// classifyMapSide builds the key or value half of a map field's synthetic
// entry message, which is never repeated and never presence-bearing.
func (g *Generator) classifyMapSide(field *descriptorpb.FieldDescriptorProto) (*Field, error) {
	cf := &Field{
		Desc:      field,
		Name:      g.rubyFieldName(field.GetName()),
		Number:    field.GetNumber(),
		ProtoType: field.GetType(),
		Shape:     ShapeScalar,
	}
	wt, ok := wireTypeForScalar(field.GetType())
	if !ok {
		return nil, &UnknownTypeError{Message: "<map entry>", Field: field.GetName()}
	}
	cf.WireType = wt
	if err := g.resolveFieldType(cf, field); err != nil {
		return nil, err
	}
	return cf, nil
}

// resolveFieldType fills IsEnum/EnumConst/MessageConst/WellKnown for enum-
// and message-typed fields (including map key/value sides), consulting
// the request-wide registry built before classification began.
func (g *Generator) resolveFieldType(cf *Field, field *descriptorpb.FieldDescriptorProto) error {
	switch field.GetType() {
	case descriptorpb.FieldDescriptorProto_TYPE_ENUM:
		entry, _ := g.registry.resolve(field.GetTypeName())
		if entry == nil || !entry.IsEnum {
			return &UnknownTypeError{Message: field.GetTypeName(), Field: field.GetName()}
		}
		cf.IsEnum = true
		cf.EnumConst = entry.RubyConst
	case descriptorpb.FieldDescriptorProto_TYPE_MESSAGE:
		entry, wk := g.registry.resolve(field.GetTypeName())
		switch {
		case wk != nil:
			cf.WellKnown = wk
			cf.MessageConst = wk.RubyClass
		case entry != nil && !entry.IsEnum:
			cf.MessageConst = entry.RubyConst
		default:
			return &UnknownTypeError{Message: field.GetTypeName(), Field: field.GetName()}
		}
	}
	return nil
}

func assignPresenceBits(msg *Message) error {
	next := 0
	for _, f := range msg.Fields {
		if !f.HasPresence {
			continue
		}
		f.BitIndex = next
		next++
	}
	msg.PresenceCount = next
	if next > maxPresenceBits {
		return &CapacityError{Message: msg.Name, Count: next}
	}
	return nil
}
