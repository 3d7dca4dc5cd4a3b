package generator

import (
	"google.golang.org/protobuf/types/descriptorpb"
)

// typeEntry is what the registry knows about one fully qualified proto
// type name: whether it is an enum (with an Enum built from its
// descriptor) or a message, plus the dotted Ruby constant path a field
// referencing it should use.
type typeEntry struct {
	IsEnum    bool
	Enum      *Enum
	RubyConst string
}

// registry maps every enum and message visible across an entire
// CodeGeneratorRequest (not just the current file — proto3 fields may
// reference imported types) to its Ruby identity. Built once before any
// file is classified.
type registry struct {
	byProtoName map[string]*typeEntry
}

func newRegistry() *registry {
	return &registry{byProtoName: make(map[string]*typeEntry)}
}

// resolve looks up a field's (possibly well-known) type name, preferring
// the fixed well-known set over anything a request happens to define
// under the same name.
func (r *registry) resolve(fieldTypeName string) (*typeEntry, *WellKnownType) {
	name := typeName(fieldTypeName)
	if wk := resolveWellKnown(name); wk != nil {
		return nil, wk
	}
	return r.byProtoName[name], nil
}

// buildRegistry walks every proto file in the request, registering each top-level
// and nested enum/message under its fully qualified proto name.
func (g *Generator) buildRegistry() {
	reg := newRegistry()
	for _, file := range g.request.GetProtoFile() {
		ns := rubyNamespace(file.GetPackage(), file.GetOptions().GetRubyPackage())
		protoPrefix := file.GetPackage()
		for _, enumDesc := range file.GetEnumType() {
			registerEnum(reg, enumDesc, protoPrefix, ns)
		}
		for _, msgDesc := range file.GetMessageType() {
			registerMessage(reg, msgDesc, protoPrefix, ns)
		}
	}
	g.registry = reg
}

func joinProto(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func joinRuby(path []string, name string) string {
	full := append(append([]string{}, path...), name)
	out := full[0]
	for _, p := range full[1:] {
		out += "::" + p
	}
	return out
}

func registerEnum(reg *registry, desc *descriptorpb.EnumDescriptorProto, protoPrefix string, rubyPath []string) {
	rubyName := rubyConstName(desc.GetName())
	e := &Enum{Desc: desc, Name: rubyName}
	for _, v := range desc.GetValue() {
		e.Constants = append(e.Constants, EnumConstant{Name: v.GetName(), Number: v.GetNumber()})
	}
	reg.byProtoName[joinProto(protoPrefix, desc.GetName())] = &typeEntry{
		IsEnum:    true,
		Enum:      e,
		RubyConst: joinRuby(rubyPath, rubyName),
	}
}

func registerMessage(reg *registry, desc *descriptorpb.DescriptorProto, protoPrefix string, rubyPath []string) {
	if desc.GetOptions().GetMapEntry() {
		// Map-entry synthetic messages are never referenced by name from
		// anywhere but the map field that owns them.
		return
	}
	rubyName := rubyConstName(desc.GetName())
	fullProto := joinProto(protoPrefix, desc.GetName())
	fullRubyPath := append(append([]string{}, rubyPath...), rubyName)

	reg.byProtoName[fullProto] = &typeEntry{
		IsEnum:    false,
		RubyConst: joinRuby(rubyPath, rubyName),
	}

	for _, nestedEnum := range desc.GetEnumType() {
		registerEnum(reg, nestedEnum, fullProto, fullRubyPath)
	}
	for _, nested := range desc.GetNestedType() {
		registerMessage(reg, nested, fullProto, fullRubyPath)
	}
}
