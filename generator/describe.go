package generator

import (
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/pluginpb"
)

// DescribeReport is what the `describe` debug subcommand pretty-prints: the
// result of running field classification over a FileDescriptorSet without
// emitting any Ruby, so a plugin author can inspect bit-index assignment,
// wire types, and oneof grouping without invoking protoc.
type DescribeReport struct {
	Files []FileReport
}

type FileReport struct {
	Name     string
	Messages []MessageReport
}

type MessageReport struct {
	Name           string
	PresenceBits   int
	Fields         []FieldReport
	Oneofs         []string
	NestedEnums    []string
	NestedMessages []MessageReport
}

type FieldReport struct {
	Name     string
	Number   int32
	Shape    string
	WireType int
	BitIndex int
	Oneof    string `pretty:",omitempty"`
}

// Describe classifies every message in set the same way Generate would,
// then flattens the result into a report shape meant for pretty-printing
// rather than emission.
func Describe(set *descriptorpb.FileDescriptorSet) (*DescribeReport, error) {
	req := &pluginpb.CodeGeneratorRequest{ProtoFile: set.GetFile()}
	for _, f := range set.GetFile() {
		req.FileToGenerate = append(req.FileToGenerate, f.GetName())
	}

	g := New(req, "describe")
	g.buildRegistry()

	report := &DescribeReport{}
	for _, file := range set.GetFile() {
		fr := FileReport{Name: file.GetName()}
		for _, desc := range file.GetMessageType() {
			msg, err := g.classifyMessage(desc, file.GetPackage())
			if err != nil {
				return nil, err
			}
			fr.Messages = append(fr.Messages, describeMessage(msg))
		}
		report.Files = append(report.Files, fr)
	}
	return report, nil
}

func describeMessage(m *Message) MessageReport {
	mr := MessageReport{Name: m.Name, PresenceBits: m.PresenceCount}
	for _, f := range m.Fields {
		mr.Fields = append(mr.Fields, FieldReport{
			Name:     f.Name,
			Number:   f.Number,
			Shape:    shapeName(f.Shape),
			WireType: int(f.WireType),
			BitIndex: f.BitIndex,
			Oneof:    f.OneofName,
		})
	}
	for _, o := range m.Oneofs {
		mr.Oneofs = append(mr.Oneofs, o.Name)
	}
	for _, e := range m.NestedEnums {
		mr.NestedEnums = append(mr.NestedEnums, e.Name)
	}
	for _, nm := range m.NestedMessages {
		mr.NestedMessages = append(mr.NestedMessages, describeMessage(nm))
	}
	return mr
}

func shapeName(s FieldShape) string {
	switch s {
	case ShapeScalar:
		return "scalar"
	case ShapeMessage:
		return "message"
	case ShapeRepeated:
		return "repeated"
	case ShapeMap:
		return "map"
	case ShapeOneofMember:
		return "oneof_member"
	default:
		return "unknown"
	}
}
