package generator

// WellKnownType describes one of the fixed set of google.protobuf wrapper
// and Timestamp types the runtime library ships a Ruby counterpart for.
// A field referencing one of these is rewritten to name the runtime class
// directly instead of a message type this generator would otherwise emit,
// and the owning file records a require for it.
type WellKnownType struct {
	ProtoName  string // fully qualified proto name, e.g. "google.protobuf.StringValue"
	RubyClass  string // runtime-library Ruby constant, e.g. "Google::Protobuf::StringValue"
	RequirePath string // the `require` the emitted file must carry
}

// wellKnownTypes is keyed by fully qualified proto type name (no leading
// dot). Only the wrapper types plus Timestamp are recognized; everything
// else is emitted as an ordinary generated message.
var wellKnownTypes = map[string]*WellKnownType{
	"google.protobuf.BoolValue":   {"google.protobuf.BoolValue", "Google::Protobuf::BoolValue", "google/protobuf/wrappers"},
	"google.protobuf.Int32Value":  {"google.protobuf.Int32Value", "Google::Protobuf::Int32Value", "google/protobuf/wrappers"},
	"google.protobuf.Int64Value":  {"google.protobuf.Int64Value", "Google::Protobuf::Int64Value", "google/protobuf/wrappers"},
	"google.protobuf.UInt32Value": {"google.protobuf.UInt32Value", "Google::Protobuf::UInt32Value", "google/protobuf/wrappers"},
	"google.protobuf.UInt64Value": {"google.protobuf.UInt64Value", "Google::Protobuf::UInt64Value", "google/protobuf/wrappers"},
	"google.protobuf.FloatValue":  {"google.protobuf.FloatValue", "Google::Protobuf::FloatValue", "google/protobuf/wrappers"},
	"google.protobuf.DoubleValue": {"google.protobuf.DoubleValue", "Google::Protobuf::DoubleValue", "google/protobuf/wrappers"},
	"google.protobuf.StringValue": {"google.protobuf.StringValue", "Google::Protobuf::StringValue", "google/protobuf/wrappers"},
	"google.protobuf.BytesValue":  {"google.protobuf.BytesValue", "Google::Protobuf::BytesValue", "google/protobuf/wrappers"},
	"google.protobuf.Timestamp":   {"google.protobuf.Timestamp", "Google::Protobuf::Timestamp", "google/protobuf/timestamp"},
}

// resolveWellKnown looks up a fully qualified (leading-dot-stripped) proto
// type name against the fixed well-known set.
func resolveWellKnown(fqProtoName string) *WellKnownType {
	return wellKnownTypes[fqProtoName]
}
