package generator

import (
	"fmt"
	"strings"

	log "github.com/golang/glog"
	"go.uber.org/multierr"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/pluginpb"
)

// Generator turns a CodeGeneratorRequest into Ruby source, one file at a
// time, sharing one request-wide type registry and reserved-word trie
// across every file it processes.
type Generator struct {
	request  *pluginpb.CodeGeneratorRequest
	version  string
	config   Config
	registry *registry
	reserved *reservedTrie
}

// New constructs a Generator over request with built-in default
// configuration. Call ParseParameters before Generate to apply the
// protoc plugin parameter string (and any config file it names).
func New(request *pluginpb.CodeGeneratorRequest, version string) *Generator {
	return &Generator{
		request:  request,
		version:  version,
		config:   defaultConfig(),
		reserved: newReservedTrie(),
	}
}

// Config returns the generator's currently resolved configuration, for
// callers (the `config` CLI subcommand) that want to inspect it without
// running a full Generate.
func (g *Generator) Config() Config {
	return g.config
}

// ParseParameters resolves the layered configuration described in
// Config's doc comment: defaults, then an optional config=<path> file
// named in the parameter string, then the rest of the parameter string.
func (g *Generator) ParseParameters() error {
	parameter := g.request.GetParameter()
	if parameter == "" {
		return nil
	}

	configPath := ""
	for _, kv := range strings.Split(parameter, ",") {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 && parts[0] == "config" {
			configPath = parts[1]
		}
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config %s: %w", configPath, err)
	}

	cfg, err = applyParameterString(cfg, parameter)
	if err != nil {
		return err
	}

	g.config = cfg
	return nil
}

// Generate classifies and emits every file named in FileToGenerate,
// aggregating per-file failures with multierr instead of aborting the
// whole request at the first broken file.
func (g *Generator) Generate() (*pluginpb.CodeGeneratorResponse, error) {
	g.buildRegistry()

	response := &pluginpb.CodeGeneratorResponse{}
	response.SupportedFeatures = proto.Uint64(uint64(pluginpb.CodeGeneratorResponse_FEATURE_PROTO3_OPTIONAL))

	toGenerate := make(map[string]bool)
	for _, name := range g.request.GetFileToGenerate() {
		toGenerate[name] = true
	}

	var errs error
	for _, file := range g.request.GetProtoFile() {
		if !toGenerate[file.GetName()] {
			log.V(1).Infof("skipping %s: not in file_to_generate", file.GetName())
			continue
		}

		out, err := g.generateFile(file)
		if err != nil {
			log.Errorf("generating %s: %v", file.GetName(), err)
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", file.GetName(), err))
			continue
		}
		response.File = append(response.File, out)
	}

	if errs != nil {
		response.Error = proto.String(errs.Error())
	}
	return response, nil
}

// generateFile classifies every top-level message and enum in file and
// emits the resulting Ruby source as one response file.
func (g *Generator) generateFile(file *descriptorpb.FileDescriptorProto) (*pluginpb.CodeGeneratorResponse_File, error) {
	if file.GetSyntax() != "proto3" {
		return nil, fmt.Errorf("file %s: must use syntax = \"proto3\";", file.GetName())
	}

	var messages []*Message
	for _, desc := range file.GetMessageType() {
		msg, err := g.classifyMessage(desc, file.GetPackage())
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	var enums []*Enum
	for _, desc := range file.GetEnumType() {
		e, err := g.buildEnumChecked(desc)
		if err != nil {
			return nil, err
		}
		enums = append(enums, e)
	}

	if len(file.GetService()) > 0 {
		log.V(1).Infof("%s: %d service(s) present, not emitted (gRPC service stubs are out of scope)", file.GetName(), len(file.GetService()))
	}

	ns := rubyNamespace(file.GetPackage(), file.GetOptions().GetRubyPackage())

	b := NewWriteableBuffer()
	g.writePreamble(b, file, messages)
	emitWireModule(b)

	for _, mod := range ns {
		b.P("module %s", mod)
		b.Indent()
	}

	for _, e := range enums {
		emitEnum(b, e)
	}
	for _, m := range messages {
		g.emitMessage(b, m)
	}

	for range ns {
		b.Unindent()
		b.P("end")
	}

	return &pluginpb.CodeGeneratorResponse_File{
		Name:    proto.String(outputFileName(file.GetName())),
		Content: proto.String(b.String()),
	}, nil
}

// writePreamble emits the header comment, license, and require lines
// (runtime library, plus one per well-known type actually referenced
// anywhere in the file).
func (g *Generator) writePreamble(b *WriteableBuffer, file *descriptorpb.FileDescriptorProto, messages []*Message) {
	b.P("# Generated by protoc-gen-protoboeuf %s. DO NOT EDIT.", g.version)
	b.P("# source: %s", file.GetName())
	b.P("# license: %s", g.config.License)
	b.P0()
	b.P("require 'protoboeuf'")
	for _, req := range collectWellKnownRequires(messages) {
		b.P("require '%s'", req)
	}
	b.P0()
}

// collectWellKnownRequires walks every field of every message (recursing
// into nested messages) and returns the deterministic, deduplicated,
// sorted set of runtime-library requires the well-known-type resolver
// recorded.
func collectWellKnownRequires(messages []*Message) []string {
	seen := make(map[string]bool)
	var walk func(m *Message)
	walk = func(m *Message) {
		for _, f := range m.Fields {
			if f.WellKnown != nil {
				seen[f.WellKnown.RequirePath] = true
			}
		}
		for _, nm := range m.NestedMessages {
			walk(nm)
		}
	}
	for _, m := range messages {
		walk(m)
	}
	return sortedKeys(seen)
}
