// Command protoc-gen-protoboeuf is a protoc plugin that emits Ruby bindings
// for the protoboeuf wire format. Invoked by protoc itself it speaks the
// plugin protocol on stdin/stdout; run directly it exposes a couple of
// subcommands useful while developing the generator.
package main

import (
	"fmt"
	"io"
	"os"

	log "github.com/golang/glog"
	"github.com/kr/pretty"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/pluginpb"

	"github.com/tenderlove/protoboeuf/generator"
)

// version is overridden at build time via -ldflags "-X main.version=...".
var version = "dev"

var configPath string

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Exit(err)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "protoc-gen-protoboeuf",
		Short:         "protoc plugin emitting Ruby bindings for the protoboeuf wire format",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlugin,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "optional YAML configuration file layered over generator defaults")
	root.AddCommand(newVersionCommand(), newDescribeCommand(), newConfigCommand())
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the generator version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}
}

// runPlugin implements the protoc plugin protocol: a serialized
// CodeGeneratorRequest arrives on stdin, a serialized CodeGeneratorResponse
// goes out on stdout. A --config flag (not part of the protocol protoc
// itself drives) is folded into the parameter string the same way a
// config=<path> key passed through --protoboeuf_opt would be.
func runPlugin(cmd *cobra.Command, args []string) error {
	in, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading request: %w", err)
	}

	req := &pluginpb.CodeGeneratorRequest{}
	if err := proto.Unmarshal(in, req); err != nil {
		return fmt.Errorf("unmarshaling request: %w", err)
	}

	if configPath != "" {
		param := req.GetParameter()
		if param != "" {
			param += ","
		}
		param += "config=" + configPath
		req.Parameter = proto.String(param)
	}

	gen := generator.New(req, version)
	if err := gen.ParseParameters(); err != nil {
		return fmt.Errorf("parsing parameters: %w", err)
	}

	resp, err := gen.Generate()
	if err != nil {
		return fmt.Errorf("generating: %w", err)
	}

	out, err := proto.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshaling response: %w", err)
	}

	if _, err := os.Stdout.Write(out); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	return nil
}

// newConfigCommand resolves the same three-layer configuration
// (defaults/--config file/--param string) Generate would apply to an
// actual request, and dumps the result as YAML — a way for a build author
// to check what a given --protoboeuf_opt parameter string and --config
// file combination actually resolves to before wiring it into protoc.
func newConfigCommand() *cobra.Command {
	var param string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "resolve and print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &pluginpb.CodeGeneratorRequest{}
			if param != "" {
				req.Parameter = proto.String(param)
			}
			if configPath != "" {
				p := req.GetParameter()
				if p != "" {
					p += ","
				}
				p += "config=" + configPath
				req.Parameter = proto.String(p)
			}

			gen := generator.New(req, version)
			if err := gen.ParseParameters(); err != nil {
				return fmt.Errorf("parsing parameters: %w", err)
			}

			out, err := gen.Config().YAML()
			if err != nil {
				return fmt.Errorf("marshaling config: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&param, "param", "", "protoc plugin parameter string (key=value,key=value) to layer on top of --config")
	return cmd
}

func newDescribeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <descriptor-set-file>",
		Short: "classify a serialized FileDescriptorSet and pretty-print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			set := &descriptorpb.FileDescriptorSet{}
			if err := proto.Unmarshal(data, set); err != nil {
				return fmt.Errorf("unmarshaling %s: %w", args[0], err)
			}

			report, err := generator.Describe(set)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), pretty.Sprint(report))
			return nil
		},
	}
}
