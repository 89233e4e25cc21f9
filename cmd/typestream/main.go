// Command typestream converts JSON-shaped documents between formats and
// checks them for well-formedness.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/typestream/typestream"
	"github.com/typestream/typestream/jsonw"
	gojsonsrc "github.com/typestream/typestream/source/gojson"
	hujsonsrc "github.com/typestream/typestream/source/hujson"
	jsonsrc "github.com/typestream/typestream/source/json"
	yamlsrc "github.com/typestream/typestream/source/yaml"
	"github.com/typestream/typestream/trace"
)

var (
	fromFormat string
	indent     string
	traceFlag  bool
)

func openInput(args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(args[0])
}

func newSource(r io.Reader) (typestream.Source, error) {
	switch fromFormat {
	case "json":
		return jsonsrc.NewReader(r), nil
	case "gojson":
		return gojsonsrc.NewReader(r), nil
	case "yaml":
		return yamlsrc.NewReader(r), nil
	case "hujson":
		return hujsonsrc.NewReader(r), nil
	default:
		return nil, fmt.Errorf("unknown input format %q", fromFormat)
	}
}

func wrapTrace(sink typestream.Sink) typestream.Sink {
	if !traceFlag {
		return sink
	}
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.DebugLevel)
	return trace.Wrap(sink, log)
}

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert a document to canonical JSON on stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(args)
			if err != nil {
				return err
			}
			defer in.Close()
			src, err := newSource(in)
			if err != nil {
				return err
			}
			w := jsonw.NewWriter(cmd.OutOrStdout())
			if indent != "" {
				w.SetIndent(indent)
			}
			if err := typestream.Pump(src, wrapTrace(w)); err != nil {
				return err
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().StringVar(&indent, "indent", "", "indent output with this string")
	return cmd
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Check a document for well-formedness",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(args)
			if err != nil {
				return err
			}
			defer in.Close()
			src, err := newSource(in)
			if err != nil {
				return err
			}
			w := jsonw.NewWriter(io.Discard)
			if err := typestream.Pump(src, wrapTrace(w)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

func main() {
	root := &cobra.Command{
		Use:           "typestream",
		Short:         "Stream JSON-shaped documents between formats",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&fromFormat, "from", "json", "input format: json, gojson, yaml, hujson")
	root.PersistentFlags().BoolVar(&traceFlag, "trace", false, "log every event to stderr")
	root.AddCommand(newConvertCmd(), newCheckCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
