package main

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"xmc-go/packages/converter"
)

func newDumpCmd() *cobra.Command {
	var showTrace bool
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Parse a XAML file and dump its AST",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			conv := converter.New(converter.Config{})
			parsed := conv.Parse(string(source), args[0])
			if parsed.Document == nil {
				if errs := parsed.Diagnostics.Errors(); len(errs) > 0 {
					return fmt.Errorf("parse %s:%d:%d: %s", args[0], errs[0].Line, errs[0].Column, errs[0].Message)
				}
				return fmt.Errorf("parse %s: structural parse failed", args[0])
			}

			dumper := spew.ConfigState{Indent: "  ", MaxDepth: 12, DisablePointerAddresses: true}
			dumper.Dump(parsed.Document.Root)

			if showTrace {
				for _, d := range parsed.Document.Diagnostics.All() {
					fmt.Printf("[%s] %s line %d: %s\n", d.Severity, d.Code, d.Line, d.Message)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showTrace, "diagnostics", false, "also print parse diagnostics")
	return cmd
}
