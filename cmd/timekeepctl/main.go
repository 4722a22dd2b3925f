// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command timekeepctl exposes the access and edit-window rules to operators.
//
// It answers support questions ("why can't this manager open /team?", "is
// the entry from last Monday still editable?") without a running server.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output.
const (
	formatYAML = "yaml"
	formatJSON = "json"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var format string

	rootCmd := &cobra.Command{
		Use:           "timekeepctl",
		Short:         "Inspect Timekeep access rules and edit windows",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if format != formatYAML && format != formatJSON {
				return fmt.Errorf("unsupported output format %q (use yaml or json)", format)
			}
			return nil
		},
	}
	rootCmd.SetOut(out)
	rootCmd.PersistentFlags().StringVarP(&format, "output", "o", formatYAML, "Output format: yaml or json")

	render := func(value any) error {
		return write(out, format, value)
	}

	rootCmd.AddCommand(
		accessCmd(render),
		entryCmd(render),
		tokenCmd(render),
	)

	return rootCmd
}

// write encodes value in the requested format.
func write(out io.Writer, format string, value any) error {
	if format == formatJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(value)
	}

	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	if err := encoder.Encode(value); err != nil {
		return err
	}
	return encoder.Close()
}
