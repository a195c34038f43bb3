// Command msgpcat is a small inspection tool for the msgpack codec: it
// packs a JSON literal from stdin to MessagePack bytes, or dumps
// MessagePack bytes from stdin back to a JSON-ish value on stdout.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "msgpcat",
		Short: "Pack and dump MessagePack messages from the command line",
	}

	root.AddCommand(newPackCmd())
	root.AddCommand(newDumpCmd())

	return root
}
