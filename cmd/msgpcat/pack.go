package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/arloliu/msgpack"
)

func newPackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pack",
		Short: "Read a JSON value from stdin and write its MessagePack encoding to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}

			var v any
			if err := json.Unmarshal(input, &v); err != nil {
				return fmt.Errorf("parse JSON: %w", err)
			}

			data, err := msgpack.Pack(v)
			if err != nil {
				return fmt.Errorf("pack: %w", err)
			}

			_, err = os.Stdout.Write(data)

			return err
		},
	}
}
