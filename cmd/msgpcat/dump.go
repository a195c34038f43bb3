package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/arloliu/msgpack"
	"github.com/arloliu/msgpack/container"
)

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Read a MessagePack message from stdin and print its decoded value as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			if len(input) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "tag: 0x%02x\n", input[0])
			}

			v, err := msgpack.Unpack(input)
			if err != nil {
				return fmt.Errorf("unpack: %w", err)
			}

			out, err := json.Marshal(toJSONable(v))
			if err != nil {
				return fmt.Errorf("marshal: %w", err)
			}

			_, err = fmt.Fprintln(os.Stdout, string(out))

			return err
		},
	}
}

// toJSONable converts a decoded msgpack value into a shape
// encoding/json can marshal: *container.OrderedMap becomes a JSON object
// (key order is lost, JSON objects have none), []byte becomes a string
// of its hex encoding since raw bytes aren't valid JSON text, and
// extension container types unwrap to their plain contents.
func toJSONable(v any) any {
	switch tv := v.(type) {
	case *container.OrderedMap:
		m := make(map[string]any, tv.Len())
		for _, pair := range tv.Pairs() {
			m[fmt.Sprint(pair.Key)] = toJSONable(pair.Value)
		}
		return m
	case []any:
		out := make([]any, len(tv))
		for i, item := range tv {
			out[i] = toJSONable(item)
		}
		return out
	case []byte:
		return fmt.Sprintf("%x", tv)
	case *container.Buffer:
		return fmt.Sprintf("%x", tv.Bytes())
	case *container.List:
		return toJSONable(tv.Items)
	case *container.Set:
		return toJSONable(tv.Items())
	case *container.FrozenSet:
		return toJSONable(tv.Items())
	case complex128:
		return fmt.Sprintf("%v", tv)
	default:
		return tv
	}
}
