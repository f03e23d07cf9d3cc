package commands

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"sodiumbridge/internal/domain"
	"sodiumbridge/internal/util/memzero"
)

func invokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "invoke <op> [args...]",
		Short: "Call one operation",
		Long: `Call one operation and print its output.

Byte arguments are hex ("-" passes null), scalar arguments are decimal.
With --json a single JSON array holds every argument: number arrays for
bytes, numbers for scalars and null for absent values.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			desc, _ := wire.Bridge.Describe(name)

			var (
				values []any
				err    error
			)
			if cfg.JSON {
				if len(args) != 2 {
					return fmt.Errorf("--json takes exactly one array argument")
				}
				values, err = parseJSON(args[1])
			} else {
				values, err = parseArgs(desc, args[1:])
			}
			if err != nil {
				return err
			}
			defer wipeValues(values)

			var res domain.Result
			if desc.Heavy {
				res = <-wire.Bridge.Go(cmd.Context(), name, values...)
			} else {
				res = wire.Bridge.Call(cmd.Context(), name, values...)
			}
			if !res.OK() {
				return res.Err()
			}
			return printValue(cmd, res.Value())
		},
	}
}

// parseArgs converts positional arguments using the roles of desc. Arguments
// beyond the known roles are parsed as hex so the bridge can report them.
func parseArgs(desc domain.Descriptor, args []string) ([]any, error) {
	values := make([]any, len(args))
	for i, a := range args {
		role := fmt.Sprintf("#%d", i)
		scalar := false
		if i < len(desc.Roles) {
			role = desc.Roles[i].Name
			scalar = desc.Roles[i].Kind == domain.ArgScalar
		}

		switch {
		case a == "-":
			values[i] = nil
		case scalar:
			n, err := strconv.ParseUint(a, 10, 64)
			if err != nil {
				wipeValues(values[:i])
				return nil, fmt.Errorf("argument %s: %w", role, err)
			}
			values[i] = n
		default:
			b, err := hex.DecodeString(strings.TrimPrefix(a, "0x"))
			if err != nil {
				wipeValues(values[:i])
				return nil, fmt.Errorf("argument %s: %w", role, err)
			}
			values[i] = b
		}
	}
	return values, nil
}

// parseJSON decodes a JSON array of arguments, keeping numbers exact.
func parseJSON(s string) ([]any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var values []any
	if err := dec.Decode(&values); err != nil {
		return nil, fmt.Errorf("decode JSON arguments: %w", err)
	}
	return values, nil
}

func wipeValues(values []any) {
	for _, v := range values {
		if b, ok := v.([]byte); ok {
			memzero.Zero(b)
		}
	}
}

func printValue(cmd *cobra.Command, v any) error {
	out := cmd.OutOrStdout()
	switch x := v.(type) {
	case []byte:
		defer memzero.Zero(x)
		_, err := fmt.Fprintln(out, hex.EncodeToString(x))
		return err
	default:
		enc := json.NewEncoder(out)
		return enc.Encode(x)
	}
}
