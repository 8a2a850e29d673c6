// Command encwire checks schema declaration files and inspects binary
// messages against them.
//
//	encwire check schemas.yaml
//	encwire inspect --schemas schemas.yaml --schema Person message.bin
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rawbytedev/encodium"
	"github.com/rawbytedev/encodium/pkg/schemafile"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

func main() {
	rootCmd := &cobra.Command{
		Use:   "encwire",
		Short: "Inspect encodium schemas and wire messages",
	}
	rootCmd.AddCommand(checkCmd(), inspectCmd())
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <schema-file>...",
		Short: "Validate schema declaration files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				reg := encodium.NewRegistry()
				if err := schemafile.LoadFile(path, reg); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				reg.Freeze()
				log.Info().Str("file", path).Msg("schema file is valid")
			}
			return nil
		},
	}
}

func inspectCmd() *cobra.Command {
	var schemasPath, schemaName string
	cmd := &cobra.Command{
		Use:   "inspect <message-file>",
		Short: "Decode a binary message against a schema and print its fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := encodium.NewRegistry()
			if err := schemafile.LoadFile(schemasPath, reg); err != nil {
				return err
			}
			reg.Freeze()
			schema, err := reg.Resolve(schemaName)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			record, err := schema.Decode(data)
			if err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}
			log.Info().Str("schema", schemaName).Int("bytes", len(data)).Msg("decoded")
			printRecord(cmd, record, 0)
			return nil
		},
	}
	cmd.Flags().StringVar(&schemasPath, "schemas", "schemas.yaml", "schema declaration file")
	cmd.Flags().StringVar(&schemaName, "schema", "", "schema name of the message")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

func printRecord(cmd *cobra.Command, r *encodium.Record, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, f := range r.Schema().Fields() {
		v := r.Get(f.Name)
		if v == nil {
			cmd.Printf("%s%s: <absent>\n", indent, f.Name)
			continue
		}
		switch val := v.(type) {
		case *encodium.Record:
			cmd.Printf("%s%s: (%s)\n", indent, f.Name, val.Schema().Name())
			printRecord(cmd, val, depth+1)
		case []byte:
			cmd.Printf("%s%s: 0x%s\n", indent, f.Name, hex.EncodeToString(val))
		case []any:
			cmd.Printf("%s%s: %d elements\n", indent, f.Name, len(val))
			for i, el := range val {
				if nested, ok := el.(*encodium.Record); ok {
					cmd.Printf("%s  [%d]: (%s)\n", indent, i, nested.Schema().Name())
					printRecord(cmd, nested, depth+2)
				} else {
					cmd.Printf("%s  [%d]: %v\n", indent, i, el)
				}
			}
		default:
			cmd.Printf("%s%s: %v\n", indent, f.Name, val)
		}
	}
}
