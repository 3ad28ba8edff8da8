package main

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/algorand/abicodec/encoding"
)

const (
	hexFormat    = "hex"
	base64Format = "base64"
)

type encodeConfig struct {
	typeString   string
	value        string
	format       string
	contractPath string
}

func makeEncodeCmd() *cobra.Command {
	cfg := encodeConfig{}
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "encode a JSON value",
		Long:  "encode the JSON form of a value with an ABI type and print the encoding as hex or base64. Use '--value -' to read the value from stdin.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(cmd, &cfg)
		},
	}
	cmd.Flags().StringVarP(&cfg.typeString, "type", "t", "", "ABI type of the value, e.g. (uint64,string[])")
	cmd.Flags().StringVarP(&cfg.value, "value", "V", "", "JSON form of the value")
	cmd.Flags().StringVarP(&cfg.format, "format", "f", hexFormat, "output format: [hex, base64]")
	addContractFlag(cmd, &cfg.contractPath)
	cmd.MarkFlagRequired("type")
	cmd.MarkFlagRequired("value")
	return cmd
}

func runEncode(cmd *cobra.Command, cfg *encodeConfig) error {
	if cfg.format != hexFormat && cfg.format != base64Format {
		return fmt.Errorf("unknown output format '%s'", cfg.format)
	}
	resolver, err := makeTypeResolver(cfg.contractPath)
	if err != nil {
		return err
	}
	typ, err := resolver.resolve(cfg.typeString)
	if err != nil {
		return err
	}

	input := []byte(cfg.value)
	if cfg.value == "-" {
		input, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read value from stdin: %w", err)
		}
	}
	value, err := encoding.UnmarshalValue(typ, input)
	if err != nil {
		return err
	}
	encoded, err := typ.Encode(value)
	if err != nil {
		return err
	}

	if cfg.format == base64Format {
		fmt.Fprintln(cmd.OutOrStdout(), base64.StdEncoding.EncodeToString(encoded))
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(encoded))
	}
	return nil
}
