package main

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/algorand/abicodec/abi"
	"github.com/algorand/abicodec/api"
	"github.com/algorand/abicodec/batch"
	"github.com/algorand/abicodec/encoding"
)

const (
	jsonOutput = "json"
	yamlOutput = "yaml"
)

type decodeConfig struct {
	typeString   string
	hexInput     string
	base64Input  string
	inputFile    string
	inputBase64  bool
	output       string
	workers      int
	contractPath string
}

func makeDecodeCmd() *cobra.Command {
	cfg := decodeConfig{}
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "decode an encoded value",
		Long: "decode a hex or base64 encoding with an ABI type and print its JSON form. " +
			"With --input, every line of the file is decoded and one JSON result is printed per line.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(cmd, &cfg)
		},
	}
	cmd.Flags().StringVarP(&cfg.typeString, "type", "t", "", "ABI type of the value")
	cmd.Flags().StringVarP(&cfg.hexInput, "hex", "x", "", "hex encoded value")
	cmd.Flags().StringVarP(&cfg.base64Input, "base64", "b", "", "base64 encoded value")
	cmd.Flags().StringVarP(&cfg.inputFile, "input", "i", "", "file with one encoded value per line, '-' for stdin")
	cmd.Flags().BoolVarP(&cfg.inputBase64, "input-base64", "", false, "lines of the input file are base64 instead of hex")
	cmd.Flags().StringVarP(&cfg.output, "output", "o", jsonOutput, "output format of a single value: [json, yaml]")
	cmd.Flags().IntVarP(&cfg.workers, "workers", "w", batch.DefaultWorkers, "number of decoders used for an input file")
	addContractFlag(cmd, &cfg.contractPath)
	cmd.MarkFlagRequired("type")
	return cmd
}

func runDecode(cmd *cobra.Command, cfg *decodeConfig) error {
	provided := 0
	for _, input := range []string{cfg.hexInput, cfg.base64Input, cfg.inputFile} {
		if input != "" {
			provided++
		}
	}
	if provided != 1 {
		return fmt.Errorf("exactly one of --hex, --base64 or --input is required")
	}
	if cfg.output != jsonOutput && cfg.output != yamlOutput {
		return fmt.Errorf("unknown output format '%s'", cfg.output)
	}

	resolver, err := makeTypeResolver(cfg.contractPath)
	if err != nil {
		return err
	}
	typ, err := resolver.resolve(cfg.typeString)
	if err != nil {
		return err
	}

	if cfg.inputFile != "" {
		return decodeFile(cmd, cfg, typ)
	}

	var encoded []byte
	if cfg.hexInput != "" {
		encoded, err = hex.DecodeString(cfg.hexInput)
	} else {
		encoded, err = base64.StdEncoding.DecodeString(cfg.base64Input)
	}
	if err != nil {
		return fmt.Errorf("unable to parse encoded value: %w", err)
	}
	value, err := typ.Decode(encoded)
	if err != nil {
		return err
	}
	obj, err := encoding.ValueToJSON(typ, value)
	if err != nil {
		return err
	}

	var out []byte
	if cfg.output == yamlOutput {
		out, err = yaml.Marshal(obj)
	} else {
		out, err = encoding.EncodeJSON(obj)
		out = append(out, '\n')
	}
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

// decodeFile decodes the lines of the input file concurrently and prints the
// results in input order. A line that fails to decode is reported in its
// result and does not stop the others.
func decodeFile(cmd *cobra.Command, cfg *decodeConfig, typ abi.Type) error {
	var r io.Reader
	if cfg.inputFile == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(cfg.inputFile)
		if err != nil {
			return fmt.Errorf("decodeFile(): %w", err)
		}
		defer f.Close()
		r = f
	}

	var inputs [][]byte
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var encoded []byte
		var err error
		if cfg.inputBase64 {
			encoded, err = base64.StdEncoding.DecodeString(text)
		} else {
			encoded, err = hex.DecodeString(text)
		}
		if err != nil {
			return fmt.Errorf("line %d: unable to parse encoded value: %w", line, err)
		}
		inputs = append(inputs, encoded)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("decodeFile(): %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	failed := 0
	for _, result := range batch.DecodeAll(ctx, typ, inputs, cfg.workers) {
		var line api.BatchDecodeResult
		if result.Err == nil {
			line.Value, result.Err = encoding.ValueToJSON(typ, result.Value)
		}
		if result.Err != nil {
			failed++
			line = api.BatchDecodeResult{Error: result.Err.Error()}
		}
		out, err := encoding.EncodeJSON(line)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed to decode", failed, len(inputs))
	}
	return nil
}
