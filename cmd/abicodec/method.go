package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/algorand/abicodec/abi"
	"github.com/algorand/abicodec/api"
	"github.com/algorand/abicodec/contract"
	"github.com/algorand/abicodec/encoding"
)

type methodConfig struct {
	contractPath string
	name         string
	selector     string
}

func makeMethodCmd() *cobra.Command {
	cfg := methodConfig{}
	cmd := &cobra.Command{
		Use:   "method [SIGNATURE]",
		Short: "describe a method",
		Long:  "describe a method given by its signature, or by --name or --selector within a contract. Prints the selector, transaction count and argument categories as JSON.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMethod(cmd, &cfg, args)
		},
	}
	cmd.Flags().StringVarP(&cfg.contractPath, "contract", "c", "", "ARC-4 contract description to look the method up in")
	cmd.Flags().StringVarP(&cfg.name, "name", "n", "", "name of a method of the contract")
	cmd.Flags().StringVarP(&cfg.selector, "selector", "s", "", "hex selector of a method of the contract")
	return cmd
}

func runMethod(cmd *cobra.Command, cfg *methodConfig, args []string) error {
	var m abi.Method
	var err error
	switch {
	case len(args) == 1:
		if cfg.name != "" || cfg.selector != "" {
			return fmt.Errorf("a signature cannot be combined with --name or --selector")
		}
		m, err = abi.MethodFromSignature(args[0])
	case cfg.contractPath == "":
		return fmt.Errorf("a signature, or --contract with --name or --selector, is required")
	case (cfg.name == "") == (cfg.selector == ""):
		return fmt.Errorf("exactly one of --name or --selector is required")
	default:
		m, err = lookupMethod(cfg)
	}
	if err != nil {
		return err
	}

	out, err := encoding.EncodeJSON(api.DescribeMethod(m))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func lookupMethod(cfg *methodConfig) (abi.Method, error) {
	c, err := contract.Load(cfg.contractPath)
	if err != nil {
		return abi.Method{}, err
	}
	if cfg.name != "" {
		return c.GetMethodByName(cfg.name)
	}
	var selector [4]byte
	decoded, err := hex.DecodeString(cfg.selector)
	if err != nil || len(decoded) != len(selector) {
		return abi.Method{}, fmt.Errorf("selector '%s' is not 4 hex encoded bytes", cfg.selector)
	}
	copy(selector[:], decoded)
	return c.GetMethodBySelector(selector)
}

func makeSelectorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "selector SIGNATURE",
		Short: "print the selector of a method signature",
		Long:  "print the hex encoded first 4 bytes of the SHA-512/256 hash of a method signature.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := abi.MethodFromSignature(args[0]); err != nil {
				return err
			}
			selector, err := abi.MethodSelector(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(selector[:]))
			return nil
		},
	}
}
