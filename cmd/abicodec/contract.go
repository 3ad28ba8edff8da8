package main

import (
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/algorand/abicodec/contract"
)

func makeContractCmd() *cobra.Command {
	contractCmd := &cobra.Command{
		Use:   "contract",
		Short: "inspect ARC-4 contract descriptions",
		Long:  "validate, list and convert ARC-4 contract descriptions in JSON or YAML form.",
	}

	contractCmd.AddCommand(&cobra.Command{
		Use:   "validate FILE",
		Short: "check a contract description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := contract.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "contract %s is valid: %d methods, %d structs\n", c.Name, len(c.Methods), len(c.Structs))
			return nil
		},
	})

	contractCmd.AddCommand(&cobra.Command{
		Use:   "methods FILE",
		Short: "list the selector and signature of every method",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := contract.Load(args[0])
			if err != nil {
				return err
			}
			methods, err := c.ABIMethods()
			if err != nil {
				return err
			}
			for _, m := range methods {
				selector := m.Selector()
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", hex.EncodeToString(selector[:]), m.Signature())
			}
			return nil
		},
	})

	contractCmd.AddCommand(&cobra.Command{
		Use:   "structs FILE",
		Short: "list the tuple type of every struct",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := contract.Load(args[0])
			if err != nil {
				return err
			}
			names := make([]string, 0, len(c.Structs))
			for name := range c.Structs {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				typ, err := c.StructType(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", name, typ)
			}
			return nil
		},
	})

	var format string
	convertCmd := &cobra.Command{
		Use:   "convert FILE",
		Short: "print a contract description in another format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := contract.Load(args[0])
			if err != nil {
				return err
			}
			out, err := c.Encode(contract.Format(format))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	convertCmd.Flags().StringVarP(&format, "format", "f", string(contract.YAMLFormat), "output format: [json, yaml]")
	contractCmd.AddCommand(convertCmd)

	return contractCmd
}
