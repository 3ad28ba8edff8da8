package main

import (
	"github.com/spf13/cobra"

	"github.com/algorand/abicodec/abi"
	"github.com/algorand/abicodec/contract"
)

// typeResolver parses type strings, allowing the struct names of a contract
// when one is given.
type typeResolver struct {
	contract *contract.Contract
}

func makeTypeResolver(contractPath string) (typeResolver, error) {
	if contractPath == "" {
		return typeResolver{}, nil
	}
	c, err := contract.Load(contractPath)
	if err != nil {
		return typeResolver{}, err
	}
	return typeResolver{contract: c}, nil
}

func (r typeResolver) resolve(s string) (abi.Type, error) {
	if r.contract != nil {
		return r.contract.ResolveType(s)
	}
	return abi.TypeOf(s)
}

func addContractFlag(cmd *cobra.Command, contractPath *string) {
	cmd.Flags().StringVarP(contractPath, "contract", "c", "", "ARC-4 contract description (.json, .yml or .yaml) whose struct names may be used as types")
}
