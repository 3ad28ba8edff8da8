/*
Package abi provides an implementation of the Algorand ARC-4 ABI type system.

See https://arc.algorand.foundation/ARCs/arc-0004 for the corresponding specification.


Basic Operations

This package can parse ABI type names using the `abi.TypeOf()` function. Tuples and
structs are built with `abi.MakeTupleType()` and `abi.MakeStructType()`.

`abi.TypeOf()` returns an `abi.Type` struct. The `abi.Type` struct's `Encode` and `Decode` methods
convert between `abi.Value` trees and encoded ABI byte strings. `IsDynamic` and `ByteLen`
describe the size of an encoding.


Methods

`abi.MethodFromSignature()` parses a method signature such as "add(uint64,uint64)uint128" into
an `abi.Method`, whose `Selector` is the 4 byte prefix of an application call.

All functions in this package are pure and safe for concurrent use.
*/
package abi
