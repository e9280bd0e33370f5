package chain

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
)

// Stack item parsers. Invocation results come back as loosely typed VM stack
// items; these convert them into Go values and fail loudly on shape
// mismatches so a contract upgrade cannot be silently misread.
//
// ByteString and Buffer values are decoded as hex: the nodes this service
// targets run with hex stack encoding. Node dialects that emit base64
// instead are not auto-detected, since many hex strings are also valid
// base64 and a fallback would misread them silently.

// ParseArray extracts the elements of an Array or Struct stack item.
func ParseArray(item StackItem) ([]StackItem, error) {
	if item.Type != "Array" && item.Type != "Struct" {
		return nil, fmt.Errorf("expected Array or Struct, got %s", item.Type)
	}

	var items []StackItem
	if err := json.Unmarshal(item.Value, &items); err != nil {
		return nil, fmt.Errorf("unmarshal array: %w", err)
	}
	return items, nil
}

// ParseInteger parses an Integer stack item. The node encodes integers as
// decimal strings.
func ParseInteger(item StackItem) (*big.Int, error) {
	if item.Type != "Integer" {
		return nil, fmt.Errorf("expected Integer, got %s", item.Type)
	}

	var value string
	if err := json.Unmarshal(item.Value, &value); err != nil {
		return nil, err
	}
	n, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("malformed integer %q", value)
	}
	return n, nil
}

// ParseUint64 parses an Integer stack item into a uint64.
func ParseUint64(item StackItem) (uint64, error) {
	n, err := ParseInteger(item)
	if err != nil {
		return 0, err
	}
	if n.Sign() < 0 || !n.IsUint64() {
		return 0, fmt.Errorf("integer %s out of uint64 range", n)
	}
	return n.Uint64(), nil
}

// ParseBoolean parses a Boolean stack item.
func ParseBoolean(item StackItem) (bool, error) {
	if item.Type != "Boolean" {
		return false, fmt.Errorf("expected Boolean, got %s", item.Type)
	}

	var value bool
	if err := json.Unmarshal(item.Value, &value); err != nil {
		return false, err
	}
	return value, nil
}

// ParseString parses a ByteString or Buffer stack item into a UTF-8 string.
// Null items decode to the empty string.
func ParseString(item StackItem) (string, error) {
	if item.Type == "Null" {
		return "", nil
	}
	if item.Type != "ByteString" && item.Type != "Buffer" {
		return "", fmt.Errorf("expected ByteString, got %s", item.Type)
	}

	var value string
	if err := json.Unmarshal(item.Value, &value); err != nil {
		return "", err
	}
	decoded, err := hex.DecodeString(value)
	if err != nil {
		return "", fmt.Errorf("decode string payload: %w", err)
	}
	return string(decoded), nil
}

// ParseByteArray parses a ByteString or Buffer stack item into raw bytes.
func ParseByteArray(item StackItem) ([]byte, error) {
	if item.Type == "Null" {
		return nil, nil
	}
	if item.Type != "ByteString" && item.Type != "Buffer" {
		return nil, fmt.Errorf("expected ByteString, got %s", item.Type)
	}

	var value string
	if err := json.Unmarshal(item.Value, &value); err != nil {
		return nil, err
	}
	return hex.DecodeString(value)
}

// ParseHash160 parses an address-valued stack item into its 0x-prefixed
// big-endian form.
func ParseHash160(item StackItem) (string, error) {
	raw, err := ParseByteArray(item)
	if err != nil {
		return "", err
	}
	if len(raw) == 0 {
		return "", nil
	}

	// The VM returns little-endian bytes; display form is big-endian.
	reversed := make([]byte, len(raw))
	for i, b := range raw {
		reversed[len(raw)-1-i] = b
	}
	return "0x" + hex.EncodeToString(reversed), nil
}
