package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"time"
)

// ContractParam is a typed argument for a contract invocation.
type ContractParam struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// NewStringParam builds a String parameter.
func NewStringParam(v string) ContractParam {
	return ContractParam{Type: "String", Value: v}
}

// NewIntegerParam builds an Integer parameter. The node expects the value as
// a decimal string.
func NewIntegerParam(v *big.Int) ContractParam {
	return ContractParam{Type: "Integer", Value: v.String()}
}

// NewHash160Param builds a Hash160 parameter from a 0x-prefixed address.
func NewHash160Param(address string) ContractParam {
	return ContractParam{Type: "Hash160", Value: address}
}

// NewBoolParam builds a Boolean parameter.
func NewBoolParam(v bool) ContractParam {
	return ContractParam{Type: "Boolean", Value: v}
}

// Signer scopes a transaction signer for a write invocation.
type Signer struct {
	Account string `json:"account"`
	Scopes  string `json:"scopes"`
}

// CalledByEntry restricts the signature to direct entry-script calls.
const CalledByEntry = "CalledByEntry"

// InvokeResult is the outcome of an invocation. For write invocations
// relayed by the node, Tx carries the broadcast transaction hash.
type InvokeResult struct {
	Script      string      `json:"script"`
	State       string      `json:"state"`
	GasConsumed string      `json:"gasconsumed"`
	Exception   string      `json:"exception,omitempty"`
	Tx          string      `json:"tx,omitempty"`
	Stack       []StackItem `json:"stack"`
}

// StackItem is a VM stack item returned by an invocation.
type StackItem struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// TxResult is the handle returned for a state-changing invocation.
type TxResult struct {
	TxHash  string
	VMState string
	AppLog  *ApplicationLog
}

// InvokeFunction performs a read-only test invocation of a contract method.
func (c *Client) InvokeFunction(ctx context.Context, contractHash, method string, params []ContractParam) (*InvokeResult, error) {
	if params == nil {
		params = []ContractParam{}
	}

	result, err := c.Call(ctx, "invokefunction", contractHash, method, params)
	if err != nil {
		return nil, err
	}

	var invokeResult InvokeResult
	if err := json.Unmarshal(result, &invokeResult); err != nil {
		return nil, fmt.Errorf("unmarshal invoke result: %w", err)
	}
	return &invokeResult, nil
}

// DefaultTxWaitTimeout bounds how long a write invocation waits for its
// application log.
const DefaultTxWaitTimeout = 2 * time.Minute

// InvokeFunctionWithSigner submits a state-changing invocation signed on
// behalf of the given signer and relayed by the node. If wait is true it
// blocks until the transaction's application log is available (bounded by
// DefaultTxWaitTimeout); otherwise it returns as soon as the transaction is
// broadcast, with only TxHash populated.
func (c *Client) InvokeFunctionWithSigner(ctx context.Context, contractHash, method string, params []ContractParam, signer Signer, wait bool) (*TxResult, error) {
	if params == nil {
		params = []ContractParam{}
	}

	raw, err := c.Call(ctx, "invokefunction", contractHash, method, params, []Signer{signer})
	if err != nil {
		return nil, err
	}

	var invokeResult InvokeResult
	if err := json.Unmarshal(raw, &invokeResult); err != nil {
		return nil, fmt.Errorf("unmarshal invoke result: %w", err)
	}

	if invokeResult.State != "HALT" {
		return nil, fmt.Errorf("%s reverted: %s", method, invokeResult.Exception)
	}

	result := &TxResult{
		TxHash:  invokeResult.Tx,
		VMState: invokeResult.State,
	}

	if !wait {
		return result, nil
	}

	wctx, cancel := context.WithTimeout(ctx, DefaultTxWaitTimeout)
	defer cancel()

	appLog, err := c.WaitForApplicationLog(wctx, invokeResult.Tx, DefaultPollInterval)
	if err != nil {
		return result, fmt.Errorf("wait for %s execution: %w", method, err)
	}

	result.AppLog = appLog
	if len(appLog.Executions) > 0 {
		result.VMState = appLog.Executions[0].VMState
	}
	return result, nil
}
