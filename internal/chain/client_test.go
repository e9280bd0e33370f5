package chain_test

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibemint/api/internal/chain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *chain.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := chain.NewClient(chain.Config{RPCURL: server.URL})
	require.NoError(t, err)
	return client
}

func makeRPCResponse(result any) []byte {
	resultJSON, _ := json.Marshal(result)
	resp := map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"result":  json.RawMessage(resultJSON),
	}
	data, _ := json.Marshal(resp)
	return data
}

func makeRPCError(code int, message string) []byte {
	resp := map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"error":   map[string]any{"code": code, "message": message},
	}
	data, _ := json.Marshal(resp)
	return data
}

func TestNewClient_RequiresURL(t *testing.T) {
	_, err := chain.NewClient(chain.Config{})
	assert.Error(t, err)
}

func TestGetBlockCount(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req chain.RPCRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "getblockcount", req.Method)
		w.Write(makeRPCResponse(1234))
	})

	count, err := client.GetBlockCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1234), count)
}

func TestCall_RPCError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(makeRPCError(-32601, "method not found"))
	})

	_, err := client.Call(context.Background(), "bogus")
	require.Error(t, err)

	var rpcErr *chain.RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, -32601, rpcErr.Code)
}

func TestInvokeFunction(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req chain.RPCRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "invokefunction", req.Method)
		assert.Equal(t, "0xabc", req.Params[0])
		assert.Equal(t, "getVibe", req.Params[1])

		w.Write(makeRPCResponse(chain.InvokeResult{
			State: "HALT",
			Stack: []chain.StackItem{
				{Type: "Integer", Value: json.RawMessage(`"42"`)},
			},
		}))
	})

	result, err := client.InvokeFunction(context.Background(), "0xabc", "getVibe", []chain.ContractParam{
		chain.NewIntegerParam(big.NewInt(7)),
	})
	require.NoError(t, err)
	assert.Equal(t, "HALT", result.State)
	require.Len(t, result.Stack, 1)
}

func TestInvokeFunctionWithSigner_Broadcasts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req chain.RPCRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Params, 4)

		w.Write(makeRPCResponse(chain.InvokeResult{
			State: "HALT",
			Tx:    "0xdeadbeef",
		}))
	})

	result, err := client.InvokeFunctionWithSigner(context.Background(), "0xabc", "likeVibe", nil,
		chain.Signer{Account: "0xcafe", Scopes: chain.CalledByEntry}, false)
	require.NoError(t, err)
	assert.Equal(t, "0xdeadbeef", result.TxHash)
	assert.Equal(t, "HALT", result.VMState)
}

func TestInvokeFunctionWithSigner_Revert(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(makeRPCResponse(chain.InvokeResult{
			State:     "FAULT",
			Exception: "already liked",
		}))
	})

	_, err := client.InvokeFunctionWithSigner(context.Background(), "0xabc", "likeVibe", nil,
		chain.Signer{Account: "0xcafe", Scopes: chain.CalledByEntry}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already liked")
}
