package vibes

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"vibemint/api/internal/chain"
)

// Contract is the fixed boundary this service consumes. Method names mirror
// the on-chain interface; encoding is the binding's concern, not the
// caller's. Implementations never retry: a retry is a new user action.
type Contract interface {
	ListLatest(ctx context.Context, limit int) ([]uint64, error)
	ListPopular(ctx context.Context, limit int) ([]uint64, error)
	Get(ctx context.Context, id uint64) (Vibe, error)
	Create(ctx context.Context, creator string, nv NewVibe) (TxHandle, error)
	Like(ctx context.Context, liker string, id uint64) (TxHandle, error)
	Streak(ctx context.Context, address string) (uint64, error)
	HasLiked(ctx context.Context, id uint64, address string) (bool, error)
}

// ChainContract binds Contract to the vibe contract over a chain client.
type ChainContract struct {
	client       *chain.Client
	contractHash string
	waitForLog   bool
}

// NewChainContract creates bindings for the deployed contract. When wait is
// true, writes block until the transaction's application log is available;
// otherwise they return as soon as the transaction is broadcast.
func NewChainContract(client *chain.Client, contractHash string, wait bool) *ChainContract {
	return &ChainContract{
		client:       client,
		contractHash: contractHash,
		waitForLog:   wait,
	}
}

// ListLatest returns up to limit vibe ids, most recent first.
func (c *ChainContract) ListLatest(ctx context.Context, limit int) ([]uint64, error) {
	return c.listIDs(ctx, "getLatestVibes", limit)
}

// ListPopular returns up to limit vibe ids in the contract's popularity
// order. The ranking is contract-owned and treated as opaque here.
func (c *ChainContract) ListPopular(ctx context.Context, limit int) ([]uint64, error) {
	return c.listIDs(ctx, "getPopularVibes", limit)
}

func (c *ChainContract) listIDs(ctx context.Context, method string, limit int) ([]uint64, error) {
	result, err := c.client.InvokeFunction(ctx, c.contractHash, method, []chain.ContractParam{
		chain.NewIntegerParam(big.NewInt(int64(limit))),
	})
	if err != nil {
		return nil, &ReadError{Op: method, Err: err}
	}
	if result.State != "HALT" || len(result.Stack) == 0 {
		return nil, &ReadError{Op: method, Err: exceptionErr(result.Exception)}
	}

	items, err := chain.ParseArray(result.Stack[0])
	if err != nil {
		return nil, &ReadError{Op: method, Err: err}
	}

	ids := make([]uint64, 0, len(items))
	for _, item := range items {
		id, err := chain.ParseUint64(item)
		if err != nil {
			return nil, &ReadError{Op: method, Err: err}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Get fetches one vibe record. Returns ErrNotFound for ids the contract has
// never minted. Safe to call concurrently for many ids.
func (c *ChainContract) Get(ctx context.Context, id uint64) (Vibe, error) {
	result, err := c.client.InvokeFunction(ctx, c.contractHash, "getVibe", []chain.ContractParam{
		chain.NewIntegerParam(new(big.Int).SetUint64(id)),
	})
	if err != nil {
		return Vibe{}, &ReadError{Op: "getVibe", Err: err}
	}
	if result.State != "HALT" {
		if isNonexistentToken(result.Exception) {
			return Vibe{}, ErrNotFound
		}
		return Vibe{}, &ReadError{Op: "getVibe", Err: exceptionErr(result.Exception)}
	}
	if len(result.Stack) == 0 || result.Stack[0].Type == "Null" {
		return Vibe{}, ErrNotFound
	}

	vibe, err := parseVibe(id, result.Stack[0])
	if err != nil {
		return Vibe{}, &ReadError{Op: "getVibe", Err: err}
	}
	return vibe, nil
}

// Create mints a vibe for creator. The phrase and image URI preconditions
// are checked here, before any RPC leaves the process.
func (c *ChainContract) Create(ctx context.Context, creator string, nv NewVibe) (TxHandle, error) {
	if strings.TrimSpace(nv.Phrase) == "" {
		return TxHandle{}, NewValidationError("phrase", "must not be empty")
	}
	if nv.ImageURI == "" {
		return TxHandle{}, NewValidationError("imageURI", "must be resolved before minting")
	}

	result, err := c.client.InvokeFunctionWithSigner(ctx, c.contractHash, "createVibe",
		[]chain.ContractParam{
			chain.NewStringParam(nv.Emoji),
			chain.NewStringParam(nv.Color),
			chain.NewStringParam(nv.Phrase),
			chain.NewStringParam(nv.ImageURI),
		},
		chain.Signer{Account: creator, Scopes: chain.CalledByEntry},
		c.waitForLog,
	)
	if err != nil {
		return TxHandle{}, &WriteError{Op: "createVibe", Err: err}
	}
	return TxHandle{Hash: result.TxHash, VMState: result.VMState}, nil
}

// Like records a like from liker on vibe id. The contract is the authority
// on duplicates; a revert naming one surfaces as ErrAlreadyLiked.
func (c *ChainContract) Like(ctx context.Context, liker string, id uint64) (TxHandle, error) {
	result, err := c.client.InvokeFunctionWithSigner(ctx, c.contractHash, "likeVibe",
		[]chain.ContractParam{
			chain.NewIntegerParam(new(big.Int).SetUint64(id)),
		},
		chain.Signer{Account: liker, Scopes: chain.CalledByEntry},
		c.waitForLog,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "already liked") {
			return TxHandle{}, ErrAlreadyLiked
		}
		return TxHandle{}, &WriteError{Op: "likeVibe", Err: err}
	}
	return TxHandle{Hash: result.TxHash, VMState: result.VMState}, nil
}

// Streak returns the posting streak the contract tracks for an address.
func (c *ChainContract) Streak(ctx context.Context, address string) (uint64, error) {
	result, err := c.client.InvokeFunction(ctx, c.contractHash, "getVibeStreak", []chain.ContractParam{
		chain.NewHash160Param(address),
	})
	if err != nil {
		return 0, &ReadError{Op: "getVibeStreak", Err: err}
	}
	if result.State != "HALT" || len(result.Stack) == 0 {
		return 0, &ReadError{Op: "getVibeStreak", Err: exceptionErr(result.Exception)}
	}

	streak, err := chain.ParseUint64(result.Stack[0])
	if err != nil {
		return 0, &ReadError{Op: "getVibeStreak", Err: err}
	}
	return streak, nil
}

// HasLiked reports whether address has already liked vibe id.
func (c *ChainContract) HasLiked(ctx context.Context, id uint64, address string) (bool, error) {
	result, err := c.client.InvokeFunction(ctx, c.contractHash, "hasLiked", []chain.ContractParam{
		chain.NewIntegerParam(new(big.Int).SetUint64(id)),
		chain.NewHash160Param(address),
	})
	if err != nil {
		return false, &ReadError{Op: "hasLiked", Err: err}
	}
	if result.State != "HALT" || len(result.Stack) == 0 {
		return false, &ReadError{Op: "hasLiked", Err: exceptionErr(result.Exception)}
	}

	liked, err := chain.ParseBoolean(result.Stack[0])
	if err != nil {
		return false, &ReadError{Op: "hasLiked", Err: err}
	}
	return liked, nil
}

// parseVibe decodes the contract's vibe struct. Field order matches the
// on-chain layout: emoji, color, phrase, imageURI, likes, timestamp, creator.
func parseVibe(id uint64, item chain.StackItem) (Vibe, error) {
	fields, err := chain.ParseArray(item)
	if err != nil {
		return Vibe{}, err
	}
	if len(fields) < 7 {
		return Vibe{}, fmt.Errorf("vibe struct has %d fields, want 7", len(fields))
	}

	emoji, err := chain.ParseString(fields[0])
	if err != nil {
		return Vibe{}, err
	}
	color, err := chain.ParseString(fields[1])
	if err != nil {
		return Vibe{}, err
	}
	phrase, err := chain.ParseString(fields[2])
	if err != nil {
		return Vibe{}, err
	}
	imageURI, err := chain.ParseString(fields[3])
	if err != nil {
		return Vibe{}, err
	}
	likes, err := chain.ParseUint64(fields[4])
	if err != nil {
		return Vibe{}, err
	}
	timestamp, err := chain.ParseUint64(fields[5])
	if err != nil {
		return Vibe{}, err
	}
	creator, err := chain.ParseHash160(fields[6])
	if err != nil {
		return Vibe{}, err
	}

	return Vibe{
		ID:        id,
		Creator:   creator,
		Emoji:     emoji,
		Color:     color,
		Phrase:    phrase,
		ImageURI:  imageURI,
		Likes:     likes,
		Timestamp: time.Unix(int64(timestamp), 0).UTC(),
	}, nil
}

func isNonexistentToken(exception string) bool {
	lower := strings.ToLower(exception)
	return strings.Contains(lower, "not exist") || strings.Contains(lower, "invalid token")
}

func exceptionErr(exception string) error {
	if exception == "" {
		exception = "invocation did not halt"
	}
	return errors.New(exception)
}
