// Package resolver routes account reads and writes between a base chain
// RPC node and an ephemeral rollup RPC node based on delegation status.
//
// An account owned by the delegation program is writable only inside the
// ephemeral rollup, so transactions touching it must be sent there. All
// other accounts remain writable on the base chain. The resolver inspects
// account ownership via getAccountInfo and caches the answer.
package resolver

import (
	"bytes"
	"crypto/ed25519"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/ybbus/jsonrpc"

	"github.com/magicblock-labs/ephemeral-sdk-go/pkg/retry"
	"github.com/magicblock-labs/ephemeral-sdk-go/pkg/retry/backoff"
	"github.com/magicblock-labs/ephemeral-sdk-go/pkg/solana/dlp"
)

const (
	rpcNodeUnhealthyCode = -32005

	defaultCacheCapacity = 4096
	defaultCacheTTL      = 30 * time.Second
)

type DelegationStatus uint8

const (
	DelegationStatusUnknown DelegationStatus = iota
	DelegationStatusUndelegated
	DelegationStatusDelegated
)

func (s DelegationStatus) String() string {
	switch s {
	case DelegationStatusUndelegated:
		return "undelegated"
	case DelegationStatusDelegated:
		return "delegated"
	default:
		return "unknown"
	}
}

var (
	ErrNoAccountInfo = errors.New("no account info")

	errRateLimited  = errors.New("rate limited")
	errServiceError = errors.New("service error")
)

type Resolver struct {
	log       *logrus.Entry
	chain     jsonrpc.RPCClient
	ephemeral jsonrpc.RPCClient
	retrier   retry.Retrier
	cache     *statusCache
}

// New returns a resolver backed by the specified base chain and
// ephemeral rollup endpoints.
func New(chainEndpoint, ephemeralEndpoint string) *Resolver {
	return NewWithClients(
		jsonrpc.NewClient(chainEndpoint),
		jsonrpc.NewClient(ephemeralEndpoint),
	)
}

// NewWithClients returns a resolver using preconstructed RPC clients.
func NewWithClients(chain, ephemeral jsonrpc.RPCClient) *Resolver {
	return &Resolver{
		log:       logrus.StandardLogger().WithField("type", "resolver"),
		chain:     chain,
		ephemeral: ephemeral,
		retrier: retry.NewRetrier(
			retry.RetriableErrors(errRateLimited, errServiceError),
			retry.Limit(3),
			retry.BackoffWithJitter(backoff.BinaryExponential(time.Second), 10*time.Second, 0.1),
		),
		cache: newStatusCache(defaultCacheCapacity, defaultCacheTTL),
	}
}

// DelegationStatus reports whether the account is currently delegated to
// the ephemeral rollup. Results are cached; use Invalidate to force a
// refetch after submitting a delegation or undelegation transaction.
func (r *Resolver) DelegationStatus(account ed25519.PublicKey) (DelegationStatus, error) {
	if status, found := r.cache.retrieve(account); found {
		return status, nil
	}

	status, err := r.fetchStatus(account)
	if err != nil {
		return DelegationStatusUnknown, err
	}

	r.cache.insert(account, status)
	return status, nil
}

// RouteFor returns the RPC client that currently holds write authority
// over the account.
func (r *Resolver) RouteFor(account ed25519.PublicKey) (jsonrpc.RPCClient, error) {
	status, err := r.DelegationStatus(account)
	if err != nil {
		return nil, err
	}

	if status == DelegationStatusDelegated {
		return r.ephemeral, nil
	}
	return r.chain, nil
}

// Invalidate drops the cached status for the account.
func (r *Resolver) Invalidate(account ed25519.PublicKey) {
	r.cache.remove(account)
}

func (r *Resolver) fetchStatus(account ed25519.PublicKey) (DelegationStatus, error) {
	type rpcResponse struct {
		Value *struct {
			Owner string `json:"owner"`
		} `json:"value"`
	}

	rpcConfig := struct {
		Encoding string `json:"encoding"`
	}{
		Encoding: "base64",
	}

	var resp rpcResponse
	if err := r.call(&resp, "getAccountInfo", base58.Encode(account), rpcConfig); err != nil {
		return DelegationStatusUnknown, errors.Wrap(err, "getAccountInfo() failed to send request")
	}

	if resp.Value == nil {
		return DelegationStatusUnknown, ErrNoAccountInfo
	}

	owner, err := base58.Decode(resp.Value.Owner)
	if err != nil {
		return DelegationStatusUnknown, errors.Wrap(err, "invalid base58 encoded owner")
	}

	if bytes.Equal(owner, dlp.PROGRAM_ID) {
		return DelegationStatusDelegated, nil
	}
	return DelegationStatusUndelegated, nil
}

func (r *Resolver) call(out interface{}, method string, params ...interface{}) error {
	_, err := r.retrier.Retry(func() error {
		err := r.chain.CallFor(out, method, params...)
		if err == nil {
			return nil
		}

		return r.handleRpcError(method, err)
	})

	return err
}

func (r *Resolver) handleRpcError(method string, err error) error {
	rpcErr, ok := err.(*jsonrpc.RPCError)
	if !ok {
		return err
	}
	if rpcErr.Code == 429 {
		r.log.WithField("method", method).Error("rate limited")
		return errRateLimited
	}
	if rpcErr.Code >= 500 || rpcErr.Code == rpcNodeUnhealthyCode {
		return errServiceError
	}

	return err
}
