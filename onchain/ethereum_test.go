// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package onchain

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/sigcheck/tx"
)

var (
	rollup  = common.HexToAddress("0x000000000000000000000000000000000000c0de")
	account = common.HexToAddress("0x00000000000000000000000000000000000a11ce")

	errBoom = errors.New("boom")
)

type testCaller struct {
	lock  sync.Mutex
	calls []ethereum.CallMsg
	callF func(ctx context.Context, call ethereum.CallMsg) ([]byte, error)
}

func (c *testCaller) CallContract(ctx context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	c.lock.Lock()
	c.calls = append(c.calls, call)
	c.lock.Unlock()

	return c.callF(ctx, call)
}

func newTestChecker(t *testing.T, caller *testCaller, options ...Option) *EthereumChecker {
	checker, err := NewEthereumChecker(caller, rollup, options...)
	require.NoError(t, err)
	require.Equal(t, rollup, checker.Contract())
	return checker
}

func TestIsNewPubkeyHashAuthorized(t *testing.T) {
	pkHash := tx.PubKeyHash{0x01, 0x02, 0x03}

	tests := []struct {
		name    string
		fact    common.Hash
		want    bool
		wantErr error
	}{
		{
			name: "fact matches",
			fact: crypto.Keccak256Hash(pkHash[:]),
			want: true,
		},
		{
			name: "fact for another key",
			fact: crypto.Keccak256Hash([]byte("another key")),
		},
		{
			name: "no fact",
		},
		{
			name:    "call fails",
			wantErr: errBoom,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			var checker *EthereumChecker
			caller := &testCaller{}
			caller.callF = func(_ context.Context, call ethereum.CallMsg) ([]byte, error) {
				if tt.wantErr != nil {
					return nil, tt.wantErr
				}
				return checker.rollupABI.Methods[authFactsMethod].Outputs.Pack([32]byte(tt.fact))
			}
			checker = newTestChecker(t, caller)

			authorized, err := checker.IsNewPubkeyHashAuthorized(context.Background(), account, 5, pkHash)
			require.ErrorIs(err, tt.wantErr)
			require.Equal(tt.want, authorized)

			require.Len(caller.calls, 1)
			call := caller.calls[0]
			require.Equal(rollup, *call.To)

			method := checker.rollupABI.Methods[authFactsMethod]
			require.Equal(method.ID, call.Data[:4])
			args, err := method.Inputs.Unpack(call.Data[4:])
			require.NoError(err)
			require.Equal(account, args[0])
			require.Equal(uint32(5), args[1])
		})
	}
}

func TestIsEIP1271SignatureCorrect(t *testing.T) {
	message := []byte("Transfer 1 ETH")
	signature := tx.EIP1271Signature{0xde, 0xad, 0xbe, 0xef}

	tests := []struct {
		name    string
		magic   [4]byte
		want    bool
		wantErr error
	}{
		{
			name:  "accepted",
			magic: EIP1271MagicValue,
			want:  true,
		},
		{
			name:  "rejected",
			magic: [4]byte{0xff, 0xff, 0xff, 0xff},
		},
		{
			name:    "call fails",
			wantErr: errBoom,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			var checker *EthereumChecker
			caller := &testCaller{}
			caller.callF = func(_ context.Context, call ethereum.CallMsg) ([]byte, error) {
				if tt.wantErr != nil {
					return nil, tt.wantErr
				}
				return checker.eip1271ABI.Methods[isValidSignatureMethod].Outputs.Pack(tt.magic)
			}
			checker = newTestChecker(t, caller)

			valid, err := checker.IsEIP1271SignatureCorrect(context.Background(), account, message, signature)
			require.ErrorIs(err, tt.wantErr)
			require.Equal(tt.want, valid)

			require.Len(caller.calls, 1)
			call := caller.calls[0]
			require.Equal(account, *call.To)

			method := checker.eip1271ABI.Methods[isValidSignatureMethod]
			require.Equal(method.ID, call.Data[:4])
			args, err := method.Inputs.Unpack(call.Data[4:])
			require.NoError(err)
			digest := args[0].([32]byte)
			require.Equal(accounts.TextHash(message), digest[:])
			require.Equal([]byte(signature), args[1])
		})
	}
}

func TestEmptyReturnIsAnError(t *testing.T) {
	require := require.New(t)

	caller := &testCaller{
		callF: func(context.Context, ethereum.CallMsg) ([]byte, error) {
			return nil, nil
		},
	}
	checker := newTestChecker(t, caller)

	_, err := checker.IsEIP1271SignatureCorrect(context.Background(), account, []byte("msg"), tx.EIP1271Signature{0x01})
	require.Error(err)

	_, err = checker.IsNewPubkeyHashAuthorized(context.Background(), account, 0, tx.PubKeyHash{})
	require.Error(err)
}

func TestWithCallTimeout(t *testing.T) {
	require := require.New(t)

	var checker *EthereumChecker
	caller := &testCaller{}
	caller.callF = func(ctx context.Context, _ ethereum.CallMsg) ([]byte, error) {
		deadline, ok := ctx.Deadline()
		require.True(ok)
		require.WithinDuration(time.Now().Add(time.Minute), deadline, 5*time.Second)
		return checker.rollupABI.Methods[authFactsMethod].Outputs.Pack([32]byte{})
	}
	checker = newTestChecker(t, caller, WithCallTimeout(time.Minute))

	_, err := checker.IsNewPubkeyHashAuthorized(context.Background(), account, 0, tx.PubKeyHash{})
	require.NoError(err)
}

func TestNoCallTimeoutByDefault(t *testing.T) {
	require := require.New(t)

	var checker *EthereumChecker
	caller := &testCaller{}
	caller.callF = func(ctx context.Context, _ ethereum.CallMsg) ([]byte, error) {
		_, ok := ctx.Deadline()
		require.False(ok)
		return checker.rollupABI.Methods[authFactsMethod].Outputs.Pack([32]byte{})
	}
	checker = newTestChecker(t, caller)

	_, err := checker.IsNewPubkeyHashAuthorized(context.Background(), account, 0, tx.PubKeyHash{})
	require.NoError(err)
}

func TestTestCheckerDefaults(t *testing.T) {
	require := require.New(t)

	var checker TestChecker
	authorized, err := checker.IsNewPubkeyHashAuthorized(context.Background(), account, 0, tx.PubKeyHash{})
	require.NoError(err)
	require.False(authorized)

	valid, err := checker.IsEIP1271SignatureCorrect(context.Background(), account, nil, nil)
	require.NoError(err)
	require.False(valid)
}
