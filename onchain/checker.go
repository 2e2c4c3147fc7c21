// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package onchain answers the authorization questions that can only be settled
// by reading Ethereum state: facts registered on the rollup contract and
// EIP-1271 signature checks on smart contract accounts.
package onchain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/luxfi/sigcheck/tx"
)

var (
	_ Checker = (*EthereumChecker)(nil)
	_ Checker = (*ThrottledChecker)(nil)
	_ Checker = (*TestChecker)(nil)
)

// Checker queries Ethereum on behalf of the signature checker.
//
// Implementations must be safe for concurrent use. A returned error means the
// query could not be answered, never that the answer was negative.
type Checker interface {
	// IsNewPubkeyHashAuthorized reports whether [account] registered a fact on
	// the rollup contract allowing its key to change to [pkHash] at [nonce].
	IsNewPubkeyHashAuthorized(
		ctx context.Context,
		account common.Address,
		nonce uint32,
		pkHash tx.PubKeyHash,
	) (bool, error)
	// IsEIP1271SignatureCorrect reports whether the contract at [account]
	// accepts [signature] over [message].
	IsEIP1271SignatureCorrect(
		ctx context.Context,
		account common.Address,
		message []byte,
		signature tx.EIP1271Signature,
	) (bool, error)
}

// TestChecker is a Checker whose behavior is supplied per test. Unset
// functions answer false.
type TestChecker struct {
	IsNewPubkeyHashAuthorizedF func(ctx context.Context, account common.Address, nonce uint32, pkHash tx.PubKeyHash) (bool, error)
	IsEIP1271SignatureCorrectF func(ctx context.Context, account common.Address, message []byte, signature tx.EIP1271Signature) (bool, error)
}

func (t TestChecker) IsNewPubkeyHashAuthorized(ctx context.Context, account common.Address, nonce uint32, pkHash tx.PubKeyHash) (bool, error) {
	if t.IsNewPubkeyHashAuthorizedF == nil {
		return false, nil
	}

	return t.IsNewPubkeyHashAuthorizedF(ctx, account, nonce, pkHash)
}

func (t TestChecker) IsEIP1271SignatureCorrect(ctx context.Context, account common.Address, message []byte, signature tx.EIP1271Signature) (bool, error) {
	if t.IsEIP1271SignatureCorrectF == nil {
		return false, nil
	}

	return t.IsEIP1271SignatureCorrectF(ctx, account, message, signature)
}
