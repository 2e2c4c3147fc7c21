// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sigcheck

import (
	"context"

	"github.com/luxfi/sigcheck/onchain"
	"github.com/luxfi/sigcheck/tx"
)

// VerifiedTx is a tx, or a batch of txs, whose Ethereum authorization and
// correctness were checked. Its fields are unexported so the only way to get
// one is Verify.
type VerifiedTx struct {
	batch     bool
	txs       []tx.SignedTx
	signature tx.EthSignature
}

// Verify checks the Ethereum authorization of [variant] and then the
// correctness of its txs.
//
// Rejections are returned as one of the *Error values of this package. Any
// other error means [checker] could not answer and wraps ErrOnchainQuery.
//
// In a verified batch every tx carries the batch signature data; signatures
// the txs had of their own are dropped once checked.
func Verify(ctx context.Context, variant TxVariant, checker onchain.Checker) (*VerifiedTx, error) {
	if !variant.wellFormed() {
		return nil, ErrInvalidTransaction
	}
	if err := verifyEthSignature(ctx, variant, checker); err != nil {
		return nil, err
	}
	if err := verifyTxCorrectness(variant); err != nil {
		return nil, err
	}

	if !variant.IsBatch() {
		item := variant.txs[0]
		return &VerifiedTx{
			txs: []tx.SignedTx{{
				Tx:          item.Tx,
				EthSignData: item.EthSignData,
			}},
		}, nil
	}

	batchSign := variant.batchSign.EthSignData
	txs := make([]tx.SignedTx, len(variant.txs))
	for i, item := range variant.txs {
		signData := batchSign
		txs[i] = tx.SignedTx{
			Tx:          item.Tx,
			EthSignData: &signData,
		}
	}
	return &VerifiedTx{
		batch:     true,
		txs:       txs,
		signature: batchSign.Signature,
	}, nil
}

// IsBatch reports whether [v] holds a verified batch.
func (v *VerifiedTx) IsBatch() bool {
	return v.batch
}

// UnwrapTx returns the verified single tx. It panics if [v] is a batch:
// callers know what they submitted.
func (v *VerifiedTx) UnwrapTx() tx.SignedTx {
	if v.batch {
		panic("called UnwrapTx on a batch value")
	}
	return v.txs[0]
}

// UnwrapBatch returns the verified batch and its signature. It panics if [v]
// is a single tx.
func (v *VerifiedTx) UnwrapBatch() ([]tx.SignedTx, tx.EthSignature) {
	if !v.batch {
		panic("called UnwrapBatch on a single tx value")
	}
	txs := make([]tx.SignedTx, len(v.txs))
	copy(txs, v.txs)
	return txs, v.signature
}
