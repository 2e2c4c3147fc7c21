// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sigcheck

import (
	"slices"

	"github.com/luxfi/sigcheck/tx"
)

// TxWithSignData is a not yet verified tx with the Ethereum signature and
// message the user should have signed. EthSignData is nil when the tx needs
// no Ethereum signature.
type TxWithSignData struct {
	Tx          tx.Tx
	EthSignData *tx.EthSignData
}

// TxVariant is the payload of a verification request: either a single tx or
// an ordered batch of txs authorized by one batch signature.
type TxVariant struct {
	txs       []TxWithSignData
	batchSign *tx.BatchSignData
}

// SingleTx wraps one tx for verification.
func SingleTx(item TxWithSignData) TxVariant {
	return TxVariant{
		txs: []TxWithSignData{item},
	}
}

// Batch wraps [items] and the signature that authorizes all of them. The order
// of [items] is the order in which they are checked.
func Batch(items []TxWithSignData, signData tx.BatchSignData) TxVariant {
	return TxVariant{
		txs:       slices.Clone(items),
		batchSign: &signData,
	}
}

// IsBatch reports whether the variant was built with Batch.
func (v TxVariant) IsBatch() bool {
	return v.batchSign != nil
}

// Txs returns the wrapped txs in order.
func (v TxVariant) Txs() []TxWithSignData {
	return slices.Clone(v.txs)
}

// BatchSignData returns the batch signature, if this is a batch.
func (v TxVariant) BatchSignData() (tx.BatchSignData, bool) {
	if v.batchSign == nil {
		return tx.BatchSignData{}, false
	}
	return *v.batchSign, true
}

// wellFormed reports whether the variant can be checked at all: a single
// variant holds exactly one tx and no tx is nil.
func (v TxVariant) wellFormed() bool {
	if !v.IsBatch() && len(v.txs) != 1 {
		return false
	}
	for _, item := range v.txs {
		if item.Tx == nil {
			return false
		}
	}
	return true
}
