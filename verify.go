// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sigcheck

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/luxfi/math/set"

	"github.com/luxfi/sigcheck/onchain"
	"github.com/luxfi/sigcheck/tx"
)

// verifyEthSignature checks the Ethereum authorization of every tx in
// [variant]. For a batch the batch signature is checked first, then every tx
// on its own, since txs may carry signatures or onchain authorizations of
// their own. The first failure wins.
func verifyEthSignature(ctx context.Context, variant TxVariant, checker onchain.Checker) error {
	if !variant.IsBatch() {
		return verifyEthSignatureSingleTx(ctx, variant.txs[0], checker)
	}

	if err := verifyEthSignatureTxsBatch(ctx, variant.txs, *variant.batchSign, checker); err != nil {
		return err
	}
	for _, item := range variant.txs {
		if err := verifyEthSignatureSingleTx(ctx, item, checker); err != nil {
			return err
		}
	}
	return nil
}

func verifyEthSignatureSingleTx(ctx context.Context, item TxWithSignData, checker onchain.Checker) error {
	// A change pubkey without an Ethereum signature must have been
	// authorized on the rollup contract.
	if changePk, ok := item.Tx.(*tx.ChangePubKey); ok && changePk.EthSignature == nil {
		authorized, err := checker.IsNewPubkeyHashAuthorized(ctx, changePk.From, changePk.Nonce, changePk.NewPkHash)
		if err != nil {
			return fmt.Errorf("%w: change pubkey authorization of %s: %w", ErrOnchainQuery, changePk.From, err)
		}
		if !authorized {
			return ErrUnauthorizedKeyChange
		}
	}

	if item.EthSignData == nil {
		return nil
	}

	account := item.Tx.Account()
	switch sig := item.EthSignData.Signature.(type) {
	case tx.PackedEthSignature:
		signer, err := sig.RecoverSigner(item.EthSignData.Message)
		if err != nil || signer != account {
			return ErrInvalidOffchainSignature
		}
	case tx.EIP1271Signature:
		valid, err := checker.IsEIP1271SignatureCorrect(ctx, account, item.EthSignData.Message, sig)
		if err != nil {
			return fmt.Errorf("%w: eip1271 signature of %s: %w", ErrOnchainQuery, account, err)
		}
		if !valid {
			return ErrInvalidTransaction
		}
	default:
		return ErrInvalidOffchainSignature
	}
	return nil
}

func verifyEthSignatureTxsBatch(
	ctx context.Context,
	txs []TxWithSignData,
	batchSign tx.BatchSignData,
	checker onchain.Checker,
) error {
	switch sig := batchSign.Signature.(type) {
	case tx.PackedEthSignature:
		signer, err := sig.RecoverSigner(batchSign.Message)
		if err != nil {
			return ErrInvalidOffchainSignature
		}
		for _, item := range txs {
			if item.Tx.Account() != signer {
				return ErrInvalidOffchainSignature
			}
		}
	case tx.EIP1271Signature:
		// There is no single signer to recover, so every account in the
		// batch must accept the signature. Each account is asked once.
		checked := set.NewSet[common.Address](len(txs))
		for _, item := range txs {
			account := item.Tx.Account()
			if checked.Contains(account) {
				continue
			}
			checked.Add(account)

			valid, err := checker.IsEIP1271SignatureCorrect(ctx, account, batchSign.Message, sig)
			if err != nil {
				return fmt.Errorf("%w: batch eip1271 signature of %s: %w", ErrOnchainQuery, account, err)
			}
			if !valid {
				return ErrInvalidTransaction
			}
		}
	default:
		return ErrInvalidOffchainSignature
	}
	return nil
}

// verifyTxCorrectness runs the self check of every tx. An empty batch
// authorizes nothing and is refused.
func verifyTxCorrectness(variant TxVariant) error {
	if len(variant.txs) == 0 {
		return ErrInvalidTransaction
	}
	for _, item := range variant.txs {
		if !item.Tx.CheckCorrectness() {
			return ErrInvalidTransaction
		}
	}
	return nil
}
