// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package sigchecktest builds signed txs for tests.
package sigchecktest

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/sigcheck"
	"github.com/luxfi/sigcheck/tx"
)

// Account is an Ethereum key pair used to sign txs.
type Account struct {
	Key     *ecdsa.PrivateKey
	Address common.Address
}

func NewAccount(t testing.TB) Account {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return Account{
		Key:     key,
		Address: crypto.PubkeyToAddress(key.PublicKey),
	}
}

// Sign signs [message] as an Ethereum personal message.
func (a Account) Sign(t testing.TB, message []byte) tx.PackedEthSignature {
	sig, err := tx.SignMessage(a.Key, message)
	require.NoError(t, err)
	return sig
}

// SignData signs [message] and bundles it with the signature.
func (a Account) SignData(t testing.TB, message []byte) *tx.EthSignData {
	return &tx.EthSignData{
		Signature: a.Sign(t, message),
		Message:   message,
	}
}

// Transfer returns a correct transfer from [a] to [to].
func (a Account) Transfer(to common.Address, nonce uint32) *tx.Transfer {
	return &tx.Transfer{
		AccountID: 1,
		From:      a.Address,
		To:        to,
		Token:     0,
		Amount:    big.NewInt(1_000),
		Fee:       big.NewInt(10),
		Nonce:     nonce,
	}
}

// Withdraw returns a correct withdrawal from [a] to its own L1 address.
func (a Account) Withdraw(nonce uint32) *tx.Withdraw {
	return &tx.Withdraw{
		AccountID: 1,
		From:      a.Address,
		To:        a.Address,
		Token:     0,
		Amount:    big.NewInt(500),
		Fee:       big.NewInt(5),
		Nonce:     nonce,
	}
}

// ChangePubKey returns a change pubkey tx of [a] that is authorized onchain,
// so it carries no Ethereum signature.
func (a Account) ChangePubKey(pkHash tx.PubKeyHash, nonce uint32) *tx.ChangePubKey {
	return &tx.ChangePubKey{
		AccountID: 1,
		From:      a.Address,
		NewPkHash: pkHash,
		FeeToken:  0,
		Fee:       big.NewInt(1),
		Nonce:     nonce,
	}
}

// SignedChangePubKey returns a change pubkey tx of [a] authorized by its own
// Ethereum signature.
func (a Account) SignedChangePubKey(t testing.TB, pkHash tx.PubKeyHash, nonce uint32) *tx.ChangePubKey {
	changePk := a.ChangePubKey(pkHash, nonce)
	sig := a.Sign(t, changePk.EthSignMessage())
	changePk.EthSignature = &sig
	return changePk
}

// SignedTransfer returns a transfer of [a] signed with a message describing it.
func (a Account) SignedTransfer(t testing.TB, to common.Address, nonce uint32) sigcheck.TxWithSignData {
	transfer := a.Transfer(to, nonce)
	return sigcheck.TxWithSignData{
		Tx:          transfer,
		EthSignData: a.SignData(t, Message(transfer)),
	}
}

// SignedBatch returns a batch of [txs] authorized by a signature of [a] over a
// message listing every tx.
func (a Account) SignedBatch(t testing.TB, txs ...tx.Tx) sigcheck.TxVariant {
	items := make([]sigcheck.TxWithSignData, len(txs))
	for i, item := range txs {
		items[i] = sigcheck.TxWithSignData{Tx: item}
	}
	return sigcheck.Batch(items, tx.BatchSignData{
		EthSignData: *a.SignData(t, BatchMessage(txs...)),
	})
}

// Message is the human readable message a user signs for [item].
func Message(item tx.Tx) []byte {
	return []byte(fmt.Sprintf("Sign tx %s", item.ID()))
}

// BatchMessage is the message a user signs to authorize [txs].
func BatchMessage(txs ...tx.Tx) []byte {
	message := []byte("Sign batch")
	for _, item := range txs {
		message = append(message, ' ')
		message = append(message, item.ID().String()...)
	}
	return message
}
