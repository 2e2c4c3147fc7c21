// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tx

import (
	"crypto/ecdsa"
	"math"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
)

func validTransfer() *Transfer {
	return &Transfer{
		AccountID: 7,
		From:      alice,
		To:        bob,
		Token:     0,
		Amount:    big.NewInt(1_000),
		Fee:       big.NewInt(10),
		Nonce:     3,
	}
}

func TestTransferCheckCorrectness(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Transfer)
		want   bool
	}{
		{
			name:   "valid",
			mutate: func(*Transfer) {},
			want:   true,
		},
		{
			name:   "zero from",
			mutate: func(t *Transfer) { t.From = common.Address{} },
		},
		{
			name:   "zero to",
			mutate: func(t *Transfer) { t.To = common.Address{} },
		},
		{
			name:   "nil amount",
			mutate: func(t *Transfer) { t.Amount = nil },
		},
		{
			name:   "negative amount",
			mutate: func(t *Transfer) { t.Amount = big.NewInt(-1) },
		},
		{
			name:   "amount too large",
			mutate: func(t *Transfer) { t.Amount = new(big.Int).Lsh(big.NewInt(1), MaxAmountBits) },
		},
		{
			name:   "negative fee",
			mutate: func(t *Transfer) { t.Fee = big.NewInt(-5) },
		},
		{
			name:   "token out of range",
			mutate: func(t *Transfer) { t.Token = MaxTokenID + 1 },
		},
		{
			name:   "nonce overflow",
			mutate: func(t *Transfer) { t.Nonce = math.MaxUint32 },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transfer := validTransfer()
			tt.mutate(transfer)
			require.Equal(t, tt.want, transfer.CheckCorrectness())
		})
	}
}

func TestWithdrawCheckCorrectness(t *testing.T) {
	require := require.New(t)

	withdraw := &Withdraw{
		AccountID: 1,
		From:      alice,
		To:        alice,
		Amount:    big.NewInt(5),
		Fee:       big.NewInt(0),
		Nonce:     0,
	}
	require.True(withdraw.CheckCorrectness())

	withdraw.Fee = nil
	require.False(withdraw.CheckCorrectness())
}

func TestChangePubKeyCheckCorrectness(t *testing.T) {
	require := require.New(t)

	changePk := &ChangePubKey{
		AccountID: 1,
		From:      alice,
		NewPkHash: PubKeyHash{0x01},
		Fee:       big.NewInt(0),
		Nonce:     0,
	}
	require.True(changePk.CheckCorrectness())

	changePk.NewPkHash = PubKeyHash{}
	require.False(changePk.CheckCorrectness())
}

func TestChangePubKeyEthSignature(t *testing.T) {
	owner, err := crypto.GenerateKey()
	require.NoError(t, err)
	mallory, err := crypto.GenerateKey()
	require.NoError(t, err)

	newChangePk := func() *ChangePubKey {
		return &ChangePubKey{
			AccountID: 9,
			From:      crypto.PubkeyToAddress(owner.PublicKey),
			NewPkHash: PubKeyHash{0x03},
			Fee:       big.NewInt(1),
			Nonce:     2,
		}
	}
	sign := func(t *testing.T, key *ecdsa.PrivateKey, message []byte) *PackedEthSignature {
		sig, err := SignMessage(key, message)
		require.NoError(t, err)
		return &sig
	}

	tests := []struct {
		name      string
		signature func(t *testing.T, changePk *ChangePubKey) *PackedEthSignature
		want      bool
	}{
		{
			name: "signed by account",
			signature: func(t *testing.T, changePk *ChangePubKey) *PackedEthSignature {
				return sign(t, owner, changePk.EthSignMessage())
			},
			want: true,
		},
		{
			name: "zero signature",
			signature: func(*testing.T, *ChangePubKey) *PackedEthSignature {
				return &PackedEthSignature{}
			},
		},
		{
			name: "signed by someone else",
			signature: func(t *testing.T, changePk *ChangePubKey) *PackedEthSignature {
				return sign(t, mallory, changePk.EthSignMessage())
			},
		},
		{
			name: "signed over another message",
			signature: func(t *testing.T, _ *ChangePubKey) *PackedEthSignature {
				return sign(t, owner, []byte("set signing key"))
			},
		},
		{
			name: "signed for another nonce",
			signature: func(t *testing.T, changePk *ChangePubKey) *PackedEthSignature {
				other := *changePk
				other.Nonce++
				return sign(t, owner, other.EthSignMessage())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changePk := newChangePk()
			changePk.EthSignature = tt.signature(t, changePk)
			require.Equal(t, tt.want, changePk.CheckCorrectness())
		})
	}
}

func TestTxIDs(t *testing.T) {
	require := require.New(t)

	a := validTransfer()
	b := validTransfer()
	require.Equal(a.ID(), b.ID())
	require.NotEqual(ids.Empty, a.ID())

	b.Nonce++
	require.NotEqual(a.ID(), b.ID())

	// Same fields, different kind.
	withdraw := &Withdraw{
		AccountID: a.AccountID,
		From:      a.From,
		To:        a.To,
		Token:     a.Token,
		Amount:    a.Amount,
		Fee:       a.Fee,
		Nonce:     a.Nonce,
	}
	require.NotEqual(a.ID(), withdraw.ID())

	// The sign of an amount is part of the encoding.
	negative := validTransfer()
	negative.Amount = big.NewInt(-1_000)
	require.NotEqual(a.ID(), negative.ID())
}

func TestChangePubKeyBytesIncludeSignature(t *testing.T) {
	require := require.New(t)

	changePk := &ChangePubKey{
		From:      alice,
		NewPkHash: PubKeyHash{0x02},
		Fee:       big.NewInt(1),
	}
	unsignedID := changePk.ID()
	unsignedLen := len(changePk.Bytes())

	changePk.EthSignature = &PackedEthSignature{0x01}
	require.NotEqual(unsignedID, changePk.ID())
	require.Len(changePk.Bytes(), unsignedLen+SignatureLen)
}
