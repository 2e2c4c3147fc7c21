// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package tx defines the rollup transactions that are admitted through the
// signature checker, together with the Ethereum signatures that authorize them.
package tx

import (
	"fmt"
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/luxfi/crypto/hash"
	"github.com/luxfi/ids"
	"github.com/luxfi/vm/utils/wrappers"
)

const (
	TransferType byte = iota + 1
	WithdrawType
	ChangePubKeyType
)

const (
	// MaxTokenID is the largest token identifier the rollup accepts.
	MaxTokenID TokenID = math.MaxUint16
	// MaxAmountBits bounds the bit length of amounts and fees.
	MaxAmountBits = 126
	// PubKeyHashLen is the length of a rollup public key hash.
	PubKeyHashLen = 20
)

var (
	_ Tx = (*Transfer)(nil)
	_ Tx = (*Withdraw)(nil)
	_ Tx = (*ChangePubKey)(nil)
)

type (
	AccountID uint32
	TokenID   uint32
)

// PubKeyHash is the hash of the rollup signing key an account is bound to.
type PubKeyHash [PubKeyHashLen]byte

// Tx is a rollup transaction.
type Tx interface {
	// Account is the L1 address that declares itself the author of the tx.
	Account() common.Address
	// ID identifies the tx by the hash of its canonical bytes.
	ID() ids.ID
	// Bytes returns the canonical encoding of the tx.
	Bytes() []byte
	// CheckCorrectness reports whether the tx fields are self-consistent.
	CheckCorrectness() bool
}

// Transfer moves funds between two rollup accounts.
type Transfer struct {
	AccountID AccountID
	From      common.Address
	To        common.Address
	Token     TokenID
	Amount    *big.Int
	Fee       *big.Int
	Nonce     uint32
}

func (t *Transfer) Account() common.Address { return t.From }

func (t *Transfer) ID() ids.ID { return idOf(t.Bytes()) }

func (t *Transfer) Bytes() []byte {
	p := wrappers.Packer{
		Bytes: make([]byte, wrappers.ByteLen+3*wrappers.IntLen+2*common.AddressLength+amountLen(t.Amount)+amountLen(t.Fee)),
	}
	p.PackByte(TransferType)
	p.PackInt(uint32(t.AccountID))
	p.PackFixedBytes(t.From.Bytes())
	p.PackFixedBytes(t.To.Bytes())
	p.PackInt(uint32(t.Token))
	packAmount(&p, t.Amount)
	packAmount(&p, t.Fee)
	p.PackInt(t.Nonce)
	return p.Bytes
}

func (t *Transfer) CheckCorrectness() bool {
	return t.From != (common.Address{}) &&
		t.To != (common.Address{}) &&
		t.Token <= MaxTokenID &&
		validAmount(t.Amount) &&
		validAmount(t.Fee) &&
		t.Nonce != math.MaxUint32
}

// Withdraw moves funds from a rollup account to an L1 address.
type Withdraw struct {
	AccountID AccountID
	From      common.Address
	To        common.Address
	Token     TokenID
	Amount    *big.Int
	Fee       *big.Int
	Nonce     uint32
}

func (w *Withdraw) Account() common.Address { return w.From }

func (w *Withdraw) ID() ids.ID { return idOf(w.Bytes()) }

func (w *Withdraw) Bytes() []byte {
	p := wrappers.Packer{
		Bytes: make([]byte, wrappers.ByteLen+3*wrappers.IntLen+2*common.AddressLength+amountLen(w.Amount)+amountLen(w.Fee)),
	}
	p.PackByte(WithdrawType)
	p.PackInt(uint32(w.AccountID))
	p.PackFixedBytes(w.From.Bytes())
	p.PackFixedBytes(w.To.Bytes())
	p.PackInt(uint32(w.Token))
	packAmount(&p, w.Amount)
	packAmount(&p, w.Fee)
	p.PackInt(w.Nonce)
	return p.Bytes
}

func (w *Withdraw) CheckCorrectness() bool {
	return w.From != (common.Address{}) &&
		w.To != (common.Address{}) &&
		w.Token <= MaxTokenID &&
		validAmount(w.Amount) &&
		validAmount(w.Fee) &&
		w.Nonce != math.MaxUint32
}

// ChangePubKey binds a new rollup signing key to an account. It is authorized
// either by [EthSignature] or, when that is nil, by a fact previously
// registered on the rollup contract.
type ChangePubKey struct {
	AccountID    AccountID
	From         common.Address
	NewPkHash    PubKeyHash
	FeeToken     TokenID
	Fee          *big.Int
	Nonce        uint32
	EthSignature *PackedEthSignature
}

func (c *ChangePubKey) Account() common.Address { return c.From }

func (c *ChangePubKey) ID() ids.ID { return idOf(c.Bytes()) }

func (c *ChangePubKey) Bytes() []byte {
	size := wrappers.ByteLen + 3*wrappers.IntLen + common.AddressLength + PubKeyHashLen + amountLen(c.Fee) + wrappers.BoolLen
	if c.EthSignature != nil {
		size += SignatureLen
	}
	p := wrappers.Packer{
		Bytes: make([]byte, size),
	}
	p.PackByte(ChangePubKeyType)
	p.PackInt(uint32(c.AccountID))
	p.PackFixedBytes(c.From.Bytes())
	p.PackFixedBytes(c.NewPkHash[:])
	p.PackInt(uint32(c.FeeToken))
	packAmount(&p, c.Fee)
	p.PackInt(c.Nonce)
	p.PackBool(c.EthSignature != nil)
	if c.EthSignature != nil {
		p.PackFixedBytes(c.EthSignature[:])
	}
	return p.Bytes
}

// EthSignMessage is the message [From] signs to authorize the key change
// without an onchain fact.
func (c *ChangePubKey) EthSignMessage() []byte {
	return []byte(fmt.Sprintf(
		"Register rollup pubkey:\n\n%x\nnonce: 0x%08x\naccount id: 0x%08x\n\nOnly sign this message for a trusted client!",
		c.NewPkHash[:],
		c.Nonce,
		uint32(c.AccountID),
	))
}

// CheckCorrectness also checks that [EthSignature], when present, was made by
// [From] over EthSignMessage.
func (c *ChangePubKey) CheckCorrectness() bool {
	if c.From == (common.Address{}) ||
		c.NewPkHash == (PubKeyHash{}) ||
		c.FeeToken > MaxTokenID ||
		!validAmount(c.Fee) ||
		c.Nonce == math.MaxUint32 {
		return false
	}
	if c.EthSignature == nil {
		return true
	}
	signer, err := c.EthSignature.RecoverSigner(c.EthSignMessage())
	return err == nil && signer == c.From
}

func validAmount(v *big.Int) bool {
	return v != nil && v.Sign() >= 0 && v.BitLen() <= MaxAmountBits
}

// amountLen is the packed size of an amount: sign byte, length prefix, magnitude.
func amountLen(v *big.Int) int {
	n := wrappers.ByteLen + wrappers.IntLen
	if v != nil {
		n += len(v.Bytes())
	}
	return n
}

func packAmount(p *wrappers.Packer, v *big.Int) {
	if v == nil {
		p.PackByte(1)
		p.PackBytes(nil)
		return
	}
	p.PackByte(byte(v.Sign() + 1))
	p.PackBytes(v.Bytes())
}

func idOf(b []byte) ids.ID {
	id, err := ids.ToID(hash.ComputeHash256(b))
	if err != nil {
		return ids.Empty
	}
	return id
}
