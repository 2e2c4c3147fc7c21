// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tx

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// SignatureLen is the length of a packed r || s || v ECDSA signature.
const SignatureLen = crypto.SignatureLength

var (
	ErrInvalidRecoveryID = errors.New("invalid signature recovery id")

	_ EthSignature = PackedEthSignature{}
	_ EthSignature = EIP1271Signature(nil)
)

// EthSignature is an Ethereum signature over a personal message. It is either
// a PackedEthSignature, whose signer can be recovered, or an EIP1271Signature,
// which can only be checked by the account contract.
type EthSignature interface {
	Bytes() []byte

	ethSignature()
}

// PackedEthSignature is an ECDSA signature with the recovery id in the last
// byte. Both the raw (0/1) and the legacy (27/28) recovery ids are accepted.
type PackedEthSignature [SignatureLen]byte

func (s PackedEthSignature) Bytes() []byte { return s[:] }

func (PackedEthSignature) ethSignature() {}

// RecoverSigner returns the address that signed [message] with the EIP-191
// personal message prefix.
func (s PackedEthSignature) RecoverSigner(message []byte) (common.Address, error) {
	sig := make([]byte, SignatureLen)
	copy(sig, s[:])
	switch v := sig[crypto.RecoveryIDOffset]; v {
	case 0, 1:
	case 27, 28:
		sig[crypto.RecoveryIDOffset] = v - 27
	default:
		return common.Address{}, fmt.Errorf("%w: %d", ErrInvalidRecoveryID, v)
	}

	pub, err := crypto.SigToPub(accounts.TextHash(message), sig)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// SignMessage signs [message] with the EIP-191 personal message prefix and
// returns the signature with a legacy recovery id.
func SignMessage(key *ecdsa.PrivateKey, message []byte) (PackedEthSignature, error) {
	sig, err := crypto.Sign(accounts.TextHash(message), key)
	if err != nil {
		return PackedEthSignature{}, err
	}
	sig[crypto.RecoveryIDOffset] += 27

	var packed PackedEthSignature
	copy(packed[:], sig)
	return packed, nil
}

// EIP1271Signature is an opaque signature validated by calling
// isValidSignature on the account contract.
type EIP1271Signature []byte

func (s EIP1271Signature) Bytes() []byte { return s }

func (EIP1271Signature) ethSignature() {}

// EthSignData is a signature together with the message the user signed.
type EthSignData struct {
	Signature EthSignature
	Message   []byte
}

// BatchSignData is a single signature that authorizes a whole batch.
type BatchSignData struct {
	EthSignData
}

// SignedTx is a tx together with the signature data it was admitted with.
type SignedTx struct {
	Tx          Tx
	EthSignData *EthSignData
}
