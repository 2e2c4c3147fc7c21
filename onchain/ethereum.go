// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package onchain

import (
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"

	"github.com/luxfi/sigcheck/tx"
)

const (
	authFactsMethod        = "authFacts"
	isValidSignatureMethod = "isValidSignature"

	rollupABIJSON = `[{
		"name": "authFacts",
		"type": "function",
		"stateMutability": "view",
		"inputs": [{"name": "account", "type": "address"}, {"name": "nonce", "type": "uint32"}],
		"outputs": [{"name": "", "type": "bytes32"}]
	}]`

	eip1271ABIJSON = `[{
		"name": "isValidSignature",
		"type": "function",
		"stateMutability": "view",
		"inputs": [{"name": "hash", "type": "bytes32"}, {"name": "signature", "type": "bytes"}],
		"outputs": [{"name": "magicValue", "type": "bytes4"}]
	}]`
)

// EIP1271MagicValue is returned by isValidSignature(bytes32,bytes) when the
// signature is accepted.
var EIP1271MagicValue = [4]byte{0x16, 0x26, 0xba, 0x7e}

// ContractCaller executes read-only contract calls. *ethclient.Client
// implements it.
type ContractCaller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Option configures an EthereumChecker
type Option interface {
	apply(*EthereumChecker)
}

type optionFunc func(*EthereumChecker)

func (o optionFunc) apply(c *EthereumChecker) {
	o(c)
}

// WithCallTimeout bounds every contract call. Zero disables the bound.
func WithCallTimeout(timeout time.Duration) Option {
	return optionFunc(func(c *EthereumChecker) {
		c.callTimeout = timeout
	})
}

// EthereumChecker answers Checker queries with eth_call against the rollup
// contract and against account contracts.
type EthereumChecker struct {
	caller      ContractCaller
	contract    common.Address
	callTimeout time.Duration

	rollupABI  abi.ABI
	eip1271ABI abi.ABI
}

// Dial connects to the Ethereum node at [rawURL] and returns a checker bound
// to the rollup [contract].
func Dial(ctx context.Context, rawURL string, contract common.Address, options ...Option) (*EthereumChecker, error) {
	client, err := ethclient.DialContext(ctx, rawURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to dial ethereum node %q", rawURL)
	}
	return NewEthereumChecker(client, contract, options...)
}

func NewEthereumChecker(caller ContractCaller, contract common.Address, options ...Option) (*EthereumChecker, error) {
	rollupABI, err := abi.JSON(strings.NewReader(rollupABIJSON))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse rollup abi")
	}
	eip1271ABI, err := abi.JSON(strings.NewReader(eip1271ABIJSON))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse eip1271 abi")
	}

	c := &EthereumChecker{
		caller:     caller,
		contract:   contract,
		rollupABI:  rollupABI,
		eip1271ABI: eip1271ABI,
	}
	for _, option := range options {
		option.apply(c)
	}
	return c, nil
}

// Contract returns the rollup contract address.
func (c *EthereumChecker) Contract() common.Address {
	return c.contract
}

// IsNewPubkeyHashAuthorized compares the fact stored in authFacts(account,
// nonce) with keccak256(pkHash).
func (c *EthereumChecker) IsNewPubkeyHashAuthorized(
	ctx context.Context,
	account common.Address,
	nonce uint32,
	pkHash tx.PubKeyHash,
) (bool, error) {
	input, err := c.rollupABI.Pack(authFactsMethod, account, nonce)
	if err != nil {
		return false, errors.Wrap(err, "failed to pack authFacts call")
	}

	output, err := c.call(ctx, c.contract, input)
	if err != nil {
		return false, errors.Wrapf(err, "authFacts(%s, %d)", account, nonce)
	}

	values, err := c.rollupABI.Unpack(authFactsMethod, output)
	if err != nil {
		return false, errors.Wrap(err, "failed to unpack authFacts result")
	}
	fact, ok := values[0].([32]byte)
	if !ok {
		return false, errors.Errorf("unexpected authFacts result type %T", values[0])
	}

	return common.Hash(fact) == crypto.Keccak256Hash(pkHash[:]), nil
}

// IsEIP1271SignatureCorrect calls isValidSignature on [account] with the
// EIP-191 hash of [message].
func (c *EthereumChecker) IsEIP1271SignatureCorrect(
	ctx context.Context,
	account common.Address,
	message []byte,
	signature tx.EIP1271Signature,
) (bool, error) {
	var digest [32]byte
	copy(digest[:], accounts.TextHash(message))

	input, err := c.eip1271ABI.Pack(isValidSignatureMethod, digest, []byte(signature))
	if err != nil {
		return false, errors.Wrap(err, "failed to pack isValidSignature call")
	}

	output, err := c.call(ctx, account, input)
	if err != nil {
		return false, errors.Wrapf(err, "isValidSignature on %s", account)
	}

	values, err := c.eip1271ABI.Unpack(isValidSignatureMethod, output)
	if err != nil {
		return false, errors.Wrap(err, "failed to unpack isValidSignature result")
	}
	magic, ok := values[0].([4]byte)
	if !ok {
		return false, errors.Errorf("unexpected isValidSignature result type %T", values[0])
	}

	return magic == EIP1271MagicValue, nil
}

func (c *EthereumChecker) call(ctx context.Context, to common.Address, input []byte) ([]byte, error) {
	if c.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.callTimeout)
		defer cancel()
	}

	return c.caller.CallContract(ctx, ethereum.CallMsg{
		To:   &to,
		Data: input,
	}, nil)
}
