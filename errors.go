// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sigcheck

import (
	"errors"
	"fmt"
)

// Error is the reason a transaction was refused admission.
type Error struct {
	Code    int32
	Message string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("tx rejected %d: %s", e.Code, e.Message)
}

var (
	// ErrUnauthorizedKeyChange is returned for a change pubkey tx that carries
	// no Ethereum signature and has no matching fact on the rollup contract.
	ErrUnauthorizedKeyChange = &Error{
		Code:    1,
		Message: "change pubkey tx is not authorized onchain",
	}
	// ErrInvalidOffchainSignature is returned when an ECDSA signature cannot
	// be recovered or was made by someone other than the tx account.
	ErrInvalidOffchainSignature = &Error{
		Code:    2,
		Message: "eth signature is incorrect",
	}
	// ErrInvalidTransaction is returned when an EIP-1271 signature is refused
	// by the account contract or when a tx fails its correctness check.
	ErrInvalidTransaction = &Error{
		Code:    3,
		Message: "transaction is incorrect",
	}
	// ErrOnchainUnavailable is only returned under the reject failure policy,
	// when an onchain query could not be answered.
	ErrOnchainUnavailable = &Error{
		Code:    4,
		Message: "onchain authorization check unavailable",
	}
)

var (
	// ErrOnchainQuery wraps failures to reach the onchain checker. It is never
	// a verdict about the tx.
	ErrOnchainQuery = errors.New("onchain query failed")
	// ErrCheckerFault is returned to a client whose request was dropped
	// without a verdict.
	ErrCheckerFault = errors.New("signature checker dropped the request")
	ErrTaskPanicked = errors.New("signature check task panicked")
	ErrLoopPanicked = errors.New("signature checker loop panicked")

	ErrMissingContract = errors.New("rollup contract address is not configured")
)
