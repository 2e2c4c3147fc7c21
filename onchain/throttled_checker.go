// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package onchain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/luxfi/log"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/luxfi/sigcheck/tx"
)

func NewThrottledChecker(checker Checker, limiter *rate.Limiter, log log.Logger) *ThrottledChecker {
	return &ThrottledChecker{
		checker: checker,
		limiter: limiter,
		log:     log,
	}
}

// ThrottledChecker bounds the rate of queries sent to the wrapped Checker.
// Callers wait for a token; a cancelled context fails the query.
type ThrottledChecker struct {
	checker Checker
	limiter *rate.Limiter
	log     log.Logger
}

func (t *ThrottledChecker) IsNewPubkeyHashAuthorized(ctx context.Context, account common.Address, nonce uint32, pkHash tx.PubKeyHash) (bool, error) {
	if err := t.wait(ctx, authFactsMethod, account); err != nil {
		return false, err
	}

	return t.checker.IsNewPubkeyHashAuthorized(ctx, account, nonce, pkHash)
}

func (t *ThrottledChecker) IsEIP1271SignatureCorrect(ctx context.Context, account common.Address, message []byte, signature tx.EIP1271Signature) (bool, error) {
	if err := t.wait(ctx, isValidSignatureMethod, account); err != nil {
		return false, err
	}

	return t.checker.IsEIP1271SignatureCorrect(ctx, account, message, signature)
}

func (t *ThrottledChecker) wait(ctx context.Context, method string, account common.Address) error {
	if err := t.limiter.Wait(ctx); err != nil {
		t.log.Debug("dropping onchain query",
			log.String("method", method),
			log.Stringer("account", account),
			log.Err(err),
		)
		return errors.Wrap(err, "onchain query throttled")
	}
	return nil
}
