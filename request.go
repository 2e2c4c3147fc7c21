// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sigcheck

import (
	"sync"

	"github.com/luxfi/sigcheck/config"
)

// Response is the outcome of a verification request. Exactly one of Tx and
// Err is set.
type Response struct {
	Tx  *VerifiedTx
	Err error
}

// Request asks the Checker to verify [Tx]. The result is delivered on the
// channel returned by NewRequest.
type Request struct {
	Tx TxVariant

	once     sync.Once
	response chan Response
}

// NewRequest returns a request for [variant] and the channel its response is
// delivered on.
//
// The channel receives at most one Response and is then closed. If it is
// closed without a Response the checker faulted while handling the request.
// The channel is buffered, so a caller that stops waiting never blocks the
// checker.
func NewRequest(variant TxVariant) (*Request, <-chan Response) {
	response := make(chan Response, 1)
	return &Request{
		Tx:       variant,
		response: response,
	}, response
}

func (r *Request) respond(resp Response) {
	r.once.Do(func() {
		if r.response == nil {
			return
		}
		r.response <- resp
		close(r.response)
	})
}

// drop closes the response channel without a value.
func (r *Request) drop() {
	r.once.Do(func() {
		if r.response == nil {
			return
		}
		close(r.response)
	})
}

// NewQueue returns the inbound channel of a Checker, buffered to the
// configured queue size.
func NewQueue(cfg config.Config) chan *Request {
	return make(chan *Request, cfg.QueueSize)
}
