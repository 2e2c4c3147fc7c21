// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sigcheck

import "context"

// Client submits verification requests to a Checker and waits for the reply.
type Client struct {
	input chan<- *Request
}

// NewClient returns a Client that sends requests on [input].
func NewClient(input chan<- *Request) *Client {
	return &Client{input: input}
}

// Verify submits [variant] and blocks until it is verified, refused, or [ctx]
// is done.
//
// A refusal is returned as one of the *Error values of this package. If the
// checker dropped the request without a verdict ErrCheckerFault is returned.
// Returning early because of [ctx] abandons the request; the checker still
// handles it and the reply is discarded.
func (c *Client) Verify(ctx context.Context, variant TxVariant) (*VerifiedTx, error) {
	request, response := NewRequest(variant)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case c.input <- request:
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case resp, ok := <-response:
		if !ok {
			return nil, ErrCheckerFault
		}
		if resp.Err != nil {
			return nil, resp.Err
		}
		return resp.Tx, nil
	}
}
