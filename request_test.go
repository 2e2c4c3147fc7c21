// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sigcheck

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestRepliesOnce(t *testing.T) {
	require := require.New(t)

	request, response := NewRequest(TxVariant{})
	request.respond(Response{Err: ErrInvalidTransaction})
	request.respond(Response{Err: ErrInvalidOffchainSignature})
	request.drop()

	resp, ok := <-response
	require.True(ok)
	require.Equal(ErrInvalidTransaction, resp.Err)

	_, ok = <-response
	require.False(ok)
}

func TestRequestDrop(t *testing.T) {
	require := require.New(t)

	request, response := NewRequest(TxVariant{})
	request.drop()
	request.respond(Response{Err: ErrInvalidTransaction})

	_, ok := <-response
	require.False(ok)
}

func TestRequestWithoutResponseChannel(t *testing.T) {
	request := &Request{}
	require.NotPanics(t, func() {
		request.respond(Response{})
		request.drop()
	})
}

func TestErrorString(t *testing.T) {
	require := require.New(t)

	require.Equal("tx rejected 1: change pubkey tx is not authorized onchain", ErrUnauthorizedKeyChange.Error())

	var nilErr *Error
	require.Empty(nilErr.Error())
}
