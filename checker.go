// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package sigcheck verifies the Ethereum authorization of rollup transactions
// before they are admitted.
//
// A Checker reads Requests from an inbound channel and verifies each one on
// its own goroutine, so a slow onchain query never holds up the requests
// behind it. Successful checks produce a VerifiedTx, which can only be
// created by Verify.
package sigcheck

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/luxfi/log"
	"github.com/luxfi/metric"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/luxfi/sigcheck/config"
	"github.com/luxfi/sigcheck/onchain"
)

// Checker dispatches verification requests to concurrently running tasks.
type Checker struct {
	log     log.Logger
	onchain onchain.Checker
	metrics *metrics
	policy  config.FailurePolicy
	faults  chan<- error

	// nil when the number of running tasks is not capped
	slots *semaphore.Weighted

	tasks sync.WaitGroup
	done  chan struct{}
}

// New returns a Checker that queries [checker] for onchain authorizations.
// Faults are reported on [faults] when it is non-nil; reports are dropped if
// nobody is receiving.
func New(
	logger log.Logger,
	checker onchain.Checker,
	registerer metric.Registerer,
	cfg config.Config,
	faults chan<- error,
) (*Checker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Checker{
		log:     logger,
		onchain: checker,
		metrics: newMetrics(registerer, cfg.MetricsNamespace),
		policy:  cfg.OnchainFailurePolicy,
		faults:  faults,
		done:    make(chan struct{}),
	}
	if cfg.MaxInFlight > 0 {
		c.slots = semaphore.NewWeighted(cfg.MaxInFlight)
	}
	return c, nil
}

// StartDetached connects to the Ethereum node from [cfg] and runs a Checker on
// its own goroutine until [input] is closed or [ctx] is done. Failing to build
// the onchain client is returned here rather than per request.
func StartDetached(
	ctx context.Context,
	logger log.Logger,
	registerer metric.Registerer,
	cfg config.Config,
	input <-chan *Request,
	faults chan<- error,
) (*Checker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.ContractAddress == "" {
		return nil, ErrMissingContract
	}

	ethChecker, err := onchain.Dial(
		ctx,
		cfg.Web3URL,
		common.HexToAddress(cfg.ContractAddress),
		onchain.WithCallTimeout(cfg.OnchainTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start signature checker: %w", err)
	}

	var checker onchain.Checker = ethChecker
	if cfg.OnchainRPS > 0 {
		limiter := rate.NewLimiter(rate.Limit(cfg.OnchainRPS), cfg.OnchainBurst)
		checker = onchain.NewThrottledChecker(ethChecker, limiter, logger)
	}

	c, err := New(logger, checker, registerer, cfg, faults)
	if err != nil {
		return nil, err
	}
	c.Start(ctx, input)

	logger.Info("signature checker started",
		log.String("web3URL", cfg.Web3URL),
		log.Stringer("contract", ethChecker.Contract()),
		log.Int("maxInFlight", int(cfg.MaxInFlight)),
		log.String("onchainFailurePolicy", string(cfg.OnchainFailurePolicy)),
	)
	return c, nil
}

// Start runs the request loop on its own goroutine. A panic in the loop is
// reported as a fault and the queued requests are dropped before the goroutine
// exits. Done is closed when the
// loop returns.
func (c *Checker) Start(ctx context.Context, input <-chan *Request) {
	go func() {
		defer close(c.done)
		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("%w: %v", ErrLoopPanicked, r)
				c.log.Error("signature checker stopped", log.Err(err))
				c.reportFault(err)
				c.dropQueued(input)
			}
		}()

		c.Run(ctx, input)
	}()
}

// Done is closed once the loop started by Start returns.
func (c *Checker) Done() <-chan struct{} {
	return c.done
}

// Run reads requests from [input] and verifies each one on a new goroutine
// until [input] is closed or [ctx] is done. Tasks still running when Run
// returns finish on their own; use Wait to block on them. Requests still
// queued when [ctx] is done are dropped.
func (c *Checker) Run(ctx context.Context, input <-chan *Request) {
	// Tasks outlive the loop, so they must not be cancelled with it.
	taskCtx := context.WithoutCancel(ctx)

	for {
		select {
		case <-ctx.Done():
			c.dropQueued(input)
			return
		case request, ok := <-input:
			if !ok {
				return
			}
			if request == nil {
				continue
			}

			c.metrics.requests.Inc()
			if c.slots != nil {
				if err := c.slots.Acquire(ctx, 1); err != nil {
					request.drop()
					c.dropQueued(input)
					return
				}
			}
			c.spawn(taskCtx, request)
		}
	}
}

// dropQueued closes the reply of every request already in [input] without
// waiting for more.
func (c *Checker) dropQueued(input <-chan *Request) {
	var dropped int
	defer func() {
		if dropped > 0 {
			c.log.Warn("dropped queued requests on shutdown", log.Int("numRequests", dropped))
		}
	}()

	for {
		select {
		case request, ok := <-input:
			if !ok {
				return
			}
			if request != nil {
				request.drop()
				dropped++
			}
		default:
			return
		}
	}
}

// Wait blocks until every spawned task has replied.
func (c *Checker) Wait() {
	c.tasks.Wait()
}

func (c *Checker) spawn(ctx context.Context, request *Request) {
	c.tasks.Add(1)
	c.metrics.inFlight.Add(1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				c.fault(request, fmt.Errorf("%w: %v", ErrTaskPanicked, r))
			}
			c.metrics.inFlight.Add(-1)
			if c.slots != nil {
				c.slots.Release(1)
			}
			c.tasks.Done()
		}()

		c.verify(ctx, request)
	}()
}

func (c *Checker) verify(ctx context.Context, request *Request) {
	start := time.Now()
	verified, err := Verify(ctx, request.Tx, c.onchain)
	c.metrics.observe(start)

	var rejection *Error
	switch {
	case err == nil:
		c.metrics.verified.Inc()
		request.respond(Response{Tx: verified})
	case errors.As(err, &rejection):
		c.metrics.rejected.Inc()
		c.log.Debug("rejected tx",
			log.Int("numTxs", len(request.Tx.txs)),
			log.Bool("batch", request.Tx.IsBatch()),
			log.Int("code", int(rejection.Code)),
			log.String("reason", rejection.Message),
		)
		request.respond(Response{Err: rejection})
	case c.policy == config.FailurePolicyReject:
		c.metrics.rejected.Inc()
		c.log.Warn("rejecting tx without an onchain answer",
			log.Int("numTxs", len(request.Tx.txs)),
			log.Err(err),
		)
		request.respond(Response{Err: ErrOnchainUnavailable})
	default:
		c.fault(request, err)
	}
}

// fault drops [request] without a verdict and reports [err].
func (c *Checker) fault(request *Request, err error) {
	c.metrics.faults.Inc()
	c.log.Error("signature check failed",
		log.Int("numTxs", len(request.Tx.txs)),
		log.Err(err),
	)
	c.reportFault(err)
	request.drop()
}

func (c *Checker) reportFault(err error) {
	if c.faults == nil {
		return
	}
	select {
	case c.faults <- err:
	default:
		c.log.Warn("dropping fault report", log.Err(err))
	}
}
