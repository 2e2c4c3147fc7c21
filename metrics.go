// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sigcheck

import (
	"time"

	"github.com/luxfi/metric"
)

type metrics struct {
	requests   metric.Counter
	verified   metric.Counter
	rejected   metric.Counter
	faults     metric.Counter
	inFlight   metric.Gauge
	verifyTime metric.Gauge
}

func newMetrics(registerer metric.Registerer, namespace string) *metrics {
	registry, ok := registerer.(metric.Registry)
	if !ok {
		return &metrics{
			requests:   metric.NewCounter(metric.CounterOpts{Namespace: namespace, Name: "requests"}),
			verified:   metric.NewCounter(metric.CounterOpts{Namespace: namespace, Name: "verified"}),
			rejected:   metric.NewCounter(metric.CounterOpts{Namespace: namespace, Name: "rejected"}),
			faults:     metric.NewCounter(metric.CounterOpts{Namespace: namespace, Name: "faults"}),
			inFlight:   metric.NewGauge(metric.GaugeOpts{Namespace: namespace, Name: "in_flight"}),
			verifyTime: metric.NewGauge(metric.GaugeOpts{Namespace: namespace, Name: "verify_time"}),
		}
	}

	m := metric.NewWithRegistry(namespace, registry)
	return &metrics{
		requests:   m.NewCounter("requests", "number of verification requests received"),
		verified:   m.NewCounter("verified", "number of requests that verified"),
		rejected:   m.NewCounter("rejected", "number of requests that were rejected"),
		faults:     m.NewCounter("faults", "number of requests dropped without a verdict"),
		inFlight:   m.NewGauge("in_flight", "number of verifications running"),
		verifyTime: m.NewGauge("verify_time", "time spent verifying requests (ns)"),
	}
}

func (m *metrics) observe(start time.Time) {
	m.verifyTime.Add(float64(time.Since(start)))
}
