// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Package cflowmetrics exports the evaluation counters of control-flow
// pointcuts as Prometheus metrics.
package cflowmetrics

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/DataDog/cflow/pointcut/cflow"
)

// Collector reports the evaluation count of each registered pointcut under the
// `cflow_pointcut_evaluations_total` counter, labelled by pointcut name.
type Collector struct {
	desc *prometheus.Desc

	mu        sync.RWMutex
	pointcuts map[string]*cflow.Pointcut
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns an empty Collector. The namespace, if not empty, is
// prepended to the metric name.
func NewCollector(namespace string) *Collector {
	return &Collector{
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cflow", "pointcut_evaluations_total"),
			"Number of times a control-flow pointcut has inspected the call stack.",
			[]string{"pointcut"},
			nil,
		),
		pointcuts: make(map[string]*cflow.Pointcut),
	}
}

// Register adds a pointcut to the collector under the given name. Names must
// be unique.
func (c *Collector) Register(name string, pc *cflow.Pointcut) error {
	if pc == nil {
		return fmt.Errorf("registering %q: nil pointcut", name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, found := c.pointcuts[name]; found {
		return fmt.Errorf("registering %q: a pointcut is already registered under this name", name)
	}
	c.pointcuts[name] = pc
	return nil
}

// Unregister removes the pointcut registered under name, and reports whether
// there was one.
func (c *Collector) Unregister(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, found := c.pointcuts[name]
	delete(c.pointcuts, name)
	return found
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for name, pc := range c.pointcuts {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.CounterValue, float64(pc.Evaluations()), name)
	}
}
