// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package metrics exports simulation statistics as Prometheus metrics.
//
package metrics

import (
	"github.com/db47h/comphdl"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "comphdl"

// ComponentLabel is the label holding the name of the top level component.
//
const ComponentLabel = "component"

// Recorder tracks the statistics of one simulated network on a private
// registry.
//
type Recorder struct {
	reg          *prometheus.Registry
	ticks        prometheus.Counter
	evaluations  prometheus.Counter
	propagations prometheus.Counter
	slots        prometheus.Gauge
	written      prometheus.Counter
	dropped      prometheus.Counter
	last         comphdl.Stats
	lastWritten  int
	lastDropped  int
}

// New returns a new Recorder for the named top level component.
//
func New(component string) *Recorder {
	labels := prometheus.Labels{ComponentLabel: component}
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "ticks_total",
			Help:        "Number of simulated ticks",
			ConstLabels: labels,
		}),
		evaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "slot_evaluations_total",
			Help:        "Number of component evaluations, all nesting levels included",
			ConstLabels: labels,
		}),
		propagations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "propagations_total",
			Help:        "Number of input values changed by signal propagation",
			ConstLabels: labels,
		}),
		slots: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "slots",
			Help:        "Number of component instances in the network",
			ConstLabels: labels,
		}),
		written: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "stdout_bytes_written_total",
			Help:        "Number of bytes written by Stdout components",
			ConstLabels: labels,
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "stdout_bytes_dropped_total",
			Help:        "Number of Stdout clock edges that did not produce a byte",
			ConstLabels: labels,
		}),
	}
	r.reg.MustRegister(r.ticks, r.evaluations, r.propagations, r.slots, r.written, r.dropped)
	return r
}

// Registry returns the registry holding the metrics.
//
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// Observe records the statistics of s accumulated since the last call.
//
func (r *Recorder) Observe(s *comphdl.Structural) {
	st := s.Stats()
	r.ticks.Add(float64(st.Ticks - r.last.Ticks))
	r.evaluations.Add(float64(st.Evaluations - r.last.Evaluations))
	r.propagations.Add(float64(st.Propagations - r.last.Propagations))
	r.slots.Set(float64(st.Slots))
	r.last = st

	w, d := stdoutTotals(s)
	r.written.Add(float64(w - r.lastWritten))
	r.dropped.Add(float64(d - r.lastDropped))
	r.lastWritten, r.lastDropped = w, d
}

func stdoutTotals(s *comphdl.Structural) (written, dropped int) {
	for i := 1; i < s.Len(); i++ {
		switch c := s.Child(i).(type) {
		case *comphdl.Stdout:
			written += c.Written()
			dropped += c.Dropped()
		case *comphdl.Structural:
			w, d := stdoutTotals(c)
			written += w
			dropped += d
		}
	}
	return written, dropped
}

// WriteFile writes the metrics in the Prometheus text format to path.
//
func (r *Recorder) WriteFile(path string) error {
	return errors.Wrap(prometheus.WriteToTextfile(path, r.reg), "write metrics")
}
