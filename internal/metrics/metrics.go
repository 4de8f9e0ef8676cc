// Package metrics exposes a network.Network's aggregate Stats as
// Prometheus collectors; cmd/aodvsim serves them at /metrics via
// promhttp.HandlerFor.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kprusa/aodvsim/network"
)

// Collector is a prometheus.Collector that reads a *network.Network's
// Stats() on every scrape and reports the values as const metrics (the
// eight protocol counters as counters, efficiency as a gauge) rather than
// incrementing counters of its own, since Stats() already aggregates every
// node's lifetime counters.
type Collector struct {
	net *network.Network

	rreqSent   *prometheus.Desc
	rreqRecv   *prometheus.Desc
	rrepSent   *prometheus.Desc
	rrepRecv   *prometheus.Desc
	rerrSent   *prometheus.Desc
	rerrRecv   *prometheus.Desc
	dataSent   *prometheus.Desc
	dataRecv   *prometheus.Desc
	efficiency *prometheus.Desc
}

// NewCollector wraps net for Prometheus registration.
func NewCollector(net *network.Network) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc("aodvsim_"+name, help, nil, nil)
	}
	return &Collector{
		net:        net,
		rreqSent:   desc("rreq_sent_total", "Total RREQ packets sent across all nodes."),
		rreqRecv:   desc("rreq_recv_total", "Total RREQ packets received across all nodes."),
		rrepSent:   desc("rrep_sent_total", "Total RREP packets sent across all nodes."),
		rrepRecv:   desc("rrep_recv_total", "Total RREP packets received across all nodes."),
		rerrSent:   desc("rerr_sent_total", "Total RERR packets sent across all nodes."),
		rerrRecv:   desc("rerr_recv_total", "Total RERR packets received across all nodes."),
		dataSent:   desc("data_sent_total", "Total data packets sent across all nodes."),
		dataRecv:   desc("data_recv_total", "Total data packets received across all nodes."),
		efficiency: desc("efficiency_ratio", "data_recv / total_exchanged across all nodes."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.rreqSent
	ch <- c.rreqRecv
	ch <- c.rrepSent
	ch <- c.rrepRecv
	ch <- c.rerrSent
	ch <- c.rerrRecv
	ch <- c.dataSent
	ch <- c.dataRecv
	ch <- c.efficiency
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.net.Stats()
	ch <- prometheus.MustNewConstMetric(c.rreqSent, prometheus.CounterValue, float64(s.RREQSent))
	ch <- prometheus.MustNewConstMetric(c.rreqRecv, prometheus.CounterValue, float64(s.RREQRecv))
	ch <- prometheus.MustNewConstMetric(c.rrepSent, prometheus.CounterValue, float64(s.RREPSent))
	ch <- prometheus.MustNewConstMetric(c.rrepRecv, prometheus.CounterValue, float64(s.RREPRecv))
	ch <- prometheus.MustNewConstMetric(c.rerrSent, prometheus.CounterValue, float64(s.RERRSent))
	ch <- prometheus.MustNewConstMetric(c.rerrRecv, prometheus.CounterValue, float64(s.RERRRecv))
	ch <- prometheus.MustNewConstMetric(c.dataSent, prometheus.CounterValue, float64(s.DataSent))
	ch <- prometheus.MustNewConstMetric(c.dataRecv, prometheus.CounterValue, float64(s.DataRecv))
	ch <- prometheus.MustNewConstMetric(c.efficiency, prometheus.GaugeValue, s.Efficiency())
}
