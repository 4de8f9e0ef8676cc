package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/kprusa/aodvsim/network"
)

func TestCollector_reportsNetworkStats(t *testing.T) {
	net := network.New()
	if err := net.CreateRandom(network.RandomTopologyConfig{N: 2, Seed: 1, AreaSize: 5, RangeMin: 10, RangeMax: 10}); err != nil {
		t.Fatalf("CreateRandom: %v", err)
	}
	net.RouteDiscovery(0, 1)
	if _, _, _, ok := net.SimulateTransmission(0, 1, "hi"); !ok {
		t.Fatal("expected transmission to succeed on a 2-node in-range topology")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(NewCollector(net))

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	want := map[string]bool{
		"aodvsim_rreq_sent_total":  false,
		"aodvsim_rreq_recv_total":  false,
		"aodvsim_rrep_sent_total":  false,
		"aodvsim_rrep_recv_total":  false,
		"aodvsim_rerr_sent_total":  false,
		"aodvsim_rerr_recv_total":  false,
		"aodvsim_data_sent_total":  false,
		"aodvsim_data_recv_total":  false,
		"aodvsim_efficiency_ratio": false,
	}
	var dataRecv, efficiency float64
	for _, f := range families {
		if _, ok := want[f.GetName()]; !ok {
			t.Fatalf("unexpected metric family %q", f.GetName())
		}
		want[f.GetName()] = true
		m := f.GetMetric()[0]
		switch f.GetName() {
		case "aodvsim_data_recv_total":
			dataRecv = metricValue(m)
		case "aodvsim_efficiency_ratio":
			efficiency = metricValue(m)
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("metric family %q was not reported", name)
		}
	}
	if dataRecv != float64(net.Stats().DataRecv) {
		t.Errorf("data_recv_total = %v, want %v", dataRecv, net.Stats().DataRecv)
	}
	if efficiency != net.Stats().Efficiency() {
		t.Errorf("efficiency_ratio = %v, want %v", efficiency, net.Stats().Efficiency())
	}
}

func metricValue(m *dto.Metric) float64 {
	if m.GetCounter() != nil {
		return m.GetCounter().GetValue()
	}
	return m.GetGauge().GetValue()
}
