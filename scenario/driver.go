// Package scenario runs the AODV simulator's stochastic step loop: each
// step draws independent Bernoulli trials for a transmission attempt, a
// link failure, and a link birth against a live network.Network.
package scenario

import (
	"fmt"
	"log/slog"

	"github.com/kprusa/aodvsim/network"
)

// Config parametrizes one scenario run.
type Config struct {
	Steps    int
	PRequest float64
	PFail    float64
	PNew     float64
}

// Driver runs Config.Steps steps of the scenario against Net.
type Driver struct {
	Net    *network.Network
	Config Config
	Logger *slog.Logger
}

// New returns a Driver with a default logger (slog.Default()).
func New(net *network.Network, cfg Config) *Driver {
	return &Driver{Net: net, Config: cfg, Logger: slog.Default()}
}

// Run executes Config.Steps steps in order, 1-indexed.
func (d *Driver) Run() {
	for step := 1; step <= d.Config.Steps; step++ {
		d.Step(step)
	}
}

// Step runs a single step's three independent Bernoulli trials, in order:
// a transmission attempt, a link failure, and a link birth.
func (d *Driver) Step(step int) {
	d.tryTransmission(step)
	d.tryLinkFailure(step)
	d.tryLinkBirth(step)
}

func (d *Driver) tryTransmission(step int) {
	if !d.Net.Chance(d.Config.PRequest) {
		return
	}
	src, dst, ok := d.Net.RandomNodePair()
	if !ok {
		return
	}
	payload := fmt.Sprintf("step-%d: %d->%d", step, src, dst)
	path, hops, cost, ok := d.Net.SimulateTransmission(src, dst, payload)
	d.Logger.Debug("transmission attempt",
		slog.Int("step", step), slog.Any("src", src), slog.Any("dst", dst),
		slog.Bool("ok", ok), slog.Int("hops", hops), slog.Float64("cost", cost), slog.Any("path", path))
}

func (d *Driver) tryLinkFailure(step int) {
	if !d.Net.Chance(d.Config.PFail) {
		return
	}
	link, ok := d.Net.RandomLink()
	if !ok {
		return
	}
	d.Net.RemoveLink(link.A, link.B)
	d.Logger.Debug("link failure", slog.Int("step", step), slog.Any("a", link.A), slog.Any("b", link.B))
}

func (d *Driver) tryLinkBirth(step int) {
	if !d.Net.Chance(d.Config.PNew) {
		return
	}
	pair, ok := d.Net.RandomUnconnectedPair()
	if !ok {
		return
	}
	delay := d.Net.RandomDelay(0.1, 1.0)
	d.Net.AddLink(pair[0], pair[1], delay)
	d.Net.DiscoverNeighbors(pair[0])
	d.Logger.Debug("link birth", slog.Int("step", step), slog.Any("a", pair[0]), slog.Any("b", pair[1]), slog.Float64("delay", delay))
}
