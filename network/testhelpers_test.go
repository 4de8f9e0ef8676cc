package network

import (
	"io"
	"log/slog"
	"math/rand"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestNetwork builds a bare Network with n nodes at arbitrary positions
// and no links, for tests that want to hand-wire a specific topology
// instead of going through CreateRandom's randomized placement.
func newTestNetwork(n int, seed int64) *Network {
	net := &Network{
		byID:   make(map[NodeID]*Node, n),
		rng:    rand.New(rand.NewSource(seed)),
		hopCap: 40,
		logger: discardLogger(),
	}
	net.nodes = make([]*Node, n)
	for i := 0; i < n; i++ {
		node := newNode(NodeID(i), float64(i), 0, 0, net)
		net.nodes[i] = node
		net.byID[node.ID] = node
	}
	if n > net.hopCap {
		net.hopCap = n
	}
	return net
}

func link(net *Network, a, b NodeID, delay float64) {
	net.AddLink(a, b, delay)
}
