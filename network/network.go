package network

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"
	"strings"
)

// dispatchItem is one pending delivery on the FIFO dispatch queue: an RREQ
// destined for Receiver, tagged with the id of the node that forwarded it.
type dispatchItem struct {
	Receiver  NodeID
	Packet    Packet
	Forwarder NodeID
}

// Network owns the node collection, the symmetric link graph (held inside
// each Node's connections map), and the single FIFO dispatch queue that
// drives RREQ flooding. All randomness — topology construction,
// reconnection, and scenario-driver picks — is drawn from one PRNG owned
// here, so a fixed seed and an identical call sequence reproduce the same
// run.
type Network struct {
	nodes  []*Node
	byID   map[NodeID]*Node
	queue  []dispatchItem
	rng    *rand.Rand
	hopCap int
	logger *slog.Logger
}

// New returns an empty Network. Call CreateRandom, or wire up nodes
// manually via AddLink, before running discovery.
func New() *Network {
	return &Network{
		byID:   make(map[NodeID]*Node),
		rng:    rand.New(rand.NewSource(1)),
		hopCap: 40,
		logger: slog.Default(),
	}
}

// SetLogger overrides the Network's logger; the default is slog.Default().
func (net *Network) SetLogger(logger *slog.Logger) {
	net.logger = logger
}

func (net *Network) nodeByID(id NodeID) *Node {
	return net.byID[id]
}

func (net *Network) enqueue(receiver NodeID, pkt Packet, forwarder NodeID) {
	net.queue = append(net.queue, dispatchItem{Receiver: receiver, Packet: pkt, Forwarder: forwarder})
}

// drainQueue processes the dispatch queue to a fixpoint. Only RREQ ever
// flows through the queue; the switch still dispatches on the full
// packet-kind set, since the queue is conceptually a tagged-variant
// channel even though today only one case is reachable.
func (net *Network) drainQueue() {
	for len(net.queue) > 0 {
		item := net.queue[0]
		net.queue = net.queue[1:]
		receiver := net.nodeByID(item.Receiver)
		if receiver == nil {
			continue
		}
		switch pkt := item.Packet.(type) {
		case *RREQ:
			receiver.ReceiveRREQ(pkt, item.Forwarder)
		default:
			net.logger.Warn("dispatch queue saw unexpected packet kind", slog.Any("kind", item.Packet.Kind()))
		}
	}
}

// RandomTopologyConfig parametrizes CreateRandom.
type RandomTopologyConfig struct {
	N        int
	Seed     int64
	AreaSize float64
	RangeMin float64
	RangeMax float64
}

// CreateRandom builds N nodes at uniform random positions in
// [0,AreaSize)x[0,AreaSize) with uniform random transmission ranges in
// [RangeMin, RangeMax), links any pair within mutual range with a uniform
// random delay in [0,1), and then enforces connectivity. Seed re-seeds the
// Network's PRNG, which topology construction, reconnection, and any later
// scenario-driver calls continue to share.
func (net *Network) CreateRandom(cfg RandomTopologyConfig) error {
	if cfg.N <= 0 {
		return fmt.Errorf("network: N must be positive, got %d", cfg.N)
	}
	net.rng = rand.New(rand.NewSource(cfg.Seed))
	net.nodes = make([]*Node, cfg.N)
	net.byID = make(map[NodeID]*Node, cfg.N)
	net.queue = nil
	net.hopCap = cfg.N
	if net.hopCap < 40 {
		net.hopCap = 40
	}

	for i := 0; i < cfg.N; i++ {
		x := net.rng.Float64() * cfg.AreaSize
		y := net.rng.Float64() * cfg.AreaSize
		r := cfg.RangeMin + net.rng.Float64()*(cfg.RangeMax-cfg.RangeMin)
		node := newNode(NodeID(i), x, y, r, net)
		net.nodes[i] = node
		net.byID[node.ID] = node
	}

	for i := 0; i < cfg.N; i++ {
		for j := i + 1; j < cfg.N; j++ {
			a, b := net.nodes[i], net.nodes[j]
			if withinRange(a, b) {
				delay := net.rng.Float64()
				a.connections[b.ID] = delay
				b.connections[a.ID] = delay
			}
		}
	}

	net.enforceConnectivity()
	return nil
}

// AddLink installs a symmetric link. No-op (returns false) if a==b, either
// id is unknown, or the link already exists.
func (net *Network) AddLink(a, b NodeID, delay float64) bool {
	if a == b {
		return false
	}
	na, nb := net.nodeByID(a), net.nodeByID(b)
	if na == nil || nb == nil {
		return false
	}
	if _, exists := na.connections[b]; exists {
		return false
	}
	na.connections[b] = delay
	nb.connections[a] = delay
	return true
}

// RemoveLink removes a symmetric link and, if that disconnects the graph,
// restores connectivity. Routing-table entries through the removed link
// are not proactively invalidated: they go stale and are cleaned up lazily
// by loop detection, CanSend, or an eventual RERR.
func (net *Network) RemoveLink(a, b NodeID) bool {
	na, nb := net.nodeByID(a), net.nodeByID(b)
	if na == nil || nb == nil {
		return false
	}
	if _, exists := na.connections[b]; !exists {
		return false
	}
	delete(na.connections, b)
	delete(nb.connections, a)

	if !net.isConnected() {
		net.enforceConnectivity()
	}
	return true
}

// LinkExists is a symmetric membership test.
func (net *Network) LinkExists(a, b NodeID) bool {
	na := net.nodeByID(a)
	if na == nil {
		return false
	}
	_, ok := na.connections[b]
	return ok
}

// GetLinkCost returns the link's delay, or +Inf if no link exists.
func (net *Network) GetLinkCost(a, b NodeID) float64 {
	na := net.nodeByID(a)
	if na == nil {
		return math.Inf(1)
	}
	if d, ok := na.connections[b]; ok {
		return d
	}
	return math.Inf(1)
}

// LinkInfo describes one undirected link, reported with A < B.
type LinkInfo struct {
	A, B  NodeID
	Delay float64
}

// GetAllLinks returns every undirected link exactly once, each with A < B,
// sorted by (A, B).
func (net *Network) GetAllLinks() []LinkInfo {
	var links []LinkInfo
	for _, node := range net.nodes {
		for nb, delay := range node.connections {
			if node.ID < nb {
				links = append(links, LinkInfo{A: node.ID, B: nb, Delay: delay})
			}
		}
	}
	sort.Slice(links, func(i, j int) bool {
		if links[i].A != links[j].A {
			return links[i].A < links[j].A
		}
		return links[i].B < links[j].B
	})
	return links
}

// GetUnconnectedPairs returns node pairs with no link that are within
// mutual transmission range — link candidates, not every non-adjacent
// pair.
func (net *Network) GetUnconnectedPairs() [][2]NodeID {
	var pairs [][2]NodeID
	for i := 0; i < len(net.nodes); i++ {
		for j := i + 1; j < len(net.nodes); j++ {
			a, b := net.nodes[i], net.nodes[j]
			if _, linked := a.connections[b.ID]; linked {
				continue
			}
			if withinRange(a, b) {
				pairs = append(pairs, [2]NodeID{a.ID, b.ID})
			}
		}
	}
	return pairs
}

func withinRange(a, b *Node) bool {
	d := distance(a, b)
	return d <= a.TransmissionRange || d <= b.TransmissionRange
}

func distance(a, b *Node) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// RouteDiscovery originates an AODV discovery from src toward dst and
// drains the dispatch queue to a fixpoint before returning.
func (net *Network) RouteDiscovery(src, dst NodeID) {
	s := net.nodeByID(src)
	if s == nil {
		return
	}
	s.BroadcastRREQ(dst)
	net.drainQueue()
}

// SimulateTransmission sends payload from src to dst: if src already has a
// usable route, it sends directly; otherwise it runs one route discovery
// and retries once. No further retries.
func (net *Network) SimulateTransmission(src, dst NodeID, payload string) (path []NodeID, hops int, cost float64, ok bool) {
	if src == dst {
		return nil, 0, 0, false
	}
	s, d := net.nodeByID(src), net.nodeByID(dst)
	if s == nil || d == nil {
		return nil, 0, 0, false
	}

	if s.CanSend(dst) {
		if h, p, c, success := s.SendMSG(dst, payload); success {
			return p, h, c, true
		}
		return nil, 0, 0, false
	}

	net.RouteDiscovery(src, dst)

	if s.CanSend(dst) {
		if h, p, c, success := s.SendMSG(dst, payload); success {
			return p, h, c, true
		}
	}
	return nil, 0, 0, false
}

// DiscoverNeighbors runs a one-hop route discovery toward every live
// neighbor of id that doesn't already have a routing-table entry, seeding
// direct-neighbor routes.
func (net *Network) DiscoverNeighbors(id NodeID) {
	node := net.nodeByID(id)
	if node == nil {
		return
	}
	for _, nb := range node.neighbors() {
		if _, exists := node.routingTable[nb]; exists {
			continue
		}
		net.RouteDiscovery(id, nb)
	}
}

// Stats aggregates every node's protocol counters.
func (net *Network) Stats() Stats {
	var agg Stats
	for _, node := range net.nodes {
		agg.RREQSent += node.stats.RREQSent
		agg.RREQRecv += node.stats.RREQRecv
		agg.RREPSent += node.stats.RREPSent
		agg.RREPRecv += node.stats.RREPRecv
		agg.RERRSent += node.stats.RERRSent
		agg.RERRRecv += node.stats.RERRRecv
		agg.DataSent += node.stats.DataSent
		agg.DataRecv += node.stats.DataRecv
	}
	return agg
}

// NodeCount returns the number of nodes in the network.
func (net *Network) NodeCount() int {
	return len(net.nodes)
}

// Chance draws one Bernoulli trial from the Network's shared PRNG.
func (net *Network) Chance(p float64) bool {
	return net.rng.Float64() < p
}

// RandomDelay draws a uniform delay in [min, max) from the shared PRNG.
func (net *Network) RandomDelay(min, max float64) float64 {
	return min + net.rng.Float64()*(max-min)
}

// RandomNodePair draws two distinct node ids uniformly at random.
func (net *Network) RandomNodePair() (src, dst NodeID, ok bool) {
	n := len(net.nodes)
	if n < 2 {
		return 0, 0, false
	}
	src = NodeID(net.rng.Intn(n))
	dst = NodeID(net.rng.Intn(n))
	for dst == src {
		dst = NodeID(net.rng.Intn(n))
	}
	return src, dst, true
}

// RandomLink draws one existing link uniformly at random.
func (net *Network) RandomLink() (LinkInfo, bool) {
	links := net.GetAllLinks()
	if len(links) == 0 {
		return LinkInfo{}, false
	}
	return links[net.rng.Intn(len(links))], true
}

// RandomUnconnectedPair draws one in-range, unlinked node pair uniformly
// at random.
func (net *Network) RandomUnconnectedPair() (pair [2]NodeID, ok bool) {
	pairs := net.GetUnconnectedPairs()
	if len(pairs) == 0 {
		return [2]NodeID{}, false
	}
	return pairs[net.rng.Intn(len(pairs))], true
}

// StatsTable renders a compact per-node counter table for CLI/debug
// output; not part of the programmatic contract.
func (net *Network) StatsTable() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-6s %10s %10s %10s %10s %10s %10s\n", "node", "rreq_snt", "rreq_rcv", "rrep_snt", "rrep_rcv", "data_snt", "data_rcv")
	for _, node := range net.nodes {
		fmt.Fprintf(&b, "%-6d %10d %10d %10d %10d %10d %10d\n",
			node.ID, node.stats.RREQSent, node.stats.RREQRecv,
			node.stats.RREPSent, node.stats.RREPRecv,
			node.stats.DataSent, node.stats.DataRecv)
	}
	return b.String()
}
