package network

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
)

// NodeID uniquely identifies a node. Ids are dense, 0..N-1, assigned at
// construction.
type NodeID uint32

func (id NodeID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// defaultTTL is carried on every RREQ but never used to prune forwarding;
// duplicate suppression via seenRREQs is what actually bounds the flood.
const defaultTTL = 64

type rreqKey struct {
	Originator  NodeID
	BroadcastID int
}

// Node is a single AODV-speaking participant: a position, a symmetric
// neighbor set maintained by the owning Network, a routing table, and the
// duplicate-suppression state the protocol needs to keep RREQ floods and
// RERR propagation from looping forever.
//
// A Node never creates or destroys links itself — that is the Network's
// job. net is a non-owning back-reference used to query link state and
// reach other nodes by id; Node never owns the Network.
type Node struct {
	ID                NodeID
	X, Y              float64
	TransmissionRange float64

	net *Network

	Seq              uint32
	broadcastCounter int

	connections  map[NodeID]float64
	routingTable map[NodeID]RouteEntry
	seenRREQs    map[rreqKey]struct{}
	seenRERRs    map[string]struct{}

	stats Stats

	received []string
}

func newNode(id NodeID, x, y, transmissionRange float64, net *Network) *Node {
	return &Node{
		ID:                id,
		X:                 x,
		Y:                 y,
		TransmissionRange: transmissionRange,
		net:               net,
		connections:       make(map[NodeID]float64),
		routingTable:      make(map[NodeID]RouteEntry),
		seenRREQs:         make(map[rreqKey]struct{}),
		seenRERRs:         make(map[string]struct{}),
	}
}

// neighbors returns this node's live neighbor ids in ascending order, so
// flooding and forwarding fan out deterministically regardless of Go's map
// iteration order.
func (n *Node) neighbors() []NodeID {
	ids := make([]NodeID, 0, len(n.connections))
	for id := range n.connections {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (n *Node) linkLive(to NodeID) bool {
	_, ok := n.connections[to]
	return ok
}

func (n *Node) log() *slog.Logger {
	return n.net.logger.With(slog.Any("node", n.ID))
}

// installRoute attempts to replace dest's current routing-table entry with
// candidate under the AODV freshness rules. Returns whether the candidate
// was installed. Self-routes and sub-one-hop candidates are never stored.
func (n *Node) installRoute(candidate RouteEntry) bool {
	if candidate.Dest == n.ID || candidate.Hops < 1 {
		return false
	}
	current, exists := n.routingTable[candidate.Dest]
	var currentPtr *RouteEntry
	live := true
	if exists {
		currentPtr = &current
		live = n.linkLive(current.NextHop)
	}
	if !fresherThan(currentPtr, live, candidate) {
		return false
	}
	n.routingTable[candidate.Dest] = candidate
	return true
}

// bumpSeqForOrigination increments Seq by one before this node originates
// a new RREQ.
func (n *Node) bumpSeqForOrigination() {
	n.Seq++
}

// bumpSeqForReply folds a requester's known destination sequence number
// into this node's own seq before replying to an RREQ addressed to it:
// seq <- max(seq, known), then incremented only when that didn't already
// leave seq strictly greater than known.
func (n *Node) bumpSeqForReply(known uint32) {
	if known > n.Seq {
		n.Seq = known
	}
	if n.Seq == known {
		n.Seq++
	}
}

func (n *Node) lastKnownDestSeq(dst NodeID) uint32 {
	if e, ok := n.routingTable[dst]; ok {
		return e.DestSeq
	}
	return 0
}

// BroadcastRREQ originates route discovery toward dst: bumps Seq and the
// broadcast counter, records the new (originator, broadcast id) pair as
// seen, and enqueues a copy to every live neighbor on the Network's
// dispatch queue.
func (n *Node) BroadcastRREQ(dst NodeID) {
	n.bumpSeqForOrigination()
	n.broadcastCounter++

	rreq := &RREQ{
		Originator:    n.ID,
		BroadcastID:   n.broadcastCounter,
		Dest:          dst,
		OriginatorSeq: n.Seq,
		DestSeqKnown:  n.lastKnownDestSeq(dst),
		Hops:          0,
		Cost:          0,
		TTL:           defaultTTL,
	}
	n.seenRREQs[rreqKey{n.ID, n.broadcastCounter}] = struct{}{}
	n.stats.RREQSent++

	for _, nb := range n.neighbors() {
		n.net.enqueue(nb, rreq, n.ID)
	}
}

// ReceiveRREQ processes an inbound Route Request: duplicate suppression,
// reverse-path install, destination reply, reply-on-behalf-of-destination,
// or flood forwarding.
func (n *Node) ReceiveRREQ(rreq *RREQ, forwarder NodeID) {
	key := rreqKey{rreq.Originator, rreq.BroadcastID}
	if _, seen := n.seenRREQs[key]; seen {
		return
	}
	n.seenRREQs[key] = struct{}{}
	n.stats.RREQRecv++

	incomingCost := rreq.Cost + n.net.GetLinkCost(n.ID, forwarder)
	n.installRoute(RouteEntry{
		Dest:    rreq.Originator,
		NextHop: forwarder,
		DestSeq: rreq.OriginatorSeq,
		Hops:    rreq.Hops + 1,
		Cost:    incomingCost,
	})

	if rreq.Dest == n.ID {
		n.bumpSeqForReply(rreq.DestSeqKnown)
		n.sendRREP(n.ID, rreq.Originator, n.Seq, 0, 0)
		return
	}

	if route, ok := n.routingTable[rreq.Dest]; ok && n.linkLive(route.NextHop) {
		if route.DestSeq > rreq.DestSeqKnown || (route.DestSeq == rreq.DestSeqKnown && route.Cost < rreq.Cost) {
			n.sendRREP(rreq.Dest, rreq.Originator, route.DestSeq, route.Hops, route.Cost)
			return
		}
	}

	for _, nb := range n.neighbors() {
		if nb == forwarder {
			continue
		}
		n.net.enqueue(nb, &RREQ{
			Originator:    rreq.Originator,
			BroadcastID:   rreq.BroadcastID,
			Dest:          rreq.Dest,
			OriginatorSeq: rreq.OriginatorSeq,
			DestSeqKnown:  rreq.DestSeqKnown,
			Hops:          rreq.Hops + 1,
			Cost:          incomingCost,
			TTL:           rreq.TTL,
		}, n.ID)
	}
}

// sendRREP unicasts a Route Reply along the reverse path toward
// rreqOriginator. rreqDest identifies which destination's route is being
// reported — usually this node itself, or a fresher route it knows on the
// real destination's behalf.
func (n *Node) sendRREP(rreqDest, rreqOriginator NodeID, destSeq uint32, hops int, cost float64) {
	route, ok := n.routingTable[rreqOriginator]
	if !ok || !n.linkLive(route.NextHop) {
		n.log().Debug("rrep dropped: no reverse route", slog.Any("to", rreqOriginator))
		return
	}
	n.stats.RREPSent++
	rrep := &RREP{Originator: rreqDest, Dest: rreqOriginator, DestSeq: destSeq, Hops: hops, Cost: cost}
	n.net.nodeByID(route.NextHop).receiveRREP(rrep, n.ID)
}

// receiveRREP installs/updates the route to rrep.Originator (the RREQ's
// destination) and, unless this node is the RREQ's originator, forwards
// synchronously along the reverse path toward it.
func (n *Node) receiveRREP(rrep *RREP, forwarder NodeID) {
	n.stats.RREPRecv++
	rrep.Hops++
	rrep.Cost += n.net.GetLinkCost(n.ID, forwarder)

	n.installRoute(RouteEntry{
		Dest:    rrep.Originator,
		NextHop: forwarder,
		DestSeq: rrep.DestSeq,
		Hops:    rrep.Hops,
		Cost:    rrep.Cost,
	})

	if rrep.Dest == n.ID {
		return
	}

	route, ok := n.routingTable[rrep.Dest]
	if !ok || !n.linkLive(route.NextHop) {
		n.log().Debug("rrep forward dropped: no route to originator", slog.Any("originator", rrep.Dest))
		return
	}
	n.net.nodeByID(route.NextHop).receiveRREP(rrep, n.ID)
}

// sendRERR broadcasts a Route Error for the given unreachable destinations
// to every live neighbor. No-op if unreachable is empty or this exact
// identity has already been sent.
func (n *Node) sendRERR(unreachable []NodeID) {
	if len(unreachable) == 0 {
		return
	}
	rerr := &RERR{Unreachable: append([]NodeID(nil), unreachable...)}
	identity := rerr.identity()
	if _, seen := n.seenRERRs[identity]; seen {
		return
	}
	n.seenRERRs[identity] = struct{}{}
	n.stats.RERRSent++

	for _, nb := range n.neighbors() {
		n.net.nodeByID(nb).receiveRERR(rerr, n.ID)
	}
}

// receiveRERR drops duplicates, removes named destinations from the local
// routing table, and forwards to every neighbor except the one it arrived
// from.
func (n *Node) receiveRERR(rerr *RERR, forwarder NodeID) {
	identity := rerr.identity()
	if _, seen := n.seenRERRs[identity]; seen {
		return
	}
	n.seenRERRs[identity] = struct{}{}
	n.stats.RERRRecv++

	for _, dest := range rerr.Unreachable {
		delete(n.routingTable, dest)
	}

	for _, nb := range n.neighbors() {
		if nb == forwarder {
			continue
		}
		n.net.nodeByID(nb).receiveRERR(rerr, n.ID)
	}
}

// CanSend reports whether n currently has a usable route to dst: a
// routing-table entry whose next hop has a live link. If an entry exists
// but its next hop link has died, CanSend evicts every routing-table entry
// that shares that dead next hop, emits a single RERR naming all of them,
// and returns false.
func (n *Node) CanSend(dst NodeID) bool {
	route, ok := n.routingTable[dst]
	if !ok {
		return false
	}
	if n.linkLive(route.NextHop) {
		return true
	}
	n.evictUnreachableVia(route.NextHop)
	return false
}

// evictUnreachableVia drops every routing-table entry whose next hop is
// deadNextHop and emits a single RERR naming them all. Used both by
// CanSend at origination and by receiveMSG when an intermediate hop
// discovers its own next-hop link has died.
func (n *Node) evictUnreachableVia(deadNextHop NodeID) {
	var unreachable []NodeID
	for d, r := range n.routingTable {
		if r.NextHop == deadNextHop {
			unreachable = append(unreachable, d)
		}
	}
	sort.Slice(unreachable, func(i, j int) bool { return unreachable[i] < unreachable[j] })
	for _, d := range unreachable {
		delete(n.routingTable, d)
	}
	n.sendRERR(unreachable)
}

// SendMSG originates a data packet toward dst over the route currently
// installed in the routing table. Callers are expected to check CanSend
// first; SendMSG only guards against an entry disappearing between the
// check and the call.
func (n *Node) SendMSG(dst NodeID, payload string) (hops int, path []NodeID, cost float64, ok bool) {
	n.stats.DataSent++
	route, exists := n.routingTable[dst]
	if !exists || !n.linkLive(route.NextHop) {
		return 0, nil, 0, false
	}
	msg := &DataMessage{Src: n.ID, Dst: dst, Payload: payload, Hops: 0, Cost: 0, Path: []NodeID{n.ID}}
	return n.net.nodeByID(route.NextHop).receiveMSG(msg, n.ID)
}

// receiveMSG forwards or consumes an in-flight data packet: loop detection
// against the accumulated path, consumption at the destination, on-demand
// discovery when no route is known, and a hop-cap diagnostic safeguard
// against runaway forwarding.
func (n *Node) receiveMSG(msg *DataMessage, forwarder NodeID) (hops int, path []NodeID, cost float64, ok bool) {
	msg.Path = append(msg.Path, n.ID)
	msg.Hops++
	msg.Cost += n.net.GetLinkCost(n.ID, forwarder)

	if route, exists := n.routingTable[msg.Dst]; exists && containsNodeID(msg.Path, route.NextHop) {
		delete(n.routingTable, msg.Dst)
		n.sendRERR([]NodeID{msg.Dst})
		if msg.Src == n.ID {
			n.net.RouteDiscovery(n.ID, msg.Dst)
		}
		return 0, msg.Path, 0, false
	}

	if msg.Dst == n.ID {
		n.stats.DataRecv++
		n.received = append(n.received, msg.Payload)
		return msg.Hops, msg.Path, msg.Cost, true
	}

	route, exists := n.routingTable[msg.Dst]
	if !exists {
		n.net.RouteDiscovery(n.ID, msg.Dst)
		route, exists = n.routingTable[msg.Dst]
		if !exists {
			return 0, msg.Path, 0, false
		}
	}

	if !n.linkLive(route.NextHop) {
		n.evictUnreachableVia(route.NextHop)
		return 0, msg.Path, 0, false
	}

	if len(msg.Path) > n.net.hopCap {
		n.log().Error("data packet exceeded hop cap", slog.Any("path", msg.Path))
		panic("aodv: data packet exceeded hop cap")
	}

	return n.net.nodeByID(route.NextHop).receiveMSG(msg, n.ID)
}

func containsNodeID(path []NodeID, id NodeID) bool {
	for _, p := range path {
		if p == id {
			return true
		}
	}
	return false
}

// String renders the node's routing table for CLI/debug output; not part
// of the programmatic contract.
func (n *Node) String() string {
	dests := make([]NodeID, 0, len(n.routingTable))
	for d := range n.routingTable {
		dests = append(dests, d)
	}
	sort.Slice(dests, func(i, j int) bool { return dests[i] < dests[j] })

	entries := make([]string, 0, len(dests))
	for _, d := range dests {
		e := n.routingTable[d]
		entries = append(entries, fmt.Sprintf("%d:(nh=%d,seq=%d,hops=%d,cost=%.3f)", e.Dest, e.NextHop, e.DestSeq, e.Hops, e.Cost))
	}
	return fmt.Sprintf("node %d routing table: %s", n.ID, strings.Join(entries, " | "))
}
