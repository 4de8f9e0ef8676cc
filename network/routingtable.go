package network

// RouteEntry is a single row of a Node's routing table: the next hop used
// to reach Dest, the freshest known destination sequence number, and the
// hop count and cost of the route as it was installed.
type RouteEntry struct {
	Dest    NodeID
	NextHop NodeID
	DestSeq uint32
	Hops    int
	Cost    float64
}

// fresherThan reports whether candidate should replace current, tested in
// order:
//  1. no current entry,
//  2. current's next hop no longer has a live link (broken route),
//  3. candidate carries a strictly higher destination sequence number, or
//  4. equal sequence numbers and a strictly lower cost.
//
// currentNextHopLive must reflect whether current.NextHop currently has a
// live link; RouteEntry itself has no network access, so the caller
// supplies it.
func fresherThan(current *RouteEntry, currentNextHopLive bool, candidate RouteEntry) bool {
	if current == nil {
		return true
	}
	if !currentNextHopLive {
		return true
	}
	if candidate.DestSeq > current.DestSeq {
		return true
	}
	if candidate.DestSeq == current.DestSeq && candidate.Cost < current.Cost {
		return true
	}
	return false
}
