package network

import (
	"fmt"
	"sort"
	"strings"
)

// PacketKind identifies which of the closed set of AODV message variants a
// Packet carries.
type PacketKind int

const (
	KindRREQ PacketKind = iota
	KindRREP
	KindRERR
	KindData
)

func (k PacketKind) String() string {
	switch k {
	case KindRREQ:
		return "RREQ"
	case KindRREP:
		return "RREP"
	case KindRERR:
		return "RERR"
	case KindData:
		return "DATA"
	default:
		return "UNKNOWN"
	}
}

// Packet is the closed set of messages a Node emits and receives. RREQ is
// the only variant that ever travels through the Network's dispatch queue;
// RREP, RERR, and DataMessage are synchronous unicast/broadcast call
// chains. Dispatch is by type switch, never by inheritance.
type Packet interface {
	Kind() PacketKind
}

// RREQ is a flooded Route Request.
type RREQ struct {
	Originator    NodeID
	BroadcastID   int
	Dest          NodeID
	OriginatorSeq uint32
	DestSeqKnown  uint32
	Hops          int
	Cost          float64
	TTL           int
}

func (*RREQ) Kind() PacketKind { return KindRREQ }

func (r *RREQ) String() string {
	return fmt.Sprintf("RREQ(%d->%d bcast=%d seq=%d known=%d hops=%d cost=%.4f)",
		r.Originator, r.Dest, r.BroadcastID, r.OriginatorSeq, r.DestSeqKnown, r.Hops, r.Cost)
}

// RREP is a unicast Route Reply. Originator is the node that generated the
// reply — the RREQ's destination, or an intermediate node answering on its
// behalf — and Dest is who the reply is addressed to: the RREQ's
// originator. (Naming follows RREQ's own originator/dest convention: who
// started this packet, and who it concerns.)
type RREP struct {
	Originator NodeID
	Dest       NodeID
	DestSeq    uint32
	Hops       int
	Cost       float64
}

func (*RREP) Kind() PacketKind { return KindRREP }

func (r *RREP) String() string {
	return fmt.Sprintf("RREP(%d->%d seq=%d hops=%d cost=%.4f)", r.Originator, r.Dest, r.DestSeq, r.Hops, r.Cost)
}

// RERR announces a set of destinations that have become unreachable.
type RERR struct {
	Unreachable []NodeID
}

func (*RERR) Kind() PacketKind { return KindRERR }

func (r *RERR) String() string {
	ids := make([]string, len(r.Unreachable))
	for i, id := range r.Unreachable {
		ids[i] = id.String()
	}
	return fmt.Sprintf("RERR(%s)", strings.Join(ids, ","))
}

// identity is the canonical, order-independent key used for seenRERRs
// duplicate suppression: the sorted tuple of unreachable ids joined as a
// string.
func (r *RERR) identity() string {
	sorted := append([]NodeID(nil), r.Unreachable...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = id.String()
	}
	return strings.Join(parts, ",")
}

// DataMessage carries an application payload hop by hop toward Dst, with
// the accumulated path, hop count, and cost growing as it travels.
type DataMessage struct {
	Src     NodeID
	Dst     NodeID
	Payload string
	Hops    int
	Cost    float64
	Path    []NodeID
}

func (*DataMessage) Kind() PacketKind { return KindData }

func (m *DataMessage) String() string {
	return fmt.Sprintf("DATA(%d->%d hops=%d cost=%.4f)", m.Src, m.Dst, m.Hops, m.Cost)
}
