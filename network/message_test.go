package network

import "testing"

func TestRREQ_String(t *testing.T) {
	r := &RREQ{Originator: 1, BroadcastID: 2, Dest: 4, OriginatorSeq: 3, DestSeqKnown: 0, Hops: 1, Cost: 0.5}
	want := "RREQ(1->4 bcast=2 seq=3 known=0 hops=1 cost=0.5000)"
	if got := r.String(); got != want {
		t.Errorf("RREQ.String() = %q, want %q", got, want)
	}
}

func TestRREP_String(t *testing.T) {
	r := &RREP{Originator: 4, Dest: 1, DestSeq: 7, Hops: 2, Cost: 0.8}
	want := "RREP(4->1 seq=7 hops=2 cost=0.8000)"
	if got := r.String(); got != want {
		t.Errorf("RREP.String() = %q, want %q", got, want)
	}
}

func TestRERR_Identity(t *testing.T) {
	tests := []struct {
		name string
		a, b *RERR
		same bool
	}{
		{
			name: "same set, different order is the same identity",
			a:    &RERR{Unreachable: []NodeID{3, 1, 2}},
			b:    &RERR{Unreachable: []NodeID{1, 2, 3}},
			same: true,
		},
		{
			name: "different sets differ",
			a:    &RERR{Unreachable: []NodeID{1, 2}},
			b:    &RERR{Unreachable: []NodeID{1, 2, 3}},
			same: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.identity() == tt.b.identity()
			if got != tt.same {
				t.Errorf("identity equality = %v, want %v", got, tt.same)
			}
		})
	}
}

func TestDataMessage_String(t *testing.T) {
	m := &DataMessage{Src: 0, Dst: 2, Hops: 2, Cost: 0.5}
	want := "DATA(0->2 hops=2 cost=0.5000)"
	if got := m.String(); got != want {
		t.Errorf("DataMessage.String() = %q, want %q", got, want)
	}
}

func TestPacketKind_String(t *testing.T) {
	tests := []struct {
		kind PacketKind
		want string
	}{
		{KindRREQ, "RREQ"},
		{KindRREP, "RREP"},
		{KindRERR, "RERR"},
		{KindData, "DATA"},
		{PacketKind(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("PacketKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
