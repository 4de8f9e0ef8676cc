package network

import "testing"

func TestFresherThan(t *testing.T) {
	tests := []struct {
		name               string
		current            *RouteEntry
		currentNextHopLive bool
		candidate          RouteEntry
		want               bool
	}{
		{
			name:      "no current entry",
			current:   nil,
			candidate: RouteEntry{Dest: 3, NextHop: 1, DestSeq: 1, Hops: 1, Cost: 0.5},
			want:      true,
		},
		{
			name:               "current next hop link dead",
			current:            &RouteEntry{Dest: 3, NextHop: 2, DestSeq: 5, Hops: 1, Cost: 0.1},
			currentNextHopLive: false,
			candidate:          RouteEntry{Dest: 3, NextHop: 1, DestSeq: 1, Hops: 3, Cost: 9},
			want:               true,
		},
		{
			name:               "higher seq wins",
			current:            &RouteEntry{Dest: 3, NextHop: 2, DestSeq: 5, Hops: 1, Cost: 0.1},
			currentNextHopLive: true,
			candidate:          RouteEntry{Dest: 3, NextHop: 1, DestSeq: 6, Hops: 4, Cost: 9},
			want:               true,
		},
		{
			name:               "equal seq, lower cost wins",
			current:            &RouteEntry{Dest: 3, NextHop: 2, DestSeq: 5, Hops: 2, Cost: 1.0},
			currentNextHopLive: true,
			candidate:          RouteEntry{Dest: 3, NextHop: 1, DestSeq: 5, Hops: 1, Cost: 0.4},
			want:               true,
		},
		{
			name:               "equal seq, equal or higher cost loses",
			current:            &RouteEntry{Dest: 3, NextHop: 2, DestSeq: 5, Hops: 1, Cost: 0.4},
			currentNextHopLive: true,
			candidate:          RouteEntry{Dest: 3, NextHop: 1, DestSeq: 5, Hops: 1, Cost: 0.4},
			want:               false,
		},
		{
			name:               "lower seq always loses, even with a dramatically cheaper cost",
			current:            &RouteEntry{Dest: 3, NextHop: 2, DestSeq: 5, Hops: 4, Cost: 9},
			currentNextHopLive: true,
			candidate:          RouteEntry{Dest: 3, NextHop: 1, DestSeq: 4, Hops: 1, Cost: 0.01},
			want:               false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fresherThan(tt.current, tt.currentNextHopLive, tt.candidate)
			if got != tt.want {
				t.Errorf("fresherThan() = %v, want %v", got, tt.want)
			}
		})
	}
}
