package model

import (
	"testing"
	"time"
)

func TestBakerInfo_CanCheckIn(t *testing.T) {
	tests := []struct {
		left time.Duration
		want bool
	}{
		{0, true},
		{time.Second, false},
		{14 * time.Minute, false},
	}
	for _, tt := range tests {
		info := BakerInfo{TimeLeft: tt.left}
		if got := info.CanCheckIn(); got != tt.want {
			t.Errorf("CanCheckIn(left=%s) = %v, want %v", tt.left, got, tt.want)
		}
	}
}

func TestBakerInfo_Level(t *testing.T) {
	tests := []struct {
		points uint64
		want   uint64
	}{
		{0, 0},
		{99, 0},
		{100, 1},
		{250, 2},
		{1099, 10},
	}
	for _, tt := range tests {
		if got := (BakerInfo{Points: tt.points}).Level(); got != tt.want {
			t.Errorf("Level(points=%d) = %d, want %d", tt.points, got, tt.want)
		}
	}
}

func TestBakerInfo_FilledSlots(t *testing.T) {
	for p := uint64(0); p <= 4; p++ {
		if got := (BakerInfo{PizzaProgress: p}).FilledSlots(); got != int(p) {
			t.Errorf("FilledSlots(%d) = %d", p, got)
		}
	}
	if got := (BakerInfo{PizzaProgress: 9}).FilledSlots(); got != CheckInsPerPizza {
		t.Errorf("FilledSlots(9) = %d, want clamp to %d", got, CheckInsPerPizza)
	}
}

func TestBakerInfo_SameStateIgnoresFetchTime(t *testing.T) {
	at := time.Unix(1700000000, 0)
	a := BakerInfo{PizzaProgress: 2, LastCheckIn: at, Points: 10, FetchedAt: time.Now()}
	b := a
	b.FetchedAt = a.FetchedAt.Add(time.Minute)
	if !a.SameState(b) {
		t.Fatal("SameState should ignore FetchedAt")
	}
	b.Points = 11
	if a.SameState(b) {
		t.Fatal("SameState should detect a points change")
	}
}

func TestBakerInfo_SameCountersIgnoresCountdown(t *testing.T) {
	a := BakerInfo{PizzaProgress: 1, LastCheckIn: time.Unix(1700000000, 0), TimeLeft: 5 * time.Minute}
	b := a
	b.TimeLeft = 4 * time.Minute
	if !a.SameCounters(b) {
		t.Error("SameCounters should ignore TimeLeft")
	}
	if a.SameState(b) {
		t.Error("SameState should see the TimeLeft change")
	}
	b.PizzaProgress = 2
	if a.SameCounters(b) {
		t.Error("SameCounters should detect a progress change")
	}
}

func TestChainHexID(t *testing.T) {
	if got := BaseMainnet.HexID(); got != "0x2105" {
		t.Fatalf("HexID = %s, want 0x2105", got)
	}
}
