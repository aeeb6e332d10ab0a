package tui

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/bakery/internal/model"
)

func TestActionEnabled_FollowsTimeLeft(t *testing.T) {
	m := newConnectedModel(t, &fakeClient{}, nil)

	tests := []struct {
		timeLeft time.Duration
		want     bool
	}{
		{0, true},
		{time.Second, false},
		{899 * time.Second, false},
	}
	for _, tt := range tests {
		m.info.TimeLeft = tt.timeLeft
		if got := m.actionEnabled(); got != tt.want {
			t.Errorf("timeLeft=%v: actionEnabled = %v, want %v", tt.timeLeft, got, tt.want)
		}
	}

	m.info.TimeLeft = 0
	m.submitting = true
	if m.actionEnabled() {
		t.Error("action enabled while submitting")
	}
}

func TestActionEnabled_RequiresAccountAndData(t *testing.T) {
	m := NewBakerModel(&fakeClient{}, nil, Options{})
	if m.actionEnabled() {
		t.Error("action enabled without an account")
	}
	m.connected = true
	if m.actionEnabled() {
		t.Error("action enabled before the first read")
	}
}

func TestRingSlots(t *testing.T) {
	for progress := uint64(0); progress <= 5; progress++ {
		slots := ringSlots(model.BakerInfo{PizzaProgress: progress})
		if len(slots) != 4 {
			t.Fatalf("progress %d: %d slots, want 4", progress, len(slots))
		}
		wantFilled := int(min(progress, 4))
		filled := 0
		for i, s := range slots {
			if s == slotFilled {
				filled++
				if i >= wantFilled {
					t.Errorf("progress %d: slot %d filled out of order", progress, i)
				}
			}
		}
		if filled != wantFilled {
			t.Errorf("progress %d: %d filled slots, want %d", progress, filled, wantFilled)
		}
	}
}

func TestLevel(t *testing.T) {
	tests := map[uint64]uint64{0: 0, 99: 0, 100: 1, 250: 2, 1099: 10}
	for points, want := range tests {
		if got := (model.BakerInfo{Points: points}).Level(); got != want {
			t.Errorf("Level(%d) = %d, want %d", points, got, want)
		}
	}
}

func TestProgressCaption(t *testing.T) {
	tests := []struct {
		progress uint64
		want     string
	}{
		{0, "4 check-ins left"},
		{1, "3 check-ins left"},
		{3, "1 check-in left"},
		{4, "Pizza ready!"},
	}
	for _, tt := range tests {
		if got := progressCaption(model.BakerInfo{PizzaProgress: tt.progress}); got != tt.want {
			t.Errorf("progress %d: caption = %q, want %q", tt.progress, got, tt.want)
		}
	}
}

func TestFormatCountdown(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00"},
		{-time.Second, "0:00"},
		{5 * time.Second, "0:05"},
		{90 * time.Second, "1:30"},
		{15 * time.Minute, "15:00"},
		{1500 * time.Millisecond, "0:02"},
	}
	for _, tt := range tests {
		if got := formatCountdown(tt.in); got != tt.want {
			t.Errorf("formatCountdown(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestActionLabel(t *testing.T) {
	checked := time.Unix(1700000000, 0)
	tests := []struct {
		name       string
		info       model.BakerInfo
		submitting bool
		want       string
	}{
		{"submitting", model.BakerInfo{LastCheckIn: checked}, true, "Baking..."},
		{"never checked in", model.BakerInfo{}, false, "Start Baking"},
		{"allowed", model.BakerInfo{LastCheckIn: checked}, false, "Check In"},
		{"cooldown", model.BakerInfo{LastCheckIn: checked, TimeLeft: time.Minute}, false, "Too Early"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := actionLabel(tt.info, tt.submitting); got != tt.want {
				t.Errorf("actionLabel = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderAction_CountdownOnlyAfterFirstCheckIn(t *testing.T) {
	m := newConnectedModel(t, &fakeClient{}, nil)
	checked := time.Unix(1700000000, 0)

	tests := []struct {
		name    string
		info    model.BakerInfo
		want    string
		notWant []string
	}{
		{"never checked in", model.BakerInfo{}, "Start Baking", []string{"Next check-in", checkInReadyText}},
		{"never checked in with time left", model.BakerInfo{TimeLeft: time.Minute}, "Start Baking", []string{"Next check-in", checkInReadyText}},
		{"cooling down", model.BakerInfo{LastCheckIn: checked, TimeLeft: 90 * time.Second}, "Next check-in in 1:30", []string{checkInReadyText}},
		{"cooldown over", model.BakerInfo{LastCheckIn: checked}, checkInReadyText, []string{"Next check-in"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.info = tt.info
			out := m.renderAction()
			if !strings.Contains(out, tt.want) {
				t.Errorf("missing %q in %q", tt.want, out)
			}
			for _, s := range tt.notWant {
				if strings.Contains(out, s) {
					t.Errorf("unexpected %q in %q", s, out)
				}
			}
		})
	}
}

func TestRulesText_FollowsGameConstants(t *testing.T) {
	if !strings.Contains(rulesText, "every 15 minutes") || !strings.Contains(rulesText, "4 check-ins = 1 pizza") {
		t.Errorf("rulesText = %q", rulesText)
	}
}

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	msg := "wallet: ошибка подписи 🍕🍕🍕 rejected"
	got := truncate(msg, 12)
	if !utf8.ValidString(got) {
		t.Fatalf("truncate split a rune: %q", got)
	}
	if w := lipgloss.Width(got); w > 12 {
		t.Errorf("width = %d, want <= 12", w)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncate = %q, want ellipsis", got)
	}
	if short := truncate("ok", 12); short != "ok" {
		t.Errorf("truncate(ok) = %q", short)
	}
}

func TestRenderCheckInChart(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	days := make([]model.DayCount, 7)
	for i := range days {
		days[i] = model.DayCount{Day: start.AddDate(0, 0, i), Count: i % 3}
	}
	out := renderCheckInChart(days, 60)
	if !strings.Contains(out, "Total: 6") {
		t.Errorf("chart header missing total: %q", out)
	}
	if !strings.Contains(out, "Su") {
		t.Errorf("chart axis missing weekday labels: %q", out)
	}

	if empty := renderCheckInChart(nil, 60); !strings.Contains(empty, "No data available") {
		t.Errorf("empty chart = %q", empty)
	}
}
