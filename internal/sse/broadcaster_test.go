package sse

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/expoprize/prizewheel-go/internal/model"
	"github.com/expoprize/prizewheel-go/internal/services/raffle"
	"github.com/expoprize/prizewheel-go/internal/testutil"
)

func receiveEvent(t *testing.T, client *Client) string {
	t.Helper()
	select {
	case msg := <-client.send:
		return string(msg)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("client did not receive message")
		return ""
	}
}

// eventData extracts and unmarshals the data payload of an SSE frame
func eventData(t *testing.T, frame, eventName string, out any) {
	t.Helper()
	if !strings.HasPrefix(frame, "event: "+eventName+"\n") {
		t.Fatalf("expected event %q, got frame %q", eventName, frame)
	}
	var data []string
	for _, line := range strings.Split(frame, "\n") {
		if strings.HasPrefix(line, "data: ") {
			data = append(data, strings.TrimPrefix(line, "data: "))
		}
	}
	if err := json.Unmarshal([]byte(strings.Join(data, "\n")), out); err != nil {
		t.Fatalf("payload did not parse: %v", err)
	}
}

func TestBroadcaster_SpinUpdate(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	broadcaster := NewBroadcaster(manager, testutil.NopLogger())

	hub := manager.GetOrCreateHub(ChannelForCompany("co-1"))
	defer manager.RemoveHub(ChannelForCompany("co-1"))
	client := NewClient(hub, "10.0.0.1:1234")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	settledAt := time.Date(2024, 1, 1, 12, 0, 5, 0, time.UTC)
	broadcaster.BroadcastSpinUpdate("co-1", model.SpinSnapshot{
		Phase:          model.SpinPhaseSettled,
		WinnerIndex:    2,
		TargetAngleDeg: 1170,
		HasTarget:      true,
		StartedAt:      settledAt.Add(-5 * time.Second),
		SettledAt:      &settledAt,
	}, "Gold hamper")

	frame := receiveEvent(t, client)
	var payload struct {
		Phase       string  `json:"phase"`
		WinnerIndex int     `json:"winner_index"`
		TargetAngle float64 `json:"target_angle_deg"`
		PrizeName   string  `json:"prize_name"`
	}
	eventData(t, frame, "spin-update", &payload)

	if payload.Phase != "settled" {
		t.Errorf("phase = %q, want settled", payload.Phase)
	}
	if payload.WinnerIndex != 2 {
		t.Errorf("winner_index = %d, want 2", payload.WinnerIndex)
	}
	if payload.TargetAngle != 1170 {
		t.Errorf("target_angle_deg = %v, want 1170", payload.TargetAngle)
	}
	if payload.PrizeName != "Gold hamper" {
		t.Errorf("prize_name = %q, want Gold hamper", payload.PrizeName)
	}
}

func TestBroadcaster_SpinUpdatePrizeOnlyWhenSettled(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	broadcaster := NewBroadcaster(manager, testutil.NopLogger())

	hub := manager.GetOrCreateHub(ChannelForCompany("co-1"))
	defer manager.RemoveHub(ChannelForCompany("co-1"))
	client := NewClient(hub, "10.0.0.1:1234")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	broadcaster.BroadcastSpinUpdate("co-1", model.SpinSnapshot{
		Phase:       model.SpinPhaseSpinning,
		WinnerIndex: 2,
	}, "Gold hamper")

	frame := receiveEvent(t, client)
	if strings.Contains(frame, "Gold hamper") {
		t.Error("prize name leaked before the spin settled")
	}
}

func TestBroadcaster_SpinUpdateNoHubIsNoOp(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	broadcaster := NewBroadcaster(manager, testutil.NopLogger())

	// No hub exists for the company; nothing should panic.
	broadcaster.BroadcastSpinUpdate("co-ghost", model.SpinSnapshot{Phase: model.SpinPhaseArmed}, "")
}

func TestBroadcaster_PrizesUpdated(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	broadcaster := NewBroadcaster(manager, testutil.NopLogger())

	hub := manager.GetOrCreateHub(ChannelForCompany("co-1"))
	defer manager.RemoveHub(ChannelForCompany("co-1"))
	client := NewClient(hub, "10.0.0.1:1234")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	broadcaster.BroadcastPrizesUpdated("co-1", 7)

	frame := receiveEvent(t, client)
	var payload struct {
		PrizeCount int `json:"prize_count"`
	}
	eventData(t, frame, "prizes-update", &payload)
	if payload.PrizeCount != 7 {
		t.Errorf("prize_count = %d, want 7", payload.PrizeCount)
	}
}

func TestBroadcaster_DrawUpdate(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	broadcaster := NewBroadcaster(manager, testutil.NopLogger())

	hub := manager.GetOrCreateHub(ChannelForDraw("dr-1"))
	defer manager.RemoveHub(ChannelForDraw("dr-1"))
	client := NewClient(hub, "10.0.0.1:1234")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	broadcaster.BroadcastDrawUpdate(raffle.Snapshot{
		DrawID:    "dr-1",
		Phase:     raffle.DrawPhaseComplete,
		Countdown: 0,
		RaffleIDs: []model.RaffleID{"r1"},
		Winner: &model.DrawResult{
			RaffleID:               "r1",
			ParticipantID:          "p1",
			ParticipantName:        "Alice",
			ParticipantPhoneMasked: "(11) 9****-4321",
		},
	})

	frame := receiveEvent(t, client)
	var payload struct {
		DrawID string `json:"draw_id"`
		Phase  string `json:"phase"`
		Winner struct {
			ParticipantName string `json:"participant_name"`
			Phone           string `json:"phone"`
		} `json:"winner"`
	}
	eventData(t, frame, "draw-update", &payload)

	if payload.Phase != raffle.DrawPhaseComplete {
		t.Errorf("phase = %q, want complete", payload.Phase)
	}
	if payload.Winner.ParticipantName != "Alice" {
		t.Errorf("participant_name = %q, want Alice", payload.Winner.ParticipantName)
	}
	if payload.Winner.Phone != "(11) 9****-4321" {
		t.Errorf("phone = %q, want masked form", payload.Winner.Phone)
	}
	if strings.Contains(frame, "98765") {
		t.Error("raw phone digits leaked into the event")
	}
}

func TestBroadcaster_DrawUpdateCountdownTick(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	broadcaster := NewBroadcaster(manager, testutil.NopLogger())

	hub := manager.GetOrCreateHub(ChannelForDraw("dr-1"))
	defer manager.RemoveHub(ChannelForDraw("dr-1"))
	client := NewClient(hub, "10.0.0.1:1234")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	broadcaster.BroadcastDrawUpdate(raffle.Snapshot{
		DrawID:    "dr-1",
		Phase:     raffle.DrawPhaseCountdown,
		Countdown: 3,
		RaffleIDs: []model.RaffleID{"r1"},
	})

	frame := receiveEvent(t, client)
	var payload struct {
		Phase     string `json:"phase"`
		Countdown int    `json:"countdown"`
	}
	eventData(t, frame, "draw-update", &payload)
	if payload.Countdown != 3 {
		t.Errorf("countdown = %d, want 3", payload.Countdown)
	}
}
