package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/whack-a-mole/internal/logic"
)

func TestFormatPayload(t *testing.T) {
	event := logic.Event{
		At:        123456,
		Type:      logic.EventHit,
		Channel:   2,
		Score:     4,
		HighScore: 9,
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Game.UptimeMs != 123456 {
		t.Errorf("unexpected uptime: %d", parsed.Game.UptimeMs)
	}
	if parsed.Game.Event != "HIT" {
		t.Errorf("unexpected event: %s", parsed.Game.Event)
	}
	if parsed.Game.Channel == nil || *parsed.Game.Channel != 3 {
		t.Errorf("expected 1-based channel 3, got %v", parsed.Game.Channel)
	}
	if parsed.Game.Score != 4 || parsed.Game.HighScore != 9 {
		t.Errorf("unexpected scores: %d / %d", parsed.Game.Score, parsed.Game.HighScore)
	}
}

func TestFormatPayloadExactJSON(t *testing.T) {
	event := logic.Event{At: 5000, Type: logic.EventSpawn, Channel: 0, Score: 1, HighScore: 2}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"game":{"uptime_ms":5000,"event":"SPAWN","channel":1,"score":1,"high_score":2}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatPayloadOmitsChannel(t *testing.T) {
	tests := []logic.EventType{logic.EventGameStart, logic.EventMiss}

	for _, typ := range tests {
		t.Run(string(typ), func(t *testing.T) {
			payload, err := FormatPayload(logic.Event{Type: typ, Channel: logic.NoChannel})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var parsed map[string]map[string]interface{}
			if err := json.Unmarshal(payload, &parsed); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if _, exists := parsed["game"]["channel"]; exists {
				t.Errorf("%s should not carry a channel", typ)
			}
			if parsed["game"]["event"] != string(typ) {
				t.Errorf("event: got %v, want %s", parsed["game"]["event"], typ)
			}
		})
	}
}

func TestFakePublisher(t *testing.T) {
	f := NewFakePublisher()

	err := f.Publish(logic.Event{Type: logic.EventHit, Channel: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(f.Events))
	}
	if f.Events[0].Type != logic.EventHit {
		t.Errorf("unexpected event type: %s", f.Events[0].Type)
	}
	if len(f.Payloads) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(f.Payloads))
	}
}

func TestFakePublisherError(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("simulated error")

	if err := f.Publish(logic.Event{Type: logic.EventHit}); err == nil {
		t.Error("expected error")
	}
	if len(f.Events) != 0 {
		t.Errorf("expected no events recorded on error, got %d", len(f.Events))
	}
}

func TestFakePublisherEventTypesInOrder(t *testing.T) {
	f := NewFakePublisher()
	f.Publish(logic.Event{Type: logic.EventGameStart, Channel: logic.NoChannel})
	f.Publish(logic.Event{Type: logic.EventSpawn, Channel: 1})
	f.Publish(logic.Event{Type: logic.EventHit, Channel: 1})

	got := f.EventTypes()
	want := []logic.EventType{logic.EventGameStart, logic.EventSpawn, logic.EventHit}
	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestFakePublisherReset(t *testing.T) {
	f := NewFakePublisher()
	f.Publish(logic.Event{Type: logic.EventHit})
	f.PublishSystem(SystemEvent{Event: "STARTUP"})
	f.Close()
	f.Connected = true
	f.PublishError = errors.New("error")

	f.Reset()

	if len(f.Events) != 0 || len(f.Payloads) != 0 {
		t.Error("events should be cleared")
	}
	if len(f.SystemEvents) != 0 || len(f.SystemPayloads) != 0 {
		t.Error("system events should be cleared")
	}
	if f.Closed || f.Connected {
		t.Error("flags should be reset")
	}
	if f.PublishError != nil {
		t.Error("error should be cleared")
	}
}

func TestFakePublisherPublishSystem(t *testing.T) {
	f := NewFakePublisher()
	f.Connected = true

	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 10, 30, 45, 0, time.UTC),
		Event:     "STARTUP",
		Retained:  true,
	}
	if err := f.PublishSystem(event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.SystemEvents) != 1 || !f.SystemEvents[0].Retained {
		t.Errorf("expected retained STARTUP, got %+v", f.SystemEvents)
	}
	if !f.IsConnected() {
		t.Error("expected connected")
	}

	f.PublishSystemError = errors.New("down")
	if err := f.PublishSystem(event); err == nil {
		t.Error("expected error")
	}
}

func TestTopic(t *testing.T) {
	expected := "games/whack-a-mole/events"
	if Topic != expected {
		t.Errorf("unexpected topic: got %s, want %s", Topic, expected)
	}
}

func TestTopicSystem(t *testing.T) {
	expected := "games/whack-a-mole/system"
	if TopicSystem != expected {
		t.Errorf("unexpected system topic: got %s, want %s", TopicSystem, expected)
	}
}

func TestFormatSystemPayloadExactJSON(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 10, 30, 45, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-02-03T10:30:45Z","event":"SHUTDOWN","reason":"SIGTERM"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatSystemPayloadOmitsReason(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 10, 14, 30, 0, 0, time.UTC),
		Event:     "RECONNECTED",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-02-10T14:30:00Z","event":"RECONNECTED"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatSystemPayloadTimezoneConversion(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 12, 0, 0, 0, loc),
		Event:     "HEARTBEAT",
	}

	payload, _ := FormatSystemPayload(event)

	var parsed SystemPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.System.Timestamp != "2026-02-03T10:00:00Z" {
		t.Errorf("expected UTC timestamp, got %s", parsed.System.Timestamp)
	}
}

func TestFormatSystemPayloadRawPassthrough(t *testing.T) {
	raw := []byte(`{"status":{"event":"HEARTBEAT"}}`)
	payload, err := FormatSystemPayload(SystemEvent{Event: "HEARTBEAT", RawPayload: raw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("expected raw payload, got %s", payload)
	}
}
