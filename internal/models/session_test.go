package models

import (
	"testing"
	"time"
)

func TestDefaultSessionPredatesEverything(t *testing.T) {
	s := DefaultSession()
	if s.Sentence != "" || s.Channel != nil {
		t.Fatalf("unexpected default session: %+v", s)
	}
	if !s.LastUpdate.Equal(time.Unix(0, 0)) {
		t.Fatalf("default timestamp must sit at the epoch, got %v", s.LastUpdate)
	}
}

func TestEncodeRecordOmitsAbsentChannel(t *testing.T) {
	s := Session{Sentence: "Hi", LastUpdate: time.Unix(42, 0)}
	if got := s.EncodeRecord(); got != "Hi;42" {
		t.Fatalf("EncodeRecord() = %q", got)
	}

	ch := 5
	s.Channel = &ch
	if got := s.EncodeRecord(); got != "Hi;42;5" {
		t.Fatalf("EncodeRecord() with channel = %q", got)
	}
}

func TestDecodeRecordRoundTrip(t *testing.T) {
	ch := 7
	orig := Session{Sentence: "Hello world, 42", LastUpdate: time.Unix(1700000000, 250*int64(time.Millisecond)), Channel: &ch}
	got := DecodeRecord(orig.EncodeRecord())

	if got.Sentence != orig.Sentence {
		t.Fatalf("sentence mismatch: %q", got.Sentence)
	}
	if got.Channel == nil || *got.Channel != ch {
		t.Fatalf("channel mismatch: %v", got.Channel)
	}
	// sub-second precision survives within float rounding
	if diff := got.LastUpdate.Sub(orig.LastUpdate); diff > time.Millisecond || diff < -time.Millisecond {
		t.Fatalf("timestamp drifted by %v", diff)
	}
}

func TestDecodeRecordToleratesShortRecords(t *testing.T) {
	got := DecodeRecord("just a sentence")
	if got.Sentence != "just a sentence" {
		t.Fatalf("sentence mismatch: %q", got.Sentence)
	}
	if !got.LastUpdate.Equal(time.Unix(0, 0)) || got.Channel != nil {
		t.Fatalf("missing fields must fall back to defaults: %+v", got)
	}

	got = DecodeRecord("Hi;not-a-number;also-bad")
	if got.Sentence != "Hi" || !got.LastUpdate.Equal(time.Unix(0, 0)) || got.Channel != nil {
		t.Fatalf("malformed fields must fall back to defaults: %+v", got)
	}
}
