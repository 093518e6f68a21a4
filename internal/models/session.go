package models

import (
	"strconv"
	"strings"
	"time"
)

// Session is the durable per-client record: the accumulated sentence, the
// timestamp of the last accepted edit or successful generation, and the
// optional channel the client is bound to (nil means the global canvas).
type Session struct {
	Sentence   string
	LastUpdate time.Time
	Channel    *int
}

// DefaultSession is the tuple a missing record resolves to. LastUpdate sits
// at the epoch so any cooldown check on a fresh client succeeds immediately.
func DefaultSession() Session {
	return Session{Sentence: "", LastUpdate: time.Unix(0, 0), Channel: nil}
}

// EncodeRecord renders the session as the flat stored record
// "sentence;last_update[;channel]". The sentence alphabet excludes ';' so
// the join is unambiguous. The timestamp keeps sub-second precision because
// cooldown intervals can be fractions of a second.
func (s Session) EncodeRecord() string {
	fields := []string{s.Sentence, strconv.FormatFloat(epochSeconds(s.LastUpdate), 'f', -1, 64)}
	if s.Channel != nil {
		fields = append(fields, strconv.Itoa(*s.Channel))
	}
	return strings.Join(fields, ";")
}

// DecodeRecord parses a flat record back into a session. Missing or
// malformed trailing fields fall back to their defaults rather than
// erroring; stored records are best-effort and never repaired.
func DecodeRecord(record string) Session {
	s := DefaultSession()
	fields := strings.Split(record, ";")
	s.Sentence = fields[0]
	if len(fields) > 1 {
		if secs, err := strconv.ParseFloat(fields[1], 64); err == nil {
			s.LastUpdate = timeFromEpochSeconds(secs)
		}
	}
	if len(fields) > 2 {
		if ch, err := strconv.Atoi(fields[2]); err == nil {
			s.Channel = &ch
		}
	}
	return s
}

func epochSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func timeFromEpochSeconds(secs float64) time.Time {
	return time.Unix(0, int64(secs*float64(time.Second)))
}
