package sink

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/specialistvlad/forestgrid/internal/placement"
)

// Pass is the result of one RenderAll call, ready to be emitted.
type Pass struct {
	ID           string
	Kind         string
	PayloadTypes int
	Records      []placement.Record
}

// NewPass wraps records in a Pass with a fresh ID.
func NewPass(kind string, payloadTypes int, records []placement.Record) *Pass {
	if records == nil {
		records = []placement.Record{}
	}
	return &Pass{
		ID:           uuid.NewString(),
		Kind:         kind,
		PayloadTypes: payloadTypes,
		Records:      records,
	}
}

// Event is the wire form of a single record.
type Event struct {
	Pass        string  `json:"pass"`
	Seq         int     `json:"seq"`
	Category    string  `json:"category"`
	Variant     string  `json:"variant"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Fingerprint string  `json:"fingerprint"`
	Text        string  `json:"text"`
}

// Events converts the pass records into their wire form.
func (p *Pass) Events() []Event {
	events := make([]Event, 0, len(p.Records))
	for _, r := range p.Records {
		events = append(events, Event{
			Pass:        p.ID,
			Seq:         r.Seq,
			Category:    r.Key.Category,
			Variant:     r.Key.Variant,
			X:           r.Position.X,
			Y:           r.Position.Y,
			Fingerprint: FormatFingerprint(r.Fingerprint),
			Text:        r.Text,
		})
	}
	return events
}

// Summary is the wire form of a finished pass.
type Summary struct {
	Pass         string `json:"pass"`
	Kind         string `json:"kind"`
	Placements   int    `json:"placements"`
	PayloadTypes int    `json:"payload_types"`
}

// Summary describes the pass without its records.
func (p *Pass) Summary() Summary {
	return Summary{
		Pass:         p.ID,
		Kind:         p.Kind,
		Placements:   len(p.Records),
		PayloadTypes: p.PayloadTypes,
	}
}

// FormatFingerprint renders a payload fingerprint as 16 hex digits.
func FormatFingerprint(fp uint64) string {
	return fmt.Sprintf("%016x", fp)
}
