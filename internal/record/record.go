package record

import (
	"encoding/binary"
	"fmt"
)

// Status is the activity currently being tracked.
type Status uint8

const (
	NotTracking Status = iota
	Waste
	Working
	Reading
	Writing
	Programming
	Studying
)

// Categories lists the statuses that accumulate time, in report order.
var Categories = []Status{Waste, Working, Reading, Writing, Programming, Studying}

var statusNames = [...]string{
	NotTracking: "not tracking",
	Waste:       "wasting time",
	Working:     "working",
	Reading:     "reading",
	Writing:     "writing",
	Programming: "programming",
	Studying:    "studying",
}

var statusTokens = [...]string{
	NotTracking: "stop",
	Waste:       "waste",
	Working:     "work",
	Reading:     "read",
	Writing:     "write",
	Programming: "program",
	Studying:    "study",
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return int(s) < len(statusNames)
}

// String returns the display name used in reports ("wasting time").
func (s Status) String() string {
	if !s.Valid() {
		return fmt.Sprintf("status(%d)", uint8(s))
	}
	return statusNames[s]
}

// Token returns the command-line token selecting s ("waste").
func (s Status) Token() string {
	if !s.Valid() {
		return ""
	}
	return statusTokens[s]
}

// ParseStatus maps a command-line token to its status.
func ParseStatus(token string) (Status, bool) {
	for i, t := range statusTokens {
		if t == token {
			return Status(i), true
		}
	}
	return NotTracking, false
}

// Tokens returns every accepted command-line token in status order.
func Tokens() []string {
	out := make([]string, len(statusTokens))
	copy(out, statusTokens[:])
	return out
}

// Record is the persisted tracking state. All times are microseconds.
type Record struct {
	Status           Status
	SessionStart     uint64
	TotalWaste       uint64
	TotalWorking     uint64
	TotalReading     uint64
	TotalWriting     uint64
	TotalProgramming uint64
	TotalStudying    uint64
}

// Total returns the accumulated time for s. NotTracking has no counter.
func (r Record) Total(s Status) uint64 {
	if p := r.counter(s); p != nil {
		return *p
	}
	return 0
}

// Add credits delta microseconds to the counter for s.
func (r *Record) Add(s Status, delta uint64) {
	if p := r.counter(s); p != nil {
		*p += delta
	}
}

// Sum returns the total of all six counters.
func (r Record) Sum() uint64 {
	var sum uint64
	for _, s := range Categories {
		sum += r.Total(s)
	}
	return sum
}

func (r *Record) counter(s Status) *uint64 {
	switch s {
	case Waste:
		return &r.TotalWaste
	case Working:
		return &r.TotalWorking
	case Reading:
		return &r.TotalReading
	case Writing:
		return &r.TotalWriting
	case Programming:
		return &r.TotalProgramming
	case Studying:
		return &r.TotalStudying
	}
	return nil
}

// Size is the length of an encoded record: a status byte and seven u64s.
const Size = 1 + 7*8

// MarshalBinary encodes r as the packed little-endian layout of the data file.
func (r Record) MarshalBinary() ([]byte, error) {
	if !r.Status.Valid() {
		return nil, fmt.Errorf("invalid status %d", uint8(r.Status))
	}
	b := make([]byte, Size)
	b[0] = byte(r.Status)
	off := 1
	for _, v := range r.words() {
		binary.LittleEndian.PutUint64(b[off:], v)
		off += 8
	}
	return b, nil
}

// UnmarshalBinary decodes a record, rejecting wrong lengths and unknown statuses.
func (r *Record) UnmarshalBinary(b []byte) error {
	if len(b) != Size {
		return fmt.Errorf("record is %d bytes, want %d", len(b), Size)
	}
	s := Status(b[0])
	if !s.Valid() {
		return fmt.Errorf("invalid status %d", b[0])
	}
	var out Record
	out.Status = s
	ptrs := [...]*uint64{
		&out.SessionStart,
		&out.TotalWaste,
		&out.TotalWorking,
		&out.TotalReading,
		&out.TotalWriting,
		&out.TotalProgramming,
		&out.TotalStudying,
	}
	off := 1
	for _, p := range ptrs {
		*p = binary.LittleEndian.Uint64(b[off:])
		off += 8
	}
	*r = out
	return nil
}

func (r Record) words() [7]uint64 {
	return [7]uint64{
		r.SessionStart,
		r.TotalWaste,
		r.TotalWorking,
		r.TotalReading,
		r.TotalWriting,
		r.TotalProgramming,
		r.TotalStudying,
	}
}
