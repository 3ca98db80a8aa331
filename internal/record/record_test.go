package record

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() Record {
	return Record{
		Status:           Programming,
		SessionStart:     1_700_000_000_000_000,
		TotalWaste:       1,
		TotalWorking:     2,
		TotalReading:     3,
		TotalWriting:     4,
		TotalProgramming: 5,
		TotalStudying:    6,
	}
}

func TestMarshalLayout(t *testing.T) {
	r := sampleRecord()
	b, err := r.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, b, 57)

	assert.Equal(t, byte(Programming), b[0])
	assert.Equal(t, r.SessionStart, binary.LittleEndian.Uint64(b[1:9]))
	for i, want := range []uint64{1, 2, 3, 4, 5, 6} {
		off := 9 + i*8
		assert.Equal(t, want, binary.LittleEndian.Uint64(b[off:off+8]), "counter at offset %d", off)
	}
}

func TestZeroRecordEncodesToZeroBytes(t *testing.T) {
	b, err := Record{}.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, make([]byte, Size), b)
}

func TestRoundTrip(t *testing.T) {
	for _, r := range []Record{{}, sampleRecord()} {
		b, err := r.MarshalBinary()
		require.NoError(t, err)

		var got Record
		require.NoError(t, got.UnmarshalBinary(b))
		assert.Equal(t, r, got)
	}
}

func TestUnmarshalRejects(t *testing.T) {
	good, err := sampleRecord().MarshalBinary()
	require.NoError(t, err)

	var r Record
	assert.Error(t, r.UnmarshalBinary(good[:Size-1]), "truncated")
	assert.Error(t, r.UnmarshalBinary(append(good, 0)), "trailing byte")
	assert.Error(t, r.UnmarshalBinary(nil), "empty")

	bad := append([]byte(nil), good...)
	bad[0] = 7
	assert.Error(t, r.UnmarshalBinary(bad), "status out of range")
	assert.Equal(t, Record{}, r, "failed decode must not touch the receiver")
}

func TestMarshalRejectsInvalidStatus(t *testing.T) {
	_, err := Record{Status: 42}.MarshalBinary()
	assert.Error(t, err)
}

func TestParseStatus(t *testing.T) {
	cases := map[string]Status{
		"stop":    NotTracking,
		"waste":   Waste,
		"work":    Working,
		"read":    Reading,
		"write":   Writing,
		"program": Programming,
		"study":   Studying,
	}
	for token, want := range cases {
		got, ok := ParseStatus(token)
		assert.True(t, ok, token)
		assert.Equal(t, want, got, token)
		assert.Equal(t, token, got.Token())
	}

	for _, token := range []string{"sleep", "", "Work", "working"} {
		_, ok := ParseStatus(token)
		assert.False(t, ok, token)
	}
}

func TestStatusNames(t *testing.T) {
	assert.Equal(t, "not tracking", NotTracking.String())
	assert.Equal(t, "wasting time", Waste.String())
	assert.Equal(t, "studying", Studying.String())
	assert.Equal(t, "status(9)", Status(9).String())
	assert.Equal(t, "", Status(9).Token())
}

func TestTotals(t *testing.T) {
	r := sampleRecord()
	assert.Equal(t, uint64(21), r.Sum())
	assert.Equal(t, uint64(0), r.Total(NotTracking))

	r.Add(Reading, 10)
	r.Add(NotTracking, 1000)
	assert.Equal(t, uint64(13), r.TotalReading)
	assert.Equal(t, uint64(31), r.Sum())
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"stop", "waste", "work", "read", "write", "program", "study"}, Tokens())
}
