package document

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOffsetToPositionASCII(t *testing.T) {
	text := "SELECT 1\nFROM t\n"
	require.Equal(t, Position{Line: 0, Character: 0}, OffsetToPosition(text, 0))
	require.Equal(t, Position{Line: 1, Character: 0}, OffsetToPosition(text, 9))
	require.Equal(t, Position{Line: 1, Character: 4}, OffsetToPosition(text, 13))
}

func TestOffsetToPositionMultibyte(t *testing.T) {
	text := "SELECT '中文' FROM t"
	// The two CJK runes each take 3 bytes; offset just past them should
	// still report a character count of 2 runes, not 6 bytes.
	offset := len("SELECT '") + len("中文")
	pos := OffsetToPosition(text, offset)
	require.Equal(t, 0, pos.Line)
	require.Equal(t, len("SELECT '")+2, pos.Character)
}

func TestOffsetToPositionCRLFCountsAsOneBoundary(t *testing.T) {
	text := "SELECT 1\r\nFROM t"
	pos := OffsetToPosition(text, len("SELECT 1\r\n"))
	require.Equal(t, Position{Line: 1, Character: 0}, pos)

	// Just before the \n (i.e. right after \r) is still line 0: \r does
	// not itself start a new line.
	pos = OffsetToPosition(text, len("SELECT 1\r"))
	require.Equal(t, 0, pos.Line)
}

func TestPositionToOffsetRoundTrip(t *testing.T) {
	text := "SELECT id\nFROM users\nWHERE id = 1"
	for _, offset := range []int{0, 5, 9, 10, 15, len(text)} {
		pos := OffsetToPosition(text, offset)
		require.Equal(t, offset, PositionToOffset(text, pos))
	}
}

func TestPositionToOffsetClampsBeyondDocument(t *testing.T) {
	text := "SELECT 1"
	require.Equal(t, len(text), PositionToOffset(text, Position{Line: 5, Character: 0}))
	require.Equal(t, len(text), PositionToOffset(text, Position{Line: 0, Character: 99}))
}

func TestOffsetToPositionClampsOutOfRange(t *testing.T) {
	text := "SELECT 1"
	require.Equal(t, OffsetToPosition(text, len(text)), OffsetToPosition(text, len(text)+50))
	require.Equal(t, OffsetToPosition(text, 0), OffsetToPosition(text, -10))
}
