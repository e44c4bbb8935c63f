package tsv

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan(t *testing.T) {
	input := "a\tb\tc\r\n\n\"quoted title\tx\nlast\n"
	var lines []int
	var got [][]string
	err := Scan(context.Background(), strings.NewReader(input), func(lineNo int, fields []string) error {
		lines = append(lines, lineNo)
		got = append(got, fields)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 4}, lines)
	assert.Equal(t, [][]string{{"a", "b", "c"}, {`"quoted title`, "x"}, {"last"}}, got)
}

func TestScan_StopsOnCallbackError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := Scan(context.Background(), strings.NewReader("1\n2\n3\n"), func(int, []string) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}
