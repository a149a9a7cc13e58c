package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Widget class\n\nHello\n")

	raw, body, had, err := Split(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Empty(t, raw)
	require.Equal(t, input, body)
}

func TestSplit_YAMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	input := []byte("---\ntitle: Widget\n---\n# Widget class\n")

	raw, body, had, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: Widget\n"), raw)
	require.Equal(t, []byte("# Widget class\n"), body)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	_, _, had, err := Split([]byte("---\ntitle: Widget\n# Widget class\n"))
	require.Error(t, err)
	require.False(t, had)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestSplit_CRLF(t *testing.T) {
	raw, body, had, err := Split([]byte("---\r\ntitle: Widget\r\n---\r\n# Widget class\r\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: Widget\r\n"), raw)
	require.Equal(t, []byte("# Widget class\r\n"), body)
}

func TestSplit_EmptyBlock(t *testing.T) {
	raw, body, had, err := Split([]byte("---\n---\n# Widget class\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Empty(t, raw)
	require.Equal(t, []byte("# Widget class\n"), body)
}

func TestJoin_RoundTrip(t *testing.T) {
	cases := [][]byte{
		[]byte("---\ntitle: Widget\n---\n# Widget class\n"),
		[]byte("---\n---\n# Widget class\n"),
	}
	for _, input := range cases {
		raw, body, had, err := Split(input)
		require.NoError(t, err)
		require.True(t, had)
		require.Equal(t, input, Join(raw, body))
	}
}

func TestJoin_AddsMissingNewline(t *testing.T) {
	require.Equal(t, "---\ntitle: x\n---\nbody\n", string(Join([]byte("title: x"), []byte("body\n"))))
}

func TestParse(t *testing.T) {
	fields, err := Parse([]byte("uid: abc\ntags:\n  - one\n"))
	require.NoError(t, err)
	require.Equal(t, "abc", fields["uid"])
	require.Equal(t, []any{"one"}, fields["tags"])

	fields, err = Parse(nil)
	require.NoError(t, err)
	require.Empty(t, fields)

	_, err = Parse([]byte(": not yaml"))
	require.Error(t, err)
}
