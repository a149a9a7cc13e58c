package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarshal_EmptyMap_ReturnsEmpty(t *testing.T) {
	out, err := Marshal(map[string]any{})
	require.NoError(t, err)
	require.Equal(t, "", string(out))
}

func TestMarshal_DeterministicOrder(t *testing.T) {
	fields := map[string]any{
		"b": "two",
		"a": "one",
		"c": 3,
	}

	out1, err := Marshal(fields)
	require.NoError(t, err)
	out2, err := Marshal(fields)
	require.NoError(t, err)
	require.Equal(t, string(out1), string(out2))
	require.Equal(t, "a: one\nb: two\nc: 3\n", string(out1))
}

func TestMarshal_NestedMapSortsKeys(t *testing.T) {
	out, err := Marshal(map[string]any{
		"outer": map[string]any{"b": 2, "a": 1},
	})
	require.NoError(t, err)
	require.Equal(t, "outer:\n  a: 1\n  b: 2\n", string(out))
}

func TestMarshal_StringsThatLookLikeScalarsStayStrings(t *testing.T) {
	out, err := Marshal(map[string]any{"title": "true", "signature": "T:Acme.Widget"})
	require.NoError(t, err)

	fields, err := Parse(out)
	require.NoError(t, err)
	require.Equal(t, "true", fields["title"])
	require.Equal(t, "T:Acme.Widget", fields["signature"])
}

func TestMarshal_UnsupportedType(t *testing.T) {
	_, err := Marshal(map[string]any{"bad": struct{}{}})
	require.Error(t, err)
	require.Contains(t, err.Error(), `"bad"`)
}
