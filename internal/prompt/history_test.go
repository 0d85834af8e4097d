package prompt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHistory_AppendLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "hist")
	h := NewHistory(path)
	require.NoError(t, h.Load(0))
	require.Empty(t, h.Lines())

	for _, s := range []string{"Class", "  ", "Mammal", "Order"} {
		require.NoError(t, h.Append(s))
	}
	require.Equal(t, []string{"Class", "Mammal", "Order"}, h.Lines())

	again := NewHistory(path)
	require.NoError(t, again.Load(2))
	require.Equal(t, []string{"Mammal", "Order"}, again.Lines())
}

func TestHistory_NilAndEmptyPath(t *testing.T) {
	var h *History
	require.NoError(t, h.Load(10))
	require.NoError(t, h.Append("x"))
	require.Nil(t, h.Lines())

	require.NoError(t, NewHistory("").Append("x"))
}

func TestPrompter_RecordsAnswers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hist")
	p, _, _ := newPrompter("Legs", "quit")
	p.WithHistory(NewHistory(path))

	_, err := p.Column(animals(t), "Pick")
	require.NoError(t, err)
	_, err = p.PositiveInt("n: ")
	require.ErrorIs(t, err, ErrCanceled)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "Legs\n", string(raw))
}
