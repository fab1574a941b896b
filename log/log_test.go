package log

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(buf, InfoLevel).Named("optimize")
	l.Debug("hidden")
	l.Info("best plan", Int("stops", 2), String("plan", "SOFT(20) -> HARD(37)"))
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"logger":"optimize"`)
	assert.Contains(t, out, `"stops":2`)

	l.SetLevel(DebugLevel)
	assert.Equal(t, DebugLevel, l.Level())
	l.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestWithFilter(t *testing.T) {
	buf := &bytes.Buffer{}
	base := New(buf, DebugLevel)
	l, err := base.WithFilter("warn+:* debug+:optimize")
	require.NoError(t, err)

	l.Named("optimize").Debug("search")
	l.Named("session").Info("loaded")
	l.Named("session").Warn("slow")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "search")
	assert.Contains(t, lines[1], "slow")

	same, err := base.WithFilter("")
	require.NoError(t, err)
	assert.Same(t, base, same)
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, WarnLevel, lvl)
	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestContext(t *testing.T) {
	l := New(&bytes.Buffer{}, InfoLevel)
	ctx := AddToContext(context.Background(), l)
	assert.Same(t, l, GetFromContext(ctx))
	assert.Same(t, Default(), GetFromContext(context.Background()))
}

func TestResetDefault(t *testing.T) {
	old := Default()
	t.Cleanup(func() { ResetDefault(old) })
	buf := &bytes.Buffer{}
	ResetDefault(New(buf, InfoLevel))
	Info("via default")
	assert.Contains(t, buf.String(), "via default")
}
