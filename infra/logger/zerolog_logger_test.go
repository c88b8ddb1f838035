package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLogger_JSON(t *testing.T) {
	t.Setenv("APP_ENV", "")
	var buf bytes.Buffer
	SetOutput(&buf)
	require.NoError(t, Setup(Config{Level: "debug"}))
	defer func() {
		SetOutput(nil)
		_ = Setup(Config{})
	}()

	l := New("sqlstore")
	l.Debugw("asset field ignored", map[string]any{"plate": "ABC1234"})
	l.Infof("fetched %d assets", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "sqlstore", first["component"])
	assert.Equal(t, "ABC1234", first["plate"])
	assert.Equal(t, "debug", first["level"])
}

func TestZerologLogger_LevelFilter(t *testing.T) {
	t.Setenv("APP_ENV", "")
	var buf bytes.Buffer
	SetOutput(&buf)
	require.NoError(t, Setup(Config{Level: "warn"}))
	defer func() {
		SetOutput(nil)
		_ = Setup(Config{})
	}()

	l := New("poller")
	l.Debugf("hidden")
	l.Infof("hidden")
	l.Warnf("shown")
	l.Errorf("shown too")
	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))
}

func TestZerologLogger_Console(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)
	New("api").Infof("listening on %s", ":8080")
	assert.Contains(t, buf.String(), "listening on :8080")
	assert.False(t, strings.HasPrefix(buf.String(), "{"))
}

func TestConfigValidate(t *testing.T) {
	c := Config{}
	c.SetDefaults()
	assert.NoError(t, c.Validate())
	assert.Error(t, Config{Level: "loud", Format: "json"}.Validate())
	assert.Error(t, Config{Level: "info", Format: "xml"}.Validate())
}
