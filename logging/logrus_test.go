package logging_test

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/goliatone/go-authentik"
	"github.com/goliatone/go-authentik/logging"
)

var _ auth.Logger = (*logging.Logger)(nil)

func TestLogrus_LevelsAndComponent(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)

	logger := logging.Logrus(base, "authenticator")
	logger.Debug("authenticating '%s'", "alice")
	logger.Warn("activity sink record error: %v", "boom")

	require.Len(t, hook.AllEntries(), 2)

	first := hook.AllEntries()[0]
	assert.Equal(t, logrus.DebugLevel, first.Level)
	assert.Equal(t, "authenticating 'alice'", first.Message)
	assert.Equal(t, "authenticator", first.Data["component"])

	last := hook.LastEntry()
	assert.Equal(t, logrus.WarnLevel, last.Level)
	assert.Equal(t, "activity sink record error: boom", last.Message)
}

func TestNew(t *testing.T) {
	t.Run("defaults to info", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := logging.New(&buf, "")
		require.NoError(t, err)
		assert.Equal(t, logrus.InfoLevel, l.GetLevel())

		logging.Logrus(l, "").Debug("hidden")
		assert.Empty(t, buf.String())

		logging.Logrus(l, "").Info("shown")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		_, err := logging.New(nil, "loud")
		assert.Error(t, err)
	})
}
