package logger

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStampsServiceField(t *testing.T) {
	l := New()
	l.SetOutput(io.Discard)
	hook := test.NewLocal(l)

	l.Info("ping")

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, "gemtrack", hook.LastEntry().Data["service"])
}

func TestNewKeepsExplicitServiceField(t *testing.T) {
	l := New()
	l.SetOutput(io.Discard)
	hook := test.NewLocal(l)

	l.WithField("service", "gemtrack-cron").Info("ping")

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, "gemtrack-cron", hook.LastEntry().Data["service"])
}
