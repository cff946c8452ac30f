package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegister(t *testing.T) {
	log := zap.NewNop()
	c := New(log)

	err := Register(c, log,
		Job{Name: "kit-expiry", Spec: "15 0 * * *", Run: func() {}},
		Job{Name: "disabled", Spec: "", Run: func() {}},
		Job{Name: "blacklist", Spec: "@hourly", Run: func() {}},
	)
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 2)
}

func TestRegister_BadSpec(t *testing.T) {
	log := zap.NewNop()
	err := Register(New(log), log, Job{Name: "broken", Spec: "every now and then", Run: func() {}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestRecoverChain(t *testing.T) {
	c := New(zap.NewNop())
	ran := false
	_, err := c.AddFunc("@every 1h", func() {
		ran = true
		panic("boom")
	})
	require.NoError(t, err)

	assert.NotPanics(t, func() { c.Entries()[0].WrappedJob.Run() })
	assert.True(t, ran)
}
