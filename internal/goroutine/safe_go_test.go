package goroutine

import (
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroup_RecoversPanic(t *testing.T) {
	log, hook := test.NewNullLogger()
	rh := NewRecoveryHandler(logrus.NewEntry(log))

	var wg sync.WaitGroup
	rh.Group(&wg, "poller", func() { panic("boom") })
	rh.Group(&wg, "pump", func() {})
	wg.Wait()

	require.Len(t, hook.AllEntries(), 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "poller", entry.Data["goroutine"])
	assert.Equal(t, "boom", entry.Data["panic"])
}
