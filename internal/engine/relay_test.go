package engine

import (
	"context"
	"testing"
	"time"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelayWait_ReturnsOnDeadlineWhileTaskRuns(t *testing.T) {
	gate := make(chan struct{})
	p := &fakePlatform{users: []slack.User{{ID: "U2", Name: "bob"}}, usersGate: gate}
	r := newTestRelay(p)

	postForm(r.HandleCommand, commandValues("T1", "U1"))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, r.Wait(ctx), context.DeadlineExceeded)

	// задача доживает после таймаута и учитывается следующим Wait
	close(gate)
	drain(t, r)
	require.Equal(t, 1, p.openedCount())
}
