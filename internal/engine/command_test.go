package engine

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func commandValues(trigger, user string) url.Values {
	return url.Values{
		"command":    {"/approval-test"},
		"trigger_id": {trigger},
		"user_id":    {user},
		"user_name":  {"alice"},
	}
}

func TestHandleCommand_OpensFormWithHumanApprovers(t *testing.T) {
	p := &fakePlatform{users: []slack.User{
		{ID: "U2", Name: "bob", RealName: "Bob"},
		{ID: "USLACKBOT", Name: "slackbot", RealName: "Slackbot"},
	}}
	r := newTestRelay(p)

	rec := postForm(r.HandleCommand, commandValues("T1", "U1"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())

	drain(t, r)

	require.Len(t, p.opened, 1)
	assert.Equal(t, "T1", p.opened[0].TriggerID)

	input := p.opened[0].View.Blocks.BlockSet[0].(*slack.InputBlock)
	sel := input.Element.(*slack.SelectBlockElement)
	require.Len(t, sel.Options, 1)
	assert.Equal(t, "Bob", sel.Options[0].Text.Text)
	assert.Equal(t, "U2", sel.Options[0].Value)
}

func TestHandleCommand_DirectoryFailureIsAbsorbed(t *testing.T) {
	p := &fakePlatform{usersErr: errors.New("users.list: ratelimited")}
	r := newTestRelay(p)

	rec := postForm(r.HandleCommand, commandValues("T1", "U1"))
	assert.Equal(t, http.StatusOK, rec.Code)

	drain(t, r)
	assert.Empty(t, p.opened)
	assert.Equal(t, 1.0, testutil.ToFloat64(r.metrics.BackgroundFailures.WithLabelValues("directory")))
}

func TestHandleCommand_OpenFormFailureIsAbsorbed(t *testing.T) {
	p := &fakePlatform{
		users:   []slack.User{{ID: "U2", Name: "bob"}},
		openErr: errors.New("views.open: expired_trigger_id"),
	}
	r := newTestRelay(p)

	rec := postForm(r.HandleCommand, commandValues("T1", "U1"))
	assert.Equal(t, http.StatusOK, rec.Code)

	drain(t, r)
	assert.Equal(t, 1.0, testutil.ToFloat64(r.metrics.BackgroundFailures.WithLabelValues("form")))
}

func TestHandleCommand_MissingTriggerStillAcknowledged(t *testing.T) {
	p := &fakePlatform{users: []slack.User{{ID: "U2", Name: "bob"}}}
	r := newTestRelay(p)

	rec := postForm(r.HandleCommand, url.Values{"user_id": {"U1"}})
	assert.Equal(t, http.StatusOK, rec.Code)

	drain(t, r)
	assert.Empty(t, p.opened)
}

func TestHandleCommand_AcknowledgesBeforeDirectoryFetch(t *testing.T) {
	gate := make(chan struct{})
	p := &fakePlatform{users: []slack.User{{ID: "U2", Name: "bob"}}, usersGate: gate}
	r := newTestRelay(p)

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() { done <- postForm(r.HandleCommand, commandValues("T1", "U1")) }()

	var rec *httptest.ResponseRecorder
	select {
	case rec = <-done:
	case <-time.After(time.Second):
		close(gate)
		t.Fatal("command webhook waited for users.list")
	}

	// users.list все еще висит, а ответ уже отдан
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Zero(t, p.openedCount())

	close(gate)
	drain(t, r)
	assert.Equal(t, 1, p.openedCount())
}

func TestHandleCommand_WarnsAboveOptionLimitWithoutTrimming(t *testing.T) {
	users := make([]slack.User, 0, maxSelectOptions+1)
	for i := 0; i <= maxSelectOptions; i++ {
		users = append(users, slack.User{ID: fmt.Sprintf("U%03d", i), Name: fmt.Sprintf("user%d", i)})
	}
	p := &fakePlatform{users: users}
	core, logs := observer.New(zapcore.WarnLevel)
	r := NewRelay(p, nil, NewMetrics(nil), zap.New(core))

	postForm(r.HandleCommand, commandValues("T1", "U1"))
	drain(t, r)

	warns := logs.FilterMessage("approver list exceeds select option limit, platform may reject the form")
	require.Equal(t, 1, warns.Len())
	assert.Equal(t, int64(maxSelectOptions+1), warns.All()[0].ContextMap()["count"])

	require.Len(t, p.opened, 1)
	sel := p.opened[0].View.Blocks.BlockSet[0].(*slack.InputBlock).Element.(*slack.SelectBlockElement)
	assert.Len(t, sel.Options, maxSelectOptions+1)
}
