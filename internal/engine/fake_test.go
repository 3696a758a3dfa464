package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xela07ax/approval-relay/internal/domain"
)

type openedForm struct {
	TriggerID string
	View      slack.ModalViewRequest
}

type postedMessage struct {
	Channel string
	Text    string
	Blocks  []slack.Block
}

// fakePlatform записывает исходящие вызовы вместо обращения к платформе.
type fakePlatform struct {
	mu sync.Mutex

	users     []slack.User
	usersErr  error
	usersGate chan struct{} // если задан, ListUsers ждет его закрытия
	openErr   error
	postErr   error

	opened []openedForm
	posted []postedMessage
}

func (f *fakePlatform) ListUsers(ctx context.Context) ([]slack.User, error) {
	if f.usersGate != nil {
		<-f.usersGate
	}
	if f.usersErr != nil {
		return nil, f.usersErr
	}
	return f.users, nil
}

func (f *fakePlatform) OpenForm(ctx context.Context, triggerID string, view slack.ModalViewRequest) error {
	if f.openErr != nil {
		return f.openErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened = append(f.opened, openedForm{TriggerID: triggerID, View: view})
	return nil
}

func (f *fakePlatform) PostMessage(ctx context.Context, channel, text string, blocks ...slack.Block) error {
	if f.postErr != nil {
		return f.postErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posted = append(f.posted, postedMessage{Channel: channel, Text: text, Blocks: blocks})
	return nil
}

func (f *fakePlatform) openedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.opened)
}

type fakePublisher struct {
	mu        sync.Mutex
	decisions []domain.Decision
	err       error
}

func (p *fakePublisher) Publish(ctx context.Context, d domain.Decision) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.decisions = append(p.decisions, d)
	return p.err
}

func newTestRelay(p Platform) *Relay {
	return NewRelay(p, nil, NewMetrics(nil), zap.NewNop())
}

func drain(t *testing.T, r *Relay) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, r.Wait(ctx))
}

func postForm(handler http.HandlerFunc, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func postInteraction(r *Relay, payload string) *httptest.ResponseRecorder {
	return postForm(r.HandleInteraction, url.Values{"payload": {payload}})
}
