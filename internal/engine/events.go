package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/xela07ax/approval-relay/internal/domain"
)

// ParseInteraction разбирает поле payload вебхука взаимодействий.
func ParseInteraction(raw string) (*slack.InteractionCallback, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: empty payload", domain.ErrMalformedPayload)
	}
	var cb slack.InteractionCallback
	if err := json.Unmarshal([]byte(raw), &cb); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedPayload, err)
	}
	if cb.Type == "" {
		return nil, fmt.Errorf("%w: missing type", domain.ErrMalformedPayload)
	}
	return &cb, nil
}

// SubmissionFromCallback — вариант view_submission. Оба поля формы обязательны,
// отсутствие любого из них означает нарушение контракта платформой.
func SubmissionFromCallback(cb *slack.InteractionCallback) (domain.ApprovalRequest, error) {
	var req domain.ApprovalRequest

	if cb.User.ID == "" {
		return req, fmt.Errorf("%w: view_submission without user.id", domain.ErrMalformedPayload)
	}
	if cb.View.State == nil {
		return req, fmt.Errorf("%w: view_submission without view.state", domain.ErrMalformedPayload)
	}
	values := cb.View.State.Values

	approver, ok := values[BlockIDApprover][ActionIDApproverSelect]
	if !ok || approver.SelectedOption.Value == "" {
		return req, fmt.Errorf("%w: missing %s.%s.selected_option", domain.ErrMalformedPayload, BlockIDApprover, ActionIDApproverSelect)
	}
	message, ok := values[BlockIDMessage][ActionIDMessage]
	if !ok || message.Value == "" {
		return req, fmt.Errorf("%w: missing %s.%s.value", domain.ErrMalformedPayload, BlockIDMessage, ActionIDMessage)
	}

	req.RequesterID = cb.User.ID
	req.ApproverID = approver.SelectedOption.Value
	req.Message = message.Value
	return req, nil
}

// DecisionFromCallback — вариант block_actions. Инициатор берется из value кнопки
// как есть, текущий пользователь — это апрувер.
func DecisionFromCallback(cb *slack.InteractionCallback) (domain.Decision, error) {
	var d domain.Decision

	if cb.User.ID == "" {
		return d, fmt.Errorf("%w: block_actions without user.id", domain.ErrMalformedPayload)
	}
	actions := cb.ActionCallback.BlockActions
	if len(actions) == 0 || actions[0] == nil {
		return d, fmt.Errorf("%w: block_actions without actions", domain.ErrMalformedPayload)
	}
	action := actions[0]

	outcome, err := domain.ParseOutcome(action.ActionID)
	if err != nil {
		return d, err
	}
	if action.Value == "" {
		return d, fmt.Errorf("%w: action %q without requester value", domain.ErrMalformedPayload, action.ActionID)
	}

	d.RequesterID = action.Value
	d.ApproverID = cb.User.ID
	d.Outcome = outcome
	return d, nil
}
