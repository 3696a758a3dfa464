package domain

import (
	"errors"
	"fmt"
)

// Исходы решения апрувера
type Outcome string

const (
	OutcomeApproved Outcome = "approved"
	OutcomeRejected Outcome = "rejected"
)

// ID кнопок в уведомлении апруверу. По ним же определяется исход решения.
const (
	ActionIDApprove = "approve"
	ActionIDReject  = "reject"
)

// Классификация отказов
var (
	// ErrMalformedPayload — платформа прислала неполный или битый payload (нарушение контракта).
	ErrMalformedPayload = errors.New("malformed interaction payload")
	// ErrDirectory — не удалось получить список пользователей.
	ErrDirectory = errors.New("directory lookup failed")
	// ErrDelivery — не удалось доставить уведомление.
	ErrDelivery = errors.New("notification delivery failed")
)

// ApprovalRequest нигде не хранится: живет ровно столько, сколько обрабатывается submission.
type ApprovalRequest struct {
	RequesterID string `json:"requester_id"`
	ApproverID  string `json:"approver_id"`
	Message     string `json:"message"`
}

// Decision восстанавливается из value нажатой кнопки, а не из локального хранилища.
type Decision struct {
	RequesterID string  `json:"requester_id"`
	ApproverID  string  `json:"approver_id"`
	Outcome     Outcome `json:"outcome"`
}

// ParseOutcome переводит action_id кнопки в исход решения.
func ParseOutcome(actionID string) (Outcome, error) {
	switch actionID {
	case ActionIDApprove:
		return OutcomeApproved, nil
	case ActionIDReject:
		return OutcomeRejected, nil
	default:
		return "", fmt.Errorf("%w: unknown action_id %q", ErrMalformedPayload, actionID)
	}
}

// ResultText — фиксированная формулировка для инициатора запроса.
func (d Decision) ResultText() string {
	if d.Outcome == OutcomeApproved {
		return fmt.Sprintf("✅ Your request was approved by %s", Mention(d.ApproverID))
	}
	return fmt.Sprintf("❌ Your request was rejected by %s", Mention(d.ApproverID))
}

// Mention форматирует упоминание пользователя в разметке платформы.
func Mention(userID string) string {
	return "<@" + userID + ">"
}
