package engine

import (
	"github.com/slack-go/slack"

	"github.com/xela07ax/approval-relay/internal/domain"
)

// Идентификаторы модалки. По ним же читаются значения при view_submission.
const (
	FormCallbackID         = "approval_modal"
	BlockIDApprover        = "approver_section"
	ActionIDApproverSelect = "approver_select"
	BlockIDMessage         = "text_section"
	ActionIDMessage        = "approval_message"

	// Платформа не рендерит static_select больше чем со 100 опциями
	maxSelectOptions = 100
)

// BuildApprovalForm строит модалку с двумя обязательными полями: выбор апрувера и текст запроса.
func BuildApprovalForm(candidates []domain.Candidate) slack.ModalViewRequest {
	options := make([]*slack.OptionBlockObject, 0, len(candidates))
	for _, c := range candidates {
		options = append(options, slack.NewOptionBlockObject(c.ID, plainText(c.Label), nil))
	}

	approverSelect := slack.NewOptionsSelectBlockElement(
		slack.OptTypeStatic,
		plainText("Choose someone"),
		ActionIDApproverSelect,
		options...,
	)

	message := slack.NewPlainTextInputBlockElement(nil, ActionIDMessage)
	message.Multiline = true

	return slack.ModalViewRequest{
		Type:       slack.VTModal,
		CallbackID: FormCallbackID,
		Title:      plainText("Approval Request"),
		Submit:     plainText("Submit"),
		Close:      plainText("Cancel"),
		Blocks: slack.Blocks{
			BlockSet: []slack.Block{
				slack.NewInputBlock(BlockIDApprover, plainText("Select an approver"), nil, approverSelect),
				slack.NewInputBlock(BlockIDMessage, plainText("Approval Message"), nil, message),
			},
		},
	}
}

func plainText(s string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.PlainTextType, s, false, false)
}
