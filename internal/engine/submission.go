package engine

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/xela07ax/approval-relay/internal/domain"
)

// BlockIDApprovalButtons — блок с кнопками Approve/Reject в DM апруверу.
const BlockIDApprovalButtons = "approval_buttons"

// Submit отправляет апруверу DM с текстом запроса и двумя кнопками.
// В value обеих кнопок лежит ID инициатора: это единственная связь с будущим решением.
func (r *Relay) Submit(ctx context.Context, req domain.ApprovalRequest) error {
	text, blocks := ApprovalNotification(req)

	if err := r.platform.PostMessage(ctx, req.ApproverID, text, blocks...); err != nil {
		return fmt.Errorf("%w: approval request to %s: %w", domain.ErrDelivery, req.ApproverID, err)
	}

	r.log(ctx).Info("approval request delivered",
		zap.String("requester_id", req.RequesterID),
		zap.String("approver_id", req.ApproverID))
	return nil
}

// ApprovalNotification строит сообщение апруверу.
func ApprovalNotification(req domain.ApprovalRequest) (string, []slack.Block) {
	text := fmt.Sprintf("You have an approval request from %s", domain.Mention(req.RequesterID))

	body := slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, "*Message:*\n"+req.Message, false, false),
		nil, nil,
	)

	approve := slack.NewButtonBlockElement(domain.ActionIDApprove, req.RequesterID, plainText("Approve"))
	approve.Style = slack.StylePrimary

	reject := slack.NewButtonBlockElement(domain.ActionIDReject, req.RequesterID, plainText("Reject"))
	reject.Style = slack.StyleDanger

	return text, []slack.Block{
		body,
		slack.NewActionBlock(BlockIDApprovalButtons, approve, reject),
	}
}
