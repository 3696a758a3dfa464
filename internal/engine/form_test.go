package engine

import (
	"encoding/json"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xela07ax/approval-relay/internal/domain"
)

func TestBuildApprovalForm(t *testing.T) {
	form := BuildApprovalForm([]domain.Candidate{{ID: "U2", Label: "Bob"}, {ID: "U3", Label: "carol"}})

	assert.Equal(t, slack.VTModal, form.Type)
	assert.Equal(t, FormCallbackID, form.CallbackID)
	assert.Equal(t, "Approval Request", form.Title.Text)
	require.Len(t, form.Blocks.BlockSet, 2)

	approver, ok := form.Blocks.BlockSet[0].(*slack.InputBlock)
	require.True(t, ok)
	assert.Equal(t, BlockIDApprover, approver.BlockID)
	assert.False(t, approver.Optional)

	sel, ok := approver.Element.(*slack.SelectBlockElement)
	require.True(t, ok)
	assert.Equal(t, ActionIDApproverSelect, sel.ActionID)
	assert.Equal(t, slack.OptTypeStatic, sel.Type)
	require.Len(t, sel.Options, 2)
	assert.Equal(t, "U2", sel.Options[0].Value)
	assert.Equal(t, "Bob", sel.Options[0].Text.Text)
	assert.Equal(t, "carol", sel.Options[1].Text.Text)

	message, ok := form.Blocks.BlockSet[1].(*slack.InputBlock)
	require.True(t, ok)
	assert.Equal(t, BlockIDMessage, message.BlockID)
	assert.False(t, message.Optional)

	input, ok := message.Element.(*slack.PlainTextInputBlockElement)
	require.True(t, ok)
	assert.Equal(t, ActionIDMessage, input.ActionID)
	assert.True(t, input.Multiline)
}

func TestBuildApprovalForm_Deterministic(t *testing.T) {
	candidates := []domain.Candidate{{ID: "U2", Label: "Bob"}}

	a, err := json.Marshal(BuildApprovalForm(candidates))
	require.NoError(t, err)
	b, err := json.Marshal(BuildApprovalForm(candidates))
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}
