package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/xela07ax/approval-relay/internal/domain"
)

// LookupApprovers запрашивает справочник пользователей заново при каждом вызове, без кэша.
func LookupApprovers(ctx context.Context, p Platform) ([]domain.Candidate, error) {
	users, err := p.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDirectory, err)
	}
	return Candidates(users), nil
}

// Candidates отбрасывает ботов и системный аккаунт платформы, порядок сохраняется.
func Candidates(users []slack.User) []domain.Candidate {
	out := make([]domain.Candidate, 0, len(users))
	for _, u := range users {
		if u.IsBot || u.ID == domain.SystemUserID {
			continue
		}
		out = append(out, domain.Candidate{ID: u.ID, Label: displayName(u)})
	}
	return out
}

func displayName(u slack.User) string {
	if strings.TrimSpace(u.RealName) != "" {
		return u.RealName
	}
	return u.Name
}
