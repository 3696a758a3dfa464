// Package platform — единственный долгоживущий клиент чат-платформы, общий для всех обработчиков.
// После конструирования клиент не меняется, поэтому синхронизация не нужна.
package platform

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/avast/retry-go/v5"
	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/xela07ax/approval-relay/internal/infra"
)

type Client struct {
	api            *slack.Client
	guard          *ReliabilityWrapper
	logger         *zap.Logger
	verifyAttempts uint
}

// NewClient создает клиента с bearer-токеном бота.
func NewClient(cfg infra.SlackConfig, metrics *Metrics, logger *zap.Logger) *Client {
	logger = logger.Named("platform")

	opts := []slack.Option{slack.OptionHTTPClient(&http.Client{})}
	if cfg.APIURL != "" {
		opts = append(opts, slack.OptionAPIURL(cfg.APIURL))
	}

	attempts := cfg.VerifyAttempts
	if attempts == 0 {
		attempts = 1
	}

	return &Client{
		api:            slack.New(cfg.BotToken, opts...),
		guard:          NewReliabilityWrapper(cfg, metrics, logger),
		logger:         logger,
		verifyAttempts: attempts,
	}
}

// ListUsers возвращает весь справочник пользователей (пагинацию делает slack-go).
func (c *Client) ListUsers(ctx context.Context) ([]slack.User, error) {
	var users []slack.User
	err := c.guard.Do(ctx, "users.list", func(ctx context.Context) error {
		var err error
		users, err = c.api.GetUsersContext(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("users.list: %w", err)
	}
	return users, nil
}

// OpenForm показывает модалку по одноразовому trigger_id.
func (c *Client) OpenForm(ctx context.Context, triggerID string, view slack.ModalViewRequest) error {
	err := c.guard.Do(ctx, "views.open", func(ctx context.Context) error {
		_, err := c.api.OpenViewContext(ctx, triggerID, view)
		return err
	})
	if err != nil {
		return fmt.Errorf("views.open: %w", err)
	}
	return nil
}

// PostMessage отправляет сообщение в канал или в DM (channel = user id).
func (c *Client) PostMessage(ctx context.Context, channel, text string, blocks ...slack.Block) error {
	opts := []slack.MsgOption{slack.MsgOptionText(text, false)}
	if len(blocks) > 0 {
		opts = append(opts, slack.MsgOptionBlocks(blocks...))
	}

	err := c.guard.Do(ctx, "chat.postMessage", func(ctx context.Context) error {
		_, _, err := c.api.PostMessageContext(ctx, channel, opts...)
		return err
	})
	if err != nil {
		return fmt.Errorf("chat.postMessage: %w", err)
	}
	return nil
}

// Verify проверяет токен через auth.test при старте. Сетевые сбои повторяются с бэкоффом,
// ответ платформы (invalid_auth и т.п.) — нет.
func (c *Client) Verify(ctx context.Context) (*slack.AuthTestResponse, error) {
	var resp *slack.AuthTestResponse

	r := retry.New(
		retry.Context(ctx),
		retry.Attempts(c.verifyAttempts),
		retry.DelayType(retry.BackOffDelay),
	)

	err := r.Do(func() error {
		var callErr error
		resp, callErr = c.api.AuthTestContext(ctx)
		if callErr == nil {
			return nil
		}
		var apiErr slack.SlackErrorResponse
		if errors.As(callErr, &apiErr) {
			return retry.Unrecoverable(callErr)
		}
		c.logger.Warn("auth.test failed", zap.Error(callErr))
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("auth.test: %w", err)
	}

	c.logger.Info("platform credentials verified",
		zap.String("team", resp.Team),
		zap.String("bot_user_id", resp.UserID))
	return resp, nil
}
