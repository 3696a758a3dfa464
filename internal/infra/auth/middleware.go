package auth

import (
	"bytes"
	"io"
	"net/http"

	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

// MaxBodyBytes ограничивает размер тела вебхука.
const MaxBodyBytes = 1 << 20

// NewMiddleware проверяет подпись платформы (X-Slack-Signature) и возвращает тело запроса обратно в r.Body.
// С пустым секретом проверка выключена.
func NewMiddleware(signingSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logger.Named("signature")
	if signingSecret == "" {
		logger.Warn("signing secret is empty, webhook signature verification disabled")
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes))
			if err != nil {
				http.Error(w, "Failed to read body", http.StatusBadRequest)
				return
			}
			_ = r.Body.Close()

			verifier, err := slack.NewSecretsVerifier(r.Header, signingSecret)
			if err != nil {
				logger.Warn("auth failure", zap.String("path", r.URL.Path), zap.Error(err))
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if _, err := verifier.Write(body); err != nil {
				logger.Warn("auth failure", zap.String("path", r.URL.Path), zap.Error(err))
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if err := verifier.Ensure(); err != nil {
				logger.Warn("auth failure", zap.String("path", r.URL.Path), zap.Error(err))
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			// Тело уже вычитано — отдаем копию дальше по цепочке
			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}
