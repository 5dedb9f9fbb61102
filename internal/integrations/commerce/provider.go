// Файл: internal/integrations/commerce/provider.go
package commerce

import (
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"shop-admin-gateway/pkg/config"
)

// Provider - клиент внешнего commerce API. Шлюз не содержит
// собственной бизнес-логики магазина: авторизация и все CRUD-вызовы
// делегируются этому API.
type Provider struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewProvider(cfg config.UpstreamConfig, logger *zap.Logger) *Provider {
	return &Provider{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// UpstreamError - API ответил HTTP-ошибкой. Отличаем от транспортного
// сбоя (ErrUpstreamDown): у них разные сообщения для пользователя.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("commerce API вернул статус %d: %s", e.Status, e.Body)
}

// IsAuthFailure - 401/403 от API: сессия протухла или отозвана.
func (e *UpstreamError) IsAuthFailure() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}
