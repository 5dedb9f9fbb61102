// Файл: internal/integrations/commerce/auth.go
package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	apperrors "shop-admin-gateway/pkg/errors"
)

// LoginResponse - ответ POST /auth/login. Бэкенд может не прислать
// role и userId, а роль присылает в сыром виде ("ROLE_ADMIN", "admin").
type LoginResponse struct {
	Token   string  `json:"token"`
	Email   string  `json:"email"`
	Role    string  `json:"role"`
	StoreID *uint64 `json:"storeId"`
	UserID  *int64  `json:"userId"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

func (p *Provider) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	body, err := p.postJSON(ctx, "/auth/login", loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	var loginResp LoginResponse
	if err := json.Unmarshal(body, &loginResp); err != nil {
		return nil, fmt.Errorf("ошибка парсинга ответа с токеном: %w", err)
	}

	// Токен - единственное поле, наличие которого что-то значит.
	// 2xx без токена считаем провалом.
	if loginResp.Token == "" {
		return nil, fmt.Errorf("API авторизации не вернул token")
	}

	return &loginResp, nil
}

func (p *Provider) ResetPassword(ctx context.Context, email, newPassword string) error {
	_, err := p.postJSON(ctx, "/auth/reset-password", resetPasswordRequest{Email: email, NewPassword: newPassword})
	return err
}

func (p *Provider) postJSON(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса к commerce API: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		// Ответа не было вообще - это транспортный сбой, не HTTP-ошибка.
		p.logger.Warn("commerce API недоступен", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstreamDown, err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &UpstreamError{Status: resp.StatusCode, Body: string(bodyBytes)}
	}

	return bodyBytes, nil
}
