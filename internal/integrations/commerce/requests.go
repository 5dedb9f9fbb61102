// Файл: internal/integrations/commerce/requests.go
package commerce

import (
	"context"
	"fmt"
	"io"
	"net/http"

	apperrors "shop-admin-gateway/pkg/errors"
)

// Forward - сквозной вызов ресурсного эндпоинта commerce API.
// Токен подставляется в Authorization, если он есть. Content-Type
// приходит от исходного запроса (multipart, формы); без него ставим
// JSON. Ответ отдаётся как есть: интерпретация 401/403 - забота
// вызывающего (proxy).
func (p *Provider) Forward(ctx context.Context, method, path string, body io.Reader, token, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса к commerce API: %w", err)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType == "" {
		contentType = "application/json"
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstreamDown, err)
	}
	return resp, nil
}
