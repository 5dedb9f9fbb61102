// Файл: internal/integrations/commerce/stub.go
package commerce

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Stub - встроенная заглушка commerce API для разработки и тестов.
// Воспроизводит причуды боевого бэкенда: роль приходит с префиксом
// ROLE_, userId для части пользователей не возвращается вовсе.
type Stub struct {
	mu     sync.RWMutex
	users  map[string]*stubUser
	secret []byte
	logger *zap.Logger
}

type stubUser struct {
	ID           int64
	PasswordHash string
	RawRole      string
	StoreID      *uint64
	OmitUserID   bool
}

func NewStub(secret string, logger *zap.Logger) *Stub {
	s := &Stub{
		users:  make(map[string]*stubUser),
		secret: []byte(secret),
		logger: logger,
	}

	storeID := uint64(7)
	s.SeedUser("superadmin@shop.tj", "supersecret", 1, "ROLE_SUPER_ADMIN", nil, false)
	s.SeedUser("admin@shop.tj", "adminsecret", 2, "role_admin", &storeID, true)
	s.SeedUser("staff@shop.tj", "staffsecret", 3, "Staff", &storeID, false)

	return s
}

func (s *Stub) SeedUser(email, password string, id int64, rawRole string, storeID *uint64, omitUserID bool) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[email] = &stubUser{
		ID:           id,
		PasswordHash: string(hash),
		RawRole:      rawRole,
		StoreID:      storeID,
		OmitUserID:   omitUserID,
	}
}

func (s *Stub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/auth/login":
		s.handleLogin(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/auth/reset-password":
		s.handleResetPassword(w, r)
	default:
		s.handleResource(w, r)
	}
}

func (s *Stub) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"message": "неверный формат запроса"})
		return
	}

	s.mu.RLock()
	user, ok := s.users[payload.Email]
	s.mu.RUnlock()

	if !ok || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)) != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"message": "неверные учётные данные"})
		return
	}

	token, err := s.mintToken(user)
	if err != nil {
		s.logger.Error("stub: не удалось выпустить токен", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"message": "внутренняя ошибка"})
		return
	}

	response := map[string]interface{}{
		"token": token,
		"email": payload.Email,
		"role":  user.RawRole,
	}
	if user.StoreID != nil {
		response["storeId"] = *user.StoreID
	}
	if !user.OmitUserID {
		response["userId"] = user.ID
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Stub) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var payload resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"message": "неверный формат запроса"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[payload.Email]
	if !ok {
		// Не раскрываем, существует ли пользователь.
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": true})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"message": "внутренняя ошибка"})
		return
	}
	user.PasswordHash = string(hash)
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": true})
}

// handleResource изображает любой ресурсный эндпоинт: пускает только
// с валидным Bearer-токеном.
func (s *Stub) handleResource(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"message": "неавторизован"})
		return
	}

	if _, err := s.parseToken(parts[1]); err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"message": "недопустимый токен"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"status": true, "path": r.URL.Path})
}

func (s *Stub) mintToken(user *stubUser) (string, error) {
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(user.ID, 10),
		"role": user.RawRole,
		"exp":  jwt.NewNumericDate(time.Now().Add(time.Hour * 24)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(s.secret)
}

func (s *Stub) parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неверный метод подписи токена")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("недопустимый токен")
	}
	return claims, nil
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
