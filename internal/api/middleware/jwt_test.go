package middleware

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/rahulmathews/cutshort-api/internal/api/auth"
	"github.com/rahulmathews/cutshort-api/internal/model"
	"github.com/rahulmathews/cutshort-api/internal/pkg/metrics"
	"github.com/rahulmathews/cutshort-api/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

type mockUserFinder struct {
	users map[uint]*model.User
}

func (m *mockUserFinder) FindUser(ctx context.Context, id uint) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

type mockDeniedChecker struct {
	denied map[string]bool
}

func (m *mockDeniedChecker) IsDenied(ctx context.Context, jti string) (bool, error) {
	return m.denied[jti], nil
}

// signToken 用测试密钥签发一枚带指定过期时间的令牌。
func signToken(t *testing.T, userID uint, jti string, expiresAt time.Time) string {
	t.Helper()
	claims := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Name: "u",
		Role: model.RoleUser,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func newAuthedRouter(t *testing.T, users UserFinder, denied DeniedChecker) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	metrics.InitMetrics()
	r := gin.New()
	r.Use(ErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil))))
	r.Use(AuthMiddleware(testSecret, users, denied))
	r.GET("/whoami", func(c *gin.Context) {
		ident, _ := auth.IdentityFrom(c)
		c.JSON(200, gin.H{"userId": ident.UserID, "role": ident.Role})
	})
	return r
}

func doGet(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	users := &mockUserFinder{users: map[uint]*model.User{
		7: {ID: 7, Name: "Something 452", Role: model.RoleUser},
	}}
	r := newAuthedRouter(t, users, &mockDeniedChecker{})

	token := signToken(t, 7, "jti-1", time.Now().Add(time.Hour))
	w := doGet(r, "Bearer "+token)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !bytes.Contains(w.Body.Bytes(), []byte(`"userId":7`)) {
		t.Fatalf("expected identity in context, got %s", w.Body.String())
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	r := newAuthedRouter(t, &mockUserFinder{}, &mockDeniedChecker{})

	w := doGet(r, "")

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("Cannot find Authorization header")) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	r := newAuthedRouter(t, &mockUserFinder{}, &mockDeniedChecker{})

	w := doGet(r, "Token abcdef")

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthMiddleware_ExpiredBeyondLeeway(t *testing.T) {
	users := &mockUserFinder{users: map[uint]*model.User{
		7: {ID: 7, Role: model.RoleUser},
	}}
	r := newAuthedRouter(t, users, &mockDeniedChecker{})

	token := signToken(t, 7, "jti-2", time.Now().Add(-tokenLeeway-time.Second))
	w := doGet(r, "Bearer "+token)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("token past leeway must be rejected, got %d", w.Code)
	}
}

func TestAuthMiddleware_ExpiredWithinLeeway(t *testing.T) {
	users := &mockUserFinder{users: map[uint]*model.User{
		7: {ID: 7, Role: model.RoleUser},
	}}
	r := newAuthedRouter(t, users, &mockDeniedChecker{})

	// 刚过期但仍在时钟偏差窗口内
	token := signToken(t, 7, "jti-3", time.Now().Add(-2*time.Second))
	w := doGet(r, "Bearer "+token)

	if w.Code != http.StatusOK {
		t.Fatalf("token within leeway must be accepted, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddleware_WrongSignature(t *testing.T) {
	users := &mockUserFinder{users: map[uint]*model.User{
		7: {ID: 7, Role: model.RoleUser},
	}}
	r := newAuthedRouter(t, users, &mockDeniedChecker{})

	claims := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "7",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	w := doGet(r, "Bearer "+forged)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad signature, got %d", w.Code)
	}
}

func TestAuthMiddleware_DenylistedToken(t *testing.T) {
	users := &mockUserFinder{users: map[uint]*model.User{
		7: {ID: 7, Role: model.RoleUser},
	}}
	denied := &mockDeniedChecker{denied: map[string]bool{"jti-out": true}}
	r := newAuthedRouter(t, users, denied)

	token := signToken(t, 7, "jti-out", time.Now().Add(time.Hour))
	w := doGet(r, "Bearer "+token)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for denylisted token, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("Token Expired")) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestAuthMiddleware_UnknownUser(t *testing.T) {
	r := newAuthedRouter(t, &mockUserFinder{users: map[uint]*model.User{}}, &mockDeniedChecker{})

	token := signToken(t, 99, "jti-4", time.Now().Add(time.Hour))
	w := doGet(r, "Bearer "+token)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for deleted user, got %d", w.Code)
	}
}
