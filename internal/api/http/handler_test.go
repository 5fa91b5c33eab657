package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kungfu-delivery/internal/auth"
	"kungfu-delivery/internal/domain"
	"kungfu-delivery/internal/mocks"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	customerID = 7
	adminID    = 1
)

type testServer struct {
	handler     *Handler
	userTokens  *auth.JWTManager
	adminTokens *auth.JWTManager

	users     *mocks.UserServiceInterface
	addresses *mocks.AddressServiceInterface
	catalog   *mocks.CatalogServiceInterface
	cart      *mocks.CartServiceInterface
	orders    *mocks.OrderServiceInterface
	stats     *mocks.StatisticsServiceInterface
	recommend *mocks.RecommendServiceInterface
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	s := &testServer{
		userTokens:  auth.NewJWTManager("user-secret", time.Hour),
		adminTokens: auth.NewJWTManager("admin-secret", time.Hour),
		users:       mocks.NewUserServiceInterface(t),
		addresses:   mocks.NewAddressServiceInterface(t),
		catalog:     mocks.NewCatalogServiceInterface(t),
		cart:        mocks.NewCartServiceInterface(t),
		orders:      mocks.NewOrderServiceInterface(t),
		stats:       mocks.NewStatisticsServiceInterface(t),
		recommend:   mocks.NewRecommendServiceInterface(t),
	}
	s.handler = NewHandler(Services{
		Users:      s.users,
		Addresses:  s.addresses,
		Catalog:    s.catalog,
		Cart:       s.cart,
		Orders:     s.orders,
		Statistics: s.stats,
		Recommend:  s.recommend,
	}, s.userTokens, s.adminTokens)
	return s
}

func (s *testServer) customerToken(t *testing.T) string {
	t.Helper()
	token, err := s.userTokens.Issue(domain.Principal{UserID: customerID, Username: "alice", Role: domain.RoleCustomer})
	require.NoError(t, err)
	return token
}

func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	token, err := s.adminTokens.Issue(domain.Principal{UserID: adminID, Username: "root", Role: domain.RoleAdmin})
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	NewRouter(s.handler, zerolog.Nop()).ServeHTTP(rr, req)
	return rr
}

func (s *testServer) doJSON(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	return s.do(t, method, path, token, body, "application/json")
}

type decodedEnvelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) decodedEnvelope {
	t.Helper()
	var env decodedEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	return env
}

func decodeData(t *testing.T, env decodedEnvelope) map[string]any {
	t.Helper()
	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodGet, "/health", "", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	env := decodeBody(t, rr)
	assert.Equal(t, 0, env.Code)
	data := decodeData(t, env)
	assert.Equal(t, "healthy", data["status"])
	assert.Equal(t, "kungfu-delivery", data["service"])
	assert.NotEmpty(t, rr.Header().Get(requestIDHeader))
}

func TestUnknownAPIRoute(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodGet, "/api/unknown", "", nil, "")
	require.Equal(t, http.StatusNotFound, rr.Code)
	env := decodeBody(t, rr)
	assert.Equal(t, http.StatusNotFound, env.Code)
	assert.Equal(t, msgRouteNotFound, env.Message)
}

func TestWrongMethod(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
	}{
		{name: "public route", method: http.MethodDelete, path: "/api/dishes"},
		{name: "customer route with token", method: http.MethodPut, path: "/api/cart", token: s.customerToken(t)},
		{name: "customer route without token", method: http.MethodPut, path: "/api/cart"},
		{name: "admin route", method: http.MethodPost, path: "/api/statistics/overview", token: s.adminToken(t)},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			rr := s.do(t, testCase.method, testCase.path, testCase.token, nil, "")
			require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
			env := decodeBody(t, rr)
			assert.Equal(t, http.StatusMethodNotAllowed, env.Code)
			assert.Equal(t, msgMethodNotAllow, env.Message)
		})
	}
}

func TestAuthentication(t *testing.T) {
	s := newTestServer(t)
	customerOnAdminSecret, err := s.adminTokens.Issue(domain.Principal{UserID: customerID, Role: domain.RoleCustomer})
	require.NoError(t, err)

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantMsg    string
	}{
		{name: "missing token", path: "/api/cart", wantStatus: http.StatusUnauthorized, wantMsg: msgTokenMissing},
		{name: "wrong scheme", path: "/api/cart", header: "Token abc", wantStatus: http.StatusUnauthorized, wantMsg: msgTokenFormat},
		{name: "garbage token", path: "/api/cart", header: "Bearer abc", wantStatus: http.StatusUnauthorized, wantMsg: msgTokenInvalid},
		{name: "admin token on customer route", path: "/api/cart", header: "Bearer " + s.adminToken(t), wantStatus: http.StatusUnauthorized, wantMsg: msgTokenInvalid},
		{name: "customer token on admin route", path: "/api/statistics/overview", header: "Bearer " + s.customerToken(t), wantStatus: http.StatusUnauthorized, wantMsg: msgTokenInvalid},
		{name: "non admin role on admin route", path: "/api/statistics/overview", header: "Bearer " + customerOnAdminSecret, wantStatus: http.StatusForbidden, wantMsg: msgNoPermission},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, testCase.path, nil)
			if testCase.header != "" {
				req.Header.Set("Authorization", testCase.header)
			}
			rr := httptest.NewRecorder()
			NewRouter(s.handler, zerolog.Nop()).ServeHTTP(rr, req)

			assert.Equal(t, testCase.wantStatus, rr.Code)
			env := decodeBody(t, rr)
			assert.Equal(t, testCase.wantStatus, env.Code)
			assert.Equal(t, testCase.wantMsg, env.Message)
		})
	}
}

func TestRecovererReturnsInternalError(t *testing.T) {
	s := newTestServer(t)
	s.catalog.On("ListCanteens", mock.Anything).Run(func(args mock.Arguments) { panic("boom") })

	rr := s.do(t, http.MethodGet, "/api/config/canteens", "", nil, "")
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, msgInternal, decodeBody(t, rr).Message)
}

func TestRateLimits(t *testing.T) {
	t.Run("ai recommendations per user", func(t *testing.T) {
		s := newTestServer(t)
		s.handler.AILimiter = PerMinute(1)
		s.recommend.On("Recommend", mock.Anything, customerID).
			Return(&domain.Recommendation{RecommendationText: "试试宫保鸡丁", ActionableItems: []domain.RecommendedItem{}}, nil).Once()

		token := s.customerToken(t)
		first := s.do(t, http.MethodPost, "/api/ai/recommend", token, nil, "")
		assert.Equal(t, http.StatusOK, first.Code)

		second := s.do(t, http.MethodPost, "/api/ai/recommend", token, nil, "")
		assert.Equal(t, http.StatusTooManyRequests, second.Code)
		assert.Equal(t, msgRateLimited, decodeBody(t, second).Message)
	})

	t.Run("logins per client", func(t *testing.T) {
		s := newTestServer(t)
		s.handler.LoginLimiter = PerMinute(1)
		s.users.On("Login", mock.Anything, domain.Credentials{Username: "alice", Password: "secret"}).
			Return(&domain.LoginResult{Token: "t", User: &domain.User{ID: customerID, Username: "alice"}}, nil).Once()

		creds := domain.Credentials{Username: "alice", Password: "secret"}
		assert.Equal(t, http.StatusOK, s.doJSON(t, http.MethodPost, "/api/users/login", "", creds).Code)
		assert.Equal(t, http.StatusTooManyRequests, s.doJSON(t, http.MethodPost, "/api/users/login", "", creds).Code)
	})
}

func TestKeyedLimiterEvictsIdleKeys(t *testing.T) {
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	l := PerMinute(1)
	l.now = func() time.Time { return clock }
	l.lastSweep = clock

	assert.True(t, l.Allow("ip:10.0.0.1"))
	assert.False(t, l.Allow("ip:10.0.0.1"))
	assert.True(t, l.Allow("ip:10.0.0.2"))
	require.Len(t, l.limiters, 2)

	clock = clock.Add(limiterIdleTTL / 2)
	assert.True(t, l.Allow("ip:10.0.0.2"))

	clock = clock.Add(limiterIdleTTL / 2)
	assert.True(t, l.Allow("ip:10.0.0.3"))
	assert.NotContains(t, l.limiters, "ip:10.0.0.1")
	assert.Contains(t, l.limiters, "ip:10.0.0.2")
	assert.Contains(t, l.limiters, "ip:10.0.0.3")

	clock = clock.Add(limiterIdleTTL)
	assert.True(t, l.Allow("ip:10.0.0.1"))
	assert.Len(t, l.limiters, 1)
}
