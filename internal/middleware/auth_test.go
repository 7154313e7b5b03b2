package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/2beens/calisthenics/internal/middleware"
)

func TestAuthMiddlewareHandler_AuthCheck(t *testing.T) {
	testCases := []struct {
		name               string
		path               string
		method             string
		authHeader         string
		mcpSecret          string
		expectIsLogged     bool
		mockIsLogged       bool
		mockIsLoggedErr    error
		expectedStatusCode int
	}{
		{
			name:               "AllowedPathWithoutToken",
			path:               "/catalog",
			method:             "GET",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "Options",
			path:               "/logs",
			method:             "OPTIONS",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "NotAllowedPathWithoutToken",
			path:               "/stats",
			method:             "GET",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "ValidToken",
			path:               "/stats",
			method:             "GET",
			authHeader:         "Bearer valid-token",
			expectIsLogged:     true,
			mockIsLogged:       true,
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "ValidTokenWithoutBearer",
			path:               "/logs",
			method:             "POST",
			authHeader:         "valid-token",
			expectIsLogged:     true,
			mockIsLogged:       true,
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "InvalidToken",
			path:               "/stats",
			method:             "GET",
			authHeader:         "Bearer valid-token",
			expectIsLogged:     true,
			mockIsLogged:       false,
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "LoginCheckFails",
			path:               "/stats",
			method:             "GET",
			authHeader:         "Bearer valid-token",
			expectIsLogged:     true,
			mockIsLoggedErr:    errors.New("redis down"),
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "McpValidSecret",
			path:               "/mcp",
			method:             "POST",
			mcpSecret:          "mcp-secret",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "McpInvalidSecret",
			path:               "/mcp",
			method:             "POST",
			mcpSecret:          "wrong",
			expectedStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockLoginChecker := NewMockloginChecker(ctrl)
			authMiddleware := middleware.NewAuthMiddlewareHandler("mcp-secret", mockLoginChecker)

			req, err := http.NewRequest(tc.method, tc.path, nil)
			assert.NoError(t, err)
			if tc.authHeader != "" {
				req.Header.Add("Authorization", tc.authHeader)
			}
			if tc.mcpSecret != "" {
				req.Header.Add("X-MCP-Secret", tc.mcpSecret)
			}

			if tc.expectIsLogged {
				mockLoginChecker.EXPECT().
					IsLogged(gomock.Any(), "valid-token").
					Return(tc.mockIsLogged, tc.mockIsLoggedErr)
			}

			rr := httptest.NewRecorder()
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
			authMiddleware.AuthCheck()(handler).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatusCode, rr.Code)
		})
	}
}

func TestAuthMiddlewareHandler_McpDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	authMiddleware := middleware.NewAuthMiddlewareHandler("", NewMockloginChecker(ctrl))

	req := httptest.NewRequest("POST", "/mcp", nil)
	rr := httptest.NewRecorder()
	authMiddleware.AuthCheck()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
