package httpserver_test

import (
	"encoding/json"
	"moviecatalog/auth"
	"moviecatalog/pkg/config"
	pkgjwt "moviecatalog/pkg/jwt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret"

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = testJWTSecret
	return cfg
}

func signTestToken(t *testing.T, role string) string {
	t.Helper()
	token, err := pkgjwt.NewJWTProvider(testJWTSecret, time.Hour).
		GenerateAccessToken(auth.Admin{Email: "admin@example.com", Role: role})
	require.NoError(t, err)
	return token.AccessToken
}

type apiResponse struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func decodeAPIResponse(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	resp := decodeAPIResponse(t, rec)
	require.NoError(t, json.Unmarshal(resp.Data, out), string(resp.Data))
}
