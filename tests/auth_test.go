package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doRequest(t *testing.T, method, path string, body interface{}, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(jsonData)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

func testRegister(t *testing.T) {
	resp := doRequest(t, "POST", "/api/auth/register", map[string]string{
		"username":      "newuser",
		"email":         "newuser@example.com",
		"password_hash": "password123",
	}, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decodeBody(t, resp)
	assert.NotEmpty(t, result["token"])
	assert.NotEmpty(t, result["user"])
}

func testLogin(t *testing.T) {
	resp := doRequest(t, "POST", "/api/auth/login", map[string]string{
		"username": "testuser",
		"password": "password",
	}, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decodeBody(t, resp)
	require.NotEmpty(t, result["token"])
	jwtToken = result["token"].(string)
}

func testLoginInvalidCredentials(t *testing.T) {
	resp := doRequest(t, "POST", "/api/auth/login", map[string]string{
		"username": "testuser",
		"password": "wrong",
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func testGetProfile(t *testing.T) {
	resp := doRequest(t, "GET", "/api/user/profile", nil, jwtToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decodeBody(t, resp)
	data := result["data"].(map[string]interface{})
	assert.Equal(t, "testuser", data["username"])
	assert.Equal(t, "test@example.com", data["email"])
	assert.EqualValues(t, 0, data["current_streak"])
	assert.EqualValues(t, 0, data["total_solved"])
}

func testProfileRequiresToken(t *testing.T) {
	resp := doRequest(t, "GET", "/api/user/profile", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
