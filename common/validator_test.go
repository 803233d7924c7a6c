package common

import (
	"go-auth-api/logger"
	"go-auth-api/model"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func decodeRegister(body string) (*httptest.ResponseRecorder, bool) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/register", strings.NewReader(body))
	var payload model.RegisterRequest
	return rr, ValidateAndDecode(rr, req, &payload)
}

func TestValidateAndDecode_PasswordComplexity(t *testing.T) {
	t.Run("accepts a mixed password", func(t *testing.T) {
		_, ok := decodeRegister(`{"email":"a@b.com","password":"Abcdef12"}`)
		assert.True(t, ok)
	})

	tests := []struct {
		name     string
		password string
	}{
		{"no uppercase letter", "abcdef12"},
		{"no lowercase letter", "ABCDEF12"},
		{"no digit", "Abcdefgh"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr, ok := decodeRegister(`{"email":"a@b.com","password":"` + tc.password + `"}`)
			assert.False(t, ok)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, rr.Body.String(), `"rule":"password"`)
		})
	}
}

func TestValidateAndDecode_BadBody(t *testing.T) {
	rr, ok := decodeRegister(`{not json`)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid request body")
}
