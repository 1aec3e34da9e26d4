package dto_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guesthouse/infras/jwt"
	"guesthouse/internal/domains/auth/model/dto"
	userDto "guesthouse/internal/domains/user/model/dto"
)

func TestLoginResponse_JSON(t *testing.T) {
	var response dto.LoginResponse
	response.FromTokenPair(&jwt.TokenPair{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer", ExpiresIn: 900})
	response.User = userDto.UserResponse{ID: "u-1"}

	raw, err := json.Marshal(response)
	require.NoError(t, err)

	var flat map[string]any
	require.NoError(t, json.Unmarshal(raw, &flat))

	assert.Equal(t, "a", flat["access_token"])
	assert.Equal(t, "Bearer", flat["token_type"])
	assert.EqualValues(t, 900, flat["expires_in"])
	assert.Equal(t, "u-1", flat["user"].(map[string]any)["id"])
}

func TestTokens_FromTokenPair_Replaces(t *testing.T) {
	tokens := dto.Tokens{TokenType: "stale", ExpiresIn: 1}
	tokens.FromTokenPair(&jwt.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"})

	assert.Equal(t, dto.Tokens{AccessToken: "new-access", RefreshToken: "new-refresh"}, tokens)
}
