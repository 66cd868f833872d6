package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthToken(t *testing.T) {
	ctx := context.Background()
	_, ok := AuthToken(ctx)
	assert.False(t, ok)

	assert.Equal(t, ctx, WithAuthToken(ctx, ""))

	token, ok := AuthToken(WithAuthToken(ctx, "secret"))
	assert.True(t, ok)
	assert.Equal(t, "secret", token)
}

func TestBearerToken(t *testing.T) {
	testCases := []struct {
		header string
		token  string
		ok     bool
	}{
		{header: "Bearer abc", token: "abc", ok: true},
		{header: "bearer   abc ", token: "abc", ok: true},
		{header: "Basic abc"},
		{header: "Bearer "},
		{header: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.header, func(t *testing.T) {
			token, ok := BearerToken(tc.header)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.token, token)
		})
	}
}
