package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/novahq/nova-dashboard/internal/domain/auth"
	mocks "github.com/novahq/nova-dashboard/internal/mocks/auth"
)

func newAuthorizer(t *testing.T, emails ...string) *AuthorizerService {
	t.Helper()
	svc, err := NewAuthorizerService(context.Background(), AuthorizerServiceOptions{
		Source: mocks.NewStaticAllowlistSource(emails...),
	})
	require.NoError(t, err)
	return svc
}

func TestAuthorizerService_IsAuthorized_CaseInsensitive(t *testing.T) {
	svc := newAuthorizer(t, "a@x.com", "Team.Lead@Example.Com")

	assert.True(t, svc.IsAuthorized("a@x.com"))
	assert.True(t, svc.IsAuthorized("A@X.COM"))
	assert.True(t, svc.IsAuthorized("team.lead@example.com"))
	assert.True(t, svc.IsAuthorized("TEAM.LEAD@EXAMPLE.COM"))
}

func TestAuthorizerService_IsAuthorized_FullStringOnly(t *testing.T) {
	svc := newAuthorizer(t, "a@x.com")

	assert.False(t, svc.IsAuthorized("a@x.co"))
	assert.False(t, svc.IsAuthorized("aa@x.com"))
	assert.False(t, svc.IsAuthorized("a@x.com "))
}

func TestAuthorizerService_IsAuthorized_FailsClosed(t *testing.T) {
	// An empty email never authorizes, even against a degenerate entry
	// with an empty email.
	svc, err := NewAuthorizerService(context.Background(), AuthorizerServiceOptions{
		Source: &mocks.StaticAllowlistSource{
			Entries: []domainauth.AllowlistEntry{{Email: ""}, {Email: "real@x.com"}},
		},
	})
	require.NoError(t, err)

	assert.False(t, svc.IsAuthorized(""))
	assert.True(t, svc.IsAuthorized("real@x.com"))
}

func TestAuthorizerService_EmptyAllowlist(t *testing.T) {
	svc := newAuthorizer(t)
	assert.False(t, svc.IsAuthorized("anyone@x.com"))
	assert.Zero(t, svc.Size())
}

func TestNewAuthorizerService_SourceFailure(t *testing.T) {
	_, err := NewAuthorizerService(context.Background(), AuthorizerServiceOptions{
		Source: &mocks.StaticAllowlistSource{LoadErr: errors.New("boom")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load allow-list")
}
