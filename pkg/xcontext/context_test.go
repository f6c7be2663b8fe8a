package xcontext

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/personachat/backend/config"
	"github.com/stretchr/testify/require"
)

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	require.Equal(t, "", RequestUserID(ctx))
	require.Nil(t, DB(ctx))
	require.NotNil(t, Logger(ctx))

	ctx = WithRequestUserID(ctx, "user1")
	ctx = WithConfigs(ctx, config.Configs{Env: "test"})
	require.Equal(t, "user1", RequestUserID(ctx))
	require.Equal(t, "test", Configs(ctx).Env)
}

func TestHTTPValues(t *testing.T) {
	ctx := context.Background()
	require.Nil(t, HTTPRequest(ctx))
	require.True(t, StartTime(ctx).IsZero())
	require.NoError(t, Error(ctx))

	req := httptest.NewRequest(http.MethodGet, "/getCatalog", nil)
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	ctx = WithHTTPRequest(ctx, req)
	ctx = WithStartTime(ctx, now)
	ctx = WithError(ctx, errors.New("failed"))

	require.Equal(t, req, HTTPRequest(ctx))
	require.Equal(t, now, StartTime(ctx))
	require.EqualError(t, Error(ctx), "failed")
}
