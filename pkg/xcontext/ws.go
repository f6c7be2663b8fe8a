package xcontext

import (
	"context"

	"github.com/personachat/backend/pkg/ws"
)

type wsClientKey struct{}

func WithWSClient(ctx context.Context, c *ws.Client) context.Context {
	return context.WithValue(ctx, wsClientKey{}, c)
}

func WSClient(ctx context.Context) *ws.Client {
	c, ok := ctx.Value(wsClientKey{}).(*ws.Client)
	if !ok {
		return nil
	}

	return c
}
