package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/personachat/backend/pkg/errorx"
	"github.com/personachat/backend/pkg/ws"
	"github.com/personachat/backend/pkg/xcontext"
)

var validate = validator.New()

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := router.newContext(c)

		ctx, err := router.runBefores(ctx)
		if err == nil {
			var req Request
			if err = bind(c, method, &req); err != nil {
				xcontext.Logger(ctx).Debugf("Cannot bind request: %v", err)
			} else {
				var resp *Response
				resp, err = handler(ctx, &req)
				if err == nil {
					writeJSON(ctx, c, newResponse(resp))
				}
			}
		}

		if err != nil {
			ctx = xcontext.WithError(ctx, err)
			writeJSON(ctx, c, newErrorResponse(err))
		}

		router.runClosers(ctx)
	}
}

func wrapWebsocket[Request any](router *Router, handler WebsocketHandlerFunc[Request]) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := router.newContext(c)

		ctx, err := router.runBefores(ctx)
		if err != nil {
			ctx = xcontext.WithError(ctx, err)
			writeJSON(ctx, c, newErrorResponse(err))
			router.runClosers(ctx)
			return
		}

		var req Request
		if err := bind(c, http.MethodGet, &req); err != nil {
			ctx = xcontext.WithError(ctx, err)
			writeJSON(ctx, c, newErrorResponse(err))
			router.runClosers(ctx)
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot upgrade connection: %v", err)
			return
		}

		client := ws.NewClient(conn)
		defer client.Close()

		ctx = xcontext.WithWSClient(ctx, client)
		if err := handler(ctx, &req); err != nil {
			ctx = xcontext.WithError(ctx, err)
		}

		router.runClosers(ctx)
	}
}

func (r *Router) newContext(c *gin.Context) context.Context {
	ctx := xcontext.WithHTTPRequest(r.root, c.Request)
	return xcontext.WithStartTime(ctx, time.Now())
}

func (r *Router) runBefores(ctx context.Context) (context.Context, error) {
	for _, before := range r.befores {
		var err error
		ctx, err = before(ctx)
		if err != nil {
			return ctx, err
		}
	}

	return ctx, nil
}

func (r *Router) runClosers(ctx context.Context) {
	for _, closer := range r.closers {
		closer(ctx)
	}
}

func bind(c *gin.Context, method string, req any) error {
	switch method {
	case http.MethodGet:
		if err := c.ShouldBindQuery(req); err != nil {
			return errorx.New(errorx.BadRequest, "Invalid query: %v", err)
		}
	case http.MethodPost:
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(req); err != nil {
				return errorx.New(errorx.BadRequest, "Invalid body: %v", err)
			}
		}
	default:
		return errorx.New(errorx.NotImplemented, "Unsupported method %s", method)
	}

	if err := validate.Struct(req); err != nil {
		return errorx.New(errorx.BadRequest, "Invalid request: %v", err)
	}

	return nil
}
