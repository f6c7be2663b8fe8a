package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandlerFunc handles a request which was decoded into Request.
type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// WebsocketHandlerFunc serves an upgraded connection. The client is available
// through xcontext.WSClient.
type WebsocketHandlerFunc[Request any] func(ctx context.Context, req *Request) error

// MiddlewareFunc runs before the handler. A non-nil error stops the request.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the handler, whether it failed or not.
type CloserFunc func(ctx context.Context)

type Router struct {
	root    context.Context
	engine  *gin.Engine
	befores []MiddlewareFunc
	closers []CloserFunc
}

// New creates a router whose handlers inherit every value stored in root,
// e.g. configs, logger and database.
func New(root context.Context) *Router {
	gin.SetMode(gin.ReleaseMode)

	return &Router{
		root:   root,
		engine: gin.New(),
	}
}

// Branch returns a router sharing the engine with its own copy of the
// middleware chain.
func (r *Router) Branch() *Router {
	return &Router{
		root:    r.root,
		engine:  r.engine,
		befores: append([]MiddlewareFunc{}, r.befores...),
		closers: append([]CloserFunc{}, r.closers...),
	}
}

func (r *Router) Before(middlewares ...MiddlewareFunc) {
	r.befores = append(r.befores, middlewares...)
}

func (r *Router) AddCloser(closers ...CloserFunc) {
	r.closers = append(r.closers, closers...)
}

// Handle registers a plain http.Handler, bypassing the middleware chain.
func (r *Router) Handle(method, pattern string, h http.Handler) {
	r.engine.Handle(method, pattern, gin.WrapH(h))
}

func (r *Router) Handler() http.Handler {
	return r.engine
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.engine.GET(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.engine.POST(pattern, wrapHandler(r, http.MethodPost, handler))
}

func Websocket[Request any](r *Router, pattern string, handler WebsocketHandlerFunc[Request]) {
	r.engine.GET(pattern, wrapWebsocket(r, handler))
}
