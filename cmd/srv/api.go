package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/personachat/backend/internal/middleware"
	"github.com/personachat/backend/pkg/prometheus"
	"github.com/personachat/backend/pkg/router"
	"github.com/personachat/backend/pkg/xcontext"

	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 10 * time.Second

func (s *srv) startApi(cctx *cli.Context) error {
	s.loadConfig(cctx)
	s.loadLogger()
	s.loadDatabase()
	s.loadRedisClient()
	s.loadPublisher()
	s.loadRepos()
	s.loadBadgeManager()
	s.loadNotification()
	s.loadDomains()
	s.loadRouter()

	cfg := xcontext.Configs(s.ctx)
	httpSrv := &http.Server{
		Addr:    cfg.ApiServer.Address(),
		Handler: middleware.AllowCors(cfg.ApiServer.AllowOrigins, s.router.Handler()),
	}

	go func() {
		xcontext.Logger(s.ctx).Infof("Starting server on %s", cfg.ApiServer.Address())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(err)
		}
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals

	ctx, cancel := context.WithTimeout(s.ctx, shutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		xcontext.Logger(s.ctx).Errorf("Cannot shutdown server: %v", err)
	}
	s.shutdown(ctx)

	return nil
}

func (s *srv) loadRouter() {
	cfg := xcontext.Configs(s.ctx)
	authVerifier := middleware.NewAuthVerifier(cfg.Auth)

	s.router = router.New(s.ctx)
	s.router.AddCloser(middleware.Logger(), middleware.Prometheus())
	s.router.Handle(http.MethodGet, "/metrics", prometheus.NewHandler())

	// These APIs accept anonymous requests. Events of anonymous users are
	// dropped.
	publicRouter := s.router.Branch()
	publicRouter.Before(authVerifier.Middleware())
	{
		router.GET(publicRouter, "/getCatalog", s.achievementDomain.GetCatalog)
		router.POST(publicRouter, "/track", s.achievementDomain.Track)
		router.POST(publicRouter, "/newConversation", s.achievementDomain.NewConversation)
	}

	authRouter := s.router.Branch()
	authRouter.Before(authVerifier.Required().Middleware())
	{
		router.POST(authRouter, "/startSession", s.achievementDomain.StartSession)
		router.POST(authRouter, "/endSession", s.achievementDomain.EndSession)
		router.GET(authRouter, "/getMyProgress", s.achievementDomain.GetMyProgress)
		router.GET(authRouter, "/getToasts", s.achievementDomain.GetToasts)
		router.POST(authRouter, "/dismissToast", s.achievementDomain.DismissToast)
		router.GET(authRouter, "/getMyNotifications", s.achievementDomain.GetMyNotifications)
		router.POST(authRouter, "/readNotifications", s.achievementDomain.ReadNotifications)
		router.Websocket(authRouter, "/notificationStream", s.notificationStreamDomain.ServeNotificationStream)
	}
}
