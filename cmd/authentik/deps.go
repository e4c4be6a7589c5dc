package main

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	auth "github.com/goliatone/go-authentik"
	"github.com/goliatone/go-authentik/activity/redissink"
	"github.com/goliatone/go-authentik/config"
	"github.com/goliatone/go-authentik/logging"
)

// services holds everything built from a Config
type services struct {
	cfg      *config.Config
	logger   *logrus.Logger
	auther   *auth.Authenticator
	guard    *auth.Guard
	registry *prometheus.Registry
	redis    *redis.Client
	activity *auth.AsyncActivitySink
}

func loadServices(out io.Writer) (*services, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	return buildServices(cfg, out)
}

func buildServices(cfg *config.Config, out io.Writer) (*services, error) {
	logger, err := logging.New(out, cfg.Logging.Level)
	if err != nil {
		return nil, err
	}

	s := &services{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}

	auth.RegisterMetrics(s.registry)

	var sink auth.ActivitySink
	if r := cfg.Activity.Redis; r.Addr != "" {
		s.redis = redis.NewClient(&redis.Options{
			Addr:                  r.Addr,
			Password:              r.Password,
			DB:                    r.DB,
			DialTimeout:           time.Second,
			ReadTimeout:           time.Second,
			WriteTimeout:          time.Second,
			ContextTimeoutEnabled: true,
		})
		s.activity = auth.NewAsyncActivitySink(
			redissink.New(s.redis, r.Stream).WithMaxLen(r.MaxLen),
			cfg.Activity.BufferSize,
			logging.Logrus(logger, "activity"),
		)
		sink = s.activity
	}

	authConfig := cfg.ToAuthConfig()

	s.auther = auth.NewAuthenticator(authConfig).
		WithLogger(logging.Logrus(logger, "authenticator")).
		WithActivitySink(sink)

	s.guard = auth.NewGuardWithCodec(s.auther.TokenCodec()).
		WithLogger(logging.Logrus(logger, "guard")).
		WithActivitySink(sink)

	return s, nil
}

func (s *services) Close() error {
	if s.activity != nil {
		s.activity.Close()
	}
	if s.redis != nil {
		return s.redis.Close()
	}
	return nil
}
