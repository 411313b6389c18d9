package main

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"database/sql"
	"encoding/pem"
	"fmt"
	"os"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/openclip/walletgate/adapters/cache"
	"github.com/openclip/walletgate/adapters/events"
	"github.com/openclip/walletgate/adapters/store"
	"github.com/openclip/walletgate/adapters/tokens"
	"github.com/openclip/walletgate/config"
	"github.com/openclip/walletgate/service"
	transport "github.com/openclip/walletgate/transport/http"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load(os.Getenv("WALLETGATE_CONFIG"))
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	signKey, err := loadSigningKey(cfg.Session.SigningKeyPEM)
	if err != nil {
		log.WithError(err).Fatal("failed to load session signing key")
	}
	if cfg.Session.SigningKeyPEM == "" {
		log.Warn("no session signing key configured, generated an ephemeral one")
	}

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.WithError(err).Fatal("failed to parse Redis URL")
	}
	redisClient := redis.NewClient(opts)

	sqlDB := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	db := bun.NewDB(sqlDB, pgdialect.New())

	identityStore := store.NewBunStore(db)
	if err := identityStore.Init(context.Background()); err != nil {
		log.WithError(err).Fatal("failed to initialize identity store")
	}

	publisher, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{Client: redisClient},
		watermill.NewStdLogger(false, false),
	)
	if err != nil {
		log.WithError(err).Fatal("failed to create event publisher")
	}

	authService := service.NewAuthService(
		identityStore,
		cache.NewRedisChallengeStore(redisClient),
		tokens.NewJWTIssuer(signKey, cfg.Session.TTL),
		cache.NewRedisRevocationStore(redisClient),
		events.NewWatermillPublisher(publisher),
		log,
		service.Config{
			Domain:       cfg.SIWS.Domain,
			Statement:    cfg.SIWS.Statement,
			URI:          cfg.SIWS.URI,
			ChainID:      cfg.SIWS.ChainID,
			ChallengeTTL: cfg.SIWS.ChallengeTTL,
		},
	)

	router := transport.SetupRouter(authService, log)

	log.WithField("addr", cfg.Server.Addr).Info("starting walletgate")
	if err := router.Run(cfg.Server.Addr); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}

func loadSigningKey(pemStr string) (*ecdsa.PrivateKey, error) {
	if pemStr == "" {
		return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	}

	block, _ := pem.Decode([]byte(pemStr))
	if block == nil {
		return nil, fmt.Errorf("signing key is not valid PEM")
	}
	key, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse EC private key: %w", err)
	}
	return key, nil
}
