// Command server boots notifyhub: the event consumer, the delivery worker pool, the chat/
// notification WebSocket Hub, and the administrative REST surface, wired together the way the
// teacher's main.go sequences its own background processor and Fiber server (§5).
package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Wadijet/notifyhub/config"
	"github.com/Wadijet/notifyhub/core/database"
	"github.com/Wadijet/notifyhub/core/global"
	"github.com/Wadijet/notifyhub/core/logger"
)

// connectMongo dials MongoDB and verifies the connection with a bounded ping, mirroring the
// teacher's pattern of failing fast at startup rather than discovering a bad URI mid-request.
func connectMongo(cfg *config.Configuration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB_ConnectionURI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

func main() {
	logger.Init(logger.DefaultConfig())
	log := logger.GetAppLogger()
	log.Info("notifyhub starting up")

	cfg := config.NewConfig()
	if cfg == nil {
		log.Fatal("failed to load configuration")
	}
	global.AppConfig = cfg

	mongoClient, err := connectMongo(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	global.MongoDB_Session = mongoClient
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.WithError(err).Error("error disconnecting MongoDB client")
		}
	}()

	if err := database.EnsureDatabaseAndCollections(mongoClient); err != nil {
		log.WithError(err).Fatal("failed to ensure database and collections")
	}

	app, err := buildApplication(cfg, mongoClient)
	if err != nil {
		log.WithError(err).Fatal("failed to build application")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.Run(ctx)

	log.Info("notifyhub stopped")
}
