package main

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Wadijet/notifyhub/config"
	"github.com/Wadijet/notifyhub/core/crypto"
	"github.com/Wadijet/notifyhub/core/database"
	"github.com/Wadijet/notifyhub/core/global"
	"github.com/Wadijet/notifyhub/core/logger"
	"github.com/Wadijet/notifyhub/core/service"
	"github.com/Wadijet/notifyhub/internal/api"
	"github.com/Wadijet/notifyhub/internal/audit"
	"github.com/Wadijet/notifyhub/internal/cache"
	"github.com/Wadijet/notifyhub/internal/chat"
	"github.com/Wadijet/notifyhub/internal/channels"
	"github.com/Wadijet/notifyhub/internal/consumer"
	"github.com/Wadijet/notifyhub/internal/delivery"
	"github.com/Wadijet/notifyhub/internal/hub"
	"github.com/Wadijet/notifyhub/internal/model"
	"github.com/Wadijet/notifyhub/internal/notification"
	"github.com/Wadijet/notifyhub/internal/render"
)

// application holds every long-running component main wires together and runs until ctx is
// cancelled, mirroring the teacher's split between a background processor goroutine and the
// Fiber server on the main thread (§5), generalized to this system's extra Hub and Consumer.
type application struct {
	fiberApp *fiber.App
	wsAddr   string
	hubSrv   *hub.Server
	consumer *consumer.Consumer
	delivery *delivery.Processor
	cache    *cache.Cache
}

func collection[M any](db *mongo.Database, name string, seed M) *service.BaseServiceMongoImpl[M] {
	coll := db.Collection(name)
	if err := database.CreateIndexes(context.Background(), coll, seed); err != nil {
		logger.GetAppLogger().WithError(err).Errorf("failed to ensure indexes on %s", name)
	}
	if _, err := global.RegistryCollections.Register(name, coll); err != nil {
		logger.GetAppLogger().WithError(err).Warnf("failed to register collection handle for %s", name)
	}
	return service.NewBaseServiceMongo[M](coll)
}

func buildApplication(cfg *config.Configuration, mongoClient *mongo.Client) (*application, error) {
	db := mongoClient.Database(cfg.MongoDB_DBName)

	credSvc := collection[model.Credential](db, global.ColNames.Credentials, model.Credential{})
	tmplSvc := collection[model.Template](db, global.ColNames.Templates, model.Template{})
	deliverySvc := collection[model.DeliveryRecord](db, global.ColNames.DeliveryRecords, model.DeliveryRecord{})
	deviceSvc := collection[model.DeviceToken](db, global.ColNames.DeviceTokens, model.DeviceToken{})
	convSvc := collection[model.ChatConversation](db, global.ColNames.ChatConversations, model.ChatConversation{})
	partSvc := collection[model.ChatParticipant](db, global.ColNames.ChatParticipants, model.ChatParticipant{})
	msgSvc := collection[model.ChatMessage](db, global.ColNames.ChatMessages, model.ChatMessage{})
	reactSvc := collection[model.MessageReaction](db, global.ColNames.ChatReactions, model.MessageReaction{})
	presenceSvc := collection[model.UserPresence](db, global.ColNames.UserPresence, model.UserPresence{})
	auditSvc := collection[model.AuditLog](db, global.ColNames.AuditLog, model.AuditLog{})
	auditRecorder := audit.NewRecorder(auditSvc)

	box, err := crypto.NewBox(cfg.EncryptionKey)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})

	credRepo := cache.NewMongoCredentialRepository(credSvc, cfg, box)
	identity := cache.NewHTTPIdentityClient(cfg.IdentityServiceURL)
	credCache := cache.New(identity, credRepo,
		time.Duration(cfg.BrandingPositiveTTL)*time.Second,
		time.Duration(cfg.BrandingNegativeTTL)*time.Second,
		rdb,
	)
	credCache.StartInvalidationSubscriber(context.Background())

	templates := render.NewStore(tmplSvc)

	wsHub := hub.New(rdb)
	wsHub.StartFanoutSubscriber(context.Background())

	deviceStore := channels.NewMongoDeviceTokenStore(deviceSvc)
	senders := map[model.Channel]channels.Sender{
		model.ChannelEmail: channels.NewEmailSender(),
		model.ChannelSMS:   channels.NewSMSSender(),
		model.ChannelPush:  channels.NewPushSender(deviceStore),
		model.ChannelInApp: channels.NewInAppSender(wsHub),
	}

	queue := delivery.NewQueue(deliverySvc)
	processor := delivery.NewProcessor(queue, credCache, senders, cfg.WorkerCount, time.Duration(cfg.SendTimeoutSeconds)*time.Second)

	registry := notification.BuildDefaultRegistry()
	dispatcher := consumer.NewDispatcher(registry, templates, credCache, queue)

	topics := consumer.ParseTopics(cfg.EventLogTopics)
	amqpConsumer, err := consumer.New(cfg.RabbitMQURL, cfg.ConsumerGroup, topics, time.Duration(cfg.HandlerDeadlineS)*time.Second, dispatcher)
	if err != nil {
		return nil, err
	}

	chatSvc := chat.NewService(convSvc, partSvc, msgSvc, reactSvc, presenceSvc)

	hubServer := hub.NewServer(wsHub, chatSvc, cfg.JwtSecret, time.Duration(cfg.WSIdleTimeoutSeconds)*time.Second)

	v := validator.New()
	handlers := &api.Handlers{
		Credentials: api.NewCredentialHandler(credSvc, box, credCache, auditRecorder, v),
		Templates:   api.NewTemplateHandler(tmplSvc, auditRecorder, v),
		Records:     api.NewRecordHandler(templates, credCache, queue, auditRecorder, v),
		Devices:     api.NewDeviceHandler(deviceSvc, v),
		Chat:        api.NewChatHandler(chatSvc, v),
	}

	fiberApp := InitFiberApp(handlers, cfg)

	return &application{
		fiberApp: fiberApp,
		wsAddr:   cfg.WSAddress,
		hubSrv:   hubServer,
		consumer: amqpConsumer,
		delivery: processor,
		cache:    credCache,
	}, nil
}

// Run starts every background component and the two HTTP listeners (admin REST on Fiber,
// WebSocket Hub on its own net/http server — §5 notes these cannot share a listener since
// gorilla/websocket cannot upgrade a fasthttp connection), blocking until ctx is cancelled.
func (a *application) Run(ctx context.Context) {
	log := logger.GetAppLogger()

	go func() {
		if err := a.consumer.Run(ctx); err != nil {
			log.WithError(err).Error("event consumer stopped with error")
		}
	}()

	go a.delivery.Run(ctx)
	go a.delivery.StartLeaseReclaimer(ctx, time.Duration(global.AppConfig.LeaseTimeoutSeconds)*time.Second, 30*time.Second)

	go func() {
		if err := a.hubSrv.ListenAndServe(ctx, a.wsAddr); err != nil {
			log.WithError(err).Error("websocket hub server stopped with error")
		}
	}()

	go func() {
		<-ctx.Done()
		log.Info("shutdown signal received, closing consumer connection")
		a.consumer.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.fiberApp.ShutdownWithContext(shutdownCtx); err != nil {
			log.WithError(err).Error("error shutting down fiber app")
		}
	}()

	log.Infof("admin REST surface listening on %s", global.AppConfig.Address)
	if err := a.fiberApp.Listen(global.AppConfig.Address, fiber.ListenConfig{
		DisableStartupMessage: true,
	}); err != nil {
		log.WithError(err).Error("fiber listen stopped")
	}
}
