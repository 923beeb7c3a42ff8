package appcontext

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/config"
	"github.com/RoyceAzure/lab/storefront/internal/infra/auth/token"
	"github.com/RoyceAzure/lab/storefront/internal/infra/consumer"
	"github.com/RoyceAzure/lab/storefront/internal/infra/producer"
	"github.com/RoyceAzure/lab/storefront/internal/infra/ratelimit"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_decorator"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const tokenIssuer = "storefront"

type ApplicationContext struct {
	Cf             *config.Config
	DbConn         *gorm.DB
	Store          db.Store
	RedisClient    *redis.Client
	CatalogCache   redis_repo.ICatalogCache
	CatalogRepo    db.ICatalogRepository
	CartRepo       redis_repo.ICartRepository
	TokenMaker     token.Maker
	Limiter        ratelimit.Limiter
	MailService    service.IMailService
	OrderNotifier  service.OrderNotifier
	OrderProducer  *producer.OrderProducer
	OrderConsumer  consumer.IBaseConsumer
	CatalogService service.ICatalogService
	UserService    service.IUserService
	OrderService   service.IOrderService
	AddressService service.IAddressService
	CartService    service.ICartService
}

func NewApplicationContext(cf *config.Config) (*ApplicationContext, error) {
	app := ApplicationContext{
		Cf: cf,
	}
	log.Info().
		Str("env", cf.Env).
		Str("server_port", cf.ServerPort).
		Str("db_host", cf.DbHost).
		Str("redis_addr", cf.RedisAddr).
		Str("kafka_brokers", cf.KafkaBrokers).
		Str("rate_limit_backend", cf.RateLimitBackend).
		Msg("loaded config")

	if err := app.Init(); err != nil {
		return nil, err
	}
	return &app, nil
}

func (app *ApplicationContext) Init() error {
	steps := []func() error{
		app.setUpDbConn,
		app.setUpStore,
		app.setUpRedisClient,
		app.setUpCatalogRepo,
		app.setUpCartRepo,
		app.setUpTokenMaker,
		app.setUpLimiter,
		app.setUpMailService,
		app.setUpOrderNotifier,
		app.setUpServices,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (app *ApplicationContext) setUpDbConn() error {
	log.Info().Msg("Start setup database connection")
	conn, err := db.GetDbConn(app.Cf.DbName, app.Cf.DbHost, app.Cf.DbPort, app.Cf.DbUser, app.Cf.DbPas)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	app.DbConn = conn

	if app.Cf.DbRunMigrations {
		log.Info().Msg("running database migrations")
		if err := db.RunMigrations(db.MigrationURL(app.Cf.DbName, app.Cf.DbHost, app.Cf.DbPort, app.Cf.DbUser, app.Cf.DbPas)); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}
	log.Info().Msg("Finish setup database connection")
	return nil
}

func (app *ApplicationContext) setUpStore() error {
	log.Info().Msg("Start setup database store")
	store := db.NewStore(app.DbConn)
	if app.Cf.DbAutoMigrate {
		if err := store.InitMigrate(); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
	}
	app.Store = store
	log.Info().Msg("Finish setup database store")
	return nil
}

func (app *ApplicationContext) setUpRedisClient() error {
	log.Info().Msg("Start setup redis client")
	client := redis.NewClient(&redis.Options{
		Addr:     app.Cf.RedisAddr,
		Password: app.Cf.RedisPassword,
		DB:       app.Cf.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("connect redis: %w", err)
	}
	app.RedisClient = client
	log.Info().Msg("Finish setup redis client")
	return nil
}

func (app *ApplicationContext) setUpCatalogRepo() error {
	log.Info().Msg("Start setup catalog cache")
	app.CatalogCache = redis_repo.NewCatalogCache(app.RedisClient, app.Cf.CatalogCacheTTL)
	app.CatalogRepo = redis_decorator.NewCacheAsideCatalogRepo(app.Store, app.CatalogCache)
	log.Info().Msg("Finish setup catalog cache")
	return nil
}

func (app *ApplicationContext) setUpCartRepo() error {
	log.Info().Msg("Start setup cart repository")
	app.CartRepo = redis_repo.NewCartRepo(app.RedisClient, app.Cf.CartTTL)
	log.Info().Msg("Finish setup cart repository")
	return nil
}

func (app *ApplicationContext) setUpTokenMaker() error {
	log.Info().Msg("Start setup token maker")
	tokenMaker, err := token.NewJWTMaker(app.Cf.AuthTokenKey, tokenIssuer)
	if err != nil {
		return fmt.Errorf("無法創建 token maker: %w", err)
	}
	app.TokenMaker = tokenMaker
	log.Info().Msg("Finish setup token maker")
	return nil
}

func (app *ApplicationContext) setUpLimiter() error {
	log.Info().Msg("Start setup rate limiter")
	cfg := &ratelimit.LimiterConfig{
		Capacity: app.Cf.RateLimitCapacity,
		Rate:     app.Cf.RateLimitRate,
	}
	switch strings.ToLower(app.Cf.RateLimitBackend) {
	case "redis":
		app.Limiter = ratelimit.NewRsTokenBucket(app.RedisClient, cfg)
	case "local":
		app.Limiter = ratelimit.NewLocalLimiter(cfg)
	case "none", "":
		log.Warn().Msg("rate limiting disabled")
	default:
		return fmt.Errorf("unknown rate limit backend: %s", app.Cf.RateLimitBackend)
	}
	log.Info().Msg("Finish setup rate limiter")
	return nil
}

func (app *ApplicationContext) setUpMailService() error {
	log.Info().Msg("Start setup mail service")
	if app.Cf.EmailAccount == "" {
		log.Warn().Msg("EMAIL_ACCOUNT not set, order confirmation mail disabled")
	} else {
		app.MailService = service.NewMailService(app.Cf.MailSenderName, app.Cf.EmailAccount, app.Cf.SmtpAuthKey)
	}
	log.Info().Msg("Finish setup mail service")
	return nil
}

// setUpOrderNotifier 有 kafka 時下單只發事件, 由 consumer 寄信; 否則直接寄信
func (app *ApplicationContext) setUpOrderNotifier() error {
	log.Info().Msg("Start setup order notifier")
	var mailNotifier service.OrderNotifier = service.NoopNotifier{}
	if app.MailService != nil {
		mailNotifier = service.NewMailNotifier(app.MailService, app.Cf.StoreName)
	}

	brokers := app.Cf.KafkaBrokerList()
	if len(brokers) == 0 {
		app.OrderNotifier = mailNotifier
		log.Info().Msg("Finish setup order notifier (direct)")
		return nil
	}

	app.OrderProducer = producer.NewOrderProducer(producer.NewKafkaWriter(producer.WriterConfig{
		Brokers: brokers,
		Topic:   app.Cf.KafkaOrderTopic,
	}))
	app.OrderConsumer = consumer.NewOrderNotificationConsumer(consumer.NewKafkaReader(consumer.ReaderConfig{
		Brokers: brokers,
		Topic:   app.Cf.KafkaOrderTopic,
		GroupID: app.Cf.KafkaGroupID,
	}), mailNotifier)
	app.OrderNotifier = app.OrderProducer
	log.Info().Strs("brokers", brokers).Str("topic", app.Cf.KafkaOrderTopic).Msg("Finish setup order notifier (kafka)")
	return nil
}

func (app *ApplicationContext) setUpServices() error {
	log.Info().Msg("Start setup services")
	app.CatalogService = service.NewCatalogService(app.CatalogRepo)
	app.UserService = service.NewUserService(app.Store, app.TokenMaker, app.Cf.AccessTokenDuration)
	app.OrderService = service.NewOrderService(app.Store, app.CartRepo, app.OrderNotifier)
	app.AddressService = service.NewAddressService(app.Store)
	app.CartService = service.NewCartService(app.CartRepo, app.Store)
	log.Info().Msg("Finish setup services")
	return nil
}

func (app *ApplicationContext) Shutdown(ctx context.Context) error {
	log.Info().Msg("Start application shutdown")

	done := make(chan error, 1)
	go func() {
		var errs []error

		if app.OrderConsumer != nil {
			log.Info().Msg("Stopping order consumer...")
			app.OrderConsumer.Stop()
		}

		if app.OrderProducer != nil {
			log.Info().Msg("Closing order producer...")
			if err := app.OrderProducer.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close producer: %w", err))
			}
		}

		if app.RedisClient != nil {
			log.Info().Msg("Closing redis client...")
			if err := app.RedisClient.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close redis: %w", err))
			}
		}

		// 關閉 DB
		if app.DbConn != nil {
			log.Info().Msg("Closing database connection...")
			if sqlDB, err := app.DbConn.DB(); err == nil {
				if err := sqlDB.Close(); err != nil {
					errs = append(errs, fmt.Errorf("close database: %w", err))
				}
			}
		}

		log.Info().Msg("Application shutdown complete")
		done <- errors.Join(errs...)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout: %v", ctx.Err())
	}
}
