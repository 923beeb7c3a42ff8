package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/config"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/storefront/internal/seed"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	cf := config.GetConfig()

	file := flag.String("file", cf.CatalogFile, "catalog yaml path")
	migrate := flag.Bool("migrate", cf.DbRunMigrations, "run migrations before seeding")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	catalog, err := seed.LoadCatalogFile(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("failed to load catalog")
	}

	if *migrate {
		if err := db.RunMigrations(db.MigrationURL(cf.DbName, cf.DbHost, cf.DbPort, cf.DbUser, cf.DbPas)); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	conn, err := db.GetDbConn(cf.DbName, cf.DbHost, cf.DbPort, cf.DbUser, cf.DbPas)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}
	defer func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	result, err := seed.Apply(ctx, db.NewStore(conn), catalog)
	if err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}

	invalidateCatalogCache(ctx, cf)
	log.Info().Int("categories", result.Categories).Int("products", result.Products).Msg("seeding complete")
}

// invalidateCatalogCache 讓 server 重新讀取剛匯入的商品, redis 不在時略過
func invalidateCatalogCache(ctx context.Context, cf *config.Config) {
	client := redis.NewClient(&redis.Options{
		Addr:     cf.RedisAddr,
		Password: cf.RedisPassword,
		DB:       cf.RedisDB,
	})
	defer client.Close()

	if err := redis_repo.NewCatalogCache(client, cf.CatalogCacheTTL).Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate catalog cache")
	}
}
