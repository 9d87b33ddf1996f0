package main

import (
	"context"
	"net/http"

	"location-api/docs"
	"location-api/internal/cache"
	"location-api/internal/config"
	"location-api/internal/handler"
	"location-api/internal/repository"
	"location-api/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Location API
//	@version		1.0
//	@description	Resolve UK postcodes, towns and counties to coordinates and find nearby locations within a radius.

func main() {
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Str("log_level", cfg.LogLevel).Msg("unknown log level")
	}
	zerolog.SetGlobalLevel(level)

	// Database connection pool. MaxConns bounds how many queries can run
	// against storage at once; everything beyond that waits in Acquire.
	poolCfg, err := pgxpool.ParseConfig(cfg.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid db source")
	}
	poolCfg.MaxConns = cfg.DBMaxConns

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer pool.Close()

	resultCache := cache.New(cfg.CacheCapacity, cfg.CacheTTL, cfg.CacheSweepInterval)
	defer resultCache.Close()

	// Initialize layers
	repo := repository.NewRepository(pool, cfg.DBAcquireTimeout)

	searchService := service.NewSearchService(repo, resultCache)
	lookupService := service.NewLookupService(repo, resultCache)

	searchHandler := handler.NewSearchHandler(searchService)
	locationHandler := handler.NewLocationHandler(lookupService)
	healthHandler := handler.NewHealthHandler(repo)

	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", healthHandler.Health)
	r.GET("/location/:postcode", locationHandler.GetLocation)

	search := r.Group("/search")
	{
		search.GET("/postcode/:value", searchHandler.SearchPostcode)
		search.GET("/town/:value", searchHandler.SearchTown)
		search.GET("/county/:value", searchHandler.SearchCounty)
		search.GET("/spatial", searchHandler.SearchSpatial)
	}

	docs.SwaggerInfo.BasePath = "/"
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	log.Info().Str("address", cfg.ServerAddress).Msg("starting location api")
	if err := r.Run(cfg.ServerAddress); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server exited")
	}
}
