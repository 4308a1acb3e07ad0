package main

import (
	"context"
	"strconv"

	"github.com/Meesho/BharatMLStack/price-range/internal/configs"
	"github.com/Meesho/BharatMLStack/price-range/internal/loader"
	"github.com/Meesho/BharatMLStack/price-range/internal/objectstore"
	"github.com/Meesho/BharatMLStack/price-range/internal/pricerange/controller"
	"github.com/Meesho/BharatMLStack/price-range/internal/pricerange/handler"
	"github.com/Meesho/BharatMLStack/price-range/internal/pricerange/route"
	"github.com/Meesho/BharatMLStack/price-range/pkg/httpframework"
	"github.com/Meesho/BharatMLStack/price-range/pkg/logger"
	"github.com/Meesho/BharatMLStack/price-range/pkg/metric"
	"github.com/gin-contrib/cors"
	"github.com/rs/zerolog/log"
	_ "go.uber.org/automaxprocs"
)

func main() {
	appConfig := configs.InitConfig()
	logger.Init(appConfig)
	metric.Init(appConfig)

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	httpframework.Init(appConfig.AppEnv, cors.New(corsConfig))

	gateway, err := objectstore.NewGateway(context.Background(), appConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize object store gateway")
	}
	priceRangeHandler := handler.NewPriceRangeHandler(loader.NewStorageLoader(gateway), gateway)
	route.Init(controller.NewPriceRangeController(priceRangeHandler))

	port := appConfig.AppPort
	if port == 0 {
		port = 8000
		log.Warn().Int("port", port).Msg("App port not set, defaulting to 8000")
	}
	if err := httpframework.Instance().Run(":" + strconv.Itoa(port)); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
