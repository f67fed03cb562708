package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/AsmaSahli/EcomPfe-sub001/internal/config"
	"github.com/AsmaSahli/EcomPfe-sub001/internal/handler"
	"github.com/AsmaSahli/EcomPfe-sub001/internal/middleware"
	"github.com/AsmaSahli/EcomPfe-sub001/internal/repository"
	"github.com/AsmaSahli/EcomPfe-sub001/internal/service"
	"github.com/AsmaSahli/EcomPfe-sub001/internal/worker"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// PostgreSQL
	poolCfg, err := pgxpool.ParseConfig(cfg.DB.DSN())
	if err != nil {
		log.Error("parse db config", "error", err)
		os.Exit(1)
	}
	poolCfg.MaxConns = cfg.DB.MaxConns

	dbPool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		log.Error("ping database", "error", err)
		os.Exit(1)
	}
	log.Info("connected to PostgreSQL")

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("connected to Redis")

	// RabbitMQ
	amqpConn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		log.Error("connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer amqpConn.Close()

	amqpCh, err := amqpConn.Channel()
	if err != nil {
		log.Error("open RabbitMQ channel", "error", err)
		os.Exit(1)
	}
	defer amqpCh.Close()

	if err := worker.SetupRabbitMQ(amqpCh); err != nil {
		log.Error("setup RabbitMQ", "error", err)
		os.Exit(1)
	}
	log.Info("connected to RabbitMQ")

	// Repositories
	listingRepo := repository.NewListingRepository(dbPool)
	promoRepo := repository.NewPromotionRepository(dbPool)
	orderRepo := repository.NewOrderRepository(dbPool)

	// Services
	listingSvc := service.NewListingService(listingRepo, promoRepo)
	promoSvc := service.NewPromotionService(promoRepo, listingRepo)
	orderSvc := service.NewOrderService(orderRepo, listingRepo, promoRepo, cfg.Checkout, amqpCh)

	// Handlers
	listingH := handler.NewListingHandler(listingSvc)
	promoH := handler.NewPromotionHandler(promoSvc)
	orderH := handler.NewOrderHandler(orderSvc)
	shippingH := handler.NewShippingHandler()
	healthH := handler.NewHealthHandler(dbPool, redisClient, amqpConn)

	// Worker
	fulfillmentWorker := worker.NewFulfillmentWorker(amqpCh, orderRepo, listingRepo, redisClient, log)

	// Router
	router := gin.Default()
	router.GET("/healthz", healthH.Healthz)
	router.GET("/readyz", healthH.Readyz)

	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		products.GET("/:productId/offers", listingH.Offers)

		v1.GET("/shipping/estimate", shippingH.Estimate)

		seller := v1.Group("", middleware.AuthMiddleware(cfg.JWT.Secret), middleware.SellerOnly())
		seller.POST("/listings", listingH.Create)
		seller.PATCH("/listings/:productId", listingH.UpdateTerms)
		seller.POST("/listings/:productId/stock", listingH.AdjustStock)
		seller.PUT("/listings/:productId/promotion", promoH.Activate)
		seller.DELETE("/listings/:productId/promotion", promoH.Deactivate)
		seller.POST("/promotions", promoH.Create)
		seller.GET("/promotions", promoH.List)

		orders := v1.Group("/orders", middleware.AuthMiddleware(cfg.JWT.Secret))
		orders.POST("", orderH.Create)
		orders.GET("", orderH.List)
		orders.GET("/:id", orderH.Get)
		orders.GET("/:id/timeline", orderH.Timeline)

		admin := orders.Group("", middleware.AdminOnly())
		admin.POST("/:id/status", orderH.Advance)
	}

	if err := fulfillmentWorker.Start(ctx); err != nil {
		log.Error("start fulfillment worker", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting HTTP server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}

	fulfillmentWorker.Stop()
	time.Sleep(500 * time.Millisecond)
	cancel()
	log.Info("server stopped")
}
