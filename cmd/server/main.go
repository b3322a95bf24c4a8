package main

import (
	"net/http"

	"midtrans-go/internal/config"
	"midtrans-go/internal/logger"
	"midtrans-go/internal/middleware"
	"midtrans-go/internal/payment"
	"midtrans-go/internal/payment/webhook"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	logger.L().Info("midtrans credentials loaded",
		logger.Redacted("server_key", cfg.ServerKey),
		logger.Redacted("client_key", cfg.ClientKey),
		zap.Bool("production", cfg.IsProduction),
	)

	verifier := payment.NewSignatureVerifier(cfg.ServerKey)
	processor := payment.NewNotificationProcessor(verifier)
	handler := webhook.NewHandler(processor)

	limiter := middleware.NewWebhookRateLimiter()

	mux := http.NewServeMux()
	mux.Handle("/webhook/midtrans",
		limiter.Middleware(logger.RequestIDMiddleware(logger.LoggingMiddleware(handler))))

	logger.L().Info("webhook server listening", zap.String("port", cfg.AppPort))
	if err := http.ListenAndServe(":"+cfg.AppPort, mux); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}
