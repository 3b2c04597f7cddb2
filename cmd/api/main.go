package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ovaphlow/pitchfork/service-admin-go/internal/auth"
	"github.com/ovaphlow/pitchfork/service-admin-go/internal/employee"
	"github.com/ovaphlow/pitchfork/service-admin-go/internal/router"
	"github.com/ovaphlow/pitchfork/service-admin-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-admin-go/pkg/utilities"
)

func main() {
	// best-effort: without a .env file the real environment is used
	_ = godotenv.Load()

	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting service-admin-go")

	authCfg := auth.ConfigFromEnv()
	if generated, err := authCfg.EnsureSecret(); err != nil {
		sugar.Fatalf("jwt secret: %v", err)
	} else if generated {
		sugar.Warn("JWT_ADMIN_SECRET is not set; using a random secret, tokens will not survive a restart")
	}

	hasher, err := employee.HasherFromEnv()
	if err != nil {
		sugar.Fatalf("password hasher: %v", err)
	}
	ids, err := utilities.NewIDGeneratorFromEnv()
	if err != nil {
		sugar.Fatalf("id generator: %v", err)
	}

	db, err := database.Connect(database.ConfigFromEnv())
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := router.RegisterRoutes(sugar, router.Deps{
		DB:        db,
		Employees: employee.NewEmployeeService(db, nil, hasher, ids),
		Auth:      authCfg,
		Issuer:    auth.NewIssuer(),
	})
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = "0.0.0.0:8431"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()
	sugar.Infow("service is running; press Ctrl+C to stop", "addr", addr, "token_ttl", authCfg.AdminTTL.String())

	<-ctx.Done()

	sugar.Info("shutting down")

	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
}
