package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AMurtezaj/door-management-system-sub000/internal/auth"
	"github.com/AMurtezaj/door-management-system-sub000/internal/cache"
	"github.com/AMurtezaj/door-management-system-sub000/internal/config"
	"github.com/AMurtezaj/door-management-system-sub000/internal/database"
	"github.com/AMurtezaj/door-management-system-sub000/internal/db"
	"github.com/AMurtezaj/door-management-system-sub000/internal/handlers"
	"github.com/AMurtezaj/door-management-system-sub000/internal/health"
	httprouter "github.com/AMurtezaj/door-management-system-sub000/internal/http"
	"github.com/AMurtezaj/door-management-system-sub000/internal/middleware"
	"github.com/AMurtezaj/door-management-system-sub000/internal/repositories"
	"github.com/AMurtezaj/door-management-system-sub000/internal/services"
	"github.com/AMurtezaj/door-management-system-sub000/internal/ws"
)

func main() {
	cfg := config.Load()

	pool := db.Connect(cfg)
	defer pool.Close()

	migrator := database.NewMigrator(pool)
	if err := migrator.RunMigrations(context.Background()); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	if err := cache.Init(); err != nil {
		log.Printf("[Cache] Redis unavailable, running without cache: %v", err)
	}

	hub := ws.NewHub()
	go hub.Run()

	userRepo := repositories.NewUserRepository(pool)
	customerRepo := repositories.NewCustomerRepository(pool)
	capacityRepo := repositories.NewCapacityRepository(pool)
	orderRepo := repositories.NewOrderRepository(pool, capacityRepo)
	notificationRepo := repositories.NewNotificationRepository(pool)
	supplementRepo := repositories.NewSupplementaryOrderRepository(pool)

	notificationService := services.NewNotificationService(notificationRepo, hub)
	orderService := services.NewOrderService(orderRepo, notificationService)
	capacityService := services.NewCapacityService(capacityRepo)
	rescheduleService := services.NewRescheduleService(orderRepo, capacityService, notificationService)
	supplementService := services.NewSupplementService(supplementRepo, orderRepo)
	scheduler := services.NewSchedulerService(orderRepo, notificationService,
		cfg.Scheduler.OverdueSpec, cfg.Scheduler.DebtReportSpec, cfg.Scheduler.LongPendingSpec)
	if err := scheduler.Initialize(); err != nil {
		log.Fatalf("scheduler init failed: %v", err)
	}

	jwtManager := auth.NewJWTManager(cfg)
	authMW := middleware.NewAuthMiddleware(jwtManager, userRepo)

	router := httprouter.NewRouter(httprouter.RouterDeps{
		Auth:          handlers.NewAuthHandler(userRepo, jwtManager),
		Customers:     handlers.NewCustomerHandler(customerRepo),
		Orders:        handlers.NewOrderHandler(orderService, rescheduleService),
		Supplements:   handlers.NewSupplementHandler(supplementService),
		Capacities:    handlers.NewCapacityHandler(capacityService),
		Notifications: handlers.NewNotificationHandler(notificationService, scheduler),
		Health:        handlers.NewHealthHandler(health.NewHealthChecker(pool)),
		AuthMW:        authMW,
		Hub:           hub,
	})

	handler := middleware.NewCORS(cfg)(middleware.PanicRecovery(middleware.MetricsMiddleware(router)))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
