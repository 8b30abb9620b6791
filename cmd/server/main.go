// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/jucoreach/jucoreach/internal/config"
	"github.com/jucoreach/jucoreach/internal/domain"
	"github.com/jucoreach/jucoreach/internal/handlers"
	"github.com/jucoreach/jucoreach/internal/middleware"
	"github.com/jucoreach/jucoreach/internal/ratelimit"
	favoriterepo "github.com/jucoreach/jucoreach/internal/repository/favorite"
	paymentrepo "github.com/jucoreach/jucoreach/internal/repository/payment"
	playerrepo "github.com/jucoreach/jucoreach/internal/repository/player"
	userrepo "github.com/jucoreach/jucoreach/internal/repository/user"
	verificationrepo "github.com/jucoreach/jucoreach/internal/repository/verification"
	"github.com/jucoreach/jucoreach/internal/services"
	"github.com/jucoreach/jucoreach/internal/services/admin_services"
	"github.com/jucoreach/jucoreach/internal/services/billing"
	"github.com/jucoreach/jucoreach/internal/services/email"
	"github.com/jucoreach/jucoreach/internal/services/player_services"
	"github.com/jucoreach/jucoreach/internal/services/recruiter_services"
	"github.com/jucoreach/jucoreach/internal/services/sms"
	"github.com/jucoreach/jucoreach/internal/services/user_services"
	"github.com/jucoreach/jucoreach/internal/services/verification_services"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	cfg := config.Load()

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.PlayerProfile{},
		&domain.VerificationRecord{},
		&domain.Favorite{},
		&domain.Payment{},
	); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Repositories ---
	users := userrepo.NewGormUserRepository(db)
	players := playerrepo.NewGormPlayerRepository(db)
	records := verificationrepo.NewGormVerificationRepository(db)
	favorites := favoriterepo.NewGormFavoriteRepository(db)
	payments := paymentrepo.NewGormPaymentRepository(db)

	// --- Providers ---
	smsConfig := &sms.Config{
		AccessKey:  cfg.SMSAccessKey,
		TemplateID: cfg.SMSTemplateID,
		APIURL:     cfg.SMSAPIURL,
		Timeout:    10 * time.Second,
	}
	if err := smsConfig.Validate(); err != nil {
		log.Fatalf("FATAL: invalid SMS configuration: %v", err)
	}
	smsService := sms.NewService(
		sms.NewTemplateProvider(smsConfig),
		sms.DefaultRetryConfig(),
		services.NewLogger("sms"),
	)

	emailConfig := &email.Config{
		APIKey:      cfg.EmailAPIKey,
		APIURL:      cfg.EmailAPIURL,
		FromAddress: cfg.EmailFromAddress,
		Timeout:     10 * time.Second,
		MaxRetries:  3,
		RetryDelay:  500 * time.Millisecond,
	}
	if err := emailConfig.Validate(); err != nil {
		log.Fatalf("FATAL: invalid email configuration: %v", err)
	}
	emailService := email.NewService(
		email.NewHTTPProvider(emailConfig),
		emailConfig,
		services.NewLogger("email"),
	)

	billingConfig := &billing.Config{
		SecretKey:       cfg.BillingSecretKey,
		APIBaseURL:      cfg.BillingAPIBaseURL,
		ProPriceID:      cfg.BillingProPriceID,
		SuccessURL:      cfg.BillingSuccessURL,
		CancelURL:       cfg.BillingCancelURL,
		PortalReturnURL: cfg.BillingPortalReturn,
	}
	if err := billingConfig.Validate(); err != nil {
		log.Fatalf("FATAL: invalid billing configuration: %v", err)
	}

	// --- Services ---
	lockoutService := user_services.NewLockoutService(users, services.NewLogger("lockout"))
	authService := user_services.NewAuthService(users, lockoutService, cfg.JWTSecretKey, cfg.AdminPhoneNumber, services.NewLogger("auth"))
	verificationService := verification_services.NewVerificationService(
		records, users, players, emailService, smsService,
		services.NewLogger("verification"),
	)
	profileService := player_services.NewProfileService(players, services.NewLogger("profiles"))
	favoriteService := recruiter_services.NewFavoriteService(favorites, players, services.NewLogger("favorites"))
	billingService := billing.NewService(billing.NewClient(billingConfig), payments, users, billingConfig, services.NewLogger("billing"))
	adminService := admin_services.NewAdminService(users, players, records, payments, verificationService, services.NewLogger("admin"))

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	verificationHandler := handlers.NewVerificationHandler(verificationService)
	playerHandler := handlers.NewPlayerHandler(profileService)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService)
	billingHandler := handlers.NewBillingHandler(billingService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// --- Rate Limiters ---
	authLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.AuthConfig())
	defer authLimiter.Close()
	confirmLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.CodeConfirmConfig())
	defer confirmLimiter.Close()

	// --- Router Setup ---
	r := mux.NewRouter()
	authMiddleware := middleware.NewJWTMiddleware(authService)
	adminMiddleware := middleware.RequireAdmin(users)

	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware)

	// --- Public Routes ---
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK); _, _ = w.Write([]byte("OK")) }).Methods("GET")
	r.HandleFunc("/api/log", handlers.LogClientEvent).Methods("POST")

	authRoutes := r.PathPrefix("/api/auth").Subrouter()
	authRoutes.Use(middleware.RateLimitMiddleware(authLimiter, "auth"))
	authRoutes.Use(middleware.AuthSuccessMiddleware(authLimiter, "auth"))
	authRoutes.HandleFunc("/register", authHandler.Register).Methods("POST")
	authRoutes.HandleFunc("/login", authHandler.Login).Methods("POST")

	// --- Protected API ---
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware)

	verification := api.PathPrefix("/verification").Subrouter()
	verification.Use(middleware.RequireRole(domain.RolePlayer))
	verification.HandleFunc("/start", verificationHandler.Start).Methods("POST")
	verification.HandleFunc("/phone/send", verificationHandler.SendPhoneCode).Methods("POST")
	verification.HandleFunc("/stats", verificationHandler.SubmitStats).Methods("POST")
	verification.HandleFunc("/me", verificationHandler.Me).Methods("GET")

	// Code confirmation gets its own limiter so codes cannot be brute
	// forced from one IP.
	confirm := api.PathPrefix("/verification").Subrouter()
	confirm.Use(middleware.RequireRole(domain.RolePlayer))
	confirm.Use(middleware.RateLimitMiddleware(confirmLimiter, "confirm"))
	confirm.Use(middleware.AuthSuccessMiddleware(confirmLimiter, "confirm"))
	confirm.HandleFunc("/email/confirm", verificationHandler.ConfirmEmail).Methods("POST")
	confirm.HandleFunc("/phone/confirm", verificationHandler.ConfirmPhone).Methods("POST")

	api.HandleFunc("/players/me", playerHandler.GetMyProfile).Methods("GET")
	api.HandleFunc("/players/me", playerHandler.UpdateMyProfile).Methods("PUT")
	api.HandleFunc("/players", playerHandler.Directory).Methods("GET")
	api.HandleFunc("/players/{id:[0-9]+}", playerHandler.GetProfile).Methods("GET")

	api.HandleFunc("/favorites", favoriteHandler.List).Methods("GET")
	api.HandleFunc("/favorites", favoriteHandler.Add).Methods("POST")
	api.HandleFunc("/favorites/{playerID:[0-9]+}", favoriteHandler.Remove).Methods("DELETE")

	billingRoutes := api.PathPrefix("/billing").Subrouter()
	billingRoutes.Use(middleware.RequireAnyRole(domain.RoleRecruiter, domain.RoleCoach))
	billingRoutes.HandleFunc("/checkout", billingHandler.StartCheckout).Methods("POST")
	billingRoutes.HandleFunc("/checkout/complete", billingHandler.CompleteCheckout).Methods("POST")
	billingRoutes.HandleFunc("/portal", billingHandler.OpenPortal).Methods("POST")
	billingRoutes.HandleFunc("/history", billingHandler.History).Methods("GET")

	// --- Admin Routes ---
	adminApiRoutes := r.PathPrefix("/api/admin").Subrouter()
	adminApiRoutes.Use(authMiddleware)
	adminApiRoutes.Use(adminMiddleware)
	adminApiRoutes.HandleFunc("/users", adminHandler.GetAllUsersHandler).Methods("GET")
	adminApiRoutes.HandleFunc("/users", adminHandler.DeleteUserHandler).Methods("DELETE")
	adminApiRoutes.HandleFunc("/users/export", adminHandler.ExportUsersCSVHandler).Methods("GET")
	adminApiRoutes.HandleFunc("/verification/queue", adminHandler.ReviewQueueHandler).Methods("GET")
	adminApiRoutes.HandleFunc("/verification/review", adminHandler.ReviewDecisionHandler).Methods("POST")
	adminApiRoutes.HandleFunc("/finance", adminHandler.FinanceSummaryHandler).Methods("GET")
	adminApiRoutes.HandleFunc("/stats", adminHandler.StatsHandler).Methods("GET")

	// --- Server Configuration ---
	port := ":" + cfg.ServerPort
	srv := &http.Server{
		Addr:    port,
		Handler: r,
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("JucoReach API starting on port %s", port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}
