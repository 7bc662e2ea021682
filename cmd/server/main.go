package main

import (
	"context"
	"log"
	"net/http"
	"os"

	webAdapter "invoicedesk/internal/adapters/web"
	"invoicedesk/internal/app"
	"invoicedesk/internal/core"
	"invoicedesk/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	settingsCache := core.NewSettingsCache()
	settingsService := core.NewSettingsService(pool, settingsCache)
	numberingService := core.NewNumberingService()
	clientService := core.NewClientService(pool)
	quotationService := core.NewQuotationService(pool, settingsService, numberingService)
	invoiceService := core.NewInvoiceService(pool, settingsService, numberingService)
	boqService := core.NewBOQService(pool, settingsService, numberingService)
	reportingService := core.NewReportingService(pool)

	svc := app.NewAppService(clientService, quotationService, invoiceService, boqService, settingsService, reportingService)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	adminUser := os.Getenv("ADMIN_USERNAME")
	if adminUser == "" {
		adminUser = "admin"
	}
	adminPass := os.Getenv("ADMIN_PASSWORD")
	if adminPass == "" {
		adminPass = "admin"
		log.Println("Warning: ADMIN_PASSWORD is not set, using default")
	}

	handler := webAdapter.NewHandler(svc, webAdapter.Config{
		AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
		JWTSecret:      jwtSecret,
		AdminUser:      adminUser,
		AdminPass:      adminPass,
	})

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
