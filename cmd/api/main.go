package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/cmlabs-hris/attrition-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/attrition-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/attrition-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attrition-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/attrition-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attrition-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/attrition-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attrition-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/attrition-backend-go/internal/service/auth"
	riskService "github.com/cmlabs-hris/attrition-backend-go/internal/service/risk"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn, int32(cfg.Database.MaxConns), int32(cfg.Database.MinConns))
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	userRepo := postgresql.NewUserRepository(db)
	JWTRepository := postgresql.NewJWTRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	reportRepo := postgresql.NewReportRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath)
	if err != nil {
		log.Fatal("Failed to initialize local storage:", err)
	}

	alertSender := email.NewAlertSender(cfg.SMTP)

	authService := serviceAuth.NewAuthService(userRepo, JWTService, JWTRepository)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, fileStorage)
	riskSvc := riskService.NewRiskService(attendanceRepo, reportRepo, alertSender, cfg.Risk.ReportConcurrency)

	authHandler := appHTTP.NewAuthHandler(JWTService, authService)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	riskHandler := appHTTP.NewRiskHandler(riskSvc, cfg.Risk.DefaultMonths)

	router := appHTTP.NewRouter(
		JWTService,
		authHandler,
		attendanceHandler,
		riskHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
