package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/attendance-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	monitoringService "github.com/cmlabs-hris/attendance-backend-go/internal/service/monitoring"
	officeService "github.com/cmlabs-hris/attendance-backend-go/internal/service/office"
	reportService "github.com/cmlabs-hris/attendance-backend-go/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn, cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	recordRepo := postgresql.NewRecordRepository(db)
	officeRepo := postgresql.NewOfficeRepository(db)
	userRepo := postgresql.NewUserRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	attendanceSvc := attendanceService.NewAttendanceService(db, recordRepo, officeRepo, cfg.Attendance, time.Now)
	monitoringSvc := monitoringService.NewMonitoringService(recordRepo, userRepo, officeRepo, time.Now)
	reportSvc := reportService.NewReportService(recordRepo, officeRepo, time.Now)
	officeSvc := officeService.NewOfficeService(officeRepo)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	monitoringHandler := appHTTP.NewMonitoringHandler(monitoringSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)
	officeHandler := appHTTP.NewOfficeHandler(officeSvc)

	router := appHTTP.NewRouter(
		cfg.App,
		jwtService,
		attendanceHandler,
		monitoringHandler,
		reportHandler,
		officeHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
