package main

import (
	"fmt"
	"net/http"

	"github.com/sitecrew-hq/sitecrew-backend-go/internal/config"
	appHTTP "github.com/sitecrew-hq/sitecrew-backend-go/internal/handler/http"
	"github.com/sitecrew-hq/sitecrew-backend-go/internal/pkg/database"
	"github.com/sitecrew-hq/sitecrew-backend-go/internal/pkg/jwt"
	"github.com/sitecrew-hq/sitecrew-backend-go/internal/repository/postgresql"
	"github.com/sitecrew-hq/sitecrew-backend-go/internal/service/notifier"
	summaryService "github.com/sitecrew-hq/sitecrew-backend-go/internal/service/summary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	timesheetRepo := postgresql.NewTimesheetRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	summaryRepo := postgresql.NewSummaryRepository(db)
	summaryEventRepo := postgresql.NewSummaryEventRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	eventNotifier := notifier.NewEventNotifier(summaryEventRepo, notifier.Config{})
	defer eventNotifier.Stop()

	summarySvc := summaryService.NewSummaryService(
		summaryRepo,
		employeeRepo,
		attendanceRepo,
		timesheetRepo,
		leaveRequestRepo,
		eventNotifier,
		cfg.Summary,
	)

	summaryHandler := appHTTP.NewSummaryHandler(summarySvc)

	router := appHTTP.NewRouter(cfg, JWTService, summaryHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
