package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/attenda-hq/attendance-backend-go/internal/config"
	appHTTP "github.com/attenda-hq/attendance-backend-go/internal/handler/http"
	"github.com/attenda-hq/attendance-backend-go/internal/pkg/database"
	"github.com/attenda-hq/attendance-backend-go/internal/pkg/facematch"
	"github.com/attenda-hq/attendance-backend-go/internal/pkg/jwt"
	"github.com/attenda-hq/attendance-backend-go/internal/pkg/storage"
	"github.com/attenda-hq/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/attenda-hq/attendance-backend-go/internal/service/attendance"
	employeeService "github.com/attenda-hq/attendance-backend-go/internal/service/employee"
	"github.com/attenda-hq/attendance-backend-go/internal/service/geofence"
	identityService "github.com/attenda-hq/attendance-backend-go/internal/service/identity"
	leaveService "github.com/attenda-hq/attendance-backend-go/internal/service/leave"
	outletService "github.com/attenda-hq/attendance-backend-go/internal/service/outlet"
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
	outletRepo := postgresql.NewOutletRepository(db)
	sessionRepo := postgresql.NewSessionRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(
			cfg.Storage.BasePath,
			cfg.Storage.BaseURL,
		)
		if err != nil {
			log.Fatal("Failed to initialize local storage:", err)
		}
	default:
		log.Fatal("Unsupported storage type: ", cfg.Storage.Type)
	}

	matcher, err := facematch.NewRekognitionMatcher(
		context.Background(),
		cfg.FaceMatch.Region,
		cfg.FaceMatch.AccessKeyID,
		cfg.FaceMatch.SecretAccessKey,
		cfg.FaceMatch.SimilarityThreshold,
		cfg.FaceMatch.CallTimeout,
	)
	if err != nil {
		log.Fatal("Failed to initialize face matcher:", err)
	}

	geofenceVerifier := geofence.NewVerifier(outletRepo)
	identityVerifier := identityService.NewVerifier(employeeRepo, fileStorage, matcher)
	leaveSvc := leaveService.NewLeaveService(leaveRepo, leaveTypeRepo, sessionRepo, employeeRepo)
	sessionSvc := attendanceService.NewSessionService(
		db,
		sessionRepo,
		employeeRepo,
		outletRepo,
		geofenceVerifier,
		identityVerifier,
		leaveSvc,
	)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo)
	outletSvc := outletService.NewOutletService(outletRepo)

	attendanceHandler := appHTTP.NewAttendanceHandler(sessionSvc)
	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)
	outletHandler := appHTTP.NewOutletHandler(outletSvc)
	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc)

	router := appHTTP.NewRouter(
		JWTService,
		attendanceHandler,
		leaveHandler,
		outletHandler,
		employeeHandler,
		cfg.Storage.BasePath,
		cfg.App.Env,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
