package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/attenda-hq/attendance-backend-go/internal/handler/http/middleware"
	"github.com/attenda-hq/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	JWTService jwt.Service,
	attendanceHandler AttendanceHandler,
	leaveHandler LeaveHandler,
	outletHandler OutletHandler,
	employeeHandler EmployeeHandler,
	uploadsPath string,
	env string,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	// Stored photos are served straight off disk when storage is local.
	fileServer := http.FileServer(http.Dir(uploadsPath))
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", fileServer))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/punch-in", attendanceHandler.PunchIn)
				r.Post("/punch-out", attendanceHandler.PunchOut)
				r.Get("/status", attendanceHandler.Status)
				r.Get("/me", attendanceHandler.GetMySessions)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.ManagerOnly)
					r.Get("/", attendanceHandler.List)
					r.Post("/bulk", attendanceHandler.Bulk)
					r.Get("/{id}", attendanceHandler.Get)
					r.Put("/{id}/times", attendanceHandler.UpdateTimes)
					r.Put("/{id}/verification", attendanceHandler.SetVerification)
					r.Put("/{id}/status", attendanceHandler.UpdateStatus)
				})
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Post("/", leaveHandler.Request)
				r.Get("/me", leaveHandler.GetMyLeaves)
				r.Get("/types", leaveHandler.ListTypes)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.ManagerOnly)
					r.Get("/", leaveHandler.List)
					r.Post("/bulk", leaveHandler.Bulk)
					r.Get("/{id}", leaveHandler.Get)
					r.Put("/{id}/status", leaveHandler.UpdateStatus)
				})
			})

			r.Route("/outlets", func(r chi.Router) {
				r.Get("/", outletHandler.List)
				r.Get("/{id}", outletHandler.Get)
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/me", employeeHandler.GetMe)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.ManagerOnly)
					r.Get("/", employeeHandler.List)
					r.Get("/{id}", employeeHandler.Get)
				})
			})
		})
	})
	return r
}
