// tokengen mints a development access token with the same claims the
// identity provider would set. Useful for exercising the API locally.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/attenda-hq/attendance-backend-go/internal/config"
	"github.com/attenda-hq/attendance-backend-go/internal/domain/employee"
	"github.com/attenda-hq/attendance-backend-go/internal/pkg/jwt"
)

func main() {
	userID := flag.String("user-id", "", "user id claim")
	email := flag.String("email", "dev@example.com", "email claim")
	employeeID := flag.String("employee-id", "", "employee id claim")
	role := flag.String("role", "employee", "role claim: admin, manager or employee")
	flag.Parse()

	if *employeeID == "" {
		fmt.Fprintln(os.Stderr, "-employee-id is required")
		os.Exit(1)
	}
	if *userID == "" {
		*userID = *employeeID
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	token, expiresAt, err := JWTService.GenerateAccessToken(*userID, *email, employeeID, employee.Role(*role))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error generating token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintln(os.Stderr, "expires at (unix):", expiresAt)
}
