// Command devtoken prints an access token for an employee, for local use
// against the API.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cmlabs-hris/leave-workflow-go/internal/config"
	"github.com/cmlabs-hris/leave-workflow-go/internal/fixtures"
	"github.com/cmlabs-hris/leave-workflow-go/internal/pkg/jwt"
)

func main() {
	employeeID := flag.String("employee", fixtures.DemoEmployeeID, "employee id to put in the token")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	jwtService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error creating token service:", err)
		os.Exit(1)
	}

	token, expiresAt, err := jwtService.GenerateAccessToken(*employeeID)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error generating token:", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "employee %s, expires %s\n", *employeeID, time.Unix(expiresAt, 0).Format(time.RFC3339))
	fmt.Println(token)
}
