// Command devtoken prints a bearer token for local testing.
//
//	go run ./cmd/devtoken -user 1 -role user
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/SscSPs/finovate_app/internal/core/domain"
	"github.com/SscSPs/finovate_app/internal/platform/config"
	"github.com/SscSPs/finovate_app/internal/utils"
)

func main() {
	userID := flag.String("user", "1", "user id to put in the token subject")
	role := flag.String("role", string(domain.RoleUser), "role claim: user or admin")
	flag.Parse()

	identity := domain.Identity{UserID: *userID, Role: domain.UserRole(*role)}
	if !identity.Role.Valid() {
		slog.Error("Unknown role", slog.String("role", *role))
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	token, err := utils.GenerateIdentityToken(identity, cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer)
	if err != nil {
		slog.Error("Failed to generate token", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Println(token)
}
