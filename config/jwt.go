package config

import (
	"log/slog"
	"os"
)

var JwtKey []byte

func LoadJWTKey() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		slog.Error("environment variable JWT_SECRET is not set")
		os.Exit(1)
	}
	JwtKey = []byte(secret)
}
