package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/vladimiradmaev/fitscan-coach/internal/config"
)

func main() {
	fmt.Println("🔍 Verificando configuração...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  arquivo .env não encontrado: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Configuração inválida:\n%v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Configuração válida!")
	fmt.Printf("📋 Detalhes:\n")
	fmt.Printf("  - Telegram Token: %s\n", maskToken(cfg.Telegram.Token))
	fmt.Printf("  - AI Provider: %s (%s)\n", cfg.AI.Provider, cfg.AI.Model)
	fmt.Printf("  - Gemini API Key: %s\n", maskToken(cfg.AI.GeminiAPIKey))
	fmt.Printf("  - OpenAI API Key: %s\n", maskToken(cfg.AI.OpenAIAPIKey))
	fmt.Printf("  - HTTP: %s\n", cfg.HTTP.Addr())
	fmt.Printf("  - JWT Secret: %s\n", maskToken(cfg.HTTP.JWTSecret))
	fmt.Printf("  - JWT TTL: %s\n", cfg.HTTP.TokenTTL)
	fmt.Printf("  - Storage: %s\n", cfg.Storage.Driver)
	switch cfg.Storage.Driver {
	case "file":
		fmt.Printf("  - Storage File: %s\n", cfg.Storage.FilePath)
	case "redis":
		fmt.Printf("  - Redis: %s:%s db=%d\n", cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.DB)
	case "postgres":
		fmt.Printf("  - DB Host: %s\n", cfg.DB.Host)
		fmt.Printf("  - DB Port: %s\n", cfg.DB.Port)
		fmt.Printf("  - DB User: %s\n", cfg.DB.User)
		fmt.Printf("  - DB Name: %s\n", cfg.DB.DBName)
	}
	fmt.Printf("  - Analysis Cache TTL: %s (purge=%t)\n", cfg.Cache.TTL, cfg.Cache.PurgeExpired)
	fmt.Printf("  - Metrics: %t\n", cfg.Metrics.Enabled)
	fmt.Printf("  - Log Level: %s\n", cfg.Logger.Level)
	fmt.Printf("  - Log Output: %s\n", cfg.Logger.OutputPath)
	fmt.Printf("  - Log Format: %s\n", cfg.Logger.Format)
}

func maskToken(token string) string {
	if token == "" {
		return "<não definido>"
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
