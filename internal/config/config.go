package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string
	NATSUrl     string // Boşsa event yayını kapalı (Noop publisher)

	// POS ayarları
	TaxRate           float64 // Ara toplama uygulanan sabit vergi oranı
	ReceiptPrefix     string  // Fiş numarası ön eki, ör: "BPR 007"
	RestaurantName    string
	RestaurantAddress string
	CurrencySymbol    string
}

func Load() *Config {
	// .env varsa yükle, yoksa sessizce devam et (production'da env değişkenleri kullanılır)
	if err := godotenv.Load(); err == nil {
		log.Println(".env dosyası yüklendi")
	}

	cfg := &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:       getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=barpos port=5432 sslmode=disable"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		CORSOrigins:       getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		NATSUrl:           getEnv("NATS_URL", ""),
		TaxRate:           getEnvFloat("TAX_RATE", 0.0875),
		ReceiptPrefix:     getEnv("RECEIPT_PREFIX", "BPR"),
		RestaurantName:    getEnv("RESTAURANT_NAME", "Bar POS"),
		RestaurantAddress: getEnv("RESTAURANT_ADDRESS", "26, Mock Street, Nigeria"),
		CurrencySymbol:    getEnv("CURRENCY_SYMBOL", "₦"),
	}

	// Production güvenlik kontrolleri
	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET environment değişkeni tanımlanmamış! Production için zorunludur.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET en az 32 karakter olmalıdır! Güvenlik riski.")
	}
	if cfg.TaxRate < 0 || cfg.TaxRate >= 1 {
		log.Fatalf("[FATAL] TAX_RATE geçersiz: %v (0 ile 1 arasında olmalı)", cfg.TaxRate)
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=barpos port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN varsayılan değer kullanılıyor, production için mutlaka kendi Postgres bağlantı bilgisini tanımla.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Fatalf("[FATAL] %s sayı olarak okunamadı: %q", key, v)
	}
	return f
}
