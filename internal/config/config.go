package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/Freeeeeet/training_bot/internal/model"
	"github.com/joho/godotenv"
)

const (
	DefaultSlotTimes    = "08:00,09:00,10:00,11:00,16:00,17:00,18:00,19:00,20:00"
	DefaultService      = "Персональная тренировка"
	DefaultProfessional = "Pamela"
	DefaultTimezone     = "Europe/Moscow"
)

type Config struct {
	TelegramToken string `mapstructure:"TELEGRAM_TOKEN"`
	DBDSN         string `mapstructure:"DB_DSN"`
	Environment   string `mapstructure:"ENV"`

	SupabaseURL     string `mapstructure:"SUPABASE_URL"`
	SupabaseAnonKey string `mapstructure:"SUPABASE_ANON_KEY"`

	// AdminEmails адреса администраторов (ADMIN_EMAILS через запятую)
	AdminEmails []string `mapstructure:"ADMIN_EMAILS"`
	// SlotTimes дневной каталог времён, в порядке показа
	SlotTimes           []model.ClockTime `mapstructure:"SLOT_TIMES"`
	DefaultService      string            `mapstructure:"DEFAULT_SERVICE"`
	DefaultProfessional string            `mapstructure:"DEFAULT_PROFESSIONAL"`
	Location            *time.Location    `mapstructure:"TIMEZONE"`
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv(os.Getenv)
}

// FromEnv собирает конфигурацию из переменных окружения
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DBDSN:               getenv("DB_DSN"),
		TelegramToken:       getenv("TELEGRAM_TOKEN"),
		Environment:         getenv("ENV"),
		SupabaseURL:         getenv("SUPABASE_URL"),
		SupabaseAnonKey:     getenv("SUPABASE_ANON_KEY"),
		AdminEmails:         ParseList(getenv("ADMIN_EMAILS")),
		DefaultService:      getenv("DEFAULT_SERVICE"),
		DefaultProfessional: getenv("DEFAULT_PROFESSIONAL"),
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.DefaultService == "" {
		cfg.DefaultService = DefaultService
	}
	if cfg.DefaultProfessional == "" {
		cfg.DefaultProfessional = DefaultProfessional
	}

	slots := getenv("SLOT_TIMES")
	if slots == "" {
		slots = DefaultSlotTimes
	}
	times, err := ParseSlotTimes(slots)
	if err != nil {
		return nil, fmt.Errorf("SLOT_TIMES: %w", err)
	}
	cfg.SlotTimes = times

	tz := getenv("TIMEZONE")
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE: %w", err)
	}
	cfg.Location = loc

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}
	if cfg.SupabaseURL == "" || cfg.SupabaseAnonKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL and SUPABASE_ANON_KEY are required but not set")
	}

	return cfg, nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

// ParseList разбирает список через запятую, пустые элементы пропускаются
func ParseList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// ParseSlotTimes разбирает каталог времён HH:MM. Порядок сохраняется, дубли запрещены
func ParseSlotTimes(s string) ([]model.ClockTime, error) {
	items := ParseList(s)
	if len(items) == 0 {
		return nil, fmt.Errorf("slot catalog is empty")
	}

	seen := make(map[model.ClockTime]struct{}, len(items))
	times := make([]model.ClockTime, 0, len(items))
	for _, item := range items {
		t, err := model.ParseClockTime(item)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[t]; dup {
			return nil, fmt.Errorf("duplicate slot time %s", t)
		}
		seen[t] = struct{}{}
		times = append(times, t)
	}
	return times, nil
}
