package cmd

import (
	"errors"
	"fmt"
	"time"

	"helperhub/internal/core/domain/model/pricing"
	"helperhub/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	AMQPURL      string
	AMQPExchange string

	JWTSecret string

	DefaultRates   pricing.Rates
	BalanceDueDays int
	ReminderWindow time.Duration

	SweepTimeout time.Duration
	Schedules    jobs.Schedules
}

// DSN is the postgres connection string for the gorm driver.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// LoadConfig reads the environment, after loading .env when one exists.
func LoadConfig() (Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("AMQP_EXCHANGE", "helperhub.notifications")
	v.SetDefault("DEFAULT_COMMISSION_RATE", "0.05")
	v.SetDefault("DEFAULT_DEPOSIT_RATE", "0.30")
	v.SetDefault("BALANCE_DUE_DAYS", 7)
	v.SetDefault("REMINDER_WINDOW", "72h")
	v.SetDefault("SWEEP_TIMEOUT", "5m")
	v.SetDefault("CRON_HIDE_CLOSED_ORDERS", "0 0 * * * *")
	v.SetDefault("CRON_EXPIRE_UNPAID_ORDERS", "0 5 0 * * *")
	v.SetDefault("CRON_CANCEL_UNASSIGNED_ORDERS", "0 10 0 * * *")
	v.SetDefault("CRON_APPLY_INCIDENT_DEDUCTIONS", "0 */10 * * * *")
	v.SetDefault("CRON_SEND_BALANCE_REMINDERS", "0 0 9 * * *")
	v.SetDefault("CRON_ACTIVATE_SETTING_CHANGES", "0 * * * * *")

	cfg := Config{
		HTTPPort:       v.GetString("HTTP_PORT"),
		DBHost:         v.GetString("DB_HOST"),
		DBPort:         v.GetString("DB_PORT"),
		DBUser:         v.GetString("DB_USER"),
		DBPassword:     v.GetString("DB_PASSWORD"),
		DBName:         v.GetString("DB_NAME"),
		DBSslMode:      v.GetString("DB_SSLMODE"),
		AMQPURL:        v.GetString("AMQP_URL"),
		AMQPExchange:   v.GetString("AMQP_EXCHANGE"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		BalanceDueDays: v.GetInt("BALANCE_DUE_DAYS"),
		ReminderWindow: v.GetDuration("REMINDER_WINDOW"),
		SweepTimeout:   v.GetDuration("SWEEP_TIMEOUT"),
		Schedules: jobs.Schedules{
			HideClosedOrders:       v.GetString("CRON_HIDE_CLOSED_ORDERS"),
			ExpireUnpaidOrders:     v.GetString("CRON_EXPIRE_UNPAID_ORDERS"),
			CancelUnassignedOrders: v.GetString("CRON_CANCEL_UNASSIGNED_ORDERS"),
			ApplyIncidentDeducts:   v.GetString("CRON_APPLY_INCIDENT_DEDUCTIONS"),
			SendBalanceReminders:   v.GetString("CRON_SEND_BALANCE_REMINDERS"),
			ActivateSettingChanges: v.GetString("CRON_ACTIVATE_SETTING_CHANGES"),
		},
	}

	rates, err := parseRates(v.GetString("DEFAULT_COMMISSION_RATE"), v.GetString("DEFAULT_DEPOSIT_RATE"))
	if err != nil {
		return Config{}, err
	}
	cfg.DefaultRates = rates

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parseRates(commission, deposit string) (pricing.Rates, error) {
	c, err := decimal.NewFromString(commission)
	if err != nil {
		return pricing.Rates{}, fmt.Errorf("DEFAULT_COMMISSION_RATE: %w", err)
	}
	d, err := decimal.NewFromString(deposit)
	if err != nil {
		return pricing.Rates{}, fmt.Errorf("DEFAULT_DEPOSIT_RATE: %w", err)
	}
	return pricing.NewRates(c, d)
}

func (c Config) validate() error {
	var all []error
	if c.DBUser == "" {
		all = append(all, errors.New("DB_USER is required"))
	}
	if c.DBName == "" {
		all = append(all, errors.New("DB_NAME is required"))
	}
	if c.JWTSecret == "" {
		all = append(all, errors.New("JWT_SECRET is required"))
	}
	if c.BalanceDueDays <= 0 {
		all = append(all, errors.New("BALANCE_DUE_DAYS must be positive"))
	}
	if c.ReminderWindow <= 0 {
		all = append(all, errors.New("REMINDER_WINDOW must be positive"))
	}
	return errors.Join(all...)
}
