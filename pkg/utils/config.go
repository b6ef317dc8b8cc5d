package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Pricing  PricingConfig
	Razorpay RazorpayConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

// PricingConfig holds the process-wide invoice constants. Loaded once at
// startup and injected into the pricing service, never read at call time.
type PricingConfig struct {
	DiscountAmount float64
	AdditionalCost float64
	IgstTaxPercent float64
	SgstTaxPercent float64
}

type RazorpayConfig struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
	BaseURL       string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("DISCOUNT_AMOUNT", 0)
	viper.SetDefault("ADDITIONAL_COST", 0)
	viper.SetDefault("IGST_TAX_PERCENT", 0)
	viper.SetDefault("SGST_TAX_PERCENT", 0)
	viper.SetDefault("RAZORPAY_BASE_URL", "https://api.razorpay.com")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Pricing: PricingConfig{
			DiscountAmount: viper.GetFloat64("DISCOUNT_AMOUNT"),
			AdditionalCost: viper.GetFloat64("ADDITIONAL_COST"),
			IgstTaxPercent: viper.GetFloat64("IGST_TAX_PERCENT"),
			SgstTaxPercent: viper.GetFloat64("SGST_TAX_PERCENT"),
		},
		Razorpay: RazorpayConfig{
			KeyID:         viper.GetString("RAZORPAY_KEY_ID"),
			KeySecret:     viper.GetString("RAZORPAY_KEY_SECRET"),
			WebhookSecret: viper.GetString("RAZORPAY_WEBHOOK_SECRET"),
			BaseURL:       viper.GetString("RAZORPAY_BASE_URL"),
		},
	}

	return config, nil
}
