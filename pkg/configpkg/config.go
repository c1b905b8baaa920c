// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
//
// The values are read by viper from a config file or environment variables.
type Config struct {
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	Environment   string `mapstructure:"GO_ENV"`
	DBDriver      string `mapstructure:"DB_DRIVER"`
	DBSource      string `mapstructure:"DB_SOURCE"`

	// Account construction defaults applied by the banking service when a
	// request does not configure the variant explicitly.
	SavingsInterestRate          float64 `mapstructure:"SAVINGS_INTEREST_RATE"`
	SavingsMinBalanceForInterest float64 `mapstructure:"SAVINGS_MIN_BALANCE_FOR_INTEREST"`
	LoanInterestRate             float64 `mapstructure:"LOAN_INTEREST_RATE"`
	CurrentOverdraftLimit        float64 `mapstructure:"CURRENT_OVERDRAFT_LIMIT"`

	// Absolute transaction amount above which the fraud detection observer
	// flags a transaction for review.
	FraudAlertThreshold float64 `mapstructure:"FRAUD_ALERT_THRESHOLD"`
}

// Load reads configuration from file or environment variables.
func Load(path string) (Config, error) {
	var c Config

	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		return c, err
	}

	err = viper.Unmarshal(&c)
	if err != nil {
		return c, err
	}

	return c, nil
}
