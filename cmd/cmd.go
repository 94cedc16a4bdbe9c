package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/frahmantamala/payment-portal/internal"
)

var rootCmd = &cobra.Command{
	Use:   "payment-portal",
	Short: "Payment Portal",
	Long:  `Session-backed gateway for submitting and processing payment requests.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*internal.Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix("PORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := internal.DefaultConfig()

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine when the environment carries everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error validating config: %w", err)
	}

	return cfg, nil
}

func init() {
	seedCmd.Flags().StringVar(&seedEmail, "email", "admin@portal.local", "Email for the seeded staff account")
	seedCmd.Flags().StringVar(&seedPassword, "password", "", "Password for the seeded staff account (required)")

	rootCmd.AddCommand(httpServerCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}
