package cmd

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/frahmantamala/payment-portal/internal/core/datamodel/staff"
)

var (
	seedEmail    string
	seedPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with an initial staff account",
	Long:  `Create a bootstrap staff account so the portal has at least one principal able to register users.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		if seedPassword == "" {
			log.Fatal("--password is required")
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{TranslateError: true})
		if err != nil {
			log.Fatalf("failed to open gorm: %v", err)
		}

		email := strings.ToLower(strings.TrimSpace(seedEmail))

		var existing staff.Staff
		if err := gormDB.Where("email = ?", email).First(&existing).Error; err == nil {
			fmt.Println("staff account already exists:", email)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}

		seeded := &staff.Staff{
			Email:        email,
			FirstName:    "Portal",
			Surname:      "Admin",
			PasswordHash: string(hash),
		}
		if err := gormDB.Create(seeded).Error; err != nil {
			log.Fatalf("failed to insert staff account: %v", err)
		}

		fmt.Println("Seeded staff account:", email)
	},
}
