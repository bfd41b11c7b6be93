package db

import (
	"database/sql"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/leadflowhq/LeadFlow/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	DB    *gorm.DB
	SqlDB *sql.DB
)

func InitDB() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      false,
		},
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:      gormLogger,
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	SqlDB, err = DB.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	SqlDB.SetMaxIdleConns(10)
	SqlDB.SetMaxOpenConns(100)
	SqlDB.SetConnMaxLifetime(time.Hour)

	if err := MigrateSchema(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if err := SeedSuperAdmin(DB); err != nil {
		log.Printf("Warning: could not seed admin account: %v", err)
	}

	log.Println("Database connected and migrated successfully")
}

func MigrateSchema(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Account{},
		&models.Session{},
		&models.Question{},
		&models.Option{},
		&models.Lead{},
		&models.Answer{},
		&models.Document{},
		&models.Setting{},
	)
}

// SeedSuperAdmin creates the bootstrap super_admin from ADMIN_EMAIL /
// ADMIN_PASSWORD if no account with that email exists yet. Without it a
// fresh deployment has no way to log in.
func SeedSuperAdmin(db *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	var existing models.Account
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		return err
	}

	account := models.Account{
		Email:        email,
		Name:         "Administrator",
		PasswordHash: string(hash),
		Role:         "super_admin",
		Active:       true,
	}
	return db.Create(&account).Error
}

func GetDB() *gorm.DB {
	return DB
}

func GetSqlDB() *sql.DB {
	return SqlDB
}
