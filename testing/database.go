// Package testing provides test utilities and database setup for testing the marketplace backend
package testing

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/SwipeCast-Vellena/vellena-backend/models"
	_ "github.com/lib/pq" // PostgreSQL driver for database/sql
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDBConfig holds configuration for test database connections
type TestDBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	SSLMode  string
}

// GetTestDBConfig loads test database configuration from environment variables
func GetTestDBConfig() *TestDBConfig {
	config := &TestDBConfig{
		Host:     getEnv("TEST_DB_HOST", "localhost"),
		Port:     getEnvAsInt("TEST_DB_PORT", 5432),
		User:     getEnv("TEST_DB_USER", "postgres"),
		Password: getEnv("TEST_DB_PASSWORD", "postgres"),
		SSLMode:  getEnv("TEST_DB_SSL_MODE", "disable"),
	}
	return config
}

// TestDB represents a test database instance
type TestDB struct {
	DB     *gorm.DB
	Name   string
	config *TestDBConfig
}

// SetupTestDB creates a new test database with a unique name and migrates the schema
func SetupTestDB() (*TestDB, error) {
	config := GetTestDBConfig()

	// Generate unique database name using timestamp and random number
	dbName := fmt.Sprintf("vellena_test_%d_%d", time.Now().Unix(), rand.Intn(10000))

	if err := config.execAdmin(fmt.Sprintf("CREATE DATABASE %s", dbName)); err != nil {
		return nil, fmt.Errorf("failed to create test database %s: %w", dbName, err)
	}

	// Connect to the new test database
	testDSN := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, dbName, config.SSLMode)

	testDB, err := gorm.Open(postgres.Open(testDSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database %s: %w", dbName, err)
	}

	if err := migrateTestSchema(testDB); err != nil {
		if sqlDB, dbErr := testDB.DB(); dbErr == nil {
			sqlDB.Close()
		}
		_ = config.execAdmin(fmt.Sprintf("DROP DATABASE IF EXISTS %s", dbName))
		return nil, fmt.Errorf("failed to migrate test database %s: %w", dbName, err)
	}

	return &TestDB{
		DB:     testDB,
		Name:   dbName,
		config: config,
	}, nil
}

// execAdmin runs a statement against the PostgreSQL server without a database selected
func (c *TestDBConfig) execAdmin(statement string) error {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.SSLMode)

	adminDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer adminDB.Close()

	if err := adminDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	if _, err := adminDB.Exec(statement); err != nil {
		return err
	}
	return nil
}

// migrateTestSchema creates the schema for all domain models
func migrateTestSchema(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Account{},
		&models.ModelProfile{},
		&models.AgencyProfile{},
		&models.Campaign{},
		&models.Application{},
		&models.Match{},
		&models.Favorite{},
		&models.AuditLog{},
	)
}

// TeardownTestDB drops the test database and closes connections
func (tdb *TestDB) TeardownTestDB() error {
	if tdb.DB == nil {
		return nil
	}

	// Close test database connection
	sqlDB, err := tdb.DB.DB()
	if err == nil {
		sqlDB.Close()
	}

	// Force disconnect all connections to the test database
	err = tdb.config.execAdmin(fmt.Sprintf(
		"SELECT pg_terminate_backend(pid) FROM pg_stat_activity WHERE datname = '%s' AND pid <> pg_backend_pid()",
		tdb.Name))
	if err != nil {
		log.Printf("Warning: failed to terminate connections to test database %s: %v", tdb.Name, err)
	}

	// Drop the test database
	if err := tdb.config.execAdmin(fmt.Sprintf("DROP DATABASE IF EXISTS %s", tdb.Name)); err != nil {
		log.Printf("Warning: failed to drop test database %s: %v", tdb.Name, err)
		return err
	}

	return nil
}

// ClearAllTables removes all data from tables while preserving structure
func (tdb *TestDB) ClearAllTables() error {
	// Order matters due to foreign key constraints
	tables := []string{
		"audit_log",
		"favorites",
		"campaign_matches",
		"campaign_applications",
		"campaigns",
		"agency_profiles",
		"model_profiles",
		"accounts",
	}

	for _, table := range tables {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// TestWithDB is a helper function that sets up a test database, runs the test function, and cleans up
func TestWithDB(testFunc func(*TestDB) error) error {
	testDB, err := SetupTestDB()
	if err != nil {
		return fmt.Errorf("failed to setup test database: %w", err)
	}
	defer func() {
		if cleanupErr := testDB.TeardownTestDB(); cleanupErr != nil {
			log.Printf("Warning: failed to cleanup test database: %v", cleanupErr)
		}
	}()

	return testFunc(testDB)
}

// CreateTestContext creates a context for testing
func CreateTestContext() context.Context {
	return context.Background()
}
