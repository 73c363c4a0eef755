package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"cvforge/internal/auth"
	"cvforge/internal/config"
	"cvforge/internal/database"
	"cvforge/internal/storage"
)

func main() {
	var (
		username  = flag.String("username", "", "bootstrap an initial account with this username")
		purgeDays = flag.Int("purge-deleted-days", 0, "hard-delete documents soft-deleted more than N days ago, plus their stored PDFs")
		dbHost    = flag.String("db-host", "", "database host (defaults to DATABASE_HOST)")
		dbPort    = flag.Int("db-port", 0, "database port (defaults to DATABASE_PORT)")
		dbName    = flag.String("db-name", "", "database name (defaults to POSTGRES_DB)")
		dbUser    = flag.String("db-user", "", "database user (defaults to POSTGRES_USER)")
		dbPass    = flag.String("db-password", "", "database password (defaults to POSTGRES_PASSWORD)")
		sslMode   = flag.String("db-sslmode", "", "database sslmode (defaults to DATABASE_SSLMODE)")
	)
	flag.Parse()

	u := strings.TrimSpace(*username)
	switch {
	case u != "" && *purgeDays > 0:
		log.Fatal("--username and --purge-deleted-days are mutually exclusive")
	case u != "":
		createUser(u, *dbHost, *dbPort, *dbName, *dbUser, *dbPass, *sslMode)
	case *purgeDays > 0:
		purgeDeletedDocuments(*purgeDays)
	default:
		log.Fatal("nothing to do: pass --username or --purge-deleted-days")
	}
}

// createUser bootstraps an account with a random one-time password. The
// account is flagged for a forced password change on first login.
func createUser(username, dbHost string, dbPort int, dbName, dbUser, dbPass, sslMode string) {
	dbCfg, err := loadDatabaseConfig(dbHost, dbPort, dbName, dbUser, dbPass, sslMode)
	if err != nil {
		log.Fatalf("load database config: %v", err)
	}

	db, err := database.InitDatabase(dbCfg)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	if err := db.AutoMigrate(&database.User{}); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	var existing database.User
	switch err := db.Where("username = ?", username).First(&existing).Error; {
	case err == nil:
		log.Fatalf("user %q already exists", username)
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		log.Fatalf("query user: %v", err)
	}

	password, err := generateRandomPassword(24)
	if err != nil {
		log.Fatalf("generate password: %v", err)
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	user := database.User{
		Username:           username,
		PasswordHash:       hashed,
		MustChangePassword: true,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("create user: %v", err)
	}

	fmt.Printf("created account (password change forced on first login)\n")
	fmt.Printf("username: %s\n", username)
	fmt.Printf("initial password: %s\n", password)
	fmt.Printf("the password is shown only once; log in and change it now\n")
}

// purgeDeletedDocuments removes documents that have sat in the soft-deleted
// state longer than the retention window, along with their exported PDFs.
func purgeDeletedDocuments(days int) {
	cfg := config.MustLoad()

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	storageClient, err := storage.NewClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage client: %v", err)
	}

	cutoff := time.Now().AddDate(0, 0, -days)

	var docs []database.Document
	if err := db.Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Find(&docs).Error; err != nil {
		log.Fatalf("query deleted documents: %v", err)
	}
	if len(docs) == 0 {
		fmt.Println("no documents past the retention window")
		return
	}

	ctx := context.Background()
	purged := 0
	for _, doc := range docs {
		if doc.PdfObjectKey != "" {
			if err := storageClient.DeleteObject(ctx, doc.PdfObjectKey); err != nil {
				log.Printf("delete object %s for document %d: %v", doc.PdfObjectKey, doc.ID, err)
				continue
			}
		}
		if err := db.Unscoped().Delete(&database.Document{}, doc.ID).Error; err != nil {
			log.Printf("purge document %d: %v", doc.ID, err)
			continue
		}
		purged++
	}

	fmt.Printf("purged %d of %d documents deleted before %s\n", purged, len(docs), cutoff.Format(time.RFC3339))
}

func loadDatabaseConfig(host string, port int, name, user, password, sslmode string) (config.DatabaseConfig, error) {
	if strings.TrimSpace(host) == "" {
		host = os.Getenv("DATABASE_HOST")
	}
	if port <= 0 {
		if env := strings.TrimSpace(os.Getenv("DATABASE_PORT")); env != "" {
			p, err := strconv.Atoi(env)
			if err != nil {
				return config.DatabaseConfig{}, fmt.Errorf("parse DATABASE_PORT: %w", err)
			}
			port = p
		}
	}
	if strings.TrimSpace(name) == "" {
		name = os.Getenv("POSTGRES_DB")
	}
	if strings.TrimSpace(name) == "" {
		name = os.Getenv("DB_NAME")
	}
	if strings.TrimSpace(user) == "" {
		user = os.Getenv("POSTGRES_USER")
	}
	if strings.TrimSpace(user) == "" {
		user = os.Getenv("DB_USER")
	}
	if strings.TrimSpace(password) == "" {
		password = os.Getenv("POSTGRES_PASSWORD")
	}
	if strings.TrimSpace(password) == "" {
		password = os.Getenv("DB_PASSWORD")
	}
	if strings.TrimSpace(sslmode) == "" {
		sslmode = os.Getenv("DATABASE_SSLMODE")
	}

	if strings.TrimSpace(host) == "" {
		host = "localhost"
	}
	if port <= 0 {
		port = 5432
	}
	if strings.TrimSpace(sslmode) == "" {
		sslmode = "disable"
	}
	if strings.TrimSpace(name) == "" {
		return config.DatabaseConfig{}, errors.New("database name is required (POSTGRES_DB)")
	}
	if strings.TrimSpace(user) == "" {
		return config.DatabaseConfig{}, errors.New("database user is required (POSTGRES_USER)")
	}
	if strings.TrimSpace(password) == "" {
		return config.DatabaseConfig{}, errors.New("database password is required (POSTGRES_PASSWORD)")
	}

	return config.DatabaseConfig{
		Host:     host,
		Port:     port,
		Name:     name,
		User:     user,
		Password: password,
		SSLMode:  sslmode,
	}, nil
}

func generateRandomPassword(bytesLen int) (string, error) {
	if bytesLen <= 0 {
		bytesLen = 24
	}
	buf := make([]byte, bytesLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
