package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"Pulse/cache"
	"Pulse/middlewares"
	"Pulse/models"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DefaultCacheTTL bounds how stale the cached global feed may get before a
// miss re-renders it.
const DefaultCacheTTL = 20 * time.Second

type Server struct {
	DB       *gorm.DB
	Router   *gin.Engine
	Cache    *cache.Cache
	CacheTTL time.Duration
}

// ===============================
// SECURE ADMIN SEEDING
// ===============================
func seedAdmin(db *gorm.DB) error {
	adminEmail := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	adminPassword := strings.TrimSpace(os.Getenv("ADMIN_PASSWORD"))

	// If environment vars aren't provided, do NOTHING.
	if adminEmail == "" || adminPassword == "" {
		log.Println("[seedAdmin] ADMIN_EMAIL or ADMIN_PASSWORD not set — skipping admin creation.")
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", adminEmail).First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Println("[seedAdmin] Creating initial admin:", adminEmail)

		admin := models.User{
			Username: strings.Split(adminEmail, "@")[0],
			Email:    adminEmail,
			Password: adminPassword,
			IsAdmin:  true,
		}
		admin.Prepare()
		admin.IsAdmin = true

		if msgs := admin.Validate(""); len(msgs) > 0 {
			log.Printf("[seedAdmin] validation failed: %+v\n", msgs)
			return nil
		}

		_, err = admin.SaveUser(db)
		if err != nil {
			log.Printf("[seedAdmin] failed to create admin: %v\n", err)
			return err
		}
		return nil
	}

	// If admin exists, ensure they stay admin
	if err == nil && !existing.IsAdmin {
		log.Println("[seedAdmin] Ensuring admin flag is set for:", adminEmail)
		return db.Model(&existing).Update("is_admin", true).Error
	}

	return err
}

// ===============================
// SERVER INITIALIZATION
// ===============================
func (server *Server) Initialize(DbUser, DbPassword, DbPort, DbHost, DbName string) {
	var dsn string

	if strings.EqualFold(os.Getenv("APP_ENV"), "production") {
		dsn = os.Getenv("DATABASE_URL")
		if dsn != "" && !strings.Contains(dsn, "sslmode=") {
			if strings.Contains(dsn, "?") {
				dsn += "&sslmode=require"
			} else {
				dsn += "?sslmode=require"
			}
		}
	} else {
		dsn = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			DbHost, DbUser, DbPassword, DbName, DbPort,
		)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Cannot connect to Postgres: %v", err)
	}
	server.DB = db

	if err := server.Migrate(); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}
	if err := ensureFollowConstraints(server.DB); err != nil {
		log.Printf("warning: follow constraints not ensured: %v", err)
	}

	// Redis init (safe failure: feeds render uncached without it)
	responseCache, err := cache.NewFromEnv()
	if err != nil {
		log.Printf("warning: could not connect to redis: %v", err)
	}
	server.Cache = responseCache
	server.CacheTTL = cacheTTLFromEnv()

	// SECURE ADMIN CREATION
	if err := seedAdmin(server.DB); err != nil {
		log.Printf("error seeding admin user: %v\n", err)
	}

	server.Router = gin.Default()
	server.Router.Use(middlewares.CORSMiddleware())
	server.Router.Use(middlewares.RateLimitMiddleware())
	server.initializeRoutes()
}

// Migrate creates the schema. Split out so tests can run it against an
// in-memory database.
func (server *Server) Migrate() error {
	return server.DB.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	)
}

func (server *Server) Run(addr string) {
	log.Fatal(http.ListenAndServe(addr, server.Router))
}

func cacheTTLFromEnv() time.Duration {
	raw := strings.TrimSpace(os.Getenv("CACHE_TTL_SECONDS"))
	if raw == "" {
		return DefaultCacheTTL
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		log.Printf("warning: invalid CACHE_TTL_SECONDS %q, using default", raw)
		return DefaultCacheTTL
	}
	return time.Duration(seconds) * time.Second
}

// ensureFollowConstraints adds the self-follow CHECK that AutoMigrate cannot
// express. Postgres only; the unique pair index comes from the model tags.
func ensureFollowConstraints(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	var count int64
	if err := db.Raw(
		"SELECT COUNT(1) FROM pg_constraint WHERE conname = ?",
		"follows_no_self_follow",
	).Scan(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		if err := db.Exec(
			"ALTER TABLE follows ADD CONSTRAINT follows_no_self_follow CHECK (follower_id <> followed_id)",
		).Error; err != nil {
			return err
		}
	}
	return nil
}
