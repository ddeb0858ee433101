package main

import (
	"log"
	"os"

	"technews/internal/db"
	"technews/internal/middleware"
	"technews/internal/router"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/postgres"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading env vars from system")
	}

	// Initialize Database
	gdb, err := db.Open()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize Gin
	r := gin.Default()

	// Setup Sessions, persisted in the same database the models live in
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		log.Fatalf("Failed to get database handle: %v", err)
	}
	store, err := postgres.NewStore(sqlDB, []byte(secret))
	if err != nil {
		log.Fatalf("Failed to create session store: %v", err)
	}
	r.Use(sessions.Sessions("technews_session", store))

	// Middleware
	r.Use(middleware.LoadUser(gdb))

	// Routes
	router.RegisterRoutes(r, gdb)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("technews server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
