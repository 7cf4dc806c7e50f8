package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	config "github.com/jutlandia/jutlandia-site-go/config"
	discord "github.com/jutlandia/jutlandia-site-go/discord"
	routes "github.com/jutlandia/jutlandia-site-go/routes"
	store "github.com/jutlandia/jutlandia-site-go/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[env] no .env file, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[config] %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("[DB] connect failed: %v", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Fatalf("[DB] ping failed: %v", err)
	}
	log.Println("[DB] connected")
	cfg.MongoClient = client

	events := store.NewMongoEventStore(client, cfg.DBName)
	dc := discord.New(cfg)

	r := gin.Default()
	r.Use(cors.Default())
	r.Use(sessions.Sessions("jutlandia_session", cookie.NewStore([]byte(cfg.SessionSecret))))
	r.LoadHTMLGlob("templates/*.html")

	routes.SetupRoutes(r, cfg, events, dc)

	log.Printf("[http] listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("[http] server stopped: %v", err)
	}
}
