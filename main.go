package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/MilchZocker/UCC-DreamPacket/internal/api"
	"github.com/MilchZocker/UCC-DreamPacket/internal/canvas"
	"github.com/MilchZocker/UCC-DreamPacket/internal/config"
	"github.com/MilchZocker/UCC-DreamPacket/internal/cooldown"
	"github.com/MilchZocker/UCC-DreamPacket/internal/dream"
	"github.com/MilchZocker/UCC-DreamPacket/internal/generate"
	"github.com/MilchZocker/UCC-DreamPacket/internal/redis"
	"github.com/MilchZocker/UCC-DreamPacket/internal/session"
	"github.com/MilchZocker/UCC-DreamPacket/internal/storage"
)

func main() {
	// .env is optional; the generation API key can also come from the
	// real environment.
	_ = godotenv.Load()

	cfgPath := os.Getenv("DREAMPACKET_CONFIG")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// the data dir must exist before the sqlite DSN inside it is opened
	if err := os.MkdirAll(cfg.BasicConfig.DataDir, 0o755); err != nil {
		log.Fatalf("create data dir: %v", err)
	}

	store, closeStore, err := openSessionStore(cfg)
	if err != nil {
		log.Fatalf("open session store: %v", err)
	}
	defer closeStore()

	renderer, err := canvas.NewRenderer(cfg.Canvas.ImageSize, cfg.Canvas.FontSize)
	if err != nil {
		log.Fatalf("init renderer: %v", err)
	}
	library, err := canvas.NewLibrary(cfg.BasicConfig.DataDir, cfg.Canvas.ImageSize, cfg.Canvas.FrameRate)
	if err != nil {
		log.Fatalf("init video library: %v", err)
	}
	if err := library.SeedDefaults(renderer.RenderSentence("")); err != nil {
		log.Fatalf("seed default artifacts: %v", err)
	}

	generator := generate.NewClient(
		cfg.Generation.URL,
		time.Duration(cfg.Generation.TimeoutSeconds)*time.Second,
		library.ImageDir(),
		cfg.Canvas.ImageSize,
	)
	gate := cooldown.Gate{Interval: time.Duration(*cfg.Canvas.CooldownSeconds * float64(time.Second))}
	service := dream.NewService(store, gate, renderer, library, generator)

	router := gin.Default()
	api.NewHandler(service).RegisterRoutes(router)

	addr := cfg.BasicConfig.ServerAddress
	if addr == "" {
		addr = ":5000"
	}

	if err := router.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

// openSessionStore picks the configured session backend and returns it with
// a cleanup func.
func openSessionStore(cfg *config.Config) (session.Store, func(), error) {
	storeType := cfg.BasicConfig.SessionStore
	log.Printf("session store: %s\n", storeType)

	switch storeType {
	case "memory":
		return session.NewMemoryStore(), func() {}, nil
	case "redis":
		client, err := redis.NewRedisClient(cfg)
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisStore(client), func() { client.Close() }, nil
	default:
		db, err := storage.Open(storeType, cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := storage.Migrate(db, storeType); err != nil {
			db.Close()
			return nil, nil, err
		}
		return session.NewSQLStore(db, storeType), func() { db.Close() }, nil
	}
}
