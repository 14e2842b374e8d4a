package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/yaml.v3"

	"github.com/speakbetter/persona-coach/internal/cache"
	"github.com/speakbetter/persona-coach/internal/coaching"
	"github.com/speakbetter/persona-coach/internal/handlers"
	"github.com/speakbetter/persona-coach/internal/logging"
	"github.com/speakbetter/persona-coach/internal/persona"
	"github.com/speakbetter/persona-coach/internal/storage"
	"github.com/speakbetter/persona-coach/internal/tts"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port int    `yaml:"port"`
		Host string `yaml:"host"`
	} `yaml:"server"`

	CORS struct {
		AllowedOrigin string `yaml:"allowed_origin"`
	} `yaml:"cors"`

	Personas struct {
		File string `yaml:"file"`
	} `yaml:"personas"`

	Coaching struct {
		Model          string `yaml:"model"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"coaching"`

	TTS struct {
		URL            string `yaml:"url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"tts"`

	Storage struct {
		Database   string `yaml:"database"`
		SessionLog string `yaml:"session_log"`
	} `yaml:"storage"`

	Cache struct {
		EvictionIntervalMinutes int `yaml:"eviction_interval_minutes"`
		MaxAgeMinutes           int `yaml:"max_age_minutes"`
	} `yaml:"cache"`

	Logging struct {
		Level    string `yaml:"level"`
		MaxLines int    `yaml:"max_lines"`
	} `yaml:"logging"`
}

func main() {
	// API keys come from the environment; .env is optional
	_ = godotenv.Load()

	config, err := loadConfig("config/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, ringHook := logging.New(config.Logging.Level, config.Logging.MaxLines)

	log.Println("Initializing components...")

	// Persona catalog (read-only, injected into handlers)
	catalog, err := persona.LoadCatalog(config.Personas.File)
	if err != nil {
		log.Fatalf("Failed to load persona catalog: %v", err)
	}
	log.Printf("Loaded %d personas from %s", catalog.Len(), config.Personas.File)

	// Coaching generator (falls back to canned coaching without a key)
	googleKey := os.Getenv("GOOGLE_API_KEY")
	if googleKey == "" {
		log.Warn("GOOGLE_API_KEY not set - coaching will use the local fallback")
	}
	coach := coaching.NewGenerator(googleKey, config.Coaching.Model,
		time.Duration(config.Coaching.TimeoutSeconds)*time.Second, log)

	// TTS client
	murfKey := os.Getenv("MURF_API_KEY")
	if murfKey == "" {
		log.Warn("MURF_API_KEY not set - feedback confirmation will return text only")
	}
	ttsClient := tts.NewClient(murfKey, config.TTS.URL,
		time.Duration(config.TTS.TimeoutSeconds)*time.Second)

	// Attempt cache with eviction
	attempts := cache.NewAttemptCache(
		time.Duration(config.Cache.EvictionIntervalMinutes)*time.Minute,
		time.Duration(config.Cache.MaxAgeMinutes)*time.Minute,
		log,
	)
	attempts.Start()
	defer attempts.Stop()

	// Session store + JSONL log
	sessions, err := storage.NewSessionStore(config.Storage.Database)
	if err != nil {
		log.Fatalf("Failed to initialize session store: %v", err)
	}
	defer sessions.Close()

	sessionLog := storage.NewSessionLog(config.Storage.SessionLog)

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: config.CORS.AllowedOrigin,
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// Initialize handlers
	personasHandler := handlers.NewPersonasHandler(catalog)
	analyzeHandler := handlers.NewAnalyzeHandler(catalog, coach, attempts, sessions, sessionLog, log)
	feedbackHandler := handlers.NewFeedbackHandler(attempts, ttsClient, log)
	liveHandler := handlers.NewLiveHandler(log)

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	app.Get("/api/personas", personasHandler.Handle)
	app.Post("/api/analyze-speech", analyzeHandler.Handle)
	app.Post("/api/confirm-feedback", feedbackHandler.Handle)

	// WebSocket route
	app.Get("/ws/live", websocket.New(liveHandler.Handle))

	// Session history
	app.Get("/api/sessions", func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 50)
		list, err := sessions.List(limit)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"sessions": list})
	})

	// Get server logs
	app.Get("/logs", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"logs": ringHook.Lines(),
		})
	})

	// Prometheus exposition
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Start server
	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	log.Printf("Server starting on %s", addr)
	log.Println("Endpoints:")
	log.Println("   GET  /api/personas         - List personas")
	log.Println("   POST /api/analyze-speech   - Analyze a speech attempt")
	log.Println("   POST /api/confirm-feedback - Narrate coaching feedback")
	log.Println("   GET  /api/sessions         - Recent analysis sessions")
	log.Println("   GET  /ws/live              - Live metrics stream")
	log.Println("   GET  /logs                 - View server logs")
	log.Println("   GET  /metrics              - Prometheus metrics")
	log.Println("   GET  /health               - Health check")

	// Graceful shutdown
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Println("Shutting down gracefully...")
		app.Shutdown()
	}()

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// loadConfig loads configuration from YAML file
func loadConfig(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(file, &config); err != nil {
		return nil, err
	}

	return &config, nil
}
