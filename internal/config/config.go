package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Application
	Version     string
	Environment string
	ServerID    string
	Port        int
	LogLevel    string

	// Logdy (lightweight web log viewer)
	LogdyEnabled bool
	LogdyHost    string
	LogdyPort    int

	// Video storage
	MediaDir    string
	CatalogPath string

	// RTSP server (MediaMTX)
	// When ManageRTSPServer is true the binary at RTSPServerBin is started
	// as a child process and stopped on shutdown.
	ManageRTSPServer bool
	RTSPServerBin    string
	RelayBaseURL     string

	// Relay (ffmpeg looping republisher)
	FFmpegBin string

	// Inference pipeline
	TargetHeight      int
	MaxWidth          int
	JPEGQuality       int
	BroadcastInterval time.Duration
	ReadRetryDelay    time.Duration

	// Detection model
	ModelPath      string
	ModelInputSize int
	ConfThreshold  float32
	NMSThreshold   float32
	ClassNamesPath string

	// NATS (detection event publishing)
	NatsEnabled        bool
	NatsURL            string
	NatsConnectTimeout time.Duration
	NatsReconnectWait  time.Duration
	NatsMaxReconnects  int
	EventsSubject      string
	EventsCooldown     time.Duration

	// Graceful Shutdown
	ShutdownTimeout time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file found, using environment variables and defaults")
	} else {
		log.Info().Msg("Loaded configuration from .env file")
	}

	return &Config{
		// Application
		Version:     getEnv("VERSION", "1.0.0"),
		Environment: getEnv("ENVIRONMENT", "development"),
		ServerID:    getEnv("SERVER_ID", "vistream-1"),
		Port:        getEnvInt("PORT", 8000),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// Logdy
		LogdyEnabled: getEnvBool("LOGDY_ENABLED", false),
		LogdyHost:    getEnv("LOGDY_HOST", "localhost"),
		LogdyPort:    getEnvInt("LOGDY_PORT", 8080),

		// Video storage
		MediaDir:    getEnv("MEDIA_DIR", "videos"),
		CatalogPath: getEnv("CATALOG_PATH", "videos/catalog.json"),

		// RTSP server
		ManageRTSPServer: getEnvBool("MANAGE_RTSP_SERVER", false),
		RTSPServerBin:    getEnv("RTSP_SERVER_BIN", "./rtsp-server"),
		RelayBaseURL:     getEnv("RELAY_BASE_URL", "rtsp://localhost:8554"),

		// Relay
		FFmpegBin: getEnv("FFMPEG_BIN", "ffmpeg"),

		// Inference pipeline
		TargetHeight:      getEnvInt("TARGET_HEIGHT", 240),
		MaxWidth:          getEnvInt("MAX_WIDTH", 426),
		JPEGQuality:       getEnvInt("JPEG_QUALITY", 80),
		BroadcastInterval: getEnvDuration("BROADCAST_INTERVAL", 250*time.Millisecond),
		ReadRetryDelay:    getEnvDuration("READ_RETRY_DELAY", time.Second),

		// Detection model
		ModelPath:      getEnv("MODEL_PATH", "models/yolov8n.onnx"),
		ModelInputSize: getEnvInt("MODEL_INPUT_SIZE", 640),
		ConfThreshold:  getEnvFloat32("CONF_THRESHOLD", 0.25),
		NMSThreshold:   getEnvFloat32("NMS_THRESHOLD", 0.45),
		ClassNamesPath: getEnv("CLASS_NAMES_PATH", ""),

		// NATS
		NatsEnabled:        getEnvBool("NATS_ENABLED", false),
		NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		NatsConnectTimeout: getEnvDuration("NATS_CONNECT_TIMEOUT", 10*time.Second),
		NatsReconnectWait:  getEnvDuration("NATS_RECONNECT_WAIT", 2*time.Second),
		NatsMaxReconnects:  getEnvInt("NATS_MAX_RECONNECTS", -1), // -1 = unlimited
		EventsSubject:      getEnv("EVENTS_SUBJECT", "detections"),
		EventsCooldown:     getEnvDuration("EVENTS_COOLDOWN", 10*time.Second),

		// Graceful Shutdown
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(parsed)
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
