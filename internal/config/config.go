package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by ARBITER_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("ARBITER_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

func floatEnv(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

// WeightMin returns the lower reputation weight clamp bound.
func WeightMin() float64 {
	return floatEnv("WEIGHT_MIN", 0.1)
}

// WeightMax returns the upper reputation weight clamp bound.
func WeightMax() float64 {
	return floatEnv("WEIGHT_MAX", 5.0)
}

// InitialWeight is the weight every agent starts with.
func InitialWeight() float64 {
	return floatEnv("INITIAL_WEIGHT", 1.0)
}

// RewardMajorityCorrect is the multiplier for agents that voted with a
// correct consensus.
func RewardMajorityCorrect() float64 {
	return floatEnv("REWARD_MAJORITY_CORRECT", 1.05)
}

// PenaltyMinorityWrong is the multiplier for agents that dissented from a
// correct consensus.
func PenaltyMinorityWrong() float64 {
	return floatEnv("PENALTY_MINORITY_WRONG", 0.90)
}

// RewardMinorityCorrect is the multiplier for agents that were right while
// the consensus was wrong.
func RewardMinorityCorrect() float64 {
	return floatEnv("REWARD_MINORITY_CORRECT", 1.15)
}

// PenaltyMajorityWrong is the multiplier for agents that voted with a wrong
// consensus.
func PenaltyMajorityWrong() float64 {
	return floatEnv("PENALTY_MAJORITY_WRONG", 0.85)
}

// LabelOrder returns the comma-separated label set in canonical tie-break
// order. Defaults to "spam,ham".
func LabelOrder() string {
	order := os.Getenv("LABEL_ORDER")
	if order == "" {
		return "spam,ham"
	}
	return order
}

// ClassifierProvider returns the configured classifier provider.
// Valid values: http, mock. Defaults to "mock".
func ClassifierProvider() string {
	p := os.Getenv("CLASSIFIER_PROVIDER")
	if p == "" {
		return "mock"
	}
	return p
}

// ModelServerURL is the base URL of the external model server used by the
// http classifier provider.
func ModelServerURL() string {
	return os.Getenv("MODEL_SERVER_URL")
}

// ClassifierNames returns the agent ids in the pool.
func ClassifierNames() []string {
	raw := os.Getenv("CLASSIFIER_NAMES")
	if raw == "" {
		raw = "naive_bayes,logistic_regression,random_forest,svm"
	}
	var names []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			names = append(names, part)
		}
	}
	return names
}

// SnapshotInterval returns how often live reputation weights are flushed to
// the database. Defaults to 60 seconds.
func SnapshotInterval() time.Duration {
	secs, err := strconv.Atoi(os.Getenv("SNAPSHOT_INTERVAL_SECONDS"))
	if err != nil || secs <= 0 {
		return 60 * time.Second
	}
	return time.Duration(secs) * time.Second
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}
