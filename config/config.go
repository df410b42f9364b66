// Package config holds the tuning knobs read from the environment. A .env
// file in the working directory is loaded first when present.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

var _ = godotenv.Load()

// Configuration variables. The CLI uses them as flag defaults.
var (
	BoardWidth   = getEnvInt("SNAKE_WIDTH", 16)
	BoardHeight  = getEnvInt("SNAKE_HEIGHT", 16)
	TickInterval = getEnvDuration("SNAKE_TICK_MS", 100*time.Millisecond)
	InputBuffer  = getEnvInt("SNAKE_INPUT_BUFFER", 16)
	ReplayRate   = rate.Limit(getEnvInt("SNAKE_REPLAY_FPS", 10))
	ReplayBurst  = getEnvInt("SNAKE_REPLAY_BURST", 1)
	MaxOpenConns = getEnvInt("MAX_OPEN_CONNS", 20)
	MaxIdleConns = getEnvInt("MAX_IDLE_CONNS", 20)
)

func getEnvInt(varName string, defaults int) int {
	val := os.Getenv(varName)
	if val == "" {
		return defaults
	}
	intVal, err := strconv.ParseInt(val, 10, 32)
	if err != nil {
		return defaults
	}
	return int(intVal)
}

// getEnvDuration reads a millisecond count.
func getEnvDuration(varName string, defaults time.Duration) time.Duration {
	ms := getEnvInt(varName, -1)
	if ms <= 0 {
		return defaults
	}
	return time.Duration(ms) * time.Millisecond
}
