package utils

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/jasonyao09/active-recall-study-assistant/config"
	"github.com/jasonyao09/active-recall-study-assistant/llm"

	"github.com/robfig/cron/v3"
)

// OllamaStatus is the cached result of the last availability probe
type OllamaStatus struct {
	OllamaRunning   bool     `json:"ollama_running"`
	ModelAvailable  bool     `json:"model_available"`
	ModelName       string   `json:"model_name"`
	AvailableModels []string `json:"available_models"`
	Error           string   `json:"error,omitempty"`
	CheckedAt       string   `json:"checked_at"`
}

var (
	statusMu   sync.RWMutex
	lastStatus OllamaStatus
)

// logMonitor logs health monitor events with timestamp
func logMonitor(message string) {
	log.Printf("[HEALTH-MONITOR %s] %s", time.Now().Format(time.RFC3339), message)
}

func probeOllama(client *llm.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	status := OllamaStatus{
		ModelName: client.Model(),
		CheckedAt: time.Now().UTC().Format(time.RFC3339),
	}

	running, names, err := client.Status(ctx)
	if err != nil {
		status.Error = err.Error()
		logMonitor("Ollama unreachable: " + err.Error())
	} else {
		status.OllamaRunning = running
		status.AvailableModels = names
		status.ModelAvailable = client.ModelAvailable(names)
		if !status.ModelAvailable {
			logMonitor("Configured model " + client.Model() + " not found in Ollama tags")
		}
	}

	statusMu.Lock()
	lastStatus = status
	statusMu.Unlock()
}

// StartHealthMonitor probes Ollama once immediately and then on the
// configured cron schedule
func StartHealthMonitor(client *llm.Client) *cron.Cron {
	probeOllama(client)

	c := cron.New()
	if _, err := c.AddFunc(config.AppConfig.HealthCheckSpec, func() { probeOllama(client) }); err != nil {
		log.Printf("Failed to schedule health probe: %v", err)
		return c
	}
	c.Start()
	logMonitor("Started with schedule " + config.AppConfig.HealthCheckSpec)
	return c
}

// CurrentOllamaStatus returns the most recent probe result
func CurrentOllamaStatus() OllamaStatus {
	statusMu.RLock()
	defer statusMu.RUnlock()
	return lastStatus
}
