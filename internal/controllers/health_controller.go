package controllers

import (
	"fmt"
	json "github.com/goccy/go-json"
	"net/http"
	"reelsd/internal/timer"
	"reelsd/internal/tracker"
	"time"
)

type HealthController struct {
	service   tracker.ServiceInterface
	timer     timer.ControllerInterface
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Tracking      bool    `json:"tracking"`
	Background    bool    `json:"background"`
	Revision      uint64  `json:"revision"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	status := hc.timer.Status()
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Tracking:      status.Running,
		Background:    status.Background,
		Revision:      hc.service.Revision(),
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(service tracker.ServiceInterface, timerController timer.ControllerInterface) *HealthController {
	return &HealthController{
		service:   service,
		timer:     timerController,
		startTime: time.Now(),
	}
}
