package webapi

import (
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	httptransport "github.com/kei-test/mega/internal/transport/http"
)

// SystemService reports host and process health for the admin dashboard.
type SystemService struct {
	logger  *slog.Logger
	started time.Time
}

func NewSystemService(logger *slog.Logger) *SystemService {
	return &SystemService{logger: logger, started: time.Now()}
}

func (s *SystemService) Register(router *gin.RouterGroup) {
	router.GET("/system/status", s.handleStatus)
}

type systemStatus struct {
	CPUPercent    float64 `json:"cpuPercent"`
	MemoryPercent float64 `json:"memoryPercent"`
	MemoryUsedMB  uint64  `json:"memoryUsedMb"`
	MemoryTotalMB uint64  `json:"memoryTotalMb"`
	HostUptimeSec uint64  `json:"hostUptimeSec"`
	AppUptimeSec  int64   `json:"appUptimeSec"`
	Goroutines    int     `json:"goroutines"`
}

func (s *SystemService) handleStatus(c *gin.Context) {
	status := systemStatus{
		AppUptimeSec: int64(time.Since(s.started).Seconds()),
		Goroutines:   runtime.NumGoroutine(),
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		status.CPUPercent = percents[0]
	} else if err != nil {
		s.logger.Debug("cpu stats unavailable", "error", err)
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		status.MemoryPercent = vm.UsedPercent
		status.MemoryUsedMB = vm.Used / 1024 / 1024
		status.MemoryTotalMB = vm.Total / 1024 / 1024
	} else {
		s.logger.Debug("memory stats unavailable", "error", err)
	}
	if uptime, err := host.Uptime(); err == nil {
		status.HostUptimeSec = uptime
	}

	httptransport.RespondSuccess(c, http.StatusOK, status, "")
}
