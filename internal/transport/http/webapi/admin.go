package webapi

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kei-test/mega/internal/domain/access"
	"github.com/kei-test/mega/internal/domain/audit"
	"github.com/kei-test/mega/internal/domain/experience"
	"github.com/kei-test/mega/internal/domain/history"
	httptransport "github.com/kei-test/mega/internal/transport/http"
)

// AdminService exposes the admin screens: IP list management, login
// history, experience records, audit trail.
type AdminService struct {
	blocklist  access.BlocklistRepository
	allowlist  access.AllowlistRepository
	cache      *access.CachedBlocklist
	historyDB  history.Store
	experience *experience.Service
	auditor    *audit.Recorder
	logger     *slog.Logger
}

func NewAdminService(
	blocklist access.BlocklistRepository,
	allowlist access.AllowlistRepository,
	cache *access.CachedBlocklist,
	historyDB history.Store,
	experienceSvc *experience.Service,
	auditor *audit.Recorder,
	logger *slog.Logger,
) *AdminService {
	return &AdminService{
		blocklist:  blocklist,
		allowlist:  allowlist,
		cache:      cache,
		historyDB:  historyDB,
		experience: experienceSvc,
		auditor:    auditor,
		logger:     logger,
	}
}

// Register wires the admin routes onto an already-secured group.
func (s *AdminService) Register(router *gin.RouterGroup) {
	router.GET("/blocked-ips", s.handleBlockedIPList)
	router.POST("/blocked-ips", s.handleBlockedIPCreate)
	router.DELETE("/blocked-ips/:id", s.handleBlockedIPDelete)

	router.GET("/allowed-ips", s.handleAllowedIPList)
	router.POST("/allowed-ips", s.handleAllowedIPCreate)
	router.DELETE("/allowed-ips/:id", s.handleAllowedIPDelete)

	router.GET("/history/attempts", s.handleAttemptList)
	router.GET("/history/admin-attempts", s.handleAdminAttemptList)
	router.GET("/history/connections", s.handleConnectionList)

	router.GET("/experience/records", s.handleExperienceList)
	router.GET("/audit", s.handleAuditList)
}

func (s *AdminService) handleBlockedIPList(c *gin.Context) {
	page, size := pageParams(c)
	entries, total, err := s.blocklist.List(c.Request.Context(), page, size)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, gin.H{"entries": entries, "total": total}, "")
}

type blockedIPPayload struct {
	IP   string `json:"ip" binding:"required"`
	Note string `json:"note"`
}

func (s *AdminService) handleBlockedIPCreate(c *gin.Context) {
	var payload blockedIPPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "ip is required", nil)
		return
	}

	ctx := c.Request.Context()
	entry := &access.BlockedIP{IPContent: payload.IP, Note: payload.Note, Enabled: true}

	if ac := audit.FromContext(ctx); ac != nil {
		ac.AddDetail("ip", payload.IP)
		ac.AddDetail("note", payload.Note)
	}
	err := s.auditor.Record(ctx, "ip.block", func() error {
		return s.blocklist.Create(ctx, entry)
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, payload.IP)
	}
	httptransport.RespondSuccess(c, http.StatusCreated, entry, "ip blocked")
}

func (s *AdminService) handleBlockedIPDelete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "invalid id", nil)
		return
	}

	ctx := c.Request.Context()
	if ac := audit.FromContext(ctx); ac != nil {
		ac.SetTarget(uint(id), "")
	}
	err = s.auditor.Record(ctx, "ip.unblock", func() error {
		return s.blocklist.Delete(ctx, uint(id))
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	// The cached verdict for the unblocked address expires with its TTL;
	// the row id alone does not identify the address here.
	httptransport.RespondSuccess(c, http.StatusOK, nil, "ip unblocked")
}

func (s *AdminService) handleAllowedIPList(c *gin.Context) {
	page, size := pageParams(c)
	entries, total, err := s.allowlist.List(c.Request.Context(), page, size)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, gin.H{"entries": entries, "total": total}, "")
}

type allowedIPPayload struct {
	IP         string `json:"ip" binding:"required"`
	MemoStatus string `json:"memoStatus"`
	Memo       string `json:"memo"`
}

func (s *AdminService) handleAllowedIPCreate(c *gin.Context) {
	var payload allowedIPPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "ip is required", nil)
		return
	}

	ctx := c.Request.Context()
	entry := &access.AllowedIP{IP: payload.IP, MemoStatus: payload.MemoStatus, Memo: payload.Memo}
	if ac := audit.FromContext(ctx); ac != nil {
		ac.AddDetail("ip", payload.IP)
	}
	err := s.auditor.Record(ctx, "ip.allow", func() error {
		return s.allowlist.Create(ctx, entry)
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusCreated, entry, "ip allowlisted")
}

func (s *AdminService) handleAllowedIPDelete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "invalid id", nil)
		return
	}

	ctx := c.Request.Context()
	if ac := audit.FromContext(ctx); ac != nil {
		ac.SetTarget(uint(id), "")
	}
	err = s.auditor.Record(ctx, "ip.disallow", func() error {
		return s.allowlist.Delete(ctx, uint(id))
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, nil, "ip removed from allowlist")
}

func (s *AdminService) handleAttemptList(c *gin.Context) {
	rows, total, err := s.historyDB.ListAttempts(c.Request.Context(), historyFilter(c))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, gin.H{"rows": rows, "total": total}, "")
}

func (s *AdminService) handleAdminAttemptList(c *gin.Context) {
	rows, total, err := s.historyDB.ListAdminAttempts(c.Request.Context(), historyFilter(c))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, gin.H{"rows": rows, "total": total}, "")
}

// handleConnectionList groups connection rows by source address so shared
// IPs stand out.
func (s *AdminService) handleConnectionList(c *gin.Context) {
	rows, err := s.historyDB.ListConnectionInfos(c.Request.Context(), historyFilter(c))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	grouped := make(map[string][]history.ConnectionInfo)
	var order []string
	for _, row := range rows {
		if _, ok := grouped[row.AccessedIP]; !ok {
			order = append(order, row.AccessedIP)
		}
		grouped[row.AccessedIP] = append(grouped[row.AccessedIP], row)
	}

	type ipGroup struct {
		IP    string                   `json:"ip"`
		Count int                      `json:"count"`
		Rows  []history.ConnectionInfo `json:"rows"`
	}
	groups := make([]ipGroup, 0, len(order))
	for _, ip := range order {
		groups = append(groups, ipGroup{IP: ip, Count: len(grouped[ip]), Rows: grouped[ip]})
	}
	httptransport.RespondSuccess(c, http.StatusOK, gin.H{"groups": groups}, "")
}

func (s *AdminService) handleExperienceList(c *gin.Context) {
	page, size := pageParams(c)
	rows, total, err := s.experience.List(c.Request.Context(), experience.Filter{
		Username: c.Query("username"),
		Nickname: c.Query("nickname"),
		Category: experience.Category(c.Query("category")),
		Page:     page,
		Size:     size,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, gin.H{"rows": rows, "total": total}, "")
}

func (s *AdminService) handleAuditList(c *gin.Context) {
	page, size := pageParams(c)
	rows, total, err := s.auditor.List(c.Request.Context(), audit.Filter{
		Action: c.Query("action"),
		Actor:  c.Query("actor"),
		Page:   page,
		Size:   size,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, gin.H{"rows": rows, "total": total}, "")
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	return page, size
}

func historyFilter(c *gin.Context) history.Filter {
	page, size := pageParams(c)
	f := history.Filter{
		Username: c.Query("username"),
		Nickname: c.Query("nickname"),
		IP:       c.Query("ip"),
		Page:     page,
		Size:     size,
	}
	if v := c.Query("from"); v != "" {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			f.From = &ts
		}
	}
	if v := c.Query("to"); v != "" {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			f.To = &ts
		}
	}
	return f
}
