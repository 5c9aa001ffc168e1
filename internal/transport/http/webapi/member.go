package webapi

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kei-test/mega/internal/domain/attendance"
	httptransport "github.com/kei-test/mega/internal/transport/http"
)

// MemberService exposes the member-facing endpoints.
type MemberService struct {
	attendance *attendance.Service
	logger     *slog.Logger
}

func NewMemberService(attendanceSvc *attendance.Service, logger *slog.Logger) *MemberService {
	return &MemberService{attendance: attendanceSvc, logger: logger}
}

// Register wires the member routes onto an authenticated group.
func (s *MemberService) Register(router *gin.RouterGroup) {
	router.POST("/attendance/check-in", s.handleCheckIn)
	router.GET("/attendance/month", s.handleMonth)
	router.GET("/me", s.handleMe)
}

func (s *MemberService) handleCheckIn(c *gin.Context) {
	user := httptransport.Principal(c)
	if user == nil {
		httptransport.RespondError(c, http.StatusUnauthorized, "unknown account", nil)
		return
	}

	row, err := s.attendance.CheckIn(c.Request.Context(), user.ID, c.ClientIP())
	if err != nil {
		respondDomainError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusCreated, row, "checked in")
}

func (s *MemberService) handleMonth(c *gin.Context) {
	user := httptransport.Principal(c)
	if user == nil {
		httptransport.RespondError(c, http.StatusUnauthorized, "unknown account", nil)
		return
	}

	now := time.Now()
	year, _ := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	month, _ := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if month < 1 || month > 12 {
		httptransport.RespondError(c, http.StatusBadRequest, "invalid month", nil)
		return
	}

	rows, err := s.attendance.Month(c.Request.Context(), user.ID, year, time.Month(month))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, gin.H{"days": rows}, "")
}

func (s *MemberService) handleMe(c *gin.Context) {
	httptransport.RespondSuccess(c, http.StatusOK, httptransport.Principal(c), "")
}
