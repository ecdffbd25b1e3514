package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"classtrack/internal/attendance"
	"classtrack/internal/auth"
)

func (h *Handler) studentAttendance(c *gin.Context) {
	views, stats, err := h.attendance.StudentAttendance(c.Request.Context(), auth.IdentityFrom(c).UserID)
	if err != nil {
		h.serverError(c, err)
		return
	}
	if views == nil {
		views = []attendance.RecordView{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "attendance": views, "statistics": stats})
}

func (h *Handler) studentSubjectAttendance(c *gin.Context) {
	breakdown, overall, err := h.attendance.SubjectBreakdown(c.Request.Context(), auth.IdentityFrom(c).UserID)
	if err != nil {
		h.serverError(c, err)
		return
	}
	if breakdown == nil {
		breakdown = []attendance.SubjectStats{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "subject_stats": breakdown, "overall_percentage": overall})
}

func (h *Handler) studentTimetable(c *gin.Context) {
	tt, err := h.attendance.Timetable(c.Request.Context(), auth.IdentityFrom(c).UserID)
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "timetable": tt})
}
