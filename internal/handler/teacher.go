package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"classtrack/internal/attendance"
	"classtrack/internal/auth"
	"classtrack/internal/roster"
)

func (h *Handler) addStudent(c *gin.Context) {
	var f roster.StudentFields
	if err := c.ShouldBindJSON(&f); err != nil || f.StudentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "student_id required"})
		return
	}
	err := h.roster.AddStudent(c.Request.Context(), f)
	if errors.Is(err, roster.ErrDuplicateID) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Student ID already exists"})
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Student added successfully"})
}

type markAttendanceRequest struct {
	Date       string            `json:"date" binding:"required"`
	Department string            `json:"department" binding:"required"`
	Subject    string            `json:"subject" binding:"required"`
	Statuses   map[string]string `json:"attendance_data" binding:"required"`
}

func (h *Handler) markAttendance(c *gin.Context) {
	var req markAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	teacherID := auth.IdentityFrom(c).UserID
	err := h.attendance.Mark(c.Request.Context(), teacherID, req.Date, req.Department, req.Subject, req.Statuses)
	var notAuth *attendance.NotAuthorizedError
	if errors.As(err, &notAuth) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": notAuth.Error()})
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Attendance marked successfully"})
}

func (h *Handler) teacherStudents(c *gin.Context) {
	students, err := h.attendance.TeacherStudents(c.Request.Context(), auth.IdentityFrom(c).UserID)
	if err != nil {
		h.serverError(c, err)
		return
	}
	if students == nil {
		students = []attendance.StudentOverview{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "students": students})
}

func (h *Handler) studentDetails(c *gin.Context) {
	details, err := h.attendance.StudentDetails(c.Request.Context(), auth.IdentityFrom(c).UserID)
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "student_details": details})
}

func (h *Handler) teacherSubjects(c *gin.Context) {
	subjects, departments, err := h.attendance.TeacherSubjects(c.Request.Context(), auth.IdentityFrom(c).UserID)
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "subjects": subjects, "departments": departments})
}

func (h *Handler) viewAttendance(c *gin.Context) {
	data, err := h.attendance.ViewAttendance(c.Request.Context(), auth.IdentityFrom(c).UserID)
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "attendance_data": data})
}

func (h *Handler) availableDepartments(c *gin.Context) {
	departments, _, err := h.roster.AvailableData(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "departments": departments})
}

func (h *Handler) updateStudent(c *gin.Context) {
	var f roster.StudentFields
	if err := c.ShouldBindJSON(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if err := h.roster.UpdateStudent(c.Request.Context(), c.Param("id"), f); err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Student updated successfully"})
}

func (h *Handler) deleteStudent(c *gin.Context) {
	if err := h.roster.DeleteStudent(c.Request.Context(), c.Param("id")); err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Student deleted successfully"})
}
