package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"classtrack/internal/roster"
)

func (h *Handler) addTeacher(c *gin.Context) {
	var f roster.TeacherFields
	if err := c.ShouldBindJSON(&f); err != nil || f.TeacherID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "teacher_id required"})
		return
	}
	err := h.roster.AddTeacher(c.Request.Context(), f)
	if errors.Is(err, roster.ErrDuplicateID) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Teacher ID already exists"})
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Teacher added successfully"})
}

func (h *Handler) listTeachers(c *gin.Context) {
	teachers, err := h.roster.ListTeachers(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}
	if teachers == nil {
		teachers = []roster.TeacherDetail{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "teachers": teachers})
}

func (h *Handler) getTeacher(c *gin.Context) {
	teacher, err := h.roster.GetTeacher(c.Request.Context(), c.Param("id"))
	if errors.Is(err, roster.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Teacher not found"})
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "teacher": teacher})
}

func (h *Handler) updateTeacher(c *gin.Context) {
	var f roster.TeacherFields
	if err := c.ShouldBindJSON(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if err := h.roster.UpdateTeacher(c.Request.Context(), c.Param("id"), f); err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Teacher updated successfully"})
}

func (h *Handler) deleteTeacher(c *gin.Context) {
	if err := h.roster.DeleteTeacher(c.Request.Context(), c.Param("id")); err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Teacher deleted successfully"})
}

func (h *Handler) availableData(c *gin.Context) {
	departments, subjects, err := h.roster.AvailableData(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "departments": departments, "subjects": subjects})
}
