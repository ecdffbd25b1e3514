// Package handler maps the roster and attendance services onto the HTTP
// API. Routes, payloads and response envelopes mirror the original
// deployment so existing frontends keep working.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"classtrack/internal/attendance"
	"classtrack/internal/auth"
	"classtrack/internal/config"
	"classtrack/internal/roster"
	"classtrack/internal/store"
)

// Handler wires services to gin routes.
type Handler struct {
	cfg        config.App
	guard      *store.Guard
	roster     *roster.Service
	attendance *attendance.Service
	revoker    *auth.Revoker
	mw         *auth.Middleware
	redis      *store.Redis
}

// New builds a handler. redis may be nil.
func New(cfg config.App, guard *store.Guard, redis *store.Redis) *Handler {
	var revoker *auth.Revoker
	if redis != nil {
		revoker = auth.NewRevoker(redis.Client)
	} else {
		revoker = auth.NewRevoker(nil)
	}
	mw := &auth.Middleware{
		SigningKey: cfg.JWTSigningKey,
		Issuer:     cfg.JWTIssuer,
		Revoker:    revoker,
	}
	if cfg.LegacyIdentityFallback {
		mw.Fallbacks = auth.LegacyFallbacks()
	}
	return &Handler{
		cfg:        cfg,
		guard:      guard,
		roster:     roster.NewService(guard),
		attendance: attendance.NewService(guard),
		revoker:    revoker,
		mw:         mw,
		redis:      redis,
	}
}

// Register attaches every route to the engine.
func (h *Handler) Register(r *gin.Engine) {
	api := r.Group("/api")

	api.POST("/login", h.login)
	api.POST("/logout", h.mw.Require(), h.logout)

	admin := api.Group("/admin", h.mw.Require("admin"))
	admin.POST("/add-teacher", h.addTeacher)
	admin.GET("/teachers", h.listTeachers)
	admin.GET("/teacher/:id", h.getTeacher)
	admin.PUT("/teacher/:id", h.updateTeacher)
	admin.DELETE("/teacher/:id", h.deleteTeacher)
	admin.GET("/available-data", h.availableData)

	teacher := api.Group("/teacher", h.mw.Require("teacher"))
	teacher.POST("/add-student", h.addStudent)
	teacher.POST("/mark-attendance", h.markAttendance)
	teacher.GET("/students", h.teacherStudents)
	teacher.GET("/student-details", h.studentDetails)
	teacher.GET("/subjects", h.teacherSubjects)
	teacher.GET("/view-attendance", h.viewAttendance)
	teacher.GET("/available-departments", h.availableDepartments)
	teacher.PUT("/update-student/:id", h.updateStudent)
	teacher.DELETE("/delete-student/:id", h.deleteStudent)

	student := api.Group("/student", h.mw.Require("student"))
	student.GET("/attendance", h.studentAttendance)
	student.GET("/subject-attendance", h.studentSubjectAttendance)
	student.GET("/timetable", h.studentTimetable)

	api.GET("/system/stats", h.systemStats)
	api.GET("/check", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Server is alive"})
	})
	api.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Backend is running!"})
	})
}

type loginRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	var user store.User
	err := h.guard.View(c.Request.Context(), func(doc *store.Document) error {
		var err error
		user, err = auth.Authenticate(doc, req.UserID, req.Password, req.Role)
		return err
	})
	if errors.Is(err, auth.ErrInvalidRole) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid role"})
		return
	}
	if errors.Is(err, auth.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}

	sess, err := auth.Issue(auth.Identity{UserID: user.UserID, Role: req.Role, Name: user.Name},
		h.cfg.JWTIssuer, h.cfg.JWTSigningKey, h.cfg.SessionTTL)
	if err != nil {
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   sess.Token,
		"user": gin.H{
			"user_id":    user.UserID,
			"name":       user.Name,
			"role":       req.Role,
			"email":      user.Email,
			"department": user.Department,
		},
	})
}

func (h *Handler) logout(c *gin.Context) {
	if claims, ok := auth.ClaimsFrom(c); ok && claims.ExpiresAt != nil {
		if err := h.revoker.Revoke(c.Request.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
			h.serverError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

func (h *Handler) systemStats(c *gin.Context) {
	stats, err := h.attendance.Stats(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

func (h *Handler) serverError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
}
