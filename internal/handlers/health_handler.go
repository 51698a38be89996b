package handlers

import (
	"time"

	"github.com/denizocal/photostream/internal/dto"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status, dbStatus, code := "ok", "up", fiber.StatusOK
	if sqlDB, err := h.db.DB(); err != nil || sqlDB.Ping() != nil {
		status, dbStatus, code = "degraded", "down", fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(dto.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
	})
}
