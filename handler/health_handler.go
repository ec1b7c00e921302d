package handler

import (
	"context"
	"time"

	"myhabits/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type HealthHandler struct {
	mongoClient *mongo.Client
	startedAt   time.Time
}

func NewHealthHandler(mongoClient *mongo.Client) *HealthHandler {
	return &HealthHandler{
		mongoClient: mongoClient,
		startedAt:   time.Now(),
	}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "up"
	if err := h.mongoClient.Ping(ctx, readpref.Primary()); err != nil {
		dbStatus = "down"
	}

	utils.Success(c, gin.H{
		"status":         "ok",
		"database":       dbStatus,
		"uptime_seconds": int(time.Since(h.startedAt).Seconds()),
		"cpu_percent":    utils.GetCPUUsage(),
		"memory_percent": utils.GetMemoryUsage(),
	})
}
