package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/biblioteca-dev/book-asset-service/utils"
)

func (ctrl *Controller) HealthCheck(c *gin.Context) {
	ctx := c.Request.Context()

	status := gin.H{
		"status":   "ok",
		"postgres": "up",
		"minio":    "up",
	}
	healthy := true

	sqlDB, err := ctrl.Infra.Postgres.DB.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Health] Postgres ping failed")
		status["postgres"] = "down"
		healthy = false
	}

	if !ctrl.Infra.Minio.Online(ctx) {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, nil, "[Health] MinIO is unreachable")
		status["minio"] = "down"
		healthy = false
	}

	if !healthy {
		status["status"] = "degraded"
		utils.JSON503(c, status)
		return
	}
	utils.JSON200(c, status)
}
