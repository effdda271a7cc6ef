package controllers

import (
	"modkeeper/internal/config"
	"modkeeper/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type APIController struct {
	server *services.Server
}

/**
 * Create new API controller instance
 * @param {*services.Server} server - Server instance providing health and catalog refresh
 * @returns {*APIController} New API controller instance
 */
func NewAPIController(server *services.Server) *APIController {
	return &APIController{
		server: server,
	}
}

/**
 * Register system routes
 * @param {*gin.Engine} r - Gin engine
 * @description
 * - POST /modkeeper/api/v1/reload applies the config file and refetches the catalog
 * - GET /healthz returns health and key statistics
 * - GET /metrics exposes prometheus metrics
 */
func (a *APIController) RegisterRoutes(r *gin.Engine) {
	r.POST(APIPrefix+"/reload", a.Reload)
	r.GET("/healthz", a.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// @Summary 重新加载配置和模组目录
// @Description 重新读取配置文件，应用目录布局、运行时支持包和目录地址，并重新获取远程模组目录；监听地址、日志和状态文件需要重启
// @Tags System
// @Success 200 {object} models.StatusResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /modkeeper/api/v1/reload [post]
func (a *APIController) Reload(c *gin.Context) {
	cfg, err := config.ReloadConfig()
	if err != nil {
		respondError(c, 500, "config.reload_failed", "Failed to reload configuration: "+err.Error())
		return
	}
	if err := a.server.Mods().Reconfigure(c.Request.Context(), cfg); err != nil {
		respondError(c, 400, "config.invalid", "Failed to apply configuration: "+err.Error())
		return
	}
	config.SetApp(cfg)
	if err := a.server.Mods().Reload(c.Request.Context()); err != nil {
		respondError(c, 502, "catalog.fetch_failed", "Failed to reload catalog: "+err.Error())
		return
	}
	respondOK(c, "Configuration and catalog reloaded successfully")
}

// @Summary 业务就绪探针
// @Description 检查服务是否已经做好准备，返回服务版本、启动时间、健康状态和关键指标统计结果
// @Tags System
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /healthz [get]
func (a *APIController) Healthz(c *gin.Context) {
	c.JSON(200, a.server.GetHealthz())
}
