package controllers

import (
	"errors"
	"strconv"

	"modkeeper/internal/archive"
	"modkeeper/internal/integrity"
	"modkeeper/internal/logger"
	"modkeeper/internal/models"
	"modkeeper/services"

	"github.com/gin-gonic/gin"
)

const APIPrefix = "/modkeeper/api/v1"

type ModController struct {
	mods *services.ModManager
}

/**
 * Create new mod controller instance
 * @param {*services.ModManager} mods - Mod manager instance
 * @returns {*ModController} New mod controller instance
 * @example
 * controller := controllers.NewModController(services.GetModManager())
 * controller.RegisterRoutes(router)
 */
func NewModController(mods *services.ModManager) *ModController {
	return &ModController{
		mods: mods,
	}
}

/**
 * Register mod and runtime support routes
 * @param {*gin.Engine} r - Gin engine
 * @description
 * - Mods: list/get/install/toggle/uninstall
 * - Runtime support: status/install/toggle
 */
func (c *ModController) RegisterRoutes(r *gin.Engine) {
	api := r.Group(APIPrefix)
	// 模组管理接口
	api.GET("/mods", c.ListMods)
	api.GET("/mods/:name", c.GetMod)
	api.POST("/mods/:name/install", c.InstallMod)
	api.POST("/mods/:name/toggle", c.ToggleMod)
	api.DELETE("/mods/:name", c.UninstallMod)
	// 运行时支持包
	api.GET("/api", c.GetApi)
	api.POST("/api/install", c.InstallApi)
	api.POST("/api/toggle", c.ToggleApi)
}

// @Summary 获取模组列表
// @Description 获取目录中全部模组及其安装状态
// @Tags Mods
// @Produce json
// @Success 200 {array} models.ModDetail
// @Router /modkeeper/api/v1/mods [get]
func (c *ModController) ListMods(g *gin.Context) {
	g.JSON(200, c.mods.GetMods())
}

// @Summary 获取模组详情
// @Tags Mods
// @Param name path string true "模组名称"
// @Success 200 {object} models.ModDetail
// @Failure 404 {object} models.ErrorResponse
// @Router /modkeeper/api/v1/mods/{name} [get]
func (c *ModController) GetMod(g *gin.Context) {
	mod, err := c.mods.GetMod(g.Param("name"))
	if err != nil {
		respondModError(g, err)
		return
	}
	g.JSON(200, mod.GetDetail())
}

// @Summary 安装或更新模组
// @Description 安装模组及其依赖，enable=false 时安装到禁用目录
// @Tags Mods
// @Param name path string true "模组名称"
// @Param enable query bool false "安装后是否启用" default(true)
// @Success 200 {object} models.ModDetail
// @Failure 404 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /modkeeper/api/v1/mods/{name}/install [post]
func (c *ModController) InstallMod(g *gin.Context) {
	name := g.Param("name")
	enable := true
	if v := g.Query("enable"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			respondError(g, 400, "request.invalid", "Invalid 'enable' value: "+v)
			return
		}
		enable = b
	}
	progress := func(p models.ModProgress) {
		if p.Download != nil {
			logger.Debugf("Download '%s': %d/%d bytes", name, p.Download.BytesRead, p.Download.TotalBytes)
		}
	}
	if err := c.mods.Install(g.Request.Context(), name, enable, progress); err != nil {
		respondModError(g, err)
		return
	}
	c.GetMod(g)
}

// @Summary 启用或禁用模组
// @Tags Mods
// @Param name path string true "模组名称"
// @Success 200 {object} models.ModDetail
// @Failure 409 {object} models.ErrorResponse "模组未安装"
// @Router /modkeeper/api/v1/mods/{name}/toggle [post]
func (c *ModController) ToggleMod(g *gin.Context) {
	if err := c.mods.Toggle(g.Request.Context(), g.Param("name")); err != nil {
		respondModError(g, err)
		return
	}
	c.GetMod(g)
}

// @Summary 卸载模组
// @Tags Mods
// @Param name path string true "模组名称"
// @Success 200 {object} models.ModDetail
// @Failure 404 {object} models.ErrorResponse
// @Router /modkeeper/api/v1/mods/{name} [delete]
func (c *ModController) UninstallMod(g *gin.Context) {
	if err := c.mods.Uninstall(g.Request.Context(), g.Param("name")); err != nil {
		respondModError(g, err)
		return
	}
	c.GetMod(g)
}

// @Summary 获取运行时支持包状态
// @Tags Api
// @Success 200 {object} models.ApiDetail
// @Router /modkeeper/api/v1/api [get]
func (c *ModController) GetApi(g *gin.Context) {
	g.JSON(200, c.mods.ApiState())
}

// @Summary 安装运行时支持包
// @Tags Api
// @Success 200 {object} models.ApiDetail
// @Router /modkeeper/api/v1/api/install [post]
func (c *ModController) InstallApi(g *gin.Context) {
	if err := c.mods.InstallApi(g.Request.Context()); err != nil {
		respondModError(g, err)
		return
	}
	g.JSON(200, c.mods.ApiState())
}

// @Summary 启用或禁用运行时支持包
// @Tags Api
// @Success 200 {object} models.ApiDetail
// @Failure 409 {object} models.ErrorResponse "运行时支持包未安装"
// @Router /modkeeper/api/v1/api/toggle [post]
func (c *ModController) ToggleApi(g *gin.Context) {
	if err := c.mods.ToggleApi(g.Request.Context()); err != nil {
		respondModError(g, err)
		return
	}
	g.JSON(200, c.mods.ApiState())
}

// respondModError 将领域错误映射为HTTP状态码
func respondModError(g *gin.Context, err error) {
	var mismatch *integrity.HashMismatchError
	switch {
	case errors.Is(err, services.ErrModNotFound):
		respondError(g, 404, "mod.not_found", err.Error())
	case errors.Is(err, services.ErrInvalidOperation):
		respondError(g, 409, "mod.invalid_operation", err.Error())
	case errors.Is(err, services.ErrDependencyCycle):
		respondError(g, 409, "mod.dependency_cycle", err.Error())
	case errors.As(err, &mismatch):
		respondError(g, 422, "mod.checksum_mismatch", err.Error())
	case errors.Is(err, archive.ErrPathTraversal):
		respondError(g, 422, "mod.path_traversal", err.Error())
	case errors.Is(err, services.ErrUnsupportedFormat):
		respondError(g, 422, "mod.unsupported_format", err.Error())
	default:
		respondError(g, 500, "mod.operation_failed", err.Error())
	}
}

func respondError(g *gin.Context, status int, code, message string) {
	g.JSON(status, models.ErrorResponse{Code: code, Message: message})
}

func respondOK(g *gin.Context, message string) {
	g.JSON(200, models.StatusResponse{Status: "success", Message: message})
}
