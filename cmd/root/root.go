package root

import (
	"fmt"

	"modkeeper/internal/config"
	"modkeeper/internal/env"
	"modkeeper/internal/logger"

	"github.com/spf13/cobra"
)

var (
	ConfigFile   string
	OutputFormat string
)

var RootCmd = &cobra.Command{
	Use:          env.AppName,
	Short:        "Haiku模组管理器",
	Long:         `modkeeper负责Haiku模组的下载、校验、安装、启用/停用、卸载，以及BepInEx运行时支持包的管理`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(ConfigFile); err != nil {
			return fmt.Errorf("load config failed: %v", err)
		}
		// 服务器模式下日志同时输出到控制台
		cfg := config.App()
		logger.InitLogger(cfg.Log.Path, cfg.Log.Level, isServerCommand(cmd))
		return nil
	},
}

func isServerCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "server" {
			return true
		}
	}
	return false
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&ConfigFile, "config", "c", "", "config file (default ./modkeeper.yaml or the user config dir)")
	RootCmd.PersistentFlags().StringVarP(&OutputFormat, "output", "o", "table", "output format: table, json, yaml")
}
