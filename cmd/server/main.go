// cmd/server/main.go

// 本服務提供可組裝車輛（車型 + 加裝配備）的 RESTful API，並保留每台車的編輯歷史以供還原。
// 此檔案定義 CLI 入口（cobra）；serve.go 負責初始化各模組（config, registry, server,
// observability）並啟動 HTTP 伺服器。所有狀態僅存在於行程記憶體中。
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version 於建置時以 -ldflags "-X main.version=..." 注入。
var version = "dev"

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "autoshop",
		Short: "Vehicle configuration service with per-vehicle edit history",
		Long: `autoshop assembles vehicles from a base variant plus optional features,
records a snapshot on every change, and can roll any vehicle back to an earlier version.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
	root.AddCommand(serveCmd, versionCmd)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
