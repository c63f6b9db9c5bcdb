// Package main provides the tfoods CLI entry point.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/timeglass/tfoods/internal/logging"
	"github.com/timeglass/tfoods/internal/manager"
	"github.com/timeglass/tfoods/pkg/config"
	"github.com/timeglass/tfoods/pkg/deploy"
	"github.com/timeglass/tfoods/pkg/game"
	"github.com/timeglass/tfoods/pkg/registry"
	"github.com/timeglass/tfoods/pkg/resolver"
	"github.com/timeglass/tfoods/pkg/server"
	"github.com/timeglass/tfoods/pkg/service"
	"github.com/timeglass/tfoods/pkg/sync"
)

var (
	version = "0.3.0"
	commit  = "dev"
)

func main() {
	_ = godotenv.Load()

	var configPath string

	rootCmd := &cobra.Command{
		Use:   "tfoods",
		Short: "tfoods - food buff registry tooling",
		Long: `tfoods maintains a file-per-node registry of food items and their
buffs, resolves effective buffs through ingredient edges, syncs the
registry against recipe dumps, and mirrors content into game instances.`,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "tfoods.yaml", "path to config file")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tfoods v%s (%s)\n", version, commit)
		},
	})

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dev inspection server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			log, err := logging.New(cfg.LogMode)
			if err != nil {
				return err
			}
			defer log.Sync()

			mgr := manager.NewInstanceManager(cfg.Server.InstancesDir, log)
			defer mgr.CloseAll()

			log.Infow("starting dev server",
				"port", cfg.Server.Port,
				"instances", cfg.Server.InstancesDir)
			return server.NewServer(mgr).Run(":" + cfg.Server.Port)
		},
	}
	rootCmd.AddCommand(serveCmd)

	syncCmd := &cobra.Command{
		Use:   "sync [inputs...]",
		Short: "Sync registry nodes from recipe dumps",
		Long: `Scan mod jars and datapack folders for recipes, rebuild the direct
ingredient map, and reconcile the node registry against it. Hand-assigned
buffs are never touched; nodes are disabled rather than deleted.`,
		Args: cobra.MinimumNArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			log, err := logging.New(cfg.LogMode)
			if err != nil {
				return err
			}
			defer log.Sync()

			inputs := args
			if len(inputs) == 0 {
				inputs = cfg.ScanInputs
			}
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			mapOut, _ := cmd.Flags().GetString("direct-map")

			report, err := sync.Run(sync.Options{
				Inputs:       inputs,
				EdiblesPath:  cfg.EdiblesPath,
				RegistryDir:  cfg.RegistryDir,
				DirectMapOut: mapOut,
				DryRun:       dryRun,
			}, log)
			if err != nil {
				return err
			}
			log.Infow("sync complete",
				"run_id", report.RunID,
				"recipes", report.Scan.Recipes,
				"created", report.Sync.Created,
				"updated", report.Sync.Updated,
				"disabled", report.Sync.Disabled)
			return nil
		},
	}
	syncCmd.Flags().Bool("dry-run", false, "report changes without writing")
	syncCmd.Flags().String("direct-map", "", "also write the direct ingredient map to this path")
	rootCmd.AddCommand(syncCmd)

	deployCmd := &cobra.Command{
		Use:   "deploy <instance-dir>",
		Short: "Mirror content folders into a game instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			log, err := logging.New(cfg.LogMode)
			if err != nil {
				return err
			}
			defer log.Sync()

			dryRun, _ := cmd.Flags().GetBool("dry-run")
			source, _ := cmd.Flags().GetString("source")
			if source == "" {
				source = "."
			}

			report, err := deploy.Mirror(deploy.Options{
				SourceDir: source,
				TargetDir: args[0],
				Folders:   cfg.ContentFolders,
				DryRun:    dryRun,
			}, log)
			if err != nil {
				return err
			}
			log.Infow("deploy complete",
				"run_id", report.RunID,
				"copied", report.Copied,
				"skipped", report.Skipped,
				"deleted", report.Deleted,
				"dry_run", report.DryRun)
			return nil
		},
	}
	deployCmd.Flags().Bool("dry-run", false, "report changes without writing")
	deployCmd.Flags().String("source", "", "content repository root (default: current directory)")
	rootCmd.AddCommand(deployCmd)

	manifestCmd := &cobra.Command{
		Use:   "manifest",
		Short: "Regenerate the node id manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			log, err := logging.New(cfg.LogMode)
			if err != nil {
				return err
			}
			defer log.Sync()

			nodesDir := filepath.Join(cfg.RegistryDir, "nodes")
			manifest, err := registry.GenerateManifest(nodesDir)
			if err != nil {
				return err
			}
			out := filepath.Join(cfg.RegistryDir, "generated", "node_ids.json")
			if err := registry.WriteJSON(out, manifest); err != nil {
				return err
			}
			log.Infow("manifest written", "path", out, "nodes", manifest.NodeCount)
			return nil
		},
	}
	rootCmd.AddCommand(manifestCmd)

	resolveCmd := &cobra.Command{
		Use:   "resolve <item-id>",
		Short: "Resolve the effective buffs for an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			log, err := logging.New(cfg.LogMode)
			if err != nil {
				return err
			}
			defer log.Sync()

			itemsPath, _ := cmd.Flags().GetString("items")
			items := game.NewTable(nil, nil, nil)
			if itemsPath != "" {
				items, err = game.LoadTable(itemsPath)
				if err != nil {
					return err
				}
			}

			roots := []string{filepath.Join(cfg.RegistryDir, "nodes")}
			manifests := []string{filepath.Join(cfg.RegistryDir, "generated", "node_ids.json")}

			store := registry.NewStore(roots, log)
			res := resolver.New(store, log)
			idx := resolver.BuildIndex(store, items, manifests, log)
			svc := service.NewBuffService(res, idx, log)

			buffs := svc.EffectiveBuffsForItem(game.Item{ID: args[0], Count: 1})
			if len(buffs) == 0 {
				fmt.Printf("%s: no buffs\n", args[0])
				return nil
			}
			for _, app := range svc.OnItemEaten(game.Item{ID: args[0], Count: 1}) {
				fmt.Printf("%s  duration=%d amplifier=%d chance=%.2f\n",
					app.Effect, app.Duration, app.Amplifier, app.Chance)
			}
			return nil
		},
	}
	resolveCmd.Flags().String("items", "", "path to an item table dump for tag matching")
	rootCmd.AddCommand(resolveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
