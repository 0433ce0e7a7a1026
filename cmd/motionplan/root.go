package main

import (
	"fmt"
	"os"

	"github.com/aretw0/motionplan/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "motionplan",
	Short: "motionplan solves vehicle planning problems with motion-primitive graph search",
	Long: `motionplan chains precomputed motion primitives from an initial state until a goal
region is reached. A batch file selects planner, vehicle and limits per scenario;
scenarios are solved in parallel and summarized in a stored report.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "Batch configuration file (YAML or JSON)")
	flags.String("primitives", "", "Directory of motion primitive files (default: built-in lattice)")
	flags.String("store", cli.StoreFile, "Report store: file, redis, sqlite or memory")
	flags.String("reports-dir", "", "Report directory for the file store (default .motionplan/reports)")
	flags.String("redis-addr", "localhost:6379", "Redis address")
	flags.String("redis-password", "", "Redis password")
	flags.Int("redis-db", 0, "Redis database")
	flags.Duration("report-ttl", 0, "Report expiry in Redis (0 keeps reports)")
	flags.String("sqlite-dsn", "", "SQLite database file")
	flags.String("checkers", "checkers.yaml", "File listing external solution checkers")
	flags.String("checker", "", "Name of the external solution checker to run on solved scenarios")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
}

// options collects the persistent flags shared by every command.
func options(cmd *cobra.Command) cli.Options {
	flags := cmd.Flags()
	opts := cli.Options{}
	opts.ConfigPath, _ = flags.GetString("config")
	opts.PrimitivesDir, _ = flags.GetString("primitives")
	opts.Store, _ = flags.GetString("store")
	opts.ReportsDir, _ = flags.GetString("reports-dir")
	opts.RedisAddr, _ = flags.GetString("redis-addr")
	opts.RedisPassword, _ = flags.GetString("redis-password")
	opts.RedisDB, _ = flags.GetInt("redis-db")
	opts.ReportTTL, _ = flags.GetDuration("report-ttl")
	opts.SQLiteDSN, _ = flags.GetString("sqlite-dsn")
	opts.CheckersPath, _ = flags.GetString("checkers")
	opts.Checker, _ = flags.GetString("checker")
	opts.LogLevel, _ = flags.GetString("log-level")
	return opts
}
