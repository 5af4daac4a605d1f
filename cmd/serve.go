package cmd

import (
	"github.com/chichamlab/chicham/internal/cache"
	"github.com/chichamlab/chicham/internal/config"
	"github.com/chichamlab/chicham/internal/job"
	"github.com/chichamlab/chicham/internal/model"
	"github.com/chichamlab/chicham/internal/server"
	"github.com/chichamlab/chicham/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "serve",
		Short: "run the http server",
		Run: func(cmd *cobra.Command, args []string) {
			cnf := config.LoadConfig()

			db := config.GetDb(cnf)
			if err := model.Migrate(db); err != nil {
				logrus.Fatalf("failed to migrate database: %v", err)
			}
			st := store.NewGormStore(db)

			var kv cache.KV
			if cnf.RedisAddr != "" {
				kv = cache.NewRedis(cnf.RedisAddr)
			} else {
				kv = cache.NewMemory()
			}

			tasks := job.NewTaskExecutor([]job.CronJob{
				job.NewUsageRetention(st, cnf.UsageRetentionDays),
			})
			tasks.Run()
			defer tasks.Stop()

			if err := server.NewServer(cnf.HTTPPort, st, kv).Start(); err != nil {
				logrus.Fatalf("server stopped: %v", err)
			}
		},
	}

	return command
}
