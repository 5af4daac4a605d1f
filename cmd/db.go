package cmd

import (
	"github.com/chichamlab/chicham/internal/config"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "db commands",
}

func init() {
	dbCmd.AddCommand(Migrate())
}

func Migrate() *cobra.Command {
	command := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the database",
		Run: func(cmd *cobra.Command, args []string) {
			err := config.MigrateDb(config.LoadConfig())
			if err != nil {
				panic(err)
			}
		},
	}

	return command
}
