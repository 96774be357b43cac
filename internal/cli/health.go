package cli

import (
	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show whether the server is accepting games",
		Long: `health reports the number of live rooms, seated players and
loaded dictionary words. It fails once the server has begun shutting down.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Health
			if err := client.Get(cmd.Context(), "/api/v1/health", &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}
