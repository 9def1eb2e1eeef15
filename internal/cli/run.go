package cli

import (
	"github.com/ShiftyTR/svcmgr"
	"github.com/spf13/cobra"
)

// NewRunCmd creates the run command
func NewRunCmd() *cobra.Command {
	var supervised bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the worker in this process",
		Long: `Run the worker directly without consulting the startup decision engine.
By default the worker runs as an unsupervised foreground process stopped by
Ctrl+C; --supervised attaches native supervisor integration and is what an
installed service registration invokes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := newWorker()
			if supervised {
				return svcmgr.RunSupervised(cmd.Context(), serviceName(), w.Run, svcmgr.DefaultStopGrace)
			}
			logger.Info("running in the foreground; press Ctrl+C to stop")
			return svcmgr.RunForeground(cmd.Context(), w.Run, svcmgr.DefaultStopGrace)
		},
	}

	cmd.Flags().BoolVar(&supervised, "supervised", false, "attach native supervisor integration")
	return cmd
}
