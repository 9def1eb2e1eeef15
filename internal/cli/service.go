package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/ShiftyTR/svcmgr"
	"github.com/spf13/cobra"
)

// NewInstallCmd creates the install command
func NewInstallCmd() *cobra.Command {
	var noStart bool

	cmd := &cobra.Command{
		Use:   "install [-- worker-args...]",
		Short: "Register svchost as a system service",
		Long: `Register svchost with the native service manager (SCM, systemd, or
launchd). Arguments after -- are stored in the registration and passed to
the service process on every start.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := serviceSpec()
			if err != nil {
				return err
			}
			if len(args) > 0 {
				spec.Args = args
			}
			spec.AutoStart = !noStart

			m, err := newManager()
			if err != nil {
				return err
			}
			if err := m.Install(cmd.Context(), spec); err != nil {
				return err
			}

			fmt.Printf("Service %q installed on %s.\n", spec.Name, m.System())
			if noStart {
				fmt.Println("Use 'svchost start' to start it.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noStart, "no-start", false, "register only; do not start the service")
	return cmd
}

// NewUninstallCmd creates the uninstall command
func NewUninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "uninstall",
		Aliases: []string{"remove"},
		Short:   "Remove the system service",
		Long:    "Stop the service if needed and remove its registration. Removing an absent service is a no-op.",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newManager()
			if err != nil {
				return err
			}
			name := serviceName()
			if err := m.Remove(cmd.Context(), name); err != nil {
				return err
			}
			fmt.Printf("Service %q removed.\n", name)
			return nil
		},
	}
}

// NewStartCmd creates the start command
func NewStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the installed service",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newManager()
			if err != nil {
				return err
			}
			name := serviceName()
			if err := m.Start(cmd.Context(), name); err != nil {
				return err
			}
			fmt.Printf("Service %q started.\n", name)
			return nil
		},
	}
}

// NewStopCmd creates the stop command
func NewStopCmd() *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the installed service",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newManager()
			if err != nil {
				return err
			}
			name := serviceName()
			if err := m.Stop(cmd.Context(), name); err != nil {
				return err
			}

			if wait > 0 {
				ctx, cancel := context.WithTimeout(cmd.Context(), wait)
				defer cancel()
				st, err := svcmgr.WaitForStatus(ctx, m, name, 0,
					svcmgr.StatusStopped, svcmgr.StatusNotFound)
				if err != nil {
					return fmt.Errorf("service %q did not stop within %s (last status %s)", name, wait, st)
				}
			}

			fmt.Printf("Service %q stopped.\n", name)
			return nil
		},
	}

	cmd.Flags().DurationVar(&wait, "wait", 30*time.Second, "how long to wait for the stop to complete; 0 returns immediately")
	return cmd
}

func serviceName() string {
	spec, err := serviceSpec()
	if err != nil {
		return "svchost"
	}
	return spec.Name
}
