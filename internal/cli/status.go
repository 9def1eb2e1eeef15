package cli

import (
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v4/process"
	"github.com/spf13/cobra"
)

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the service status",
		Long:  "Query the native service manager and, when the service is running, enrich the answer with process details.",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newManager()
			if err != nil {
				return err
			}
			name := serviceName()

			st, err := m.Status(cmd.Context(), name)
			if err != nil {
				return err
			}
			fmt.Printf("Service:  %s\n", name)
			fmt.Printf("Backend:  %s\n", m.System())
			fmt.Printf("Status:   %s\n", st)

			pid, err := m.PID(cmd.Context(), name)
			if err != nil || pid <= 0 {
				return nil
			}
			fmt.Printf("PID:      %d\n", pid)

			// Process details are decoration; a PID the supervisor reported
			// may already be gone by the time we look at it.
			proc, err := process.NewProcess(int32(pid))
			if err != nil {
				return nil
			}
			if procName, err := proc.Name(); err == nil {
				fmt.Printf("Process:  %s\n", procName)
			}
			if created, err := proc.CreateTime(); err == nil && created > 0 {
				uptime := time.Since(time.UnixMilli(created)).Round(time.Second)
				fmt.Printf("Uptime:   %s\n", uptime)
			}
			if cpu, err := proc.CPUPercent(); err == nil {
				fmt.Printf("CPU:      %.1f%%\n", cpu)
			}
			if mem, err := proc.MemoryInfo(); err == nil && mem != nil {
				fmt.Printf("RSS:      %.1f MiB\n", float64(mem.RSS)/(1024*1024))
			}
			return nil
		},
	}
}
