package cmd

import (
	"github.com/spf13/cobra"

	"inventory.GO/core/registry"
)

// Register queues an extra command for rootCmd. Call from init(); panics once Execute has run Apply.
func Register(c *cobra.Command) {
	registry.Append(registry.GlobalRegistry, registry.KeyRegistryCmd, c)
}

// Apply attaches queued commands to rootCmd and freezes the queue.
func Apply() {
	if registry.GlobalRegistry.IsLocked(registry.KeyRegistryCmd) {
		return
	}
	rootCmd.AddCommand(registry.Items[*cobra.Command](registry.GlobalRegistry, registry.KeyRegistryCmd)...)
	registry.GlobalRegistry.Lock(registry.KeyRegistryCmd)
}
