// Package cli implements pinctl, the operator command line for the pinned navigation.
package cli

import (
	"context"

	"github.com/jonesrussell/north-cloud/pinned-nav/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/config"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/curation"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/options"
	"github.com/spf13/cobra"
)

// Deps are the collaborators shared by pinctl commands.
type Deps struct {
	Config  *config.Config
	Store   options.Store
	Content curation.ContentStore
	Logger  logger.Logger
}

// DepsLoader builds Deps for a command run. The returned cleanup releases them.
type DepsLoader func(ctx context.Context, configPath string) (*Deps, func(), error)

// NewRootCommand creates the pinctl command tree.
func NewRootCommand(load DepsLoader) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "pinctl",
		Short:         "Inspect and maintain the pinned navigation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yml", "path to config file")

	withDeps := func(run func(cmd *cobra.Command, deps *Deps) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			deps, cleanup, err := load(cmd.Context(), configPath)
			if err != nil {
				return err
			}
			defer cleanup()
			return run(cmd, deps)
		}
	}

	root.AddCommand(
		newListCommand(withDeps),
		newShowCommand(withDeps),
		newMigrateLegacyCommand(withDeps),
		newTokenCommand(&configPath),
	)
	return root
}

type depsWrapper func(run func(cmd *cobra.Command, deps *Deps) error) func(*cobra.Command, []string) error
