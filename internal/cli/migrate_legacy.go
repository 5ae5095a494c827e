package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/jonesrussell/north-cloud/pinned-nav/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/domain"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/options"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/pinned"
	"github.com/spf13/cobra"
)

func newMigrateLegacyCommand(withDeps depsWrapper) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "migrate-legacy",
		Short: "Rewrite a legacy pinned list value in the structured encoding",
		RunE: withDeps(func(cmd *cobra.Command, deps *Deps) error {
			result, err := migrateLegacy(cmd.Context(), deps.Store, deps.Config.Curation.OptionKey, dryRun)
			if err != nil {
				return err
			}

			deps.Logger.Info("Legacy migration finished",
				logger.Bool("changed", result.Changed),
				logger.Bool("dry_run", dryRun),
				logger.Int("items", result.Items),
			)
			switch {
			case !result.Changed:
				fmt.Fprintln(cmd.OutOrStdout(), "Pinned list already uses the structured encoding")
			case dryRun:
				fmt.Fprintf(cmd.OutOrStdout(), "Would rewrite %d items:\n%s\n", result.Items, result.Encoded)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "Rewrote %d items at revision %d\n", result.Items, result.Revision)
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the rewritten value without saving it")
	return cmd
}

type migrationResult struct {
	Changed  bool
	Items    int
	Encoded  []byte
	Revision int64
}

// migrateLegacy rewrites the stored value under key in canonical form when it differs.
// The write is conditional on the revision that was read.
func migrateLegacy(ctx context.Context, store options.Store, key string, dryRun bool) (migrationResult, error) {
	value, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return migrationResult{}, nil
		}
		return migrationResult{}, fmt.Errorf("load pinned list: %w", err)
	}

	list := pinned.Parse(value.Raw)
	encoded, err := pinned.Encode(list)
	if err != nil {
		return migrationResult{}, err
	}

	result := migrationResult{Items: list.Len(), Encoded: encoded, Revision: value.Revision}
	if bytes.Equal(bytes.TrimSpace(value.Raw), encoded) {
		return result, nil
	}
	result.Changed = true
	if dryRun {
		return result, nil
	}

	revision, err := store.CompareAndSet(ctx, key, encoded, value.Revision)
	if err != nil {
		return migrationResult{}, fmt.Errorf("save pinned list: %w", err)
	}
	result.Revision = revision
	return result, nil
}
