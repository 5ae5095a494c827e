package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/jonesrussell/north-cloud/pinned-nav/infrastructure/jwt"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/config"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/curation"
	"github.com/spf13/cobra"
)

// newTokenCommand needs only the configuration, so it does not connect to any store.
func newTokenCommand(configPath *string) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an admin bearer token for the curation API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.Auth.JWTSecret == "" {
				return errors.New("auth.jwt_secret is not configured")
			}
			tok, err := jwt.Issue(cfg.Auth.JWTSecret, subject,
				[]string{curation.CapabilityEditNavigation}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "operator", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
