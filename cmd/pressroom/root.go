package main

import (
	"os"
	"strings"

	"github.com/abduss/pressroom/internal/apiclient"
	"github.com/abduss/pressroom/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	apiURLEnvKey   = "PRESSROOM_API_URL"
	passwordEnvKey = "PRESSROOM_PASSWORD"
	defaultAPIURL  = "http://localhost:8080"
)

// clientOptions are the flags shared by every command that talks to a running server.
type clientOptions struct {
	apiURL     string
	password   string
	jsonOutput bool
}

func (o *clientOptions) client() *apiclient.Client {
	return apiclient.New(o.apiURL)
}

func newRootCmd(cfg config.Config, logg *zap.Logger) *cobra.Command {
	opts := &clientOptions{}

	cmd := &cobra.Command{
		Use:           "pressroom",
		Short:         "Announcement and attachment backend for the publishing website",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.apiURL, "api", envOr(apiURLEnvKey, defaultAPIURL), "pressroom API base URL")
	cmd.PersistentFlags().StringVar(&opts.password, "password", os.Getenv(passwordEnvKey), "admin password (or "+passwordEnvKey+")")
	cmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "output JSON")

	cmd.AddCommand(
		newServeCmd(cfg, logg),
		newMigrateCmd(cfg, logg),
		newNoticeCmd(opts),
		newUploadCmd(opts),
		newVerifyCmd(opts),
	)

	return cmd
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
