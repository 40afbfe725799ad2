package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/ocrctl/internal/api"
	"github.com/jackzampolin/ocrctl/internal/config"
	"github.com/jackzampolin/ocrctl/internal/profiles"
	"github.com/jackzampolin/ocrctl/internal/svcctx"
)

type initResult struct {
	Home     string `json:"home" yaml:"home"`
	Config   string `json:"config" yaml:"config"`
	Profiles string `json:"profiles,omitempty" yaml:"profiles,omitempty"`
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage ocrctl configuration",
	}
	cmd.AddCommand(newConfigInitCmd(), newConfigShowCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a default config and sample profiles to the home directory",
		Annotations: map[string]string{skipConfigAnnotation: ""},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			h := svcctx.HomeFrom(ctx)
			logger := svcctx.LoggerFrom(ctx)

			if err := h.EnsureExists(); err != nil {
				return failInternal(cmd, err)
			}
			if h.ConfigExists() && !force {
				return fail(cmd, exitFailure, api.ErrorDocument{
					Error: fmt.Sprintf("config already exists at %s (use --force to overwrite)", h.ConfigPath()),
					Kind:  api.KindConfig,
				})
			}

			if err := config.WriteDefault(h.ConfigPath()); err != nil {
				return failInternal(cmd, err)
			}
			logger.Info("wrote config", "path", h.ConfigPath())
			result := initResult{Home: h.Path(), Config: h.ConfigPath()}

			if force || !h.ProfilesExist() {
				if err := os.WriteFile(h.ProfilesPath(), []byte(profiles.SampleDocument), 0o644); err != nil {
					return failInternal(cmd, fmt.Errorf("failed to write profiles: %w", err))
				}
				logger.Info("wrote profiles", "path", h.ProfilesPath())
				result.Profiles = h.ProfilesPath()
			}
			return render(cmd, result)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return render(cmd, svcctx.ConfigFrom(cmd.Context()))
		},
	}
}
