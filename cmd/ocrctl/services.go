package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/ocrctl/internal/api"
	"github.com/jackzampolin/ocrctl/internal/config"
	"github.com/jackzampolin/ocrctl/internal/home"
	"github.com/jackzampolin/ocrctl/internal/ocr"
	"github.com/jackzampolin/ocrctl/internal/profiles"
	"github.com/jackzampolin/ocrctl/internal/svcctx"
	"github.com/jackzampolin/ocrctl/internal/validate"
)

// loadProfiles reads the configured profile document. Failures are
// reported as a config error with exit code 2.
func loadProfiles(cmd *cobra.Command) (*profiles.Store, error) {
	ctx := cmd.Context()
	path, err := profilesPath(svcctx.ConfigFrom(ctx), svcctx.HomeFrom(ctx))
	if err != nil {
		return nil, fail(cmd, exitUsage, api.ErrorDocument{Error: err.Error(), Kind: api.KindConfig})
	}

	store, err := profiles.Load(path)
	if err != nil {
		return nil, fail(cmd, exitUsage, api.ErrorDocument{Error: err.Error(), Kind: api.KindConfig})
	}
	svcctx.LoggerFrom(ctx).Debug("loaded profiles", "path", path, "count", store.Len())
	return store, nil
}

// profilesPath returns the profile document to load. The built-in default
// location falls back to the copy in the home directory when only that
// one exists.
func profilesPath(cfg *config.Config, h *home.Dir) (string, error) {
	path, err := expandPath(cfg.Profiles)
	if err != nil {
		return "", err
	}
	if cfg.Profiles != config.DefaultConfig().Profiles || h == nil {
		return path, nil
	}
	if _, err := os.Stat(path); err == nil || !h.ProfilesExist() {
		return path, nil
	}
	return h.ProfilesPath(), nil
}

// resolveProfile looks up the configured profile. An unknown name is
// reported with the available names and exit code 2.
func resolveProfile(cmd *cobra.Command, store *profiles.Store) (profiles.Profile, error) {
	name := svcctx.ConfigFrom(cmd.Context()).Profile
	p, err := store.Resolve(name)
	if err == nil {
		return p, nil
	}

	doc := api.ErrorDocument{Error: err.Error(), Kind: api.KindUnknownProfile, Profile: name}
	var unknown *profiles.UnknownProfileError
	if errors.As(err, &unknown) {
		doc.AvailableProfiles = unknown.Available
	}
	return profiles.Profile{}, fail(cmd, exitUsage, doc)
}

// checkInput reports a missing input with exit code 2.
func checkInput(cmd *cobra.Command, path string) error {
	err := ocr.CheckInput(path)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ocr.ErrMissingInput):
		return fail(cmd, exitUsage, api.ErrorDocument{Error: err.Error(), Kind: api.KindMissingInput, Input: path})
	default:
		return failInternal(cmd, err)
	}
}

func failInternal(cmd *cobra.Command, err error) error {
	return fail(cmd, exitFailure, api.ErrorDocument{Error: err.Error(), Kind: api.KindInternal})
}

func newExecutor(cmd *cobra.Command) *ocr.Executor {
	ctx := cmd.Context()
	return ocr.NewExecutor(ocr.Config{
		Engine: svcctx.ConfigFrom(ctx).Engine,
		Runner: svcctx.RunnerFrom(ctx),
		Logger: svcctx.LoggerFrom(ctx),
	})
}

func newValidator(cmd *cobra.Command) *validate.Validator {
	ctx := cmd.Context()
	cfg := svcctx.ConfigFrom(ctx)
	return validate.New(validate.Config{
		InfoTool: cfg.InfoTool,
		TextTool: cfg.TextTool,
		Runner:   svcctx.RunnerFrom(ctx),
		Logger:   svcctx.LoggerFrom(ctx),
	})
}

// expandPath expands a leading "~" and makes path absolute.
func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to expand %s: %w", path, err)
		}
		path = filepath.Join(userHome, strings.TrimPrefix(path, "~"))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return abs, nil
}
