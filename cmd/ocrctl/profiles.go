package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/ocrctl/internal/svcctx"
)

type profileView struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	EngineArgs  []string `json:"ocrmypdf_args" yaml:"ocrmypdf_args"`
}

type profileListing struct {
	Source   string        `json:"source" yaml:"source"`
	Default  string        `json:"default" yaml:"default"`
	Profiles []profileView `json:"profiles" yaml:"profiles"`
}

func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the OCR profiles in the profile document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadProfiles(cmd)
			if err != nil {
				return err
			}

			listing := profileListing{
				Source:   store.Source(),
				Default:  svcctx.ConfigFrom(cmd.Context()).Profile,
				Profiles: make([]profileView, 0, store.Len()),
			}
			for _, p := range store.All() {
				args := p.EngineArgs()
				if args == nil {
					args = []string{}
				}
				listing.Profiles = append(listing.Profiles, profileView{
					Name:        p.Name,
					Description: p.Description,
					EngineArgs:  args,
				})
			}
			return render(cmd, listing)
		},
	}
}
