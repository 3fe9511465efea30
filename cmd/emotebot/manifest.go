package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gosuda/emotebot/internal/command"
	emoteslack "github.com/gosuda/emotebot/internal/messenger/slack"
)

func newManifestCmd(a *app) *cobra.Command {
	var (
		baseURL string
		name    string
		noEmote bool
	)

	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Print the Slack app manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := loadCatalog(a.cfg, log.Logger)
			if err != nil {
				return err
			}

			registry, err := command.Build(command.Deps{Catalog: cat, Logger: log.Logger})
			if err != nil {
				return err
			}

			emotes := cat.Emotes()
			if noEmote {
				emotes = nil
			}

			out, err := yaml.Marshal(emoteslack.BuildManifest(name, baseURL, registry.Descriptors(), emotes))
			if err != nil {
				return fmt.Errorf("manifest: %w", err)
			}

			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "https://emotebot.example.com", "public base URL of the server")
	cmd.Flags().StringVar(&name, "name", "emotebot", "app and bot display name")
	cmd.Flags().BoolVar(&noEmote, "no-emote-commands", false, "omit per-emote slash commands")

	return cmd
}
