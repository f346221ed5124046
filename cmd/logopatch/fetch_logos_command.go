// SPDX-License-Identifier: MIT

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Booza1981/iptv-stack/internal/log"
	"github.com/Booza1981/iptv-stack/internal/logodir"
)

func newFetchLogosCommand() *cobra.Command {
	var owner, repo, dir, out string

	cmd := &cobra.Command{
		Use:   "fetch-logos",
		Short: "Fetch a logo directory listing and write the logo list file",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.WithComponent("fetch-logos")

			files, err := logodir.New().Listing(cmd.Context(), owner, repo, dir)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, []byte(logodir.Lines(files)), 0o644); err != nil {
				return err
			}

			logger.Info().
				Str("event", "logolist.written").
				Str("path", out).
				Int("logos", len(files)).
				Msg("logo list written")
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "tv-logo", "GitHub repository owner")
	cmd.Flags().StringVar(&repo, "repo", "tv-logos", "GitHub repository name")
	cmd.Flags().StringVar(&dir, "dir", "countries/united-kingdom", "Directory inside the repository")
	cmd.Flags().StringVar(&out, "out", "uk_tv_logos.txt", "Output logo list file")

	return cmd
}
