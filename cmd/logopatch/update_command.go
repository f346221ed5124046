// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"

	"github.com/Booza1981/iptv-stack/internal/config"
	"github.com/Booza1981/iptv-stack/internal/jobs"
)

func newUpdateCommand() *cobra.Command {
	var configFile string
	var flags config.Config

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Match channels against the logo catalog and rewrite the documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(configFile, flags)
			if err != nil {
				return err
			}
			_, err = jobs.Run(cmd.Context(), cfg)
			return err
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "YAML configuration file")
	cmd.Flags().StringVar(&flags.InputXML, "input-xml", "", "Input XML guide (path or URL)")
	cmd.Flags().StringVar(&flags.OutputXML, "output-xml", "", "Output XML guide path")
	cmd.Flags().StringVar(&flags.InputM3U, "input-m3u", "", "Input M3U playlist (path or URL)")
	cmd.Flags().StringVar(&flags.OutputM3U, "output-m3u", "", "Output M3U playlist path")
	cmd.Flags().StringVar(&flags.LogoList, "logos", "", "Logo list file (filename|url per line)")
	cmd.Flags().StringVar(&flags.Fixes, "fixes", "", "Manual fixes JSON file (channel id to URL)")
	cmd.Flags().StringVar(&flags.ReportsDir, "reports", "", "Directory for match reports")
	cmd.Flags().StringVar(&flags.Dropbox.Path, "dropbox-path", "", "Dropbox directory to upload outputs to")

	return cmd
}

// resolveConfig layers the configuration sources: defaults, then the YAML
// file, then environment variables, then flags.
func resolveConfig(configFile string, flags config.Config) (config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		fileCfg, err := config.LoadFile(configFile)
		if err != nil {
			return config.Config{}, err
		}
		cfg = config.Merge(cfg, fileCfg)
	}
	cfg = config.Merge(cfg, config.FromEnv())
	cfg = config.Merge(cfg, flags)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
