// SPDX-License-Identifier: MIT

// Package config assembles the immutable run configuration from defaults,
// environment variables, an optional YAML file and CLI flags. Precedence,
// lowest to highest: defaults, file, environment, flags.
package config

import (
	"fmt"

	"github.com/Booza1981/iptv-stack/internal/dropbox"
)

// Dropbox captures the optional upload target.
type Dropbox struct {
	RefreshToken string `yaml:"refresh_token"`
	AppKey       string `yaml:"app_key"`
	AppSecret    string `yaml:"app_secret"`
	Path         string `yaml:"path"`
}

// Configured reports whether any Dropbox field is set at all.
func (d Dropbox) Configured() bool {
	return d.RefreshToken != "" || d.AppKey != "" || d.AppSecret != "" || d.Path != ""
}

// Credentials converts to the dropbox client's credential type.
func (d Dropbox) Credentials() dropbox.Credentials {
	return dropbox.Credentials{
		RefreshToken: d.RefreshToken,
		AppKey:       d.AppKey,
		AppSecret:    d.AppSecret,
	}
}

// Config is the full run configuration. Inputs may be local paths or http(s)
// URLs; outputs are always local paths.
type Config struct {
	InputXML  string `yaml:"input_xml"`
	OutputXML string `yaml:"output_xml"`
	InputM3U  string `yaml:"input_m3u"`
	OutputM3U string `yaml:"output_m3u"`

	LogoList   string `yaml:"logo_list"`
	Fixes      string `yaml:"fixes"`
	ReportsDir string `yaml:"reports_dir"`

	Dropbox Dropbox `yaml:"dropbox"`
}

// Default returns the built-in defaults, matching the data files the tool
// has always looked for next to its working directory.
func Default() Config {
	return Config{
		LogoList:   "uk_tv_logos.txt",
		Fixes:      "specific_channel_fixes.json",
		ReportsDir: "reports",
	}
}

// Merge overlays every non-empty field of over onto base.
func Merge(base, over Config) Config {
	out := base
	setIf(&out.InputXML, over.InputXML)
	setIf(&out.OutputXML, over.OutputXML)
	setIf(&out.InputM3U, over.InputM3U)
	setIf(&out.OutputM3U, over.OutputM3U)
	setIf(&out.LogoList, over.LogoList)
	setIf(&out.Fixes, over.Fixes)
	setIf(&out.ReportsDir, over.ReportsDir)
	setIf(&out.Dropbox.RefreshToken, over.Dropbox.RefreshToken)
	setIf(&out.Dropbox.AppKey, over.Dropbox.AppKey)
	setIf(&out.Dropbox.AppSecret, over.Dropbox.AppSecret)
	setIf(&out.Dropbox.Path, over.Dropbox.Path)
	return out
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Validate enforces the invariants the pipeline relies on. It runs once at
// startup; the core never re-reads configuration mid-run.
func (c Config) Validate() error {
	if c.InputXML == "" && c.InputM3U == "" {
		return fmt.Errorf("at least one of input XML or input M3U must be set")
	}
	if c.InputXML != "" && c.OutputXML == "" {
		return fmt.Errorf("output XML path is required when input XML is set")
	}
	if c.InputM3U != "" && c.OutputM3U == "" {
		return fmt.Errorf("output M3U path is required when input M3U is set")
	}
	if c.ReportsDir == "" {
		return fmt.Errorf("reports directory must not be empty")
	}
	if c.Dropbox.Configured() {
		if !c.Dropbox.Credentials().Complete() {
			return fmt.Errorf("dropbox upload needs refresh token, app key and app secret")
		}
		if c.Dropbox.Path == "" {
			return fmt.Errorf("dropbox upload needs a remote path")
		}
	}
	return nil
}
