// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Booza1981/iptv-stack/internal/log"
)

// FromEnv reads the configuration overlay from environment variables. The
// variable names predate this implementation and stay stable for existing
// deployments.
func FromEnv() Config {
	logger := log.WithComponent("config")
	return Config{
		InputXML:   parseString(logger, "INPUT_XML", ""),
		OutputXML:  parseString(logger, "OUTPUT_XML", ""),
		InputM3U:   parseString(logger, "INPUT_M3U", ""),
		OutputM3U:  parseString(logger, "OUTPUT_M3U", ""),
		LogoList:   parseString(logger, "LOGO_LIST_FILE", ""),
		Fixes:      parseString(logger, "SPECIFIC_FIXES_FILE", ""),
		ReportsDir: parseString(logger, "REPORTS_DIR", ""),
		Dropbox: Dropbox{
			RefreshToken: parseString(logger, "DROPBOX_REFRESH_TOKEN", ""),
			AppKey:       parseString(logger, "DROPBOX_APP_KEY", ""),
			AppSecret:    parseString(logger, "DROPBOX_APP_SECRET", ""),
			Path:         parseString(logger, "DROPBOX_PATH", ""),
		},
	}
}

// parseString reads an environment variable, logging the source. Sensitive
// values are never logged.
func parseString(logger zerolog.Logger, key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	lowerKey := strings.ToLower(key)
	if strings.Contains(lowerKey, "token") || strings.Contains(lowerKey, "secret") || strings.Contains(lowerKey, "key") {
		logger.Debug().
			Str("key", key).
			Str("source", "environment").
			Bool("sensitive", true).
			Msg("using environment variable")
	} else {
		logger.Debug().
			Str("key", key).
			Str("value", value).
			Str("source", "environment").
			Msg("using environment variable")
	}
	return value
}
