// SPDX-License-Identifier: MIT

// Package jobs orchestrates a single logo update run: load catalog and
// overrides, decide per channel, rewrite the documents, write reports and
// optionally upload the results.
package jobs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/Booza1981/iptv-stack/internal/catalog"
	"github.com/Booza1981/iptv-stack/internal/config"
	"github.com/Booza1981/iptv-stack/internal/dropbox"
	"github.com/Booza1981/iptv-stack/internal/epg"
	"github.com/Booza1981/iptv-stack/internal/fetch"
	xlog "github.com/Booza1981/iptv-stack/internal/log"
	"github.com/Booza1981/iptv-stack/internal/m3u"
	"github.com/Booza1981/iptv-stack/internal/match"
	"github.com/Booza1981/iptv-stack/internal/overrides"
	"github.com/Booza1981/iptv-stack/internal/report"
)

// Status summarises a completed run.
type Status struct {
	LastRun          time.Time `json:"last_run"`
	Channels         int       `json:"channels"`
	Matched          int       `json:"matched"`
	Overridden       int       `json:"overridden"`
	Unmatched        int       `json:"unmatched"`
	SkippedLogoLines int       `json:"skipped_logo_lines"`
	Uploaded         []string  `json:"uploaded,omitempty"`
}

// Uploader pushes a produced file to remote storage. Satisfied by
// *dropbox.Client; mocked in tests.
type Uploader interface {
	Upload(ctx context.Context, localPath, remotePath string) error
}

// Run executes one complete update cycle.
func Run(ctx context.Context, cfg config.Config) (*Status, error) {
	var up Uploader
	if cfg.Dropbox.Configured() {
		up = dropbox.New(cfg.Dropbox.Credentials())
	}
	return run(ctx, cfg, fetch.New(), up)
}

// run is separated for easier testing.
func run(ctx context.Context, cfg config.Config, fetcher *fetch.Client, up Uploader) (*Status, error) {
	logger := xlog.WithComponentFromContext(ctx, "jobs")
	logger.Info().Str("event", "run.start").Msg("starting logo update")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cat, err := loadCatalog(ctx, cfg.LogoList)
	if err != nil {
		return nil, err
	}

	fixes, err := overrides.Load(cfg.Fixes)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Str("event", "inputs.loaded").
		Int("catalog_entries", cat.Len()).
		Int("catalog_skipped", cat.Skipped()).
		Int("overrides", fixes.Len()).
		Msg("catalog and overrides loaded")

	matcher := match.New(cat, fixes)
	status := &Status{SkippedLogoLines: cat.Skipped()}

	// XML first: its decisions seed the tvg-id map the M3U pass reuses.
	guideDecisions := map[string]match.Decision{}
	if cfg.InputXML != "" {
		decisions, err := processXML(ctx, cfg, fetcher, matcher)
		if err != nil {
			return nil, err
		}
		status.tally(decisions)
		for _, d := range decisions {
			if d.Matched() && d.ChannelID != "" {
				guideDecisions[d.ChannelID] = d
			}
		}
	}

	if cfg.InputM3U != "" {
		decisions, err := processM3U(ctx, cfg, fetcher, matcher, guideDecisions)
		if err != nil {
			return nil, err
		}
		status.tally(decisions)
	}

	status.Uploaded = upload(ctx, cfg, up)

	status.LastRun = time.Now()
	logger.Info().
		Str("event", "run.success").
		Int("channels", status.Channels).
		Int("matched", status.Matched).
		Int("overridden", status.Overridden).
		Int("unmatched", status.Unmatched).
		Int("skipped_logo_lines", status.SkippedLogoLines).
		Msg("logo update completed")
	return status, nil
}

func (s *Status) tally(decisions []match.Decision) {
	for _, d := range decisions {
		s.Channels++
		switch d.Method {
		case match.MethodOverride:
			s.Overridden++
		case match.MethodExact:
			s.Matched++
		default:
			s.Unmatched++
		}
	}
}

// loadCatalog treats a missing logo list as an empty catalog: the run still
// applies overrides and produces reports, mirroring how the tool always
// behaved without a listing file.
func loadCatalog(ctx context.Context, path string) (*catalog.Catalog, error) {
	logger := xlog.WithComponentFromContext(ctx, "jobs")
	if path == "" {
		logger.Warn().Str("event", "catalog.absent").Msg("no logo list configured, automatic matching disabled")
		return catalog.Load(strings.NewReader(""))
	}
	cat, err := catalog.LoadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn().
				Str("event", "catalog.missing").
				Str("path", path).
				Msg("logo list not found, automatic matching disabled")
			return catalog.Load(strings.NewReader(""))
		}
		return nil, err
	}
	return cat, nil
}

func processXML(ctx context.Context, cfg config.Config, fetcher *fetch.Client, matcher *match.Matcher) ([]match.Decision, error) {
	logger := xlog.WithComponentFromContext(ctx, "jobs")

	data, err := fetcher.Read(ctx, cfg.InputXML)
	if err != nil {
		return nil, fmt.Errorf("input XML: %w", err)
	}
	tv, err := epg.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("input XML: %w", err)
	}

	decisions := matcher.DecideAll(tv.ChannelViews())
	if err := tv.Apply(decisions); err != nil {
		return nil, fmt.Errorf("rewrite XML: %w", err)
	}

	if err := writeAtomic(ctx, cfg.OutputXML, tv.WriteTo); err != nil {
		return nil, fmt.Errorf("output XML: %w", err)
	}
	if err := report.WriteFiles(cfg.ReportsDir, "xml", decisions); err != nil {
		return nil, err
	}

	logger.Info().
		Str("event", "xml.written").
		Str("path", cfg.OutputXML).
		Int("channels", len(decisions)).
		Msg("guide written")
	return decisions, nil
}

func processM3U(ctx context.Context, cfg config.Config, fetcher *fetch.Client, matcher *match.Matcher, guideDecisions map[string]match.Decision) ([]match.Decision, error) {
	logger := xlog.WithComponentFromContext(ctx, "jobs")

	data, err := fetcher.Read(ctx, cfg.InputM3U)
	if err != nil {
		return nil, fmt.Errorf("input M3U: %w", err)
	}
	pl := m3u.Parse(string(data))

	views := pl.ChannelViews()
	decisions := make([]match.Decision, 0, len(views))
	reused := 0
	for _, v := range views {
		if d, ok := guideDecisions[v.ID]; ok {
			// keep the guide's verdict so both documents agree on a logo
			decisions = append(decisions, match.Decision{
				ChannelID: v.ID, Name: v.Name, URL: d.URL, Method: d.Method,
			})
			reused++
			continue
		}
		decisions = append(decisions, matcher.Decide(v))
	}

	if err := pl.Apply(decisions); err != nil {
		return nil, fmt.Errorf("rewrite M3U: %w", err)
	}
	if err := writeAtomic(ctx, cfg.OutputM3U, pl.WriteTo); err != nil {
		return nil, fmt.Errorf("output M3U: %w", err)
	}
	if err := report.WriteFiles(cfg.ReportsDir, "m3u", decisions); err != nil {
		return nil, err
	}

	logger.Info().
		Str("event", "m3u.written").
		Str("path", cfg.OutputM3U).
		Int("channels", len(decisions)).
		Int("reused_from_guide", reused).
		Msg("playlist written")
	return decisions, nil
}

// upload pushes the produced documents to Dropbox. Upload failures do not
// fail the run: the local outputs are already committed and remain valid.
func upload(ctx context.Context, cfg config.Config, up Uploader) []string {
	if up == nil {
		return nil
	}
	logger := xlog.WithComponentFromContext(ctx, "jobs")

	var uploaded []string
	for _, local := range []string{cfg.OutputXML, cfg.OutputM3U} {
		if local == "" {
			continue
		}
		if _, err := os.Stat(local); err != nil {
			continue
		}
		remote := dropbox.RemotePath(cfg.Dropbox.Path, local)
		if err := up.Upload(ctx, local, remote); err != nil {
			logger.Warn().
				Err(err).
				Str("event", "upload.failed").
				Str("local", local).
				Str("remote", remote).
				Msg("upload failed")
			continue
		}
		logger.Info().
			Str("event", "upload.success").
			Str("remote", remote).
			Msg("uploaded")
		uploaded = append(uploaded, remote)
	}
	return uploaded
}
