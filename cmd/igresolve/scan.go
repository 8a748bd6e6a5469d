package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"igresolve/pkg/auth"
	"igresolve/pkg/capture"
	"igresolve/pkg/config"
	"igresolve/pkg/dom"
	"igresolve/pkg/instagram"
	"igresolve/pkg/logger"
	"igresolve/pkg/media"
	"igresolve/pkg/ratelimit"
	"igresolve/pkg/scanner"
	"igresolve/pkg/storage"

	"igresolve/internal/prober"
)

var (
	// Scan command flags
	snapshotPath   string
	devtoolsURL    string
	sessionID      string
	csrfToken      string
	accountName    string
	outputDir      string
	rateLimitRPM   int
	download       bool
	showAds        bool
	noMultiStories bool
	filenameFormat string
	probeWorkers   int
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [url]",
	Short: "Resolve the media on the current browser page",
	Long: `Resolve the media the attached browser page is showing.

With no argument, the page currently open in the browser is scanned.
With a URL argument, the browser navigates there first. With
--snapshot, a previously serialized page snapshot is scanned offline
and no browser is needed.

The result is printed as JSON: the resolved media URLs, suggested
filenames, the selected carousel or story index and the owner profile.
With --download, each resolved item is also fetched and written to the
output directory.`,
	Example: `  # Scan whatever the attached browser is showing
  igresolve scan

  # Navigate to a post, then resolve it
  igresolve scan https://www.instagram.com/p/Abc123/

  # Resolve and download using a stored session
  igresolve scan --account myaccount --download

  # Scan a serialized snapshot offline
  igresolve scan --snapshot page.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&snapshotPath, "snapshot", "", "scan a serialized snapshot file instead of a live browser")
	scanCmd.Flags().StringVar(&devtoolsURL, "devtools-url", "", "DevTools endpoint of the running browser")
	scanCmd.Flags().StringVar(&sessionID, "session-id", "", "Instagram session ID")
	scanCmd.Flags().StringVar(&csrfToken, "csrf-token", "", "Instagram CSRF token")
	scanCmd.Flags().StringVarP(&accountName, "account", "a", "", "use a specific stored session")
	scanCmd.Flags().BoolVar(&download, "download", false, "download the resolved media")
	scanCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for downloads")
	scanCmd.Flags().IntVar(&rateLimitRPM, "rate-limit", 0, "API requests per minute")
	scanCmd.Flags().BoolVar(&showAds, "show-ads", false, "resolve sponsored posts instead of skipping them")
	scanCmd.Flags().BoolVar(&noMultiStories, "no-multi-stories", false, "resolve only the active story pane, not the whole tray")
	scanCmd.Flags().StringVar(&filenameFormat, "filename-template", "", "filename template for resolved media")
	scanCmd.Flags().IntVar(&probeWorkers, "probe-workers", 3, "concurrent image dimension probes")
}

func runScan(cmd *cobra.Command, args []string) error {
	flags := make(map[string]interface{})
	if sessionID != "" {
		flags["session-id"] = sessionID
	}
	if csrfToken != "" {
		flags["csrf-token"] = csrfToken
	}
	if devtoolsURL != "" {
		flags["devtools-url"] = devtoolsURL
	}
	if outputDir != "" {
		flags["output"] = outputDir
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if rateLimitRPM > 0 {
		cfg.RateLimit.RequestsPerMinute = rateLimitRPM
	}
	if cmd.Flags().Changed("show-ads") {
		cfg.Preferences.ShowAds = showAds
	}
	if cmd.Flags().Changed("no-multi-stories") {
		cfg.Preferences.NoMultiStories = noMultiStories
	}
	if filenameFormat != "" {
		cfg.Preferences.FilenameTemplate = filenameFormat
	}

	logger.Initialize(&cfg.Logging)
	log := logger.GetLogger()

	snap, state, cleanup, err := acquireSnapshot(cmd.Context(), cfg, args, log)
	if err != nil {
		return err
	}
	defer cleanup()

	client := buildClient(cfg, log)
	fetchPool := prober.NewPool(probeWorkers, client, log)
	resolver := media.NewResolver(fetchPool, state, log)

	set := scanner.New(client, resolver, cfg.Preferences, log).Scan(snap)

	out, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Println(string(out))

	if !download {
		return nil
	}
	if !set.Found {
		return fmt.Errorf("nothing to download: %s", set.ErrorMessage)
	}
	urls := make([]string, len(set.Items))
	for i, item := range set.Items {
		urls[i] = item.URL
	}
	return downloadAll(client, cfg, set.OwnerUsername, set.Filenames, urls, log)
}

// acquireSnapshot returns the page snapshot plus the live-state reader,
// either from a running browser or from a serialized file.
func acquireSnapshot(ctx context.Context, cfg *config.Config, args []string, log logger.Logger) (*dom.Snapshot, media.StateReader, func(), error) {
	if snapshotPath != "" {
		f, err := os.Open(snapshotPath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to open snapshot: %w", err)
		}
		defer f.Close()
		snap, err := dom.DecodeSnapshot(f)
		if err != nil {
			return nil, nil, nil, err
		}
		return snap, &capture.SessionState{}, func() {}, nil
	}

	session, err := capture.Attach(ctx, cfg.Capture, log)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(args) == 1 {
		if err := session.Navigate(args[0]); err != nil {
			session.Close()
			return nil, nil, nil, err
		}
	}
	snap, err := session.Snapshot()
	if err != nil {
		session.Close()
		return nil, nil, nil, err
	}

	// Pausing stops the progress indicators, then the page is captured
	// again so the snapshot reflects the frozen state.
	if cfg.Preferences.PauseStories && strings.HasPrefix(snap.Location.Path, "/stories/") {
		if clicked, err := session.PauseStories(); err == nil && clicked {
			if paused, err := session.Snapshot(); err == nil {
				snap = paused
			}
		}
	}

	return snap, session.State(), session.Close, nil
}

// buildClient creates the API client and attaches a session when one
// is configured or stored. Without a session the private API rejects
// most lookups and scans fall back to page-derived media.
func buildClient(cfg *config.Config, log logger.Logger) *instagram.Client {
	limiter := ratelimit.NewSlidingWindow(cfg.RateLimit.RequestsPerMinute, time.Minute)
	client := instagram.NewClient(30*time.Second, limiter, log)
	client.SetHeader("User-Agent", cfg.Instagram.UserAgent)
	if cfg.Instagram.AppID != "" {
		client.SetAppID(cfg.Instagram.AppID)
	}

	if cfg.Instagram.SessionID != "" && cfg.Instagram.CSRFToken != "" {
		client.SetSessionCookie(cfg.Instagram.SessionID, cfg.Instagram.CSRFToken)
		return client
	}

	manager, err := auth.NewManager()
	if err != nil {
		log.WithError(err).Warn("session store unavailable, remote media info disabled")
		return client
	}
	var session *auth.Session
	if accountName != "" {
		session, err = manager.Load(accountName)
	} else {
		session, err = manager.Default()
	}
	if err != nil {
		log.Debug("no stored session, remote media info disabled")
		return client
	}

	client.SetSessionCookie(session.SessionID, session.CSRFToken)
	if session.UserAgent != "" {
		client.SetHeader("User-Agent", session.UserAgent)
	}
	log.WithField("username", session.Username).Debug("using stored session")
	return client
}

func downloadAll(client *instagram.Client, cfg *config.Config, username string, filenames, urls []string, log logger.Logger) error {
	mgr, err := storage.NewManager(cfg.Output)
	if err != nil {
		return err
	}

	for i, mediaURL := range urls {
		filename := filenames[i]
		if !cfg.Output.OverwriteExisting && mgr.IsStored(username, filename) {
			log.WithField("filename", filename).Info("already downloaded, skipping")
			continue
		}
		data, err := client.DownloadMedia(mediaURL)
		if err != nil {
			return fmt.Errorf("failed to download %s: %w", filename, err)
		}
		path, err := mgr.SaveMedia(bytes.NewReader(data), username, filename)
		if err != nil {
			return err
		}
		log.WithFields(map[string]interface{}{
			"path":  path,
			"bytes": len(data),
		}).Info("saved media")
	}
	return nil
}
