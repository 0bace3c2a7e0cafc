package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/config"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/export"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/lazyload"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/loader"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/model"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/tracking"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/ui"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/updater"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/version"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/watch"
)

const allFiles = "*"

func main() {
	showVersion := flag.Bool("version", false, "Show version and exit")
	checkUpdate := flag.Bool("check-update", false, "Check GitHub for a newer release and exit")
	configPath := flag.String("config", config.DefaultPath, "Path to the YAML config file")
	logPath := flag.String("log", "", "Write diagnostics to this file while the viewer runs")
	exportMD := flag.String("export-md", "", "Export the timeline as Markdown to this file and exit")
	exportSVG := flag.String("export-svg", "", "Export the timeline as an SVG chart to this file and exit")
	exportPNG := flag.String("export-png", "", "Export the timeline as a PNG chart to this file and exit")
	noWatch := flag.Bool("no-watch", false, "Do not reload when timeline files change")
	all := flag.Bool("all", false, "Merge every timeline file found instead of asking")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tlv [flags] [file or directory ...]\n\n")
		fmt.Fprintf(os.Stderr, "With no arguments, timeline files are read from %s/.\n\nFlags:\n", loader.DefaultDir)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("tlv %s\n", version.Version)
		os.Exit(0)
	}

	if *checkUpdate {
		rel, newer, err := updater.NewChecker().Check(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error checking for updates: %v\n", err)
			os.Exit(1)
		}
		if newer {
			fmt.Printf("tlv %s is available (you have %s): %s\n", rel.TagName, version.Version, rel.HTMLURL)
		} else {
			fmt.Printf("tlv %s is up to date\n", version.Version)
		}
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	exporting := *exportMD != "" || *exportSVG != "" || *exportPNG != ""

	// Diagnostics go to stderr for one-shot commands. The viewer owns the
	// terminal, so there they go to --log or nowhere.
	logger := log.New(os.Stderr, "tlv: ", 0)
	if !exporting {
		logger = log.New(io.Discard, "", 0)
	}
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = log.New(f, "tlv: ", log.LstdFlags)
	}

	paths, err := resolvePaths(flag.Args(), *all || exporting)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	agg := loader.NewAggregateLoader(paths)
	agg.SetLogger(logger)
	tl, results, err := agg.LoadAll(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading timeline: %v\n", err)
		os.Exit(1)
	}
	if sum := loader.Summarize(results); sum.FailedFiles > 0 {
		logger.Printf("loaded %d of %d files, failed: %v", sum.SuccessfulFiles, sum.TotalFiles, sum.FailedPaths)
	}

	if exporting {
		if err := runExports(tl, *exportMD, *exportSVG, *exportPNG); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	tracker, closeTracker, err := openTracker(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening analytics: %v\n", err)
		os.Exit(1)
	}
	defer closeTracker()

	// The profile is fixed for the session; resizing re-lays out the page
	// but never switches between wide and compact.
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	profile := cfg.Profile(width)
	logger.Printf("profile %s for width %d", profile, width)

	images := lazyload.NewLoader(tl.Dir)
	m := ui.NewModel(tl, ui.Options{
		Config:  cfg,
		Profile: profile,
		Tracker: tracker,
		Images:  images,
		Logger:  logger,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if !*noWatch {
		w, err := watch.New(paths, watch.DefaultDebounce, func() {
			tl, _, err := agg.LoadAll(context.Background())
			p.Send(ui.ReloadMsg{Timeline: tl, Err: err})
		})
		if err != nil {
			logger.Printf("live reload disabled: %v", err)
		} else {
			w.SetLogger(logger)
			defer w.Close()
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running viewer: %v\n", err)
		os.Exit(1)
	}
}

// resolvePaths expands arguments into timeline files. Directories contribute
// every timeline file they hold. With several candidates and mergeAll unset,
// the user picks one (or all) interactively.
func resolvePaths(args []string, mergeAll bool) ([]string, error) {
	if len(args) == 0 {
		args = []string{loader.DefaultDir}
	}

	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		found, err := loader.FindTimelinePaths(arg)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %v", loader.ErrNoTimeline, args)
	}

	if len(paths) == 1 || mergeAll || !term.IsTerminal(int(os.Stdin.Fd())) {
		return paths, nil
	}
	return pickPaths(paths)
}

func pickPaths(paths []string) ([]string, error) {
	options := make([]huh.Option[string], 0, len(paths)+1)
	options = append(options, huh.NewOption(fmt.Sprintf("All %d files, merged by date", len(paths)), allFiles))
	for _, p := range paths {
		options = append(options, huh.NewOption(filepath.Base(p), p))
	}

	choice := allFiles
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Several timelines found").
				Options(options...).
				Value(&choice),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			os.Exit(0)
		}
		return nil, fmt.Errorf("select timeline: %w", err)
	}

	if choice == allFiles {
		return paths, nil
	}
	return []string{choice}, nil
}

// openTracker builds the analytics tracker from config. The returned close
// function is always safe to call; with a database sink it logs how many
// events the session recorded.
func openTracker(cfg config.Config, logger *log.Logger) (*tracking.Tracker, func(), error) {
	if !cfg.Analytics.Enabled() {
		return nil, func() {}, nil
	}

	var sinks tracking.MultiSink
	closeFn := func() {}
	if cfg.Analytics.DB != "" {
		db, err := tracking.OpenSQLiteSink(cfg.Analytics.DB)
		if err != nil {
			return nil, closeFn, err
		}
		sinks = append(sinks, db)
		before, err := db.Count(context.Background(), "")
		if err != nil {
			db.Close()
			return nil, func() {}, err
		}
		closeFn = func() {
			if total, err := db.Count(context.Background(), ""); err == nil {
				logger.Printf("analytics: %d events this session, %d total", total-before, total)
			}
			if err := db.Close(); err != nil {
				logger.Printf("close analytics db: %v", err)
			}
		}
	}
	if cfg.Analytics.Log {
		sinks = append(sinks, tracking.LogSink{Logger: logger})
	}

	tracker := tracking.NewTracker(sinks)
	tracker.SetLogger(logger)
	return tracker, closeFn, nil
}

func runExports(tl model.Timeline, mdPath, svgPath, pngPath string) error {
	if mdPath != "" {
		if err := export.SaveMarkdownToFile(tl, mdPath); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", mdPath)
	}
	if svgPath != "" {
		if err := export.SaveSVGToFile(tl, svgPath); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", svgPath)
	}
	if pngPath != "" {
		if err := export.SavePNGToFile(tl, pngPath); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", pngPath)
	}
	return nil
}
