package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/roaldarbol/boris-clip/annotation"
	"github.com/roaldarbol/boris-clip/clip"
	"github.com/roaldarbol/boris-clip/config"
	"github.com/roaldarbol/boris-clip/diag"
	"github.com/roaldarbol/boris-clip/pkg/timeutil"
	"github.com/roaldarbol/boris-clip/probe"
	"github.com/roaldarbol/boris-clip/tui"
	"github.com/roaldarbol/boris-clip/validate"
)

var (
	flagOutputDir        string
	flagPadding          float64
	flagPaddingPre       float64
	flagPaddingPost      float64
	flagPointPadding     float64
	flagPointPaddingPre  float64
	flagPointPaddingPost float64
	flagMaxDuration      string
	flagMaxClips         int
	flagObservation      string
	flagFast             bool
	flagForce            bool
	flagYes              bool
	flagNoProgress       bool
)

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&flagOutputDir, "output-dir", "o", config.DefaultOutputDir, "directory to write output clips into")
	f.Float64Var(&flagPadding, "padding", 0, "seconds to add before and after each bout")
	f.Float64Var(&flagPaddingPre, "padding-pre", 0, "seconds to add before each bout (overrides --padding for the pre side)")
	f.Float64Var(&flagPaddingPost, "padding-post", 0, "seconds to add after each bout (overrides --padding for the post side)")
	f.Float64Var(&flagPointPadding, "point-padding", 0, fmt.Sprintf("padding for point events, both sides (default %.1fs when no general padding is set)", clip.DefaultPointPadding))
	f.Float64Var(&flagPointPaddingPre, "point-padding-pre", 0, "pre-padding for point events (overrides --point-padding for the pre side)")
	f.Float64Var(&flagPointPaddingPost, "point-padding-post", 0, "post-padding for point events (overrides --point-padding for the post side)")
	f.StringVar(&flagMaxDuration, "max-duration", "", "truncate clips longer than this (HH:MM:SS, MM:SS, or seconds)")
	f.IntVar(&flagMaxClips, "max-clips", 0, "extract at most N clips per (behaviour, subject) group (0 = no limit)")
	f.StringVar(&flagObservation, "observation", "", "extract only this observation from a .boris project")
	f.BoolVar(&flagFast, "fast", false, "use stream-copy instead of re-encoding; faster, but cuts snap to keyframes")
	f.BoolVar(&flagForce, "force", false, "treat media-file mismatch and out-of-bounds errors as warnings")
	f.BoolVarP(&flagYes, "yes", "y", false, "do not ask for confirmation when warnings were reported")
	f.BoolVar(&flagNoProgress, "no-progress", false, "print one line per clip instead of the progress display")
}

// extractionJob pairs one observation's plans with its output directory.
type extractionJob struct {
	plans  []clip.Plan
	outDir string
}

func runExtract(cmd *cobra.Command, args []string) error {
	videoPath, borisPath := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	reporter := diag.NewConsole(os.Stderr)

	outputDir := flagOutputDir
	if !cmd.Flags().Changed("output-dir") {
		outputDir = cfg.OutputDir()
	}
	fast := flagFast
	if !cmd.Flags().Changed("fast") && cfg.Fast() {
		fast = true
	}

	padding := resolvePadding(cmd, cfg)

	maxDuration := 0.0
	if flagMaxDuration != "" {
		maxDuration, err = timeutil.ParseTimeToSeconds(flagMaxDuration)
		if err != nil {
			return fmt.Errorf("invalid --max-duration: %w", err)
		}
		if maxDuration <= 0 {
			return fmt.Errorf("invalid --max-duration: must be positive")
		}
	}

	fmt.Printf("Probing video: %s\n", videoPath)
	video, err := probe.Probe(videoPath, reporter)
	if err != nil {
		return err
	}
	fmt.Printf("  Duration: %s (%.3fs)  |  FPS: %.4f  |  %s\n",
		timeutil.FormatTime(video.Duration), video.Duration, video.FPS, video.Filename)

	fmt.Printf("Parsing BORIS file: %s\n", borisPath)
	sets, err := annotation.ParseFile(borisPath, reporter)
	if err != nil {
		return err
	}
	sets, err = selectObservation(sets, flagObservation)
	if err != nil {
		return err
	}
	for _, set := range sets {
		label := string(set.Format)
		if set.ObsID != "" {
			label += ", observation " + set.ObsID
		}
		fmt.Printf("  Format: %s  |  Bouts: %d\n", label, len(set.Bouts))
	}

	// Every observation must validate before any clip is planned or written.
	fmt.Println("Validating annotations against video...")
	for _, set := range sets {
		if err := validate.Validate(set, video, flagForce, reporter); err != nil {
			if set.ObsID != "" {
				return fmt.Errorf("[%s] %w", set.ObsID, err)
			}
			return err
		}
	}
	fmt.Println("  OK")

	opts := clip.Options{Padding: padding, MaxClips: flagMaxClips, MaxDuration: maxDuration}

	// With several observations, each gets its own subdirectory so that two
	// observations annotating the same interval cannot collide on a name.
	var jobs []extractionJob
	totalPlans, nState, nPoint := 0, 0, 0
	for _, set := range sets {
		dir := outputDir
		if len(sets) > 1 {
			dir = filepath.Join(outputDir, clip.SanitizeLabel(set.ObsID))
		}
		plans := clip.BuildPlans(set.Bouts, video, opts, reporter)
		jobs = append(jobs, extractionJob{plans: plans, outDir: dir})
		totalPlans += len(plans)
		for _, p := range plans {
			if p.Bout.IsPoint {
				nPoint++
			} else {
				nState++
			}
		}
	}
	if totalPlans == 0 {
		fmt.Println("\nNo clips to extract.")
		return nil
	}

	fmt.Printf("\nExtracting %d clip(s) (%d state events, %d point events)\n", totalPlans, nState, nPoint)
	if nState > 0 {
		fmt.Printf("  State padding: pre %.1fs, post %.1fs\n", padding.StatePre, padding.StatePost)
	}
	if nPoint > 0 {
		fmt.Printf("  Point padding: pre %.1fs, post %.1fs\n", padding.PointPre, padding.PointPost)
	}
	if maxDuration > 0 {
		fmt.Printf("  Max duration: %s\n", timeutil.FormatTime(maxDuration))
	}
	mode := "re-encode (default)"
	if fast {
		mode = "stream-copy (--fast)"
	}
	fmt.Printf("  Mode: %s\n  Output: %s\n\n", mode, outputDir)

	if err := confirmExtraction(reporter); err != nil {
		return err
	}

	extractor := clip.Extractor{Fast: fast}
	created, err := runJobs(extractor, jobs, video, totalPlans, reporter)
	if err != nil {
		return err
	}

	fmt.Printf("\nDone. %d clip(s) written to %s\n", len(created), outputDir)
	return nil
}

// resolvePadding merges flags with environment defaults. Flags win; the
// environment only fills in unset combined values.
func resolvePadding(cmd *cobra.Command, cfg *config.Config) clip.Padding {
	val := func(name string, v float64) clip.FlagValue {
		return clip.FlagValue{Value: v, Set: cmd.Flags().Changed(name)}
	}
	pf := clip.PaddingFlags{
		Padding:      val("padding", flagPadding),
		Pre:          val("padding-pre", flagPaddingPre),
		Post:         val("padding-post", flagPaddingPost),
		PointPadding: val("point-padding", flagPointPadding),
		PointPre:     val("point-padding-pre", flagPointPaddingPre),
		PointPost:    val("point-padding-post", flagPointPaddingPost),
	}
	if !pf.Padding.Set {
		if v, ok := cfg.Padding(); ok {
			pf.Padding = clip.FlagValue{Value: v, Set: true}
		}
	}
	if !pf.PointPadding.Set {
		if v, ok := cfg.PointPadding(); ok {
			pf.PointPadding = clip.FlagValue{Value: v, Set: true}
		}
	}
	return pf.Resolve()
}

// selectObservation filters a multi-observation project down to one
// observation when --observation is given.
func selectObservation(sets []annotation.ParsedAnnotations, obsID string) ([]annotation.ParsedAnnotations, error) {
	if obsID == "" {
		return sets, nil
	}
	var available []string
	for _, set := range sets {
		if set.ObsID == obsID {
			return []annotation.ParsedAnnotations{set}, nil
		}
		if set.ObsID != "" {
			available = append(available, set.ObsID)
		}
	}
	if len(available) == 0 {
		return nil, fmt.Errorf("--observation only applies to .boris project files")
	}
	return nil, fmt.Errorf("observation %q not found (available: %s)", obsID, strings.Join(available, ", "))
}

// confirmExtraction asks before cutting clips when warnings were reported.
// Skipped with --yes or when stdin is not a terminal.
func confirmExtraction(reporter *diag.Console) error {
	if reporter.Count() == 0 || flagYes || !isInteractive() {
		return nil
	}

	proceed := true
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("%d warning(s) were reported", reporter.Count())).
			Description("Proceed with extraction anyway?").
			Affirmative("Yes, extract").
			Negative("No, abort").
			Value(&proceed),
	))
	if err := form.Run(); err != nil {
		return fmt.Errorf("confirmation prompt failed: %w", err)
	}
	if !proceed {
		return fmt.Errorf("aborted")
	}
	return nil
}

// runJobs drives the extractor over all jobs, with either the progress
// display or plain per-clip lines.
func runJobs(extractor clip.Extractor, jobs []extractionJob, video probe.VideoInfo, totalPlans int, reporter *diag.Console) ([]string, error) {
	var created []string

	if flagNoProgress || !isInteractive() {
		width := len(strconv.Itoa(totalPlans))
		done := 0
		for _, job := range jobs {
			paths, err := extractor.ExtractAll(context.Background(), job.plans, video, job.outDir, reporter, func(current, _ int, name string) {
				fmt.Printf("  [%*d/%d] %s\n", width, done+current, totalPlans, name)
			})
			if err != nil {
				return created, err
			}
			created = append(created, paths...)
			done += len(job.plans)
		}
		return created, nil
	}

	// Progress UI: extraction warnings are collected while the display is
	// active and replayed afterwards so they do not garble the rendering.
	// RunExtraction waits for the worker, so created, fatalErr and the
	// collector are safe to read once it returns.
	collector := &diag.Collector{}
	var fatalErr error
	uiErr := tui.RunExtraction(totalPlans, func(ctx context.Context, report func(completed, errors int, current string)) {
		done := 0
		for _, job := range jobs {
			paths, err := extractor.ExtractAll(ctx, job.plans, video, job.outDir, collector, func(current, _ int, name string) {
				report(done+current-1, len(collector.Warnings), name)
			})
			created = append(created, paths...)
			if err != nil {
				fatalErr = err
				return
			}
			done += len(job.plans)
		}
		report(totalPlans, len(collector.Warnings), "")
	})

	for _, w := range collector.Warnings {
		reporter.Warnf("%s", w)
	}
	if uiErr != nil {
		return created, uiErr
	}
	if errors.Is(fatalErr, context.Canceled) {
		return created, fmt.Errorf("extraction cancelled after %d clip(s)", len(created))
	}
	return created, fatalErr
}

func isInteractive() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
