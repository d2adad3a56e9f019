package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roaldarbol/boris-clip/config"
	"github.com/roaldarbol/boris-clip/deps"
)

var rootCmd = &cobra.Command{
	Use:   "boris-clip <video> <boris-file>",
	Short: "Extract video clips for behavioural bouts in a BORIS annotation file",
	Long: `boris-clip extracts one video clip per behavioural bout recorded in a
BORIS annotation file.

VIDEO is the source video file. BORIS_FILE is a BORIS annotation file in any
supported format: a .boris project (JSON), a tabular events export, or an
aggregated events export. The format is detected automatically.

Clips are written to the output directory and named
{video_stem}_{behaviour}_{subject}_{start}-{stop}.mp4; the times in the name
are the original annotated interval, so names stay stable regardless of
padding settings.

Examples:

  Basic extraction:
    boris-clip recording.mp4 annotations.boris

  With padding and a specific output directory:
    boris-clip recording.mp4 events.csv -o clips/ --padding 2.0

  Asymmetric padding (1s before, 3s after):
    boris-clip recording.mp4 events.csv --padding-pre 1.0 --padding-post 3.0

  Fast stream-copy (approximate cuts, no re-encoding):
    boris-clip recording.mp4 events.csv --fast`,
	Args: cobra.ExactArgs(2),
	RunE: runExtract,
	// The pipeline prints its own diagnostics; usage on a runtime failure is noise.
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("boris-clip version %s\n", config.Version)
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system dependencies",
	Long:  `Check that the required system dependencies (ffmpeg, ffprobe) are installed and available.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Checking dependencies...")
		fmt.Println()

		allGood := true

		if err := deps.CheckFfmpeg(); err != nil {
			fmt.Println("✗ ffmpeg: NOT FOUND")
			fmt.Printf("  Install from: %s\n", deps.FfmpegInstallURL)
			allGood = false
		} else {
			fmt.Println("✓ ffmpeg: OK")
		}

		if err := deps.CheckFfprobe(); err != nil {
			fmt.Println("✗ ffprobe: NOT FOUND")
			fmt.Printf("  Install from: %s\n", deps.FfmpegInstallURL)
			allGood = false
		} else {
			fmt.Println("✓ ffprobe: OK")
		}

		fmt.Println()
		if allGood {
			fmt.Println("All dependencies are installed!")
		} else {
			fmt.Println("Some dependencies are missing. Please install them to use boris-clip.")
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(doctorCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
