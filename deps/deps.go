package deps

import (
	"fmt"
	"os/exec"
)

const FfmpegInstallURL = "https://ffmpeg.org/download.html"

// DependencyError contains information about a missing dependency
type DependencyError struct {
	Name       string
	InstallURL string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s not found. Install from: %s", e.Name, e.InstallURL)
}

// CheckFfmpeg checks if ffmpeg is installed and available in PATH
func CheckFfmpeg() error {
	_, err := exec.LookPath("ffmpeg")
	if err != nil {
		return &DependencyError{
			Name:       "ffmpeg",
			InstallURL: FfmpegInstallURL,
		}
	}
	return nil
}

// CheckFfprobe checks if ffprobe is installed and available in PATH
func CheckFfprobe() error {
	_, err := exec.LookPath("ffprobe")
	if err != nil {
		return &DependencyError{
			Name:       "ffprobe",
			InstallURL: FfmpegInstallURL,
		}
	}
	return nil
}
