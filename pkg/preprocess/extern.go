package preprocess

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"k8s.io/klog/v2"
)

const rasterDPI = 150

// ExtractFrame pulls a representative frame from a video into outPath as
// JPEG. It is a variable so tests can stub out the ffmpeg dependency.
var ExtractFrame = ffmpegExtract

// Rasterize renders a vector file into outPath as JPEG at the given DPI.
// Stubbed in tests for the same reason.
var Rasterize = ghostscriptRasterize

// ffmpegExtract grabs the frame at the temporal midpoint, falling back to
// the first frame when the duration cannot be determined.
func ffmpegExtract(path, outPath string) error {
	seek := "0"
	out, err := exec.Command("ffprobe", "-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1", path).Output()
	if err == nil {
		if d, perr := strconv.ParseFloat(strings.TrimSpace(string(out)), 64); perr == nil && d > 0 {
			seek = fmt.Sprintf("%.3f", d/2)
		}
	} else {
		klog.V(1).Infof("ffprobe failed for %s, using first frame: %v", path, err)
	}

	cmd := exec.Command("ffmpeg", "-y", "-v", "error",
		"-ss", seek, "-i", path, "-frames:v", "1", outPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg: %v: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

func ghostscriptRasterize(path, outPath string, dpi int) error {
	cmd := exec.Command("gs", "-dNOPAUSE", "-dBATCH", "-sDEVICE=jpeg", "-dEPSCrop",
		fmt.Sprintf("-r%d", dpi), fmt.Sprintf("-sOutputFile=%s", outPath), path)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("gs: %v: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
