package batch

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"k8s.io/klog/v2"

	"stockmeta/pkg/asset"
	"stockmeta/pkg/pipeline"
)

// reportRow is one line of the microstock upload report.
type reportRow struct {
	Filename     string
	Original     string
	Title        string
	Description  string
	Keywords     string
	Category     string
	Kind         string
	Date         string
	Time         string
	Illustration string
}

func newReportRow(res pipeline.Result) reportRow {
	now := time.Now()
	ill := "No"
	if res.Asset.Kind == asset.Vector {
		ill = "Yes"
	}
	return reportRow{
		Filename:     res.NewName,
		Original:     res.Asset.Name(),
		Title:        res.Title,
		Description:  res.Description,
		Keywords:     strings.Join(res.Keywords, ", "),
		Category:     res.Category,
		Kind:         string(res.Asset.Kind),
		Date:         now.Format("2006-01-02"),
		Time:         now.Format("15:04:05"),
		Illustration: ill,
	}
}

var reportHeader = []string{
	"Filename", "Original", "Title", "Description", "Keywords", "Category",
	"Type", "Date", "Time", "Releases", "Country", "Editorial",
	"Mature Content", "Illustration",
}

// writeReport writes the batch's upload report under OUT/_Reports.
func writeReport(outDir string, rows []reportRow) error {
	dir := filepath.Join(outDir, "_Reports")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir reports: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("Batch_%s.csv", time.Now().Format("20060102_150405")))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(reportHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Filename, r.Original, r.Title, r.Description, r.Keywords,
			r.Category, r.Kind, r.Date, r.Time, "", "", "No", "No", r.Illustration,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	klog.Infof("report written: %s", path)
	return nil
}
