// Package bp stores blood-pressure observations on the pod, one encrypted
// JSON record per sample, and converts between that format and a flat CSV
// table for import/export.
package bp

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/healthpod/healthpod/internal/client/pod"
	"github.com/healthpod/healthpod/internal/common"
	"github.com/healthpod/healthpod/internal/logging"
)

// Observation is one blood-pressure sample.
type Observation struct {
	Systolic  int       `json:"systolic"`
	Diastolic int       `json:"diastolic"`
	HeartRate int       `json:"heartRate"`
	Timestamp time.Time `json:"timestamp"`
}

// FileName returns the storage name for the observation, derived from its
// timestamp so files sort chronologically.
func (o Observation) FileName() string {
	return fmt.Sprintf("blood_pressure_%d%s", o.Timestamp.UnixMilli(), common.EncSuffix)
}

// csvHeader is the column order of the import/export table.
var csvHeader = []string{"timestamp", "systolic", "diastolic", "heartRate"}

// ImportReport summarizes a best-effort CSV import.
type ImportReport struct {
	Imported int
	Skipped  int
}

// Adapter reads and writes observation records under a single pod
// directory.
type Adapter struct {
	store   pod.Collaborator
	logger  logging.Logger
	dirPath string
}

func NewAdapter(store pod.Collaborator, logger logging.Logger) *Adapter {
	return &Adapter{
		store:   store,
		logger:  logger,
		dirPath: common.DataRoot + "/" + common.BloodPressureDir,
	}
}

// Save writes one observation as an encrypted record.
func (a *Adapter) Save(ctx context.Context, obs Observation) error {
	content, err := json.Marshal(obs)
	if err != nil {
		return fmt.Errorf("encode observation: %w", err)
	}
	return a.store.WritePod(ctx, a.dirPath+"/"+obs.FileName(), content, true)
}

// List returns every readable observation in the directory, sorted by
// timestamp ascending. Unreadable or malformed records are logged and
// skipped.
func (a *Adapter) List(ctx context.Context) ([]Observation, error) {
	container, err := a.store.GetResourcesInContainer(ctx, a.dirPath)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", a.dirPath, err)
	}

	var result []Observation
	for _, f := range container.Files {
		if !strings.HasSuffix(f.Name, common.EncSuffix) {
			continue
		}
		path := a.dirPath + "/" + f.Name
		content, err := a.store.ReadPod(ctx, path)
		if err != nil {
			a.logger.Warn(ctx, "skipping unreadable observation", "path", path, "error", err)
			continue
		}
		var obs Observation
		if err := json.Unmarshal(content, &obs); err != nil {
			a.logger.Warn(ctx, "skipping malformed observation", "path", path, "error", err)
			continue
		}
		result = append(result, obs)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})
	return result, nil
}

// ImportCSV reads rows from r and stores one record per row. Rows that fail
// to parse or store are skipped and counted; the import keeps going.
func (a *Adapter) ImportCSV(ctx context.Context, r io.Reader) (*ImportReport, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	report := &ImportReport{}
	first := true
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return report, fmt.Errorf("read csv: %w", err)
		}

		if first {
			first = false
			if isHeaderRow(row) {
				continue
			}
		}

		obs, err := parseRow(row)
		if err != nil {
			a.logger.Warn(ctx, "skipping csv row", "row", strings.Join(row, ","), "error", err)
			report.Skipped++
			continue
		}
		if err := a.Save(ctx, obs); err != nil {
			a.logger.Warn(ctx, "failed to store csv row", "row", strings.Join(row, ","), "error", err)
			report.Skipped++
			continue
		}
		report.Imported++
	}

	return report, nil
}

// ExportCSV writes every stored observation to w as a flat table, sorted by
// timestamp.
func (a *Adapter) ExportCSV(ctx context.Context, w io.Writer) (int, error) {
	observations, err := a.List(ctx)
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}
	for _, obs := range observations {
		row := []string{
			obs.Timestamp.Format(time.RFC3339),
			strconv.Itoa(obs.Systolic),
			strconv.Itoa(obs.Diastolic),
			strconv.Itoa(obs.HeartRate),
		}
		if err := cw.Write(row); err != nil {
			return 0, fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return len(observations), cw.Error()
}

func isHeaderRow(row []string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), csvHeader[0])
}

func parseRow(row []string) (Observation, error) {
	if len(row) < 4 {
		return Observation{}, fmt.Errorf("expected 4 columns, got %d", len(row))
	}

	ts, err := parseTimestamp(strings.TrimSpace(row[0]))
	if err != nil {
		return Observation{}, fmt.Errorf("timestamp: %w", err)
	}

	values := make([]int, 3)
	for i, col := range row[1:4] {
		v, err := strconv.Atoi(strings.TrimSpace(col))
		if err != nil {
			return Observation{}, fmt.Errorf("column %q: %w", csvHeader[i+1], err)
		}
		values[i] = v
	}

	return Observation{
		Timestamp: ts,
		Systolic:  values[0],
		Diastolic: values[1],
		HeartRate: values[2],
	}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
