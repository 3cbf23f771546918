package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/healthpod/healthpod/internal/client/bp"
)

// BloodPressure dispatches the "bp" subcommands: add, list, import, export.
func (a *App) BloodPressure(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: bp add | bp list | bp import <csv-path> | bp export <csv-path>")
		return nil
	}

	switch args[0] {
	case "add":
		return a.bpAdd(ctx)
	case "list":
		return a.bpList(ctx)
	case "import":
		if len(args) < 2 {
			fmt.Println("Usage: bp import <csv-path>")
			return nil
		}
		return a.bpImport(ctx, args[1])
	case "export":
		if len(args) < 2 {
			fmt.Println("Usage: bp export <csv-path>")
			return nil
		}
		return a.bpExport(ctx, args[1])
	default:
		fmt.Println("Unknown bp command:", args[0])
		return nil
	}
}

func (a *App) bpAdd(ctx context.Context) error {
	obs := bp.Observation{Timestamp: time.Now().UTC()}

	for _, field := range []struct {
		prompt string
		target *int
	}{
		{"Systolic (mmHg)", &obs.Systolic},
		{"Diastolic (mmHg)", &obs.Diastolic},
		{"Heart rate (bpm)", &obs.HeartRate},
	} {
		text, err := getSimpleText(a.reader, field.prompt, os.Stdout)
		if err != nil {
			return err
		}
		v, err := strconv.Atoi(text)
		if err != nil {
			log.Printf("Invalid number %q", text)
			return err
		}
		*field.target = v
	}

	if err := a.bp.Save(ctx, obs); err != nil {
		log.Printf("Save failed: %s", err.Error())
		return err
	}

	fmt.Println("Saved.")
	return nil
}

func (a *App) bpList(ctx context.Context) error {
	observations, err := a.bp.List(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	if len(observations) == 0 {
		fmt.Println("No readings yet")
		return nil
	}

	fmt.Printf("%-20s %8s %9s %10s\n", "timestamp", "systolic", "diastolic", "heart rate")
	for _, o := range observations {
		fmt.Printf("%-20s %8d %9d %10d\n", o.Timestamp.Format("2006-01-02 15:04"), o.Systolic, o.Diastolic, o.HeartRate)
	}
	return nil
}

func (a *App) bpImport(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("Cannot open %s: %s", path, err.Error())
		return err
	}
	defer f.Close()

	report, err := a.bp.ImportCSV(ctx, f)
	if err != nil {
		log.Printf("Import failed: %s", err.Error())
		return err
	}

	fmt.Printf("Imported %d reading(s), skipped %d\n", report.Imported, report.Skipped)
	return nil
}

func (a *App) bpExport(ctx context.Context, path string) error {
	f, err := os.Create(path)
	if err != nil {
		log.Printf("Cannot create %s: %s", path, err.Error())
		return err
	}
	defer f.Close()

	n, err := a.bp.ExportCSV(ctx, f)
	if err != nil {
		log.Printf("Export failed: %s", err.Error())
		return err
	}

	fmt.Printf("Exported %d reading(s) to %s\n", n, path)
	return nil
}
