package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/healthpod/healthpod/internal/client/profile"
	"github.com/healthpod/healthpod/internal/filex"
)

// Profile dispatches the "profile" subcommands: import, export, show.
func (a *App) Profile(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: profile import <json-path> | profile export <json-path> | profile show")
		return nil
	}

	switch args[0] {
	case "import":
		if len(args) < 2 {
			fmt.Println("Usage: profile import <json-path>")
			return nil
		}
		return a.profileImport(ctx, args[1])
	case "export":
		if len(args) < 2 {
			fmt.Println("Usage: profile export <json-path>")
			return nil
		}
		return a.profileExport(ctx, args[1])
	case "show":
		return a.profileShow(ctx)
	default:
		fmt.Println("Unknown profile command:", args[0])
		return nil
	}
}

func (a *App) profileImport(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Cannot read %s: %s", path, err.Error())
		return err
	}

	doc, err := a.profile.Import(ctx, raw, func(existing int) bool {
		prompt := fmt.Sprintf("Found %d existing profile record(s). Overwrite?", existing)
		ok, confErr := confirm(a.reader, prompt, os.Stdout)
		return confErr == nil && ok
	})
	if err != nil {
		var verr *profile.ValidationError
		switch {
		case errors.As(err, &verr):
			log.Printf("Invalid profile document, missing fields: %v", verr.Missing)
		case errors.Is(err, profile.ErrCancelled):
			fmt.Println("Import cancelled")
		default:
			log.Printf("Import failed: %s", err.Error())
		}
		return err
	}

	fmt.Println("Profile imported:")
	printDocument(doc)
	return nil
}

func (a *App) profileExport(ctx context.Context, path string) error {
	doc, content, err := a.profile.Export(ctx)
	if err != nil {
		if errors.Is(err, profile.ErrNoProfile) {
			fmt.Println("No profile stored yet")
			return nil
		}
		log.Printf("Export failed: %s", err.Error())
		return err
	}

	if err := filex.WriteLocal(path, content); err != nil {
		log.Printf("Cannot write %s: %s", path, err.Error())
		return err
	}

	fmt.Printf("Exported profile from %s to %s\n", doc.Timestamp.Format("2006-01-02"), path)
	return nil
}

func (a *App) profileShow(ctx context.Context) error {
	doc, _, err := a.profile.Export(ctx)
	if err != nil {
		if errors.Is(err, profile.ErrNoProfile) {
			fmt.Println("No profile stored yet")
			return nil
		}
		log.Println(err.Error())
		return err
	}

	printDocument(doc)
	return nil
}

func printDocument(doc *profile.Document) {
	for _, name := range doc.FieldNames() {
		fmt.Printf("  %s = %s\n", name, doc.Fields[name])
	}
	fmt.Printf("  (updated %s)\n", doc.Timestamp.Format("2006-01-02 15:04"))
}
