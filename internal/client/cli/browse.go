package cli

import (
	"context"
	"fmt"
)

// List prints the current directory: subdirectories with their shallow
// record counts first, then the validated files with modification times.
func (a *App) List(ctx context.Context) error {
	listing := a.lister.List(ctx, a.nav.Current())

	for _, sub := range listing.Subdirs {
		fmt.Printf("%-40s %d record(s)\n", sub+"/", listing.DirCount[sub])
	}
	for _, f := range listing.Files {
		fmt.Printf("%-40s %s\n", f.Name, f.LastModifiedAt.Format("2006-01-02 15:04"))
	}
	if len(listing.Subdirs) == 0 && len(listing.Files) == 0 {
		fmt.Println("(empty)")
	}
	return nil
}

// ChangeDir descends into a subdirectory of the current directory.
func (a *App) ChangeDir(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: cd <subdirectory>")
		return nil
	}
	a.nav.Enter(args[0])
	return a.List(ctx)
}

// Up pops back to the previous directory.
func (a *App) Up(ctx context.Context) error {
	if a.nav.Root() {
		fmt.Println("Already at the top")
		return nil
	}
	a.nav.Up()
	return a.List(ctx)
}

// Pwd prints the current logical path and its resolved URL.
func (a *App) Pwd(ctx context.Context) error {
	fmt.Println(a.nav.Current())
	fmt.Println(a.session.GetDirURL(a.nav.Current()))
	return nil
}
