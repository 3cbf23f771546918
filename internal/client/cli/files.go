package cli

import (
	"context"
	"fmt"
	"log"
)

// Upload stores a local file in the current directory, encrypted.
func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: upload <local-path>")
		return nil
	}

	if err := a.transfer.UploadFile(ctx, a.nav.Current(), args[0]); err != nil {
		log.Printf("Upload failed: %s", err.Error())
		return err
	}

	fmt.Println("Uploaded.")
	return a.List(ctx)
}

// Download fetches a file from the current directory and saves the
// decrypted content locally. Without a target the file lands in a
// downloads directory under the working directory.
func (a *App) Download(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: download <name> [local-target]")
		return nil
	}

	localTarget := ""
	if len(args) > 1 {
		localTarget = args[1]
	}

	target, err := a.transfer.Download(ctx, a.nav.Current()+"/"+args[0], localTarget)
	if err != nil {
		log.Printf("Download failed: %s", err.Error())
		return err
	}

	fmt.Printf("Saved to %s\n", target)
	return nil
}

// Remove deletes a file in the current directory along with its
// access-control sidecar. Already-absent files count as removed.
func (a *App) Remove(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: rm <name>")
		return nil
	}

	if err := a.transfer.Delete(ctx, a.nav.Current()+"/"+args[0]); err != nil {
		log.Printf("Delete failed: %s", err.Error())
		return err
	}

	fmt.Println("Deleted.")
	return a.List(ctx)
}
