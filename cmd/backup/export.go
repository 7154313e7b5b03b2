package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/2beens/calisthenics/internal/tracker"
	"github.com/2beens/calisthenics/pkg"
)

// writeExport stores the full export as a json file in dir and returns its path.
func writeExport(ctx context.Context, service *tracker.Service, dir string) (_ string, err error) {
	exists, err := pkg.PathExists(dir, true)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("export dir %s does not exist", dir)
	}

	export, err := service.Export(ctx)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, export.Filename())
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if cErr := f.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	if err := export.Encode(f); err != nil {
		return "", fmt.Errorf("encode export: %w", err)
	}
	return path, nil
}
