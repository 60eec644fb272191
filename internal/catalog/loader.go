package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lehigh-university-libraries/partsdesk/internal/models"
)

// Files maps each catalog file to the appliance type its parts belong to.
var Files = []struct {
	Name      string
	Appliance string
}{
	{Name: "refrigerator_parts.json", Appliance: "refrigerator"},
	{Name: "dishwasher_parts.json", Appliance: "dishwasher"},
}

// DefaultDirs are searched after any configured location.
var DefaultDirs = []string{"data", filepath.Join("..", "data"), "/app/data"}

// Source opens a named catalog file. A missing file must yield an error
// matching fs.ErrNotExist.
type Source interface {
	Name() string
	Open(ctx context.Context, file string) (io.ReadCloser, error)
}

// DirSource reads catalog files from a local directory.
type DirSource struct {
	Dir string
}

func (d DirSource) Name() string { return d.Dir }

func (d DirSource) Open(_ context.Context, file string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(d.Dir, file))
}

type catalogFile struct {
	Parts []models.Part `json:"parts"`
}

// Load reads every catalog file from the first source that has it. Missing
// files are logged and skipped; only malformed files are errors.
func Load(ctx context.Context, sources ...Source) (*Catalog, error) {
	var parts []models.Part
	for _, f := range Files {
		loaded, from, err := loadFile(ctx, f.Name, sources)
		if errors.Is(err, fs.ErrNotExist) {
			slog.Warn("Catalog file not found", "file", f.Name, "searched", sourceNames(sources))
			continue
		}
		if err != nil {
			return nil, err
		}
		for i := range loaded {
			if loaded[i].ApplianceType == "" {
				loaded[i].ApplianceType = f.Appliance
			}
			loaded[i].ApplianceType = strings.ToLower(loaded[i].ApplianceType)
		}
		slog.Info("Loaded catalog file", "file", f.Name, "source", from, "parts", len(loaded))
		parts = append(parts, loaded...)
	}
	if len(parts) == 0 {
		slog.Warn("Catalog is empty")
	}
	return New(parts), nil
}

func loadFile(ctx context.Context, file string, sources []Source) ([]models.Part, string, error) {
	for _, src := range sources {
		rc, err := src.Open(ctx, file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			// An unreachable source counts as not having the file.
			slog.Warn("Catalog source unavailable", "source", src.Name(), "file", file, "err", err)
			continue
		}
		var doc catalogFile
		err = json.NewDecoder(rc).Decode(&doc)
		rc.Close()
		if err != nil {
			return nil, src.Name(), fmt.Errorf("failed to parse %s from %s: %w", file, src.Name(), err)
		}
		return doc.Parts, src.Name(), nil
	}
	return nil, "", fs.ErrNotExist
}

// Sources builds the candidate list for a configured location. An s3:// URL is
// turned into an S3 source by newS3; local defaults always follow.
func Sources(ctx context.Context, dir string, newS3 func(ctx context.Context, url string) (Source, error)) []Source {
	var sources []Source
	switch {
	case strings.HasPrefix(dir, "s3://") && newS3 != nil:
		src, err := newS3(ctx, dir)
		if err != nil {
			slog.Warn("Unable to configure S3 catalog source", "url", dir, "err", err)
		} else {
			sources = append(sources, src)
		}
	case dir != "":
		sources = append(sources, DirSource{Dir: dir})
	}
	for _, d := range DefaultDirs {
		sources = append(sources, DirSource{Dir: d})
	}
	return sources
}

func sourceNames(sources []Source) []string {
	names := make([]string, 0, len(sources))
	for _, s := range sources {
		names = append(names, s.Name())
	}
	return names
}
