package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aouyang1/imageslider/carousel"
	"github.com/aouyang1/imageslider/util"
)

// LocalSource lists image files from a directory on disk. The files are
// served back to the browser by the web server's photo image route.
type LocalSource struct {
	path string
}

func NewLocalSource(path string) (*LocalSource, error) {
	if path == "" {
		return nil, errors.New("no directory provided for local source")
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read local source directory, %s, %w", path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("local source is not a directory: %s", path)
	}
	return &LocalSource{path: path}, nil
}

type fileInfo struct {
	name    string
	modTime time.Time
}

func (l *LocalSource) getCurrentFiles() ([]fileInfo, error) {
	dirs, err := os.ReadDir(l.path)
	if err != nil {
		return nil, err
	}

	var fileInfos []fileInfo
	for _, dir := range dirs {
		if dir.IsDir() {
			continue
		}
		name := dir.Name()
		if !util.IsSupportedImage(name) {
			continue
		}

		info, err := dir.Info()
		if err != nil {
			continue
		}

		fileInfos = append(fileInfos, fileInfo{
			name:    name,
			modTime: info.ModTime(),
		})
	}
	return fileInfos, nil
}

// ListImages returns the newest perPage images in the directory.
func (l *LocalSource) ListImages(_ context.Context, perPage int) ([]carousel.ImageRecord, error) {
	fileInfos, err := l.getCurrentFiles()
	if err != nil {
		return nil, fmt.Errorf("unable to read directory, %s, %w", l.path, err)
	}

	// newest first, name breaks ties so the order is stable
	sort.Slice(fileInfos, func(i, j int) bool {
		if fileInfos[i].modTime.Equal(fileInfos[j].modTime) {
			return fileInfos[i].name < fileInfos[j].name
		}
		return fileInfos[i].modTime.After(fileInfos[j].modTime)
	})
	if len(fileInfos) > perPage {
		fileInfos = fileInfos[:perPage]
	}

	images := make([]carousel.ImageRecord, len(fileInfos))
	for i, fi := range fileInfos {
		images[i] = carousel.ImageRecord{
			ID:         fi.name,
			DisplayURL: localImageURL(fi.name),
			AltText:    strings.TrimSuffix(fi.name, filepath.Ext(fi.name)),
			AuthorName: filepath.Base(l.path),
		}
	}
	return images, nil
}

// Path returns the directory backing the source.
func (l *LocalSource) Path() string {
	return l.path
}

func localImageURL(name string) string {
	return fmt.Sprintf("/photos/%s/image", url.PathEscape(name))
}
