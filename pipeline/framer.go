package pipeline

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/khaledhikmat/aqs-go/model"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// LoadFrame decodes an image file into the raw RGB frame the pipeline
// operates on.
func LoadFrame(path string) (*model.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}

	return model.NewFrameFromImage(img), nil
}

// ListImages returns the image files in a folder, sorted by name so watch
// processing order is stable.
func ListImages(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, err
	}

	files := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !imageExtensions[ext] {
			continue
		}
		files = append(files, filepath.Join(folder, entry.Name()))
	}

	sort.Strings(files)
	return files, nil
}
