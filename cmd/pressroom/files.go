package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/abduss/pressroom/internal/attachment"
	"github.com/gabriel-vasile/mimetype"
)

// openFiles opens local paths as upload candidates. The returned closer
// releases every handle that was opened.
func openFiles(paths []string) ([]attachment.File, func(), error) {
	var handles []*os.File
	closeAll := func() {
		for _, h := range handles {
			_ = h.Close()
		}
	}

	files := make([]attachment.File, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		if info.IsDir() {
			closeAll()
			return nil, func() {}, fmt.Errorf("%s is a directory", path)
		}

		detected, err := mimetype.DetectFile(path)
		if err != nil {
			closeAll()
			return nil, func() {}, fmt.Errorf("detect type of %s: %w", path, err)
		}

		h, err := os.Open(path)
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		handles = append(handles, h)

		files = append(files, attachment.File{
			Name: filepath.Base(path),
			Type: detected.String(),
			Size: info.Size(),
			Body: h,
		})
	}
	return files, closeAll, nil
}

func readContent(inline, path string) (string, error) {
	if inline != "" && path != "" {
		return "", errors.New("use either --content or --content-file, not both")
	}
	if path == "" {
		return inline, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
