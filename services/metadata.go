package services

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const defaultMimeType = "application/octet-stream"

// extractMetadata inspects a stored upload. Image dimensions are added when the
// format is decodable; any other failure is returned to the caller, which
// treats it as degraded metadata rather than a failed upload.
func extractMetadata(path, filename string) (map[string]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat upload: %w", err)
	}

	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to detect file type: %w", err)
	}

	metadata := map[string]string{
		"FileName":      filename,
		"FileSize":      strconv.FormatInt(info.Size(), 10),
		"MIMEType":      detected.String(),
		"FileExtension": strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), "."),
	}
	if metadata["FileExtension"] == "" {
		metadata["FileExtension"] = strings.TrimPrefix(detected.Extension(), ".")
	}

	if strings.HasPrefix(detected.String(), "image/") {
		if w, h, ok := imageSize(path); ok {
			metadata["ImageWidth"] = strconv.Itoa(w)
			metadata["ImageHeight"] = strconv.Itoa(h)
		}
	}
	return metadata, nil
}

func imageSize(path string) (width, height int, ok bool) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, false
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, false
	}
	return cfg.Width, cfg.Height, true
}

// mergeMetadata overlays user supplied values on the extracted ones.
func mergeMetadata(extracted, supplied map[string]string) map[string]string {
	merged := make(map[string]string, len(extracted)+len(supplied))
	for k, v := range extracted {
		merged[k] = v
	}
	for k, v := range supplied {
		merged[k] = v
	}
	return merged
}
