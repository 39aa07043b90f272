package icitools

import (
	"path/filepath"
	"strings"
)

// OutputPath returns output if it's set, otherwise the input path with its
// extension replaced by ext.
func OutputPath(input, output, ext string) (string, error) {
	if output != "" {
		return output, nil
	}

	// Trailing separators are ignored, "images/" becomes "images.ext"
	input = filepath.Clean(input)
	base := filepath.Base(input)
	switch base {
	case ".", "..", string(filepath.Separator):
		return "", ErrInvalidOutputPath
	}

	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		// Dot files like ".image" have no extension
		stem = base
	}

	return filepath.Join(filepath.Dir(input), stem+"."+strings.TrimPrefix(ext, ".")), nil
}
