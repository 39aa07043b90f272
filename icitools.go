/*
Package icitools converts truecolor images into ICI indexed images and
manages the palettes of ICI and ICA files.

Conversion never reduces colors; an image must already fit in an ICI image,
at most 255 by 255 pixels using no more than 255 distinct colors. Palettes
can be extracted to swatch files, swapped between images of the same palette
length and kept in a PaletteDB so images can refer to them by ID or name.
*/
package icitools

import (
	"errors"
	"log"
)

var errNoDB = errors.New("no palette database")

// Tool performs the file level operations, logging progress to its logger.
type Tool struct {
	db     *PaletteDB
	logger *log.Logger
}

// New returns a Tool. db may be nil in which case palette references can't
// be resolved or stored.
func New(db *PaletteDB, logger *log.Logger) *Tool {
	return &Tool{
		db:     db,
		logger: logger,
	}
}
