package icitools

import (
	"crypto/sha1"
	"database/sql"
	"fmt"
	"image/color"

	"github.com/emmabritton/ici-tools/ici"
	_ "github.com/mattn/go-sqlite3"
)

// PaletteDB stores named palettes so images can reference them by ID or
// name instead of storing their colors.
type PaletteDB struct {
	db *sql.DB
}

// StoredPalette is a palette held in a PaletteDB.
type StoredPalette struct {
	ID      int64
	Name    string
	SHA1    string
	Palette ici.Palette
}

// NewPaletteDB opens, creating if necessary, the palette database file.
func NewPaletteDB(file string) (*PaletteDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS palette (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE, sha1 TEXT NOT NULL, colors BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	return &PaletteDB{
		db: db,
	}, nil
}

// Close closes the database.
func (db *PaletteDB) Close() error {
	return db.db.Close()
}

func marshalColors(p ici.Palette) []byte {
	b := make([]byte, 0, 4*len(p))
	for _, c := range p {
		b = append(b, c.R, c.G, c.B, c.A)
	}
	return b
}

func unmarshalColors(b []byte) (ici.Palette, error) {
	if len(b)%4 != 0 || len(b)/4 > ici.MaxColors {
		return nil, fmt.Errorf("corrupt palette of %d bytes", len(b))
	}
	p := make(ici.Palette, len(b)/4)
	for i := range p {
		p[i] = color.NRGBA{b[4*i], b[4*i+1], b[4*i+2], b[4*i+3]}
	}
	return p, nil
}

// Add stores p under name, replacing the colors of any palette already
// stored with that name, and returns its ID. A replacement must have the same
// number of colors as the palette it replaces.
func (db *PaletteDB) Add(name string, p ici.Palette) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("palette name is empty")
	}
	if len(p) > ici.MaxColors {
		return 0, fmt.Errorf("palette has %d colors, max is %d", len(p), ici.MaxColors)
	}

	colors := marshalColors(p)
	sha := fmt.Sprintf("%X", sha1.Sum(colors))

	var id, size int64
	var existing string
	switch err := db.db.QueryRow("SELECT id, sha1, length(colors) FROM palette WHERE name = ?", name).Scan(&id, &existing, &size); err {
	case sql.ErrNoRows:
		result, err := db.db.Exec("INSERT INTO palette (name, sha1, colors) VALUES (?, ?, ?)", name, sha, colors)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		if existing == sha {
			return id, nil
		}
		// Images reference the palette by name so its length can't change
		if n := int(size / 4); n != len(p) {
			return 0, &PaletteSizeMismatchError{Expected: n, Actual: len(p)}
		}
		if _, err := db.db.Exec("UPDATE palette SET sha1 = ?, colors = ? WHERE id = ?", sha, colors, id); err != nil {
			return 0, err
		}
		return id, nil
	default:
		return 0, err
	}
}

func (db *PaletteDB) find(query string, arg interface{}) (*StoredPalette, error) {
	var sp StoredPalette
	var colors []byte
	switch err := db.db.QueryRow(query, arg).Scan(&sp.ID, &sp.Name, &sp.SHA1, &colors); err {
	case sql.ErrNoRows:
		return nil, fmt.Errorf("%w: %v", ErrPaletteNotFound, arg)
	case nil:
		p, err := unmarshalColors(colors)
		if err != nil {
			return nil, err
		}
		sp.Palette = p
		return &sp, nil
	default:
		return nil, err
	}
}

// ByID returns the palette stored with the given ID.
func (db *PaletteDB) ByID(id int64) (*StoredPalette, error) {
	return db.find("SELECT id, name, sha1, colors FROM palette WHERE id = ?", id)
}

// ByName returns the palette stored with the given name.
func (db *PaletteDB) ByName(name string) (*StoredPalette, error) {
	return db.find("SELECT id, name, sha1, colors FROM palette WHERE name = ?", name)
}

// List returns every stored palette ordered by ID.
func (db *PaletteDB) List() ([]StoredPalette, error) {
	rows, err := db.db.Query("SELECT id, name, sha1, colors FROM palette ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var palettes []StoredPalette
	for rows.Next() {
		var sp StoredPalette
		var colors []byte
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.SHA1, &colors); err != nil {
			return nil, err
		}
		if sp.Palette, err = unmarshalColors(colors); err != nil {
			return nil, err
		}
		palettes = append(palettes, sp)
	}
	return palettes, rows.Err()
}

// Resolve returns the stored palette referenced by fp.
func (db *PaletteDB) Resolve(fp ici.FilePalette) (ici.Palette, error) {
	var sp *StoredPalette
	var err error
	switch fp.Kind {
	case ici.ID:
		sp, err = db.ByID(int64(fp.ID))
	case ici.Name:
		sp, err = db.ByName(fp.Name)
	default:
		return nil, &UnsupportedPaletteKindError{fp.Kind}
	}
	if err != nil {
		return nil, err
	}
	return sp.Palette, nil
}
