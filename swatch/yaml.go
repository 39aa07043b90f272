package swatch

import (
	"fmt"
	"io"

	"github.com/emmabritton/ici-tools/ici"
	"gopkg.in/yaml.v3"
)

type yamlSwatch struct {
	Name   string   `yaml:"name,omitempty"`
	Colors []string `yaml:"colors"`
}

// DecodeYAML reads a YAML swatch from r.
func DecodeYAML(r io.Reader) (*Swatch, error) {
	var ys yamlSwatch
	if err := yaml.NewDecoder(r).Decode(&ys); err != nil {
		if err == io.EOF {
			return &Swatch{Colors: ici.Palette{}}, nil
		}
		return nil, fmt.Errorf("swatch: %w", err)
	}

	s := &Swatch{
		Name:   ys.Name,
		Colors: make(ici.Palette, len(ys.Colors)),
	}
	for i, h := range ys.Colors {
		c, err := ParseHex(h)
		if err != nil {
			return nil, err
		}
		s.Colors[i] = c
	}
	return s, nil
}

// EncodeYAML writes s to w as a YAML swatch.
func EncodeYAML(w io.Writer, s *Swatch) error {
	ys := yamlSwatch{
		Name:   s.Name,
		Colors: make([]string, len(s.Colors)),
	}
	for i, c := range s.Colors {
		ys.Colors[i] = Hex(c)
	}

	e := yaml.NewEncoder(w)
	e.SetIndent(2)
	if err := e.Encode(&ys); err != nil {
		return err
	}
	return e.Close()
}
