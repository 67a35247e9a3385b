//go:build !tinygo

package board

import (
	"io"

	"gopkg.in/yaml.v2"

	"g4boot/errcode"
)

// File is the layout of a board descriptor file.
type File struct {
	Boards []Board `yaml:"boards"`
}

// Load reads and validates board descriptors. A descriptor without a memory
// section inherits the G431 Nucleo layout.
func Load(r io.Reader) ([]Board, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var f File
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "board.Load", Err: err}
	}
	for i := range f.Boards {
		b := &f.Boards[i]
		if b.Memory == (Memory{}) {
			b.Memory = NucleoG431RB.Memory
		}
		if err := b.Validate(); err != nil {
			return nil, err
		}
	}
	return f.Boards, nil
}

// Dump writes boards in the format Load reads.
func Dump(w io.Writer, boards []Board) error {
	data, err := yaml.Marshal(File{Boards: boards})
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
