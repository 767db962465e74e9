package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ramonehamilton/cubedraft/internal/cube"
	"github.com/ramonehamilton/cubedraft/internal/draft"
	"github.com/ramonehamilton/cubedraft/internal/formats"
)

// loadCube reads a cube file. JSON files hold a cube object or a bare card
// array; anything else is a plain card list whose cards carry only names.
func loadCube(path string) (*cube.Cube, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cube: %w", err)
	}

	c := &cube.Cube{Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		trimmed := strings.TrimSpace(string(data))
		if strings.HasPrefix(trimmed, "[") {
			err = json.Unmarshal(data, &c.Cards)
		} else {
			err = json.Unmarshal(data, c)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode cube %s: %w", filepath.Base(path), err)
		}
	} else {
		entries, err := cube.ParseList(string(data))
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			for i := 0; i < e.Count; i++ {
				c.Cards = append(c.Cards, cube.Card{Name: e.Name})
			}
		}
	}

	if len(c.Cards) == 0 {
		return nil, fmt.Errorf("cube %s: %w", filepath.Base(path), draft.ErrEmptyPool)
	}
	cube.AssignIDs(c.Cards)
	if err := cube.Validate(c.Cards); err != nil {
		return nil, err
	}
	return c, nil
}

// resolveFormat treats the flag as a file path when one exists, and as a
// library name otherwise.
func (o *options) resolveFormat() (draft.Format, error) {
	name := o.format
	if name == "" {
		name = formats.StandardName
	}

	if _, err := os.Stat(name); err == nil {
		return formats.ParseFile(name)
	}

	standard := draft.DefaultFormat(o.cfg.Draft.DefaultPacks, o.cfg.Draft.DefaultPackSize)
	standard.DefaultSeats = o.cfg.Draft.DefaultSeats

	dir := o.cfg.Formats.Dir
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		dir = ""
	}
	library, err := formats.Load(dir, formats.WithStandard(standard))
	if err != nil {
		return draft.Format{}, err
	}
	f, ok := library.Get(name)
	if !ok {
		return draft.Format{}, fmt.Errorf("unknown format %q (available: %s)", name, strings.Join(library.Names(), ", "))
	}
	return f, nil
}
