// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

// Package menu loads the static model menu: a JSON object mapping the
// display name shown in the console's model chooser to the path of that
// model on the renderer's filesystem.
//
//	{
//	  // comments and trailing commas are accepted
//	  "Garden": "/data/nif/garden.nif",
//	  "Lego bulldozer": "/data/nif/lego.nif",
//	}
//
// The file is read once at startup. No file means an empty menu.
package menu

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/tidwall/jsonc"
)

// Entry is one selectable model.
type Entry struct {
	Name       string
	RemotePath string
}

// Parse strips JSONC comments and trailing commas from data and decodes
// the name→path object. Entries are sorted by name. Empty names or
// paths are rejected.
func Parse(data []byte) ([]Entry, error) {
	var raw map[string]string
	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		return nil, fmt.Errorf("parsing menu: %w", err)
	}

	entries := make([]Entry, 0, len(raw))
	for name, path := range raw {
		if name == "" {
			return nil, fmt.Errorf("parsing menu: empty display name for path %q", path)
		}
		if path == "" {
			return nil, fmt.Errorf("parsing menu: entry %q has an empty remote path", name)
		}
		entries = append(entries, Entry{Name: name, RemotePath: path})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// ReadFile reads and parses the menu at path. An empty path returns an
// empty menu and no error.
func ReadFile(path string) ([]Entry, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	entries, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}
