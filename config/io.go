// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Includer is a config that can include other config files.
type Includer interface {
	IncludesPtr() *[]string
}

// Open reads the given config object from the given file, which is
// TOML or YAML depending on its extension. Fields that are not in the
// file keep their current values.
func Open(cfg any, file string) error {
	b, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	switch ext := strings.ToLower(filepath.Ext(file)); ext {
	case ".toml":
		err = toml.NewDecoder(bytes.NewReader(b)).DisallowUnknownFields().Decode(cfg)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		err = dec.Decode(cfg)
	default:
		return fmt.Errorf("config.Open: unsupported file type %q for %q", ext, file)
	}
	if err != nil {
		return fmt.Errorf("config.Open %q: %w", file, err)
	}
	return nil
}

// OpenFiles reads the given config object from the given files in order.
func OpenFiles(cfg any, files ...string) error {
	for _, f := range files {
		if err := Open(cfg, f); err != nil {
			return err
		}
	}
	return nil
}

// Save writes the given config object to the given file, as TOML or
// YAML depending on its extension.
func Save(cfg any, file string) error {
	var b []byte
	var err error
	switch ext := strings.ToLower(filepath.Ext(file)); ext {
	case ".toml":
		b, err = toml.Marshal(cfg)
	case ".yaml", ".yml":
		b, err = yaml.Marshal(cfg)
	default:
		return fmt.Errorf("config.Save: unsupported file type %q for %q", ext, file)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(file, b, 0666)
}

// FindFilesOnPaths returns the paths of the given file in each of the
// given directories in which it exists. Directories may start with ~
// for the home directory. An absolute file is returned as is if it exists.
func FindFilesOnPaths(paths []string, file string) []string {
	file, _ = homedir.Expand(file)
	if filepath.IsAbs(file) {
		if _, err := os.Stat(file); err == nil {
			return []string{file}
		}
		return nil
	}
	var res []string
	for _, p := range paths {
		dir, err := homedir.Expand(p)
		if err != nil {
			continue
		}
		fp := filepath.Join(dir, file)
		if _, err := os.Stat(fp); err == nil {
			res = append(res, fp)
		}
	}
	return res
}

// OpenWithIncludes reads the config object from the given file, looking
// for it on the given paths. If the config is an [Includer], its included
// files are opened first, in the natural include order, so that includers
// override included settings, and the file is then reopened.
// It returns an error if the file or any include cannot be found.
func OpenWithIncludes(paths []string, cfg any, file string) error {
	files := FindFilesOnPaths(paths, file)
	if len(files) == 0 {
		return fmt.Errorf("config.OpenWithIncludes: no files found for %q on %v", file, paths)
	}
	if err := OpenFiles(cfg, files...); err != nil {
		return err
	}
	incfg, ok := cfg.(Includer)
	if !ok {
		return nil
	}
	incs, err := includeStack(paths, incfg)
	if err != nil {
		return err
	}
	for i := len(incs) - 1; i >= 0; i-- {
		if err := OpenFiles(cfg, FindFilesOnPaths(paths, incs[i])...); err != nil {
			return err
		}
	}
	if err := OpenFiles(cfg, files...); err != nil {
		return err
	}
	*incfg.IncludesPtr() = incs
	return nil
}

// includeStack returns the stack of include files in the natural order
// in which they are encountered (nil if none). Files are opened into a
// scratch copy of each includer. A file reached twice through different
// includers is listed once; a file that includes itself through its own
// chain is an error.
func includeStack(paths []string, cfg Includer) ([]string, error) {
	var stack, chain []string
	var visit func(inc string) error
	visit = func(inc string) error {
		if slices.Contains(chain, inc) {
			return fmt.Errorf("config: include cycle at %q", inc)
		}
		if slices.Contains(stack, inc) {
			return nil
		}
		files := FindFilesOnPaths(paths, inc)
		if len(files) == 0 {
			return fmt.Errorf("config: include file %q not found on %v", inc, paths)
		}
		stack = append(stack, inc)
		sub := &Config{}
		if err := OpenFiles(sub, files...); err != nil {
			return err
		}
		chain = append(chain, inc)
		defer func() { chain = chain[:len(chain)-1] }()
		for _, next := range sub.Includes {
			if err := visit(next); err != nil {
				return err
			}
		}
		return nil
	}
	for _, inc := range *cfg.IncludesPtr() {
		if err := visit(inc); err != nil {
			return nil, err
		}
	}
	return stack, nil
}
