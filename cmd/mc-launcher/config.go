package main

import (
	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
)

// loadConfig decodes the file at p into ptr, as toml when the extension is
// .toml and as yaml otherwise. An empty path stores the zero value.
func loadConfig[T any](ptr *atomic.Pointer[T], p string) error {
	var c T
	if p == "" {
		ptr.Store(&c)
		return nil
	}
	file, err := os.Open(p)
	if err != nil {
		return err
	}
	defer file.Close()

	if strings.EqualFold(filepath.Ext(p), ".toml") {
		_, err = toml.NewDecoder(file).Decode(&c)
	} else {
		err = yaml.NewDecoder(file).Decode(&c)
	}
	if err != nil {
		return err
	}
	ptr.Store(&c)
	return nil
}
