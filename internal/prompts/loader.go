// Package prompts holds the LLM prompt templates, one JSON object of named
// templates per file, embedded into the binary. Placeholders are written
// {{.Name}} and filled by Format.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"
)

//go:embed *.json
var files embed.FS

// Error reports a template file or key that could not be resolved
type Error struct {
	File  string
	Key   string
	Cause error
}

func (e *Error) Error() string {
	switch {
	case e.Cause != nil:
		return fmt.Sprintf("prompt file %s: %v", e.File, e.Cause)
	case e.Key != "":
		return fmt.Sprintf("prompt %q not found in %s", e.Key, e.File)
	default:
		return fmt.Sprintf("prompt file %s not found", e.File)
	}
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// registry maps file name to its templates. It is built on first use and
// never changes afterwards.
var (
	registry     map[string]map[string]string
	registryErr  error
	registryOnce sync.Once
)

func load() (map[string]map[string]string, error) {
	registryOnce.Do(func() {
		names, err := fs.Glob(files, "*.json")
		if err != nil {
			registryErr = err
			return
		}
		registry = make(map[string]map[string]string, len(names))
		for _, name := range names {
			data, err := files.ReadFile(name)
			if err != nil {
				registryErr = &Error{File: name, Cause: err}
				return
			}
			var templates map[string]string
			if err := json.Unmarshal(data, &templates); err != nil {
				registryErr = &Error{File: name, Cause: err}
				return
			}
			registry[name] = templates
		}
	})
	return registry, registryErr
}

// Get returns the template stored under key in file, e.g.
// Get("scoring.json", "ats-score").
func Get(file, key string) (string, error) {
	all, err := load()
	if err != nil {
		return "", err
	}
	templates, ok := all[file]
	if !ok {
		return "", &Error{File: file}
	}
	template, ok := templates[key]
	if !ok {
		return "", &Error{File: file, Key: key}
	}
	return template, nil
}

// MustGet is Get for templates the binary cannot run without
func MustGet(file, key string) string {
	template, err := Get(file, key)
	if err != nil {
		panic(err)
	}
	return template
}

// Format fills the {{.Name}} placeholders of template from data. Placeholders
// with no entry in data are left as they are.
func Format(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, 2*len(names))
	for _, name := range names {
		pairs = append(pairs, "{{."+name+"}}", data[name])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// keys lists the template names in file, sorted
func keys(file string) []string {
	all, err := load()
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(all[file]))
	for key := range all[file] {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
