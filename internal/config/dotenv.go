package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"church-admin-go/pkg/logger"
)

const (
	dotenvFilename = ".env"
	// envFileVar points at an explicit env file and disables the upward search.
	envFileVar = "ENV_FILE"
)

type envEntry struct {
	key   string
	value string
}

// loadDotEnv fills unset variables from the nearest .env file. A missing file
// is not an error; a file named by ENV_FILE must exist.
func loadDotEnv(log logger.Logger) error {
	path := os.Getenv(envFileVar)
	if path == "" {
		found, ok := findUp(dotenvFilename)
		if !ok {
			return nil
		}
		path = found
	}

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	entries, err := parseEnv(file)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	applied, kept, err := applyEnv(entries)
	if err != nil {
		return err
	}
	log.Info("dotenv: applied", "path", path, "applied", applied, "kept_from_env", kept)
	return nil
}

func findUp(filename string) (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for {
		candidate := filepath.Join(dir, filename)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, true
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", false
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// applyEnv never overrides variables already present in the process env.
func applyEnv(entries []envEntry) (applied, kept int, err error) {
	for _, entry := range entries {
		if _, exists := os.LookupEnv(entry.key); exists {
			kept++
			continue
		}
		if err := os.Setenv(entry.key, entry.value); err != nil {
			return applied, kept, err
		}
		applied++
	}
	return applied, kept, nil
}

func parseEnv(r io.Reader) ([]envEntry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var entries []envEntry
	for scanner.Scan() {
		if entry, ok := parseEnvLine(scanner.Text()); ok {
			entries = append(entries, entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func parseEnvLine(raw string) (envEntry, bool) {
	line := strings.TrimSpace(raw)
	if line == "" || line[0] == '#' {
		return envEntry{}, false
	}
	line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

	key, value, found := strings.Cut(line, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return envEntry{}, false
	}
	return envEntry{key: key, value: unquoteEnvValue(strings.TrimSpace(value))}, true
}

func unquoteEnvValue(value string) string {
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if first == '"' && last == '"' {
			if unquoted, err := strconv.Unquote(value); err == nil {
				return unquoted
			}
			return value[1 : len(value)-1]
		}
		if first == '\'' && last == '\'' {
			return value[1 : len(value)-1]
		}
	}
	// " #" starts a trailing comment on unquoted values.
	for i := 1; i < len(value); i++ {
		if value[i] == '#' && (value[i-1] == ' ' || value[i-1] == '\t') {
			return strings.TrimSpace(value[:i])
		}
	}
	return value
}
