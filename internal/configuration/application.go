package configuration

import (
	"errors"
	"io/fs"

	"github.com/fsweep/fsweep/hashing"
	"github.com/fsweep/fsweep/walk"
)

// Configuration keys understood in the application configuration file.
const (
	KeyChunkSize    = "FSWEEP_CHUNK_SIZE"
	KeyExcludedDirs = "FSWEEP_EXCLUDED_DIRS"
	KeyExtensions   = "FSWEEP_EXTENSIONS"
)

// AppConfiguration is the principal structure holding the application
// configuration.
type AppConfiguration struct {
	// ChunkSize is the hashing read granularity in bytes.
	ChunkSize int

	// ExcludedDirs are the directory names pruned from file searches.
	ExcludedDirs []string

	// Extensions are the file extensions admitted by file searches.
	Extensions []string
}

// NewAppConfiguration returns a pointer to a new [AppConfiguration] holding
// the application defaults.
func NewAppConfiguration() *AppConfiguration {
	return &AppConfiguration{
		ChunkSize:    hashing.DefaultChunkSize,
		ExcludedDirs: walk.DefaultExcludedDirs,
		Extensions:   []string{walk.WildcardExtension},
	}
}

// LoadFile overlays the configuration from the given file onto the
// defaults. A missing file is not an error; the defaults stand.
func (a *AppConfiguration) LoadFile(c *Handler, filename string) error {
	envMap, err := c.ReadGeneric(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return err
	}

	if chunkSize := c.MapKeyToInt(envMap, KeyChunkSize); chunkSize > 0 {
		a.ChunkSize = chunkSize
	}
	if excluded := c.MapKeyToStrings(envMap, KeyExcludedDirs); excluded != nil {
		a.ExcludedDirs = excluded
	}
	if extensions := c.MapKeyToStrings(envMap, KeyExtensions); extensions != nil {
		a.Extensions = extensions
	}

	return nil
}
