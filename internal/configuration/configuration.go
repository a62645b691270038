// Package configuration reads Unix-type (.env-style) configuration files
// through a pluggable provider and maps their keys into typed values.
package configuration

import (
	"strconv"
	"strings"
)

// genericConfigProvider defines the methods needed for reading Unix-type
// configuration files into a map (map[key]value).
type genericConfigProvider interface {
	Read(filenames ...string) (envMap map[string]string, err error)
}

// Handler is the principal implementation of the configuration service.
type Handler struct {
	ConfigReader genericConfigProvider
}

// NewHandler returns a pointer to a new configuration [Handler].
func NewHandler(configReader genericConfigProvider) *Handler {
	return &Handler{
		ConfigReader: configReader,
	}
}

// ReadGeneric reads the given configuration files into a map (map[key]value).
func (c *Handler) ReadGeneric(filenames ...string) (map[string]string, error) {
	return c.ConfigReader.Read(filenames...)
}

// MapKeyToString returns an element of a string map or "" if not existing.
func (c *Handler) MapKeyToString(envMap map[string]string, key string) string {
	if value, exists := envMap[key]; exists {
		return value
	}

	return ""
}

// MapKeyToInt returns an element of a string map as integer, or -1 if it is
// not existing or not convertible.
func (c *Handler) MapKeyToInt(envMap map[string]string, key string) int {
	value := c.MapKeyToString(envMap, key)
	if value == "" {
		return -1
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return -1
	}

	return intValue
}

// MapKeyToStrings returns an element of a string map as a comma-separated
// list of trimmed values, or nil if it is not existing or empty.
func (c *Handler) MapKeyToStrings(envMap map[string]string, key string) []string {
	value := c.MapKeyToString(envMap, key)
	if value == "" {
		return nil
	}

	var values []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}

	return values
}
