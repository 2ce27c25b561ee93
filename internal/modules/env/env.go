package env

import (
	"fmt"
	"os"
	"strconv"
)

// MustGetString returns the named variable or panics. Configuration is
// resolved once at startup; a missing variable is a deployment error.
func MustGetString(name string) string {
	value, found := os.LookupEnv(name)
	if !found || value == "" {
		panic(fmt.Sprintf("required environment variable '%s' is not set", name))
	}

	return value
}

func MustGetInt(name string) int {
	value := MustGetString(name)

	parsed, err := strconv.Atoi(value)
	if err != nil {
		panic(fmt.Sprintf("environment variable '%s' is not an integer: '%s'", name, value))
	}

	return parsed
}

func GetStringOrDefault(name, def string) string {
	value, found := os.LookupEnv(name)
	if !found || value == "" {
		return def
	}

	return value
}
