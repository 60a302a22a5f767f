// Package config handles YAML config file loading for braket-devices.
package config

import (
	"os"
	"regexp"
)

// envVarPattern matches ${VAR} and ${VAR:-default}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// ExpandEnv substitutes ${VAR} and ${VAR:-default} references. The default
// applies when VAR is unset or empty. An unset VAR without a default
// expands to the empty string; the field it lands in is validated later.
func ExpandEnv(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(ref string) string {
		m := envVarPattern.FindStringSubmatch(ref)
		if v := os.Getenv(m[1]); v != "" {
			return v
		}
		return m[2]
	})
}
