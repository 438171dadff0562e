package cli_config

import (
	"os"
	"os/user"
	"path"
)

const configDirName = ".archdiagram"

// ConfigPath returns a path to a file in ~/.archdiagram/<filename>
func ConfigPath(file string) (string, error) {
	osUser, err := user.Current()
	if err != nil {
		return "", err
	}
	return path.Join(osUser.HomeDir, configDirName, file), nil
}

// DefaultConfigFile returns ~/.archdiagram/config.yaml if it exists, or the empty string.
func DefaultConfigFile() string {
	p, err := ConfigPath("config.yaml")
	if err != nil {
		return ""
	}
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}
