// Package staging copies scenario unit files into the directory watched by
// systemd-networkd and removes them afterwards.
package staging

import (
	"os"
	"path/filepath"
)

// Stage copies each named unit from the source directory into the unit
// directory, replacing any existing file of the same name. Units are copied
// in the caller-supplied order so failures are reproducible.
func Stage(sourceDir string, unitDir string, units ...string) error {
	for _, unit := range units {
		content, err := os.ReadFile(filepath.Join(sourceDir, unit))
		if err != nil {
			return err
		}

		err = os.WriteFile(filepath.Join(unitDir, unit), content, 0o644)
		if err != nil {
			return err
		}
	}

	return nil
}

// Unstage removes each named unit from the unit directory. Units that are
// already absent are skipped.
func Unstage(unitDir string, units ...string) error {
	for _, unit := range units {
		err := os.Remove(filepath.Join(unitDir, unit))
		if err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	return nil
}
