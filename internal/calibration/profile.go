package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// ProfileFileName is the name of the cached calibration profile in the
// user's home directory.
const ProfileFileName = ".mcsim_calibration.json"

// Profile is the cached outcome of a calibration run. A cached profile is
// only trusted on a machine with the same core count it was measured on.
type Profile struct {
	// Workers is the benchmarked optimal worker count.
	Workers int `json:"workers"`
	// NumCPU is the core count of the machine the profile was measured on.
	NumCPU int `json:"num_cpu"`
	// Timestamp records when the calibration ran.
	Timestamp time.Time `json:"timestamp"`
}

// DefaultProfilePath returns the profile location in the user's home
// directory.
func DefaultProfilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot resolve home directory: %w", err)
	}
	return filepath.Join(home, ProfileFileName), nil
}

// LoadProfile reads a cached profile. It returns (nil, nil) when no profile
// exists or the cached profile was measured on different hardware, so
// callers fall back to calibrating or to adaptive defaults.
//
// Parameters:
//   - path: The profile file path.
//
// Returns:
//   - *Profile: The cached profile, or nil when unusable.
//   - error: An error if the file exists but cannot be parsed.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading calibration profile: %w", err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing calibration profile: %w", err)
	}
	if p.Workers < 1 || p.NumCPU != runtime.NumCPU() {
		return nil, nil
	}
	return &p, nil
}

// SaveProfile persists a profile, creating parent directories as needed.
//
// Parameters:
//   - path: The destination file path.
//   - p: The profile to persist.
//
// Returns:
//   - error: An error if the profile cannot be written.
func SaveProfile(path string, p Profile) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating profile directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding calibration profile: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing calibration profile: %w", err)
	}
	return nil
}
