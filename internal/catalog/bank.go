package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/mod/semver"
)

// FormatMajor is the bank format major version this build reads. Banks
// with any other major version are rejected; minor and patch bumps are
// assumed backward compatible.
const FormatMajor = "v1"

// Bank is one problem bank file: a manifest plus its problems.
type Bank struct {
	Name          string    `json:"name"`
	Subject       string    `json:"subject"`
	FormatVersion string    `json:"format_version"`
	Problems      []Problem `json:"problems"`
}

// LoadBank reads and validates a single bank file. Problems missing a
// subject inherit the bank's subject.
func LoadBank(path string) (*Bank, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bank %s: %w", path, err)
	}
	if err := validateBankDocument(raw); err != nil {
		return nil, fmt.Errorf("bank %s: %w", path, err)
	}

	var bank Bank
	if err := json.Unmarshal(raw, &bank); err != nil {
		return nil, fmt.Errorf("decode bank %s: %w", path, err)
	}
	if !semver.IsValid(bank.FormatVersion) {
		return nil, fmt.Errorf("%w: %s declares %q", ErrIncompatibleBank, path, bank.FormatVersion)
	}
	if semver.Major(bank.FormatVersion) != FormatMajor {
		return nil, fmt.Errorf("%w: %s declares %s, this build reads %s",
			ErrIncompatibleBank, path, bank.FormatVersion, FormatMajor)
	}

	for i := range bank.Problems {
		if bank.Problems[i].Subject == "" {
			bank.Problems[i].Subject = bank.Subject
		}
		if err := bank.Problems[i].Validate(); err != nil {
			return nil, fmt.Errorf("bank %s: %w", path, err)
		}
	}
	return &bank, nil
}

// LoadDir loads every *.json bank in dir into one catalog. Files are
// loaded in name order so duplicate-id errors are deterministic.
func LoadDir(dir string) (*Catalog, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("scan bank dir %s: %w", dir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no bank files in %s", dir)
	}
	sort.Strings(paths)

	var problems []Problem
	for _, path := range paths {
		bank, err := LoadBank(path)
		if err != nil {
			return nil, err
		}
		problems = append(problems, bank.Problems...)
	}
	return New(problems)
}
