package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/segyhp/lending-engine/internal/domain"

	"gopkg.in/yaml.v3"
)

// FeePresets maps a preset name to a late-fee policy. Tenants pick a preset
// at loan origination instead of spelling out every field.
type FeePresets map[string]domain.FeePolicy

type feePresetsFile struct {
	Presets FeePresets `yaml:"presets"`
}

// LoadFeePresets reads presets from a YAML file. An empty path yields an
// empty set. Every preset is validated.
func LoadFeePresets(path string) (FeePresets, error) {
	if path == "" {
		return FeePresets{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fee presets: %w", err)
	}
	return ParseFeePresets(data)
}

// ParseFeePresets decodes and validates a presets document.
func ParseFeePresets(data []byte) (FeePresets, error) {
	var file feePresetsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse fee presets: %w", err)
	}
	if file.Presets == nil {
		return FeePresets{}, nil
	}

	for name, policy := range file.Presets {
		if err := policy.Validate(); err != nil {
			return nil, fmt.Errorf("fee preset %q: %w", name, err)
		}
	}
	return file.Presets, nil
}

// Lookup returns the named preset.
func (p FeePresets) Lookup(name string) (domain.FeePolicy, bool) {
	policy, ok := p[name]
	return policy, ok
}

// Names returns preset names in sorted order.
func (p FeePresets) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
