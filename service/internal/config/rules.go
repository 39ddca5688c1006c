package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/miguelartazos/Guinote-Mobile-APP-sub000/service/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed defaults/rules.yaml
var defaultRulesYAML []byte

// LoadHouseRules loads table rules.
// Search order: customPath -> ~/.guinote/rules.yaml -> ./configs/rules.yaml -> embedded default.
// Keys missing from the file keep their default value.
func LoadHouseRules(customPath string) (models.HouseRules, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return models.HouseRules{}, fmt.Errorf("failed to read rules %s: %w", customPath, err)
		}
		rules, err := parseHouseRules(data)
		if err != nil {
			return models.HouseRules{}, fmt.Errorf("failed to parse rules %s: %w", customPath, err)
		}
		return rules, nil
	}

	if p := userConfigPath("rules.yaml"); p != "" {
		if data, err := os.ReadFile(p); err == nil {
			if rules, err := parseHouseRules(data); err == nil {
				return rules, nil
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", "rules.yaml")); err == nil {
		if rules, err := parseHouseRules(data); err == nil {
			return rules, nil
		}
	}

	rules, err := parseHouseRules(defaultRulesYAML)
	if err != nil {
		return models.DefaultHouseRules(), nil
	}
	return rules, nil
}

func parseHouseRules(data []byte) (models.HouseRules, error) {
	rules := models.DefaultHouseRules()
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return models.HouseRules{}, err
	}
	if _, err := rules.Engine(); err != nil {
		return models.HouseRules{}, err
	}
	return rules, nil
}

// MarshalHouseRules renders rules in the rules.yaml format.
func MarshalHouseRules(rules models.HouseRules) ([]byte, error) {
	return yaml.Marshal(rules)
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".guinote", filename)
}
