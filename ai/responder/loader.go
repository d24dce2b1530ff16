package responder

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// RuleFile is the YAML layout of a custom rule file.
//
//	rules:
//	  - name: hiring
//	    patterns: ["hire|hiring|available"]
//	    replies: ["I'm open to new opportunities. Use the contact form!"]
//	    priority: 2
type RuleFile struct {
	Rules []RuleSpec `yaml:"rules"`
}

// ParseRules decodes custom rules from YAML.
func ParseRules(data []byte) ([]RuleSpec, error) {
	var f RuleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "failed to parse rule file")
	}
	return f.Rules, nil
}

// LoadTable reads custom rules from path and places them ahead of the
// built-in rules. An empty path returns the built-in table.
func LoadTable(path string) (*Table, error) {
	if path == "" {
		return DefaultTable(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read rule file %s", path)
	}
	specs, err := ParseRules(data)
	if err != nil {
		return nil, errors.Wrapf(err, "rule file %s", path)
	}
	table, err := DefaultTable().Extend(specs)
	if err != nil {
		return nil, errors.Wrapf(err, "rule file %s", path)
	}
	return table, nil
}
