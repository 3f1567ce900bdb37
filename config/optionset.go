package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ipchama/dhcpopt/option"
)

// OptionEntry is one option in text form. Code is a name or a decimal tag,
// Value is whatever option.Parse accepts for that code.
type OptionEntry struct {
	Code  string `yaml:"code" json:"code"`
	Value string `yaml:"value" json:"value"`
}

// OptionSet is the on-disk format of an option set file:
//
//	options:
//	  - code: hostname
//	    value: probe-01
//	  - code: 60
//	    value: 4d53465420352e30
type OptionSet struct {
	Options []OptionEntry `yaml:"options"`
}

// Resolve turns every entry into an option, in file order.
func (s *OptionSet) Resolve() ([]option.Option, error) {
	opts := make([]option.Option, 0, len(s.Options))

	for i, e := range s.Options {
		c, err := option.ParseCode(e.Code)
		if err != nil {
			return nil, errors.Wrapf(err, "entry %d", i)
		}

		o, err := option.Parse(c, e.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "entry %d (%s)", i, c)
		}

		opts = append(opts, o)
	}

	return opts, nil
}

func ParseOptionSet(data []byte) ([]option.Option, error) {
	var set OptionSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, errors.Wrap(err, "failed to parse option set")
	}
	return set.Resolve()
}

func LoadOptionSet(path string) ([]option.Option, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read option set %s", path)
	}

	opts, err := ParseOptionSet(data)
	if err != nil {
		return nil, errors.Wrapf(err, "option set %s", path)
	}

	return opts, nil
}

// ParseOptionFlags reads repeated code=value arguments.
func ParseOptionFlags(args []string) ([]option.Option, error) {
	set := OptionSet{Options: make([]OptionEntry, 0, len(args))}

	for _, a := range args {
		c, v, found := strings.Cut(a, "=")
		if !found {
			return nil, errors.Errorf("option %q is not in code=value form", a)
		}
		set.Options = append(set.Options, OptionEntry{Code: c, Value: v})
	}

	return set.Resolve()
}
