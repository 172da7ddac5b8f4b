package config

import (
	"flag"
)

// settingValue adapts a field to flag.Value. It writes straight into the
// config so later layers need no merge step.
type settingValue struct {
	f   *field
	cfg *Config
}

func (v *settingValue) String() string {
	if v.f == nil || v.cfg == nil {
		return ""
	}
	if v.f.secret {
		return ""
	}
	return v.f.get(v.cfg)
}

func (v *settingValue) Set(s string) error {
	return v.f.set(v.cfg, s)
}

func (v *settingValue) IsBoolFlag() bool {
	return v.f != nil && v.f.isBool
}

// parseFlags registers the config flags on fs, parses args, and records
// every flag that was given.
func parseFlags(cws *ConfigWithSources, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet("kanban", flag.ContinueOnError)
	}

	byFlag := make(map[string]string)
	for i := range fields {
		f := &fields[i]
		if f.flag == "" {
			continue
		}
		fs.Var(&settingValue{f: f, cfg: cws.Config}, f.flag, f.usage)
		byFlag[f.flag] = f.key
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(fl *flag.Flag) {
		if key, ok := byFlag[fl.Name]; ok {
			cws.Sources[key] = SourceFlag
		}
	})
	return nil
}

// FlagNames returns the global flags that Load registers.
func FlagNames() []string {
	var names []string
	for _, f := range fields {
		if f.flag != "" {
			names = append(names, f.flag)
		}
	}
	return names
}
