package generator

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the generator's resolved configuration. New seeds it with the
// built-in defaults; Generator.ParseParameters then layers it from
// (in increasing precedence) built-in defaults, an optional YAML file, and
// the protoc plugin parameter string — the parameter string wins because
// it is the one channel a build driving protoc actually has to override
// generator behavior on a single invocation.
type Config struct {
	License                 string `yaml:"license"`
	StrictFieldNumbers      bool   `yaml:"strict_field_numbers"`
	StrictEnumValidation    bool   `yaml:"strict_enum_validation"`
	AllowEmptyPackedArrays  bool   `yaml:"allow_empty_packed_arrays"`
	AllowNonMonotonicFields bool   `yaml:"allow_non_monotonic_fields"`
}

// YAML renders cfg the same shape a --config file takes, for the `config`
// subcommand's "what will actually be used" dump. viper (used by
// loadConfig to read a config file) never needs to write one back out, so
// this goes through yaml.Marshal directly instead.
func (cfg Config) YAML() (string, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func defaultConfig() Config {
	return Config{
		License:                 "MIT",
		StrictFieldNumbers:      true,
		StrictEnumValidation:    true,
		AllowNonMonotonicFields: true,
	}
}

// loadConfig layers defaults under an optional viper-backed config file.
// configPath may be empty, in which case only defaults apply.
func loadConfig(configPath string) (Config, error) {
	cfg := defaultConfig()
	if configPath == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetDefault("license", cfg.License)
	v.SetDefault("strict_field_numbers", cfg.StrictFieldNumbers)
	v.SetDefault("strict_enum_validation", cfg.StrictEnumValidation)
	v.SetDefault("allow_empty_packed_arrays", cfg.AllowEmptyPackedArrays)
	v.SetDefault("allow_non_monotonic_fields", cfg.AllowNonMonotonicFields)

	if err := v.ReadInConfig(); err != nil {
		return cfg, err
	}

	cfg.License = v.GetString("license")
	cfg.StrictFieldNumbers = v.GetBool("strict_field_numbers")
	cfg.StrictEnumValidation = v.GetBool("strict_enum_validation")
	cfg.AllowEmptyPackedArrays = v.GetBool("allow_empty_packed_arrays")
	cfg.AllowNonMonotonicFields = v.GetBool("allow_non_monotonic_fields")
	return cfg, nil
}

// applyParameterString overlays the protoc `key=value,key=value` plugin
// parameter on top of cfg, which always wins over the config file.
func applyParameterString(cfg Config, parameter string) (Config, error) {
	if parameter == "" {
		return cfg, nil
	}

	for _, kv := range strings.Split(parameter, ",") {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			return cfg, errors.New("malformed parameter: " + kv)
		}
		key, value := parts[0], parts[1]

		switch key {
		case "license":
			cfg.License = value
		case "strict_field_numbers":
			b, err := parseBool(value)
			if err != nil {
				return cfg, err
			}
			cfg.StrictFieldNumbers = b
		case "strict_enum_validation":
			b, err := parseBool(value)
			if err != nil {
				return cfg, err
			}
			cfg.StrictEnumValidation = b
		case "allow_empty_packed_arrays":
			b, err := parseBool(value)
			if err != nil {
				return cfg, err
			}
			cfg.AllowEmptyPackedArrays = b
		case "allow_non_monotonic_fields":
			b, err := parseBool(value)
			if err != nil {
				return cfg, err
			}
			cfg.AllowNonMonotonicFields = b
		case "config":
			// handled by the caller before applyParameterString runs
		default:
			return cfg, errors.New("unrecognized option " + key)
		}
	}

	return cfg, nil
}

func parseBool(v string) (bool, error) {
	switch v {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, errors.New("expected 'true' or 'false', got " + v)
	}
}
