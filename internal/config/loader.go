package config

import (
	"fmt"
	"net/url"
	"os"
	"reflect"
	"strings"
	"time"
)

// Load builds the accountsync configuration from the process environment:
// where account files come from (DATA_DIR, DATA_FILES), where create_database
// writes (PERSIST_TARGET or DATABASE_URL), the per-run timeout and the log
// settings. Unset variables take the default tag of their field. A .env
// file, if any, has already been merged into the environment by the caller.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadSection(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// envField is the env/envAlt/default/required tag set of one config field.
type envField struct {
	name     string
	alt      string
	fallback string
	required bool
}

func tagsOf(f reflect.StructField) envField {
	return envField{
		name:     f.Tag.Get("env"),
		alt:      f.Tag.Get("envAlt"),
		fallback: f.Tag.Get("default"),
		required: f.Tag.Get("required") == "true",
	}
}

// lookup returns the primary variable, then the alternate, then the default.
func (e envField) lookup() (string, error) {
	if v := os.Getenv(e.name); v != "" {
		return v, nil
	}
	if e.alt != "" {
		if v := os.Getenv(e.alt); v != "" {
			return v, nil
		}
	}
	if e.required {
		return "", fmt.Errorf("required environment variable %s is not set", e.name)
	}
	return e.fallback, nil
}

// loadSection fills one section (Input, Persist, ...) of Config, descending
// into nested sections. Fields without an env tag are left alone.
func loadSection(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		sf, fv := t.Field(i), v.Field(i)
		if !fv.CanSet() {
			continue
		}

		if sf.Type.Kind() == reflect.Struct {
			if err := loadSection(fv); err != nil {
				return err
			}
			continue
		}

		tags := tagsOf(sf)
		if tags.name == "" {
			continue
		}

		value, err := tags.lookup()
		if err != nil {
			return err
		}
		if value == "" {
			continue
		}

		if err := assign(fv, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", tags.name, value, err)
		}
	}

	return nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// assign converts value into the field's type. Config only uses strings,
// durations (RUN_TIMEOUT) and comma-separated file lists (DATA_FILES).
func assign(field reflect.Value, value string) error {
	switch {
	case field.Type() == durationType:
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		field.SetInt(int64(d))

	case field.Kind() == reflect.String:
		field.SetString(value)

	case field.Kind() == reflect.Slice && field.Type().Elem().Kind() == reflect.String:
		field.Set(reflect.ValueOf(splitList(value)))

	default:
		return fmt.Errorf("unsupported field type: %s", field.Type())
	}

	return nil
}

// splitList splits a comma-separated path list, dropping blank entries.
func splitList(value string) []string {
	var out []string
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate reports every problem at once: no account source, a
// PERSIST_TARGET URL that is not postgres, a non-positive RUN_TIMEOUT, or an
// unknown log level or format.
func (c *Config) Validate() error {
	var errs []string

	// Input validation
	if c.Input.DataDir == "" && len(c.Input.Files) == 0 {
		errs = append(errs, "one of DATA_DIR or DATA_FILES is required")
	}

	// Persist validation
	if c.Persist.Target == "" {
		errs = append(errs, "PERSIST_TARGET is required")
	} else if strings.Contains(c.Persist.Target, "://") {
		u, err := url.Parse(c.Persist.Target)
		if err != nil {
			errs = append(errs, fmt.Sprintf("PERSIST_TARGET is not a valid URL: %v", err))
		} else if u.Scheme != "postgres" && u.Scheme != "postgresql" {
			errs = append(errs, fmt.Sprintf("PERSIST_TARGET scheme (%q) must be postgres or postgresql", u.Scheme))
		}
	}

	// Run validation
	if c.Run.Timeout <= 0 {
		errs = append(errs, "RUN_TIMEOUT must be positive")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String renders the config for the "configuration loaded" debug entry, with
// the password of a postgres PERSIST_TARGET redacted.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Input: {DataDir: %q, Files: %d}, ", c.Input.DataDir, len(c.Input.Files)))
	b.WriteString(fmt.Sprintf("Persist: {Target: %q}, ", maskTarget(c.Persist.Target)))
	b.WriteString(fmt.Sprintf("Run: {Timeout: %s}, ", c.Run.Timeout))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}

func maskTarget(target string) string {
	if !strings.Contains(target, "://") {
		return target
	}
	u, err := url.Parse(target)
	if err != nil {
		return "[MASKED]"
	}
	return u.Redacted()
}
