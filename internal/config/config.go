// Package config loads the INI configuration file with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-ini/ini"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/younsl/bucketwatch/pkg/audit"
)

// EnvPrefix prefixes environment overrides, e.g. BUCKETWATCH_CHECK_AGE
const EnvPrefix = "BUCKETWATCH"

// ErrInvalidConfig is wrapped by every validation error
var ErrInvalidConfig = errors.New("invalid configuration")

// Supported storage backends
const (
	BackendAWS   = "aws"
	BackendMinIO = "minio"
)

// Config is the validated configuration of a run
type Config struct {
	Check      CheckConfig
	Pushover   *PushoverConfig // nil when the push channel is disabled
	Email      *EmailConfig    // nil when the email channel is disabled
	Message    MessageConfig
	Storage    StorageConfig
	CloudWatch *CloudWatchConfig // nil when metrics are disabled
}

type CheckConfig struct {
	Age         int
	Include     []string
	Exclude     []string
	Concurrency int
	Timeout     time.Duration
}

type PushoverConfig struct {
	User string
	App  string
}

type EmailConfig struct {
	To       []string
	From     string
	Subject  string
	Server   string
	Username string
	Password string
}

type MessageConfig struct {
	Template string
}

// StorageConfig selects the backend; Options are handed to it unchanged
type StorageConfig struct {
	Backend string
	Options map[string]string
}

type CloudWatchConfig struct {
	Namespace string
}

// Load reads the configuration file at path. A .env file in the working
// directory is loaded first, then BUCKETWATCH_<SECTION>_<KEY> variables
// override file values.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v, err := newViper(path)
	if err != nil {
		return nil, err
	}
	return fromViper(v)
}

func newViper(path string) (*viper.Viper, error) {
	// Only "; " and "# " start an inline comment, so secrets and templates keep their ; and #
	file, err := ini.LoadSources(ini.LoadOptions{Insensitive: true, SpaceBeforeInlineComment: true}, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: config file %s not found", ErrInvalidConfig, path)
		}
		return nil, fmt.Errorf("%w: error reading %s: %w", ErrInvalidConfig, path, err)
	}

	sections := make(map[string]any)
	for _, section := range file.Sections() {
		if strings.EqualFold(section.Name(), ini.DefaultSection) {
			continue
		}
		values := make(map[string]any)
		for _, key := range section.Keys() {
			values[key.Name()] = key.Value()
		}
		sections[section.Name()] = values
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("check.concurrency", audit.DefaultConcurrency)
	v.SetDefault("check.timeout", audit.DefaultTimeout.String())
	v.SetDefault("storage.backend", BackendAWS)

	if err := v.MergeConfigMap(sections); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return v, nil
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	// check
	ageRaw := strings.TrimSpace(v.GetString("check.age"))
	if ageRaw == "" {
		return nil, fmt.Errorf("%w: check.age is required", ErrInvalidConfig)
	}
	age, err := parsePositiveInt("check.age", ageRaw)
	if err != nil {
		return nil, err
	}
	concurrency, err := parsePositiveInt("check.concurrency", v.GetString("check.concurrency"))
	if err != nil {
		return nil, err
	}
	timeout, err := parseTimeout(v.GetString("check.timeout"))
	if err != nil {
		return nil, err
	}
	cfg.Check = CheckConfig{
		Age:         age,
		Include:     splitList(v.GetString("check.include")),
		Exclude:     splitList(v.GetString("check.exclude")),
		Concurrency: concurrency,
		Timeout:     timeout,
	}

	// pushover
	user, app := v.GetString("pushover.user"), v.GetString("pushover.app")
	switch {
	case user != "" && app != "":
		cfg.Pushover = &PushoverConfig{User: user, App: app}
	case user != "" || app != "":
		return nil, fmt.Errorf("%w: pushover.user and pushover.app must be set together", ErrInvalidConfig)
	}

	// email
	to, from := splitList(v.GetString("email.to")), strings.TrimSpace(v.GetString("email.from"))
	switch {
	case len(to) > 0 && from != "":
		cfg.Email = &EmailConfig{
			To:       to,
			From:     from,
			Subject:  v.GetString("email.subject"),
			Server:   v.GetString("email.server"),
			Username: v.GetString("email.username"),
			Password: v.GetString("email.password"),
		}
	case len(to) > 0 || from != "":
		return nil, fmt.Errorf("%w: email.to and email.from must be set together", ErrInvalidConfig)
	}

	cfg.Message.Template = v.GetString("message.template")

	// storage
	backend := strings.ToLower(strings.TrimSpace(v.GetString("storage.backend")))
	if backend != BackendAWS && backend != BackendMinIO {
		return nil, fmt.Errorf("%w: unknown storage.backend %q (want %s or %s)", ErrInvalidConfig, backend, BackendAWS, BackendMinIO)
	}
	cfg.Storage = StorageConfig{Backend: backend, Options: sectionValues(v, "storage")}

	if ns := strings.TrimSpace(v.GetString("cloudwatch.namespace")); ns != "" {
		cfg.CloudWatch = &CloudWatchConfig{Namespace: ns}
	}

	return cfg, nil
}

// Channels returns the names of the enabled notification channels
func (c *Config) Channels() []string {
	var names []string
	if c.Pushover != nil {
		names = append(names, "pushover")
	}
	if c.Email != nil {
		names = append(names, "email")
	}
	return names
}

// sectionValues returns every key of a section with environment overrides
// applied. Keys only present as BUCKETWATCH_<SECTION>_<KEY> variables are
// included too.
func sectionValues(v *viper.Viper, section string) map[string]string {
	keys := make(map[string]struct{})
	for key := range v.GetStringMap(section) {
		keys[key] = struct{}{}
	}

	prefix := EnvPrefix + "_" + strings.ToUpper(section) + "_"
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if key, ok := strings.CutPrefix(name, prefix); ok && key != "" {
			keys[strings.ToLower(key)] = struct{}{}
		}
	}

	out := make(map[string]string, len(keys))
	for key := range keys {
		out[key] = v.GetString(section + "." + key)
	}
	return out
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
