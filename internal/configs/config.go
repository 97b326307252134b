package configs

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
)

// DefaultPasswordTimeout is the password-cache lifetime in seconds when
// neither the config file nor --password-timeout says otherwise.
const DefaultPasswordTimeout = 300

// UserConfig is the persisted per-user configuration.
type UserConfig struct {
	Install  Install  `toml:"install"`
	Defaults Defaults `toml:"defaults"`
}

// Install identifies this sealer installation.
type Install struct {
	UUID string `toml:"install_uuid"`
}

// Defaults holds user-chosen defaults that flags can override.
type Defaults struct {
	// Editor is launched for --edit when $VISUAL and $EDITOR are unset.
	Editor string `toml:"editor"`

	// KeychainService is the service name used for keychain entries.
	KeychainService string `toml:"keychain_service"`

	// PasswordTimeout is the default password-cache lifetime in seconds.
	PasswordTimeout int `toml:"password_timeout"`

	// NoColor disables colored output by default.
	NoColor bool `toml:"no_color"`
}

// UserSettings holds the resolved filesystem locations for this user.
type UserSettings struct {
	ConfigPath string
}

// UserSealerSettings is the active settings instance. Tests override it to
// point at a temporary directory.
var UserSealerSettings *UserSettings

// InitUserSettings resolves the user config directory. Idempotent.
func InitUserSettings() error {
	if UserSealerSettings != nil {
		return nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return fmt.Errorf("failed to resolve user config directory: %w", err)
	}
	UserSealerSettings = &UserSettings{
		ConfigPath: filepath.Join(base, "sealer"),
	}
	return nil
}

func configFilePath() string {
	return filepath.Join(UserSealerSettings.ConfigPath, "config.toml")
}

// AuditLogPath returns the path of the append-only audit log.
func AuditLogPath() string {
	return filepath.Join(UserSealerSettings.ConfigPath, "audit.jsonl")
}

// LoadUserConfig loads the user configuration from the config file.
// A missing file yields a config with defaults filled in.
func LoadUserConfig() (*UserConfig, error) {
	if err := InitUserSettings(); err != nil {
		return nil, err
	}

	config := &UserConfig{
		Defaults: Defaults{
			KeychainService: "sealer",
			PasswordTimeout: DefaultPasswordTimeout,
		},
	}

	path := configFilePath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	if config.Defaults.KeychainService == "" {
		config.Defaults.KeychainService = "sealer"
	}
	if config.Defaults.PasswordTimeout <= 0 {
		config.Defaults.PasswordTimeout = DefaultPasswordTimeout
	}

	return config, nil
}

// SaveUserConfig saves the user configuration to the config file.
func SaveUserConfig(config *UserConfig) error {
	if err := InitUserSettings(); err != nil {
		return err
	}
	path := configFilePath()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode user config: %w", err)
	}
	// The config names the keychain service entry; keep it private.
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to save user config: %w", err)
	}
	return nil
}

// EnsureUserConfig loads the user configuration, generating and persisting
// an install UUID on first use.
func EnsureUserConfig() (*UserConfig, error) {
	config, err := LoadUserConfig()
	if err != nil {
		return nil, err
	}

	if config.Install.UUID == "" {
		config.Install.UUID = uuid.New().String()
		if err := SaveUserConfig(config); err != nil {
			return nil, err
		}
	}

	return config, nil
}
