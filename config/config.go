package config

import (
	"os"
	"path"
	"time"

	ftpserver "github.com/fclairamb/ftpserverlib"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App     App
	Backend Backend
	DB      DB
	FTP     *ftpserver.Settings
	Sync    Sync
}

// App holds gateway-local settings.
type App struct {
	Dev          bool
	WebListen    string `default:":8080"`
	TemplatePath string
	IPWhitelist  []string
	// StatePath is the file holding the persisted session
	// (username and password).
	StatePath string `default:"session.yml"`
	TempPath  string
}

// Duration is a time.Duration that unmarshals from yaml strings like
// "30s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return err
	}

	*d = Duration(parsed)

	return nil
}

// Backend points at the remote CloudStorageApp HTTP service.
type Backend struct {
	BaseURL string   `default:"http://localhost:8000"`
	Timeout Duration `default:"30s"`
}

type DB struct {
	DSN string
}

// Sync configures the local folder that is mirrored to the cloud drive.
type Sync struct {
	Path     string
	Debounce Duration `default:"500ms"`
}

func Load(configPaths ...string) (c Config) {
	cwd, _ := os.Getwd()
	configPaths = append(configPaths, path.Join(cwd, "config.yml"))

	if envConfigFile := os.Getenv("CONFIG_FILE"); envConfigFile != "" {
		configPaths = append(configPaths, envConfigFile)
	}

	configDefault(&c)

	for _, configPath := range configPaths {
		if _, err := os.Stat(configPath); err != nil {
			continue
		}

		d, err := os.ReadFile(configPath)
		if err != nil {
			panic(err)
		}

		if err := yaml.Unmarshal(d, &c); err != nil {
			panic(err)
		}
	}

	return
}
