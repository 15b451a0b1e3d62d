package config

import (
	"fmt"

	"github.com/Veraticus/petal/internal/common"
	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyModelPath   = "model.path"
	KeyONNXLibrary = "model.onnx_library"
	KeyLogLevel    = "logging.level"
	KeyLogFormat   = "logging.format"
	KeyLogFile     = "logging.file"
	KeyTheme       = "tui.theme"
	KeyServeAddr   = "serve.addr"
	KeyCacheSize   = "serve.cache_size"
	KeyServeTLS    = "serve.tls"
	KeyCertDir     = "serve.cert_dir"
)

// DefaultModelPath is the artifact looked up in the working directory.
const DefaultModelPath = "iris_trained_model.json"

// Settings is the resolved application configuration.
type Settings struct {
	ModelPath   string
	ONNXLibrary string
	LogLevel    string
	LogFormat   string
	LogFile     string
	Theme       string
	ServeAddr   string
	CertDir     string
	CacheSize   int
	ServeTLS    bool
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyModelPath, DefaultModelPath)
	v.SetDefault(KeyONNXLibrary, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyTheme, "default")
	v.SetDefault(KeyServeAddr, "127.0.0.1:8501")
	v.SetDefault(KeyCacheSize, 1024)
	v.SetDefault(KeyServeTLS, false)
	v.SetDefault(KeyCertDir, StatePath("certs"))
}

// DefaultLogFile is where the terminal form logs, since it owns the screen.
func DefaultLogFile() string {
	return StatePath("petal.log")
}

// Load reads Settings from v. Paths are expanded.
func Load(v *viper.Viper) (Settings, error) {
	s := Settings{
		ModelPath:   ExpandPath(v.GetString(KeyModelPath)),
		ONNXLibrary: ExpandPath(v.GetString(KeyONNXLibrary)),
		LogLevel:    v.GetString(KeyLogLevel),
		LogFormat:   v.GetString(KeyLogFormat),
		LogFile:     ExpandPath(v.GetString(KeyLogFile)),
		Theme:       v.GetString(KeyTheme),
		ServeAddr:   v.GetString(KeyServeAddr),
		CacheSize:   v.GetInt(KeyCacheSize),
		ServeTLS:    v.GetBool(KeyServeTLS),
		CertDir:     ExpandPath(v.GetString(KeyCertDir)),
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks the settings that cannot be checked by their consumers.
func (s Settings) Validate() error {
	if s.ModelPath == "" {
		return fmt.Errorf("%w: %s", common.ErrMissingConfig, KeyModelPath)
	}
	if s.ServeTLS && s.CertDir == "" {
		return fmt.Errorf("%w: %s", common.ErrMissingConfig, KeyCertDir)
	}
	if s.CacheSize < 0 {
		return fmt.Errorf("%w: %s must not be negative", common.ErrInvalidConfig, KeyCacheSize)
	}
	return nil
}
