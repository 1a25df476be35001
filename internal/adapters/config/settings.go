package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.trai.ch/zerr"
)

const (
	// ConfigName is the base name of the settings file searched for when none is given.
	ConfigName = "xtc"
	// EnvPrefix prefixes every environment variable that overrides a setting.
	EnvPrefix = "XTC"
)

// Setting keys. Flags bound with BindFlags use their flag name as key.
const (
	KeyS3Endpoint  = "s3.endpoint"
	KeyS3Region    = "s3.region"
	KeyS3AccessKey = "s3.access-key"
	KeyS3SecretKey = "s3.secret-key"
)

// S3Settings holds the credentials used to publish archives.
// Empty fields fall back to the AWS default credential chain.
type S3Settings struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// Settings layers command-line flags over XTC_* environment variables over
// the xtc.yaml settings file over flag defaults.
type Settings struct {
	v           *viper.Viper
	searchPaths []string
}

// NewSettings creates Settings that look for xtc.yaml in the working
// directory and in $HOME/.config/xtc.
func NewSettings() *Settings {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	v.SetDefault(KeyS3Region, "us-east-1")

	return &Settings{
		v:           v,
		searchPaths: []string{".", "$HOME/.config/xtc"},
	}
}

// BindFlags makes every flag of fs a setting keyed by the flag name.
func (s *Settings) BindFlags(fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		if bindErr := s.v.BindPFlag(f.Name, f); bindErr != nil {
			err = zerr.With(zerr.Wrap(bindErr, "failed to bind flag"), "flag", f.Name)
		}
	})
	return err
}

// Load reads the settings file. An explicit file must exist; without one a
// missing xtc.yaml is not an error.
func (s *Settings) Load(file string) error {
	if file != "" {
		s.v.SetConfigFile(os.ExpandEnv(file))
	} else {
		s.v.SetConfigName(ConfigName)
		s.v.SetConfigType("yaml")
		for _, p := range s.searchPaths {
			s.v.AddConfigPath(os.ExpandEnv(p))
		}
	}

	if err := s.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return zerr.With(zerr.Wrap(err, "failed to read settings file"), "file", file)
		}
	}
	return nil
}

// String returns the setting key as a string.
func (s *Settings) String(key string) string {
	return s.v.GetString(key)
}

// Strings returns the setting key as a string slice.
func (s *Settings) Strings(key string) []string {
	return s.v.GetStringSlice(key)
}

// Int returns the setting key as an int.
func (s *Settings) Int(key string) int {
	return s.v.GetInt(key)
}

// Bool returns the setting key as a bool.
func (s *Settings) Bool(key string) bool {
	return s.v.GetBool(key)
}

// Seconds returns a setting given in whole seconds as a duration.
func (s *Settings) Seconds(key string) time.Duration {
	return time.Duration(s.v.GetInt64(key)) * time.Second
}

// IsSet reports whether key was given by flag, environment or settings file.
func (s *Settings) IsSet(key string) bool {
	return s.v.IsSet(key)
}

// S3 returns the publishing credentials.
func (s *Settings) S3() S3Settings {
	return S3Settings{
		Endpoint:  s.v.GetString(KeyS3Endpoint),
		Region:    s.v.GetString(KeyS3Region),
		AccessKey: s.v.GetString(KeyS3AccessKey),
		SecretKey: s.v.GetString(KeyS3SecretKey),
	}
}
