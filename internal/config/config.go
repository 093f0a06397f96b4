// Package config reads silentstreak settings from the environment.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/julianstephens/silentstreak/internal/constants"
	"github.com/julianstephens/silentstreak/internal/utils"
)

type Config struct {
	DBPath    string `env:"SILENTSTREAK_DB" envDefault:"~/.config/silentstreak/silentstreak.db" validate:"required"`
	Debug     bool   `env:"SILENTSTREAK_DEBUG"`
	Timezone  string `env:"SILENTSTREAK_TIMEZONE" envDefault:"Local" validate:"required,timezone"`
	WeekStart string `env:"SILENTSTREAK_WEEK_START" envDefault:"sunday" validate:"required,weekday"`
	LogDir    string `env:"SILENTSTREAK_LOG_DIR"`
}

// Load parses and validates the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	validate, trans, err := newValidator()
	if err != nil {
		return err
	}
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fe.Translate(trans))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Location returns the calendar used for day boundaries.
func (c Config) Location() *time.Location {
	loc, err := utils.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c Config) FirstWeekday() time.Weekday {
	day, err := utils.ParseWeekday(c.WeekStart)
	if err != nil {
		return time.Sunday
	}
	return day
}

// ResolvedLogDir returns LogDir, or a logs directory beside the default
// database when unset.
func (c Config) ResolvedLogDir() string {
	if c.LogDir != "" {
		return kong.ExpandPath(c.LogDir)
	}
	base := c.DBPath
	if !c.IsFileBackend() {
		base = constants.DefaultConfigPath
	}
	return filepath.Join(filepath.Dir(kong.ExpandPath(base)), "logs")
}

// IsFileBackend reports whether DBPath names a local file rather than the
// keyring or a PostgreSQL connection string.
func (c Config) IsFileBackend() bool {
	if c.DBPath == constants.KeyringTarget || strings.Contains(c.DBPath, "://") {
		return false
	}
	return !strings.Contains(c.DBPath, "host=")
}

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("env"), ",", 2)[0]
	})

	custom := []struct {
		tag     string
		fn      validator.Func
		message string
	}{
		{"timezone", isTimezone, "{0} must be an IANA timezone name or Local"},
		{"weekday", isWeekday, "{0} must be a weekday name"},
	}
	for _, c := range custom {
		if err := validate.RegisterValidation(c.tag, c.fn); err != nil {
			return nil, nil, fmt.Errorf("failed to register %s validation: %w", c.tag, err)
		}
		tag, message := c.tag, c.message
		if err := validate.RegisterTranslation(tag, trans, func(ut ut.Translator) error {
			return ut.Add(tag, message, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, fe.Field())
			return t
		}); err != nil {
			return nil, nil, fmt.Errorf("failed to register %s translation: %w", tag, err)
		}
	}

	return validate, trans, nil
}

func isTimezone(fl validator.FieldLevel) bool {
	return utils.ValidateTimezone(fl.Field().String())
}

func isWeekday(fl validator.FieldLevel) bool {
	_, err := utils.ParseWeekday(fl.Field().String())
	return err == nil
}
