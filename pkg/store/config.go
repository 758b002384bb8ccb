package store

import (
	"log"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config exposes the settings the persistence layer needs.
type Config interface {
	BasePath() string
}

// Settings is the full application configuration, loaded from a .focusflow
// config file (yaml implicit) or FOCUSFLOW_* environment variables.
type Settings struct {
	Path string `json:"path"`

	ListenAddr string `json:"listen-addr"`

	SMTPAddr      string `json:"smtp-addr"`
	SMTPRecipient string `json:"smtp-recipient"`

	RolloverSchedule string `json:"rollover-schedule"`

	DailyTargetMinutes int `json:"daily-target-minutes"`
	ExportLeadMinutes  int `json:"export-lead-minutes"`
	ExportGapMinutes   int `json:"export-gap-minutes"`
}

// BasePath returns the store directory with ~ expanded.
func (s *Settings) BasePath() string {
	p, err := homedir.Expand(s.Path)
	if err != nil {
		return s.Path
	}
	return p
}

// LoadConfig walks the usual places for a .focusflow file and falls back to
// defaults. Environment variables use the FOCUSFLOW prefix.
func LoadConfig() (*Settings, error) {
	viper.SetDefault("path", "~/.focusflow.db")
	viper.SetDefault("listen-addr", ":8080")
	viper.SetDefault("daily-target-minutes", 120)
	viper.SetDefault("export-lead-minutes", 15)
	viper.SetDefault("export-gap-minutes", 10)

	viper.SetConfigName(".focusflow") // .yaml is implicit
	viper.SetEnvPrefix("FOCUSFLOW")
	viper.AutomaticEnv()

	if override := os.Getenv("FOCUSFLOW_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}

	viper.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		viper.AddConfigPath(home)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("error reading config file: %v", err)
			return nil, err
		}
	}

	return &Settings{
		Path:               viper.GetString("path"),
		ListenAddr:         viper.GetString("listen-addr"),
		SMTPAddr:           viper.GetString("smtp-addr"),
		SMTPRecipient:      viper.GetString("smtp-recipient"),
		RolloverSchedule:   viper.GetString("rollover-schedule"),
		DailyTargetMinutes: viper.GetInt("daily-target-minutes"),
		ExportLeadMinutes:  viper.GetInt("export-lead-minutes"),
		ExportGapMinutes:   viper.GetInt("export-gap-minutes"),
	}, nil
}
