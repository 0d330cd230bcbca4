package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ReportConfig controls how day summaries group and order products.
// Categories not listed here are appended after the configured ones in
// first-seen order, so a catalog edit never hides counted products.
type ReportConfig struct {
	CategoryOrder []string `mapstructure:"categoryOrder"`
}

func DefaultReportConfig() ReportConfig {
	return ReportConfig{
		CategoryOrder: []string{
			"Preparados",
			"Verduras",
			"Quesos",
			"Paquetes",
			"Condimentos/Ingredientes",
			"Accesorios",
			"Botiquín",
			"Limpieza",
			"General",
			"Gas",
		},
	}
}

type ReportConfigHolder struct {
	current atomic.Value // holds ReportConfig
}

func NewReportConfigHolder() (*ReportConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("report")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/stockdiario/config")
	v.AddConfigPath("/etc/stockdiario")
	v.AddConfigPath(".")

	v.SetEnvPrefix("STOCKDIARIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultReportConfig()
		v.SetDefault("report.categoryOrder", defaults.CategoryOrder)
	}

	var cfg ReportConfig
	if err := v.UnmarshalKey("report", &cfg); err != nil {
		return nil, err
	}
	if err := validateReportConfig(cfg); err != nil {
		return nil, err
	}

	holder := &ReportConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated ReportConfig
		if err := v.UnmarshalKey("report", &updated); err != nil {
			log.Printf("[report-config] reload failed: %v", err)
			return
		}
		if err := validateReportConfig(updated); err != nil {
			log.Printf("[report-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[report-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticReportConfigHolder returns a holder pinned to cfg, without file
// watching. Used by tests and tools that must not depend on the filesystem.
func NewStaticReportConfigHolder(cfg ReportConfig) *ReportConfigHolder {
	holder := &ReportConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *ReportConfigHolder) Get() ReportConfig {
	return h.current.Load().(ReportConfig)
}

func validateReportConfig(cfg ReportConfig) error {
	if len(cfg.CategoryOrder) == 0 {
		return errors.New("report.categoryOrder cannot be empty")
	}
	return nil
}
