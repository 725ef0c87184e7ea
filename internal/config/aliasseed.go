package config

import (
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// AliasSeedConfig carries alias→canonical mappings applied to the warehouse
// alias tables at startup. Keys are raw spellings as they appear in source
// spreadsheets; values are the canonical form.
type AliasSeedConfig struct {
	Factory  map[string]string `mapstructure:"factory"`
	Employee map[string]string `mapstructure:"employee"`
}

func (c AliasSeedConfig) Empty() bool {
	return len(c.Factory) == 0 && len(c.Employee) == 0
}

type AliasSeedHolder struct {
	current atomic.Value // holds AliasSeedConfig
}

// NewAliasSeedHolder reads the optional granary.yml alias file and keeps it
// hot-reloaded. A missing file is not an error; seeding is then a no-op.
func NewAliasSeedHolder(cfg Config) (*AliasSeedHolder, error) {
	v := viper.New()

	v.SetConfigName("granary")
	v.SetConfigType("yml")
	if cfg.AliasConfigPath != "" {
		v.AddConfigPath(cfg.AliasConfigPath)
	}
	v.AddConfigPath("/var/lib/granary/config") // Volume-mounted config
	v.AddConfigPath("/etc/granary")            // System config
	v.AddConfigPath(".")                       // Current directory (dev mode)

	v.SetEnvPrefix("GRANARY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	holder := &AliasSeedHolder{}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		holder.current.Store(AliasSeedConfig{})
		return holder, nil
	}

	var seed AliasSeedConfig
	if err := v.UnmarshalKey("aliases", &seed); err != nil {
		return nil, err
	}
	holder.current.Store(seed)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated AliasSeedConfig
		if err := v.UnmarshalKey("aliases", &updated); err != nil {
			log.Printf("[alias-config] reload failed: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[alias-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *AliasSeedHolder) Get() AliasSeedConfig {
	return h.current.Load().(AliasSeedConfig)
}
