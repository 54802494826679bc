package main

import (
	"strings"

	"github.com/eringen/mdpress"
	"github.com/spf13/viper"
)

const envPrefix = "MDPRESS"

// applyDefaults configures defaults and env bindings on the provided viper
// instance. Every key can be overridden by MDPRESS_* env vars, a config file,
// or the bound flags.
func applyDefaults(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("source.dir", "content")
	v.SetDefault("site.dir", "site")
	v.SetDefault("store.dir", "site/db")
	v.SetDefault("excerpt.length", 200)
	v.SetDefault("asset.url_prefix", "db/assets/images/posts")
	v.SetDefault("ingest.recursive", false)
	v.SetDefault("history.path", "")
	v.SetDefault("http.address", ":3000")
	v.SetDefault("log.level", "info")
}

// loadConfig maps viper state onto the library configuration.
func loadConfig(v *viper.Viper) mdpress.Config {
	return mdpress.Config{
		SourceDir:      v.GetString("source.dir"),
		StoreDir:       v.GetString("store.dir"),
		ExcerptLength:  v.GetInt("excerpt.length"),
		AssetURLPrefix: v.GetString("asset.url_prefix"),
		Recursive:      v.GetBool("ingest.recursive"),
		Addr:           v.GetString("http.address"),
		HistoryPath:    v.GetString("history.path"),
		LogLevel:       v.GetString("log.level"),
	}
}
