package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/mctech-dev/fss-go/config"
	fsshttp "github.com/mctech-dev/fss-go/http"
	"github.com/spf13/viper"
)

var errorColor = color.New(color.FgRed).SprintFunc()

func fatal(err error) {
	fmt.Fprintln(os.Stderr, errorColor(err.Error()))
	os.Exit(1)
}

func loadConfig() (config.Config, error) {
	var cfg config.Config
	var err error
	if path := viper.GetString("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.FromEnv()
	}
	if err != nil {
		return config.Config{}, err
	}

	if bucket := viper.GetString("bucket"); bucket != "" {
		cfg.BucketName = bucket
	}
	if viper.GetBool("internal") {
		cfg.Internal = true
	}
	return cfg, nil
}

func getClient() *fsshttp.Client {
	cfg, err := loadConfig()
	if err != nil {
		fatal(err)
	}
	logger.WithField("config", cfg.String()).Debug("loaded configuration")

	client, err := fsshttp.NewClient(cfg, fsshttp.WithLogger(logger))
	if err != nil {
		fatal(err)
	}
	return client
}

func printJSON(v any) {
	js, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatal(err)
	}
	fmt.Println(string(js))
}

// parsePairs turns "name=value" arguments into a map
func parsePairs(pairs []string) (map[string]string, error) {
	m := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid pair %q, expected name=value", pair)
		}
		m[name] = value
	}
	return m, nil
}
