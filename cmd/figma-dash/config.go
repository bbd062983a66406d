package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

const (
	// Keys are lowercase; with AutomaticEnv they also read the uppercase
	// environment variables FIGMA_API_TOKEN and FIGMA_DASH_ADDR.
	keyToken = "figma_api_token"
	keyAddr  = "figma_dash_addr"

	defaultEnvFile = ".env"
	defaultAddr    = ":8080"
)

// loadConfig layers the process environment over an optional dotenv file.
// A missing envFile is not an error; a malformed one is.
func loadConfig(envFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(keyAddr, defaultAddr)
	v.AutomaticEnv()

	if envFile == "" {
		return v, nil
	}

	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return v, nil
		}
		return nil, fmt.Errorf("read %s: %w", envFile, err)
	}

	return v, nil
}

// resolveToken prefers the --token flag, then FIGMA_API_TOKEN from the
// environment, then the dotenv file.
func resolveToken(flagValue string, v *viper.Viper) string {
	if token := strings.TrimSpace(flagValue); token != "" {
		return token
	}
	return strings.TrimSpace(v.GetString(keyToken))
}

// resolveAddr prefers the --addr flag, then FIGMA_DASH_ADDR, then :8080.
func resolveAddr(flagValue string, v *viper.Viper) string {
	if flagValue != "" {
		return flagValue
	}
	return v.GetString(keyAddr)
}
