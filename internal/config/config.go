package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	// ListenAddr is where the JSON API binds, host:port.
	ListenAddr string

	// SQLitePath is the path to the SQLite database file.
	SQLitePath string

	// RatingRounding selects the rounding policy applied to every mean
	// rating shown on leaderboards: "half-step" (default) or "ceil".
	RatingRounding string

	// StreakGapDays is the widest gap between two games that still counts
	// as consecutive attendance. Zero means the default of 7 days.
	StreakGapDays int
}

func NewFromUserConfigDir() (*Config, error) {
	c := &Config{}
	if err := c.ReloadFromUserConfigDir(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = "127.0.0.1:3001"
	}

	if c.SQLitePath == "" {
		c.SQLitePath = "./matchday.db"
	}
}

func (c *Config) expandFromEnv() {
	vars := []struct {
		src string
		dst *string
	}{
		{"MATCHDAY_LISTEN_ADDR", &c.ListenAddr},
		{"MATCHDAY_SQLITE_PATH", &c.SQLitePath},
		{"MATCHDAY_RATING_ROUNDING", &c.RatingRounding},
	}

	for _, v := range vars {
		if str := os.Getenv(v.src); str != "" {
			*v.dst = str
		}
	}

	if str := os.Getenv("MATCHDAY_STREAK_GAP_DAYS"); str != "" {
		days, err := strconv.Atoi(str)
		if err != nil {
			log.Printf("warning: ignoring MATCHDAY_STREAK_GAP_DAYS: %s", err)
		} else {
			c.StreakGapDays = days
		}
	}
}

func (c *Config) ReloadFromUserConfigDir() error {
	defer c.applyDefaults()
	defer c.expandFromEnv()

	path, err := getOrCreateUserConfigPath()
	if err != nil {
		return err
	}
	log.Printf("debug: reading conf from %s", path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		*c = Config{}
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewDecoder(f).Decode(c)
}

func getOrCreateUserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(configDir, "matchday")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}

	return filepath.Join(dir, "config.json"), nil
}

func (c *Config) Write() error {
	path, err := getOrCreateUserConfigPath()
	if err != nil {
		return err
	}
	log.Printf("debug: writing conf to %s", path)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o700)
	if err != nil {
		return err
	}

	if err := json.NewEncoder(f).Encode(c); err != nil {
		if err2 := f.Close(); err2 != nil {
			return fmt.Errorf("unable to close file (%s) after error: %w", err2, err)
		}

		return err
	}

	return f.Close()
}
