// Package config reads server settings from the environment, after loading
// an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads at start.
type Config struct {
	Addr         string
	CatalogPath  string
	Locale       string
	MonsterDelay time.Duration // pause before the monster's reply on /ws
	SettleDelay  time.Duration // how long clients linger on a finished battle
	SheetFont    string        // UTF-8 TTF for character sheet text outside cp1252, e.g. a zh battle log
}

// Default returns the settings used when nothing is set.
func Default() Config {
	return Config{
		Addr:         ":8080",
		CatalogPath:  "data/catalog.yaml",
		Locale:       "en",
		MonsterDelay: time.Second,
		SettleDelay:  2 * time.Second,
	}
}

// Load reads the given env files (".env" when none are named) and then the
// ANOMA_* variables. A missing env file is not an error.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load env: %w", err)
		}
		log.Println("config: no .env file, using environment only")
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment.
func FromEnv() (Config, error) {
	c := Default()
	if v := os.Getenv("ANOMA_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("ANOMA_CATALOG"); v != "" {
		c.CatalogPath = v
	}
	if v := os.Getenv("ANOMA_LOCALE"); v != "" {
		c.Locale = v
	}
	c.SheetFont = os.Getenv("ANOMA_SHEET_FONT")
	var err error
	if c.MonsterDelay, err = durationEnv("ANOMA_MONSTER_DELAY", c.MonsterDelay); err != nil {
		return Config{}, err
	}
	if c.SettleDelay, err = durationEnv("ANOMA_SETTLE_DELAY", c.SettleDelay); err != nil {
		return Config{}, err
	}
	return c, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: negative duration %s", key, v)
	}
	return d, nil
}
