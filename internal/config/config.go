package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sir_venger/imgserve/internal/models"
)

const (
	DefaultPort     = 8000
	defaultImageDir = "images"
	defaultEnvFile  = ".env"
)

type Config struct {
	Port      int     `yaml:"port" json:"port"`
	ImageDir  string  `yaml:"image_dir" json:"image_dir"`
	RateLimit float64 `yaml:"rate_limit" json:"rate_limit"`
	RateBurst int     `yaml:"rate_burst" json:"rate_burst"`
	AccessLog bool    `yaml:"access_log" json:"access_log"`
}

// Load читает .env и необязательный YAML, применяет ENV-переопределения и валидирует результат.
// Каталог приводится к абсолютному пути, но не создаётся: это делает EnsureImageDir.
func Load() (*Config, error) {
	// .env не обязателен, отсутствие файла не ошибка.
	if err := godotenv.Load(defaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", defaultEnvFile, err)
	}

	c := Config{
		Port:     DefaultPort,
		ImageDir: filepath.Join(installDir(), defaultImageDir),
	}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := applyEnv(&c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(c.ImageDir)
	if err != nil {
		return nil, fmt.Errorf("resolve image dir %q: %w", c.ImageDir, err)
	}
	c.ImageDir = abs

	return &c, nil
}

// Addr возвращает адрес для net.Listen.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// Validate проверяет значения после всех переопределений.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range 1..65535", models.ErrBadConfig, c.Port)
	}
	if strings.TrimSpace(c.ImageDir) == "" {
		return fmt.Errorf("%w: image dir is empty", models.ErrBadConfig)
	}
	if c.RateLimit < 0 || c.RateBurst < 0 {
		return fmt.Errorf("%w: rate limit and burst must be >= 0", models.ErrBadConfig)
	}

	return nil
}

// EnsureImageDir создаёт каталог изображений вместе с родителями, если его нет.
func EnsureImageDir(dir string) error {
	fi, err := os.Stat(dir)
	switch {
	case err == nil && fi.IsDir():
		return nil
	case err == nil:
		return fmt.Errorf("image dir %s exists and is not a directory", dir)
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("stat image dir %s: %w", dir, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create image dir %s: %w", dir, err)
	}

	return nil
}

// ENV override
func applyEnv(c *Config) error {
	var err error
	if v := os.Getenv("PORT"); v != "" {
		if c.Port, err = strconv.Atoi(strings.TrimSpace(v)); err != nil {
			return fmt.Errorf("%w: PORT=%q is not a number", models.ErrBadConfig, v)
		}
	}
	if v := os.Getenv("IMAGE_DIR"); v != "" {
		c.ImageDir = v
	}
	if v := os.Getenv("RATE_LIMIT"); v != "" {
		if c.RateLimit, err = strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
			return fmt.Errorf("%w: RATE_LIMIT=%q is not a number", models.ErrBadConfig, v)
		}
	}
	if v := os.Getenv("RATE_BURST"); v != "" {
		if c.RateBurst, err = strconv.Atoi(strings.TrimSpace(v)); err != nil {
			return fmt.Errorf("%w: RATE_BURST=%q is not a number", models.ErrBadConfig, v)
		}
	}
	if v := os.Getenv("ACCESS_LOG"); v != "" {
		if c.AccessLog, err = strconv.ParseBool(strings.TrimSpace(v)); err != nil {
			return fmt.Errorf("%w: ACCESS_LOG=%q is not a bool", models.ErrBadConfig, v)
		}
	}

	return nil
}

// installDir — каталог исполняемого файла; при ошибке используем рабочий каталог.
func installDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	return filepath.Dir(exe)
}
