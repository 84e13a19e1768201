package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	AppName      string
	Env          string // DEV (local; default), TEST, QA, PROD
	Build        string
	Debug        bool
	TestMode     bool
	RollbarToken string

	Database struct {
		Path        string
		BusyTimeout time.Duration
	}

	Password struct {
		Cost      int
		MinLength int
		Strict    bool // reject whitespace and passwords similar to the user's name or email
	}

	Export struct {
		Dir    string
		Format string
	}
}

// NewConfig reads the configuration from defaults, an optional sage.yaml file,
// an optional config/.env.<env> file and the environment, in that order of precedence.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("appName", "SAGE")
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("build", "dev")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("database.path", "sistema_escolar.db")
	v.SetDefault("database.busyTimeout", 5*time.Second)
	v.SetDefault("password.cost", bcrypt.DefaultCost)
	v.SetDefault("password.minLength", 6)
	v.SetDefault("password.strict", false)
	v.SetDefault("export.dir", ".")
	v.SetDefault("export.format", "csv")

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load sage.yaml if it exists (ignore if it does not)
	v.SetConfigName("sage")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("config.ReadInConfig: %v", err)
		}
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		AppName:      v.GetString("appName"),
		Env:          env,
		Build:        v.GetString("build"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		RollbarToken: v.GetString("rollbarToken"),
	}
	conf.Database.Path = v.GetString("database.path")
	conf.Database.BusyTimeout = v.GetDuration("database.busyTimeout")
	conf.Password.Cost = v.GetInt("password.cost")
	conf.Password.MinLength = v.GetInt("password.minLength")
	conf.Password.Strict = v.GetBool("password.strict")
	conf.Export.Dir = v.GetString("export.dir")
	conf.Export.Format = strings.ToLower(v.GetString("export.format"))
	return conf
}
