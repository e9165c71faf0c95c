package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	frontendURLVar = "FRONTEND_URL"
	devEnvironment = "DEV"
)

type EnvVars struct {
	Port           string `env:"PORT" envDefault:"5001"`
	AppName        string `env:"APP_NAME" envDefault:"Lexora"`
	Environment    string `env:"ENV" envDefault:"DEV"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty      bool   `env:"LOG_PRETTY"`
	FrontendURL    string `env:"FRONTEND_URL"`
	BackendURL     string `env:"BACKEND_URL" envDefault:"http://localhost:5001"`
	UploadDir      string `env:"UPLOAD_DIR" envDefault:"./uploads"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`
}

var _ EnvConfig = mainConfig{}

func (e EnvVars) GetPort() string {
	port := e.Port
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	if e.Environment == "" {
		return devEnvironment
	}
	return strings.ToUpper(e.Environment)
}

func (e EnvVars) IsDev() bool {
	return e.GetEnv() == devEnvironment
}

func (e EnvVars) GetLogLevel() string {
	return e.LogLevel
}

// GetLogPretty selects the console writer. DEV always logs pretty.
func (e EnvVars) GetLogPretty() bool {
	return e.LogPretty || e.IsDev()
}

func (e EnvVars) GetFrontendURL() string {
	return e.FrontendURL
}

func (e EnvVars) GetBackendURL() string {
	return e.BackendURL
}

func (e EnvVars) GetUploadDir() string {
	return e.UploadDir
}

func (e EnvVars) GetMaxUploadBytes() int64 {
	return e.MaxUploadBytes
}

// GetEnv reads a single variable outside the Config. Only tooling and tests use it.
func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
