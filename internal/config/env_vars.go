package config

import "fmt"

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	IsProduction() bool
}

type EnvVars struct {
	port    string
	appName string
	env     string
}

var _ EnvConfig = EnvVars{}

func loadEnvVars(env string) EnvVars {
	return EnvVars{
		port:    GetEnv("PORT", "8080"),
		appName: GetEnv("APP_NAME", "MUCalSync"),
		env:     env,
	}
}

func (e EnvVars) GetPort() string {
	port := e.port
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.appName
}

func (e EnvVars) GetEnv() string {
	return e.env
}

func (e EnvVars) IsProduction() bool {
	return e.env == "production"
}
