package config

// BackendConfig covers the external MUERP backend the server proxies to.
type BackendConfig interface {
	GetBackendURL() string
	GetBackendAPIKey() string
	GetEncryptionKey() string
	GetBackendEncryptionKey() string
}

type Backend struct {
	baseURL              string
	apiKey               string
	encryptionKey        string
	backendEncryptionKey string
}

var _ BackendConfig = Backend{}

func loadBackend() Backend {
	return Backend{
		baseURL:              GetEnv("BACKEND_URL", ""),
		apiKey:               GetEnv("API_KEY", ""),
		encryptionKey:        GetEnv("ENCRYPTION_KEY", ""),
		backendEncryptionKey: GetEnv("BACKEND_ENCRYPTION_KEY", ""),
	}
}

func (b Backend) GetBackendURL() string {
	return b.baseURL
}

func (b Backend) GetBackendAPIKey() string {
	return b.apiKey
}

func (b Backend) GetEncryptionKey() string {
	return b.encryptionKey
}

func (b Backend) GetBackendEncryptionKey() string {
	return b.backendEncryptionKey
}

func (b Backend) missing() []string {
	var m []string
	if b.baseURL == "" {
		m = append(m, "BACKEND_URL")
	}
	if b.apiKey == "" {
		m = append(m, "API_KEY")
	}
	if b.encryptionKey == "" {
		m = append(m, "ENCRYPTION_KEY")
	}
	return m
}
