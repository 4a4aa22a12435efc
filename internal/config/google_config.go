package config

// googleIssuer is the OIDC issuer used for endpoint discovery. Overridable
// so tests can point the exchanger at a local provider.
const googleIssuer = "https://accounts.google.com"

type GoogleConfig interface {
	GetGoogleClientID() string
	GetGoogleClientSecret() string
	GetGoogleRedirectURI() string
	GetGoogleIssuer() string
}

type Google struct {
	clientID     string
	clientSecret string
	redirectURI  string
	redirectVar  string
	issuer       string
}

var _ GoogleConfig = Google{}

// loadGoogle selects the registered redirect URI by deployment environment.
// Production and non-production deployments register different URIs with
// Google; the choice is made once here, never per-request.
func loadGoogle(env string) Google {
	redirectVar := "GOOGLE_REDIRECT_URI"
	if env == "production" {
		redirectVar = "GOOGLE_REDIRECT_PROD_URI"
	}
	return Google{
		clientID:     GetEnv("GOOGLE_CLIENT_ID", ""),
		clientSecret: GetEnv("GOOGLE_CLIENT_SECRET", ""),
		redirectURI:  GetEnv(redirectVar, ""),
		redirectVar:  redirectVar,
		issuer:       GetEnv("GOOGLE_ISSUER", googleIssuer),
	}
}

func (g Google) GetGoogleClientID() string {
	return g.clientID
}

func (g Google) GetGoogleClientSecret() string {
	return g.clientSecret
}

func (g Google) GetGoogleRedirectURI() string {
	return g.redirectURI
}

func (g Google) GetGoogleIssuer() string {
	return g.issuer
}

func (g Google) missing() []string {
	var m []string
	if g.clientID == "" {
		m = append(m, "GOOGLE_CLIENT_ID")
	}
	if g.clientSecret == "" {
		m = append(m, "GOOGLE_CLIENT_SECRET")
	}
	if g.redirectURI == "" {
		m = append(m, g.redirectVar)
	}
	return m
}
