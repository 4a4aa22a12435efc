package config

// OperatorConfig exposes the two statically configured operator accounts.
// There is no user table; these are the only privileged identities.
type OperatorConfig interface {
	GetAdminUsername() string
	GetAdminPassword() string
	GetUploaderUsername() string
	GetUploaderPassword() string
}

type Operators struct {
	adminUsername    string
	adminPassword    string
	uploaderUsername string
	uploaderPassword string
}

var _ OperatorConfig = Operators{}

func loadOperators() Operators {
	return Operators{
		adminUsername:    GetEnv("ADMIN_USERNAME", ""),
		adminPassword:    GetEnv("ADMIN_PASSWORD", ""),
		uploaderUsername: GetEnv("TIMETABLE_UPLOAD_USERNAME", ""),
		uploaderPassword: GetEnv("TIMETABLE_UPLOAD_PASSWORD", ""),
	}
}

func (o Operators) GetAdminUsername() string {
	return o.adminUsername
}

func (o Operators) GetAdminPassword() string {
	return o.adminPassword
}

func (o Operators) GetUploaderUsername() string {
	return o.uploaderUsername
}

func (o Operators) GetUploaderPassword() string {
	return o.uploaderPassword
}

func (o Operators) missing() []string {
	var m []string
	if o.adminUsername == "" {
		m = append(m, "ADMIN_USERNAME")
	}
	if o.adminPassword == "" {
		m = append(m, "ADMIN_PASSWORD")
	}
	if o.uploaderUsername == "" {
		m = append(m, "TIMETABLE_UPLOAD_USERNAME")
	}
	if o.uploaderPassword == "" {
		m = append(m, "TIMETABLE_UPLOAD_PASSWORD")
	}
	return m
}
