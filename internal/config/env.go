package config

import "os"

// Environment variable names for overrides. The credentials and folder
// variables match the original deployment contract so existing CI secrets
// keep working unchanged.
const (
	EnvConfig      = "YALLADATA_CONFIG"
	EnvCredentials = "GOOGLE_APPLICATION_CREDENTIALS"
	EnvFolderID    = "DRIVE_FOLDER_ID"
	EnvProjectID   = "FIRESTORE_PROJECT_ID"
)

// EnvOverrides holds values derived from environment variables.
type EnvOverrides struct {
	ConfigPath      string // YALLADATA_CONFIG: override config file path
	CredentialsFile string // GOOGLE_APPLICATION_CREDENTIALS: service-account key path
	FolderID        string // DRIVE_FOLDER_ID: target Drive folder
	ProjectID       string // FIRESTORE_PROJECT_ID: Firestore project
}

// ReadEnvOverrides reads environment variables and returns any overrides
// found. This does not modify the Config; Resolve applies the fields.
func ReadEnvOverrides() EnvOverrides {
	return EnvOverrides{
		ConfigPath:      os.Getenv(EnvConfig),
		CredentialsFile: os.Getenv(EnvCredentials),
		FolderID:        os.Getenv(EnvFolderID),
		ProjectID:       os.Getenv(EnvProjectID),
	}
}
