package config

import "path/filepath"

// Default values for configuration options. These are chosen so the tool
// works in CI with nothing but the two environment variables the original
// deployment provided (GOOGLE_APPLICATION_CREDENTIALS, DRIVE_FOLDER_ID).
const (
	defaultDocumentPath   = "versions/v1"
	defaultFilenamePrefix = "yallanegev"
	defaultParallelFetch  = 4
	defaultRetentionDays  = 365
	defaultLogLevel       = "info"
	defaultLogFormat      = "text"
	historyFileName       = "history.db"
)

// defaultLocalePriority is the order localized fields are tried in.
// Hebrew first, matching the audience of the original reports.
func defaultLocalePriority() []string {
	return []string{"he", "en"}
}

// DefaultConfig returns a Config populated with all default values.
// It is used both as the starting point for TOML decoding (so unset fields
// retain defaults) and as the fallback when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Firestore: FirestoreConfig{
			DocumentPath: defaultDocumentPath,
		},
		Drive: DriveConfig{
			FilenamePrefix: defaultFilenamePrefix,
		},
		Export: ExportConfig{
			OutputDir:      ".",
			LocalePriority: defaultLocalePriority(),
			ParallelFetch:  defaultParallelFetch,
			KeepLocal:      false,
		},
		History: HistoryConfig{
			DBPath:        filepath.Join(DefaultDataDir(), historyFileName),
			RetentionDays: defaultRetentionDays,
		},
		Logging: LoggingConfig{
			LogLevel:  defaultLogLevel,
			LogFormat: defaultLogFormat,
		},
	}
}
