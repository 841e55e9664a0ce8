// Package config implements TOML configuration loading, validation, and
// platform-specific path resolution for yalladata. It supports a three-layer
// override chain (defaults -> config file -> environment -> CLI flags).
// Unknown keys in the config file are fatal errors, because silently
// ignoring a typo leads to exports landing in the wrong Drive folder.
package config

// Config is the top-level configuration structure parsed from a TOML file.
type Config struct {
	Firestore FirestoreConfig `toml:"firestore"`
	Drive     DriveConfig     `toml:"drive"`
	Export    ExportConfig    `toml:"export"`
	History   HistoryConfig   `toml:"history"`
	Logging   LoggingConfig   `toml:"logging"`
}

// FirestoreConfig identifies the source data: which project, which document
// to read subcollections from, and which service-account key to use.
type FirestoreConfig struct {
	ProjectID       string `toml:"project_id"`
	DocumentPath    string `toml:"document_path"`
	CredentialsFile string `toml:"credentials_file"`
}

// DriveConfig controls where the generated workbook is uploaded.
// FolderID accepts either a bare folder ID or a full Drive URL; the last
// path segment is used.
type DriveConfig struct {
	FolderID       string `toml:"folder_id"`
	FilenamePrefix string `toml:"filename_prefix"`
}

// ExportConfig controls workbook generation behavior.
// LocalePriority is the order in which localized fields (name.he, name.en)
// are tried when building survey names and question texts.
type ExportConfig struct {
	OutputDir      string   `toml:"output_dir"`
	LocalePriority []string `toml:"locale_priority"`
	ParallelFetch  int      `toml:"parallel_fetch"`
	KeepLocal      bool     `toml:"keep_local"`
}

// HistoryConfig controls the export run ledger database.
// RetentionDays of zero disables pruning.
type HistoryConfig struct {
	DBPath        string `toml:"db_path"`
	RetentionDays int    `toml:"retention_days"`
}

// LoggingConfig controls log output behavior.
type LoggingConfig struct {
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// CLIOverrides holds values from CLI flags that override config file and
// environment settings. Per-command flags (--output, --skip-upload) are
// applied by the commands themselves; only globally relevant overrides
// live here.
type CLIOverrides struct {
	ConfigPath string // --config flag (empty = use default)
}
