package config

import (
	"fmt"
	"strings"
)

// Valid log levels and formats.
var (
	validLogLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validLogFormats = map[string]bool{"text": true, "json": true}
)

// Validate checks a Config for structural problems. It does not verify that
// remote resources (project, folder) actually exist — that is the job of
// the check command, which talks to the APIs.
func Validate(cfg *Config) error {
	if err := validateDocumentPath(cfg.Firestore.DocumentPath); err != nil {
		return err
	}

	for _, loc := range cfg.Export.LocalePriority {
		if len(loc) != 2 || loc != strings.ToLower(loc) {
			return fmt.Errorf("export.locale_priority: %q is not a two-letter lowercase language code", loc)
		}
	}

	if len(cfg.Export.LocalePriority) == 0 {
		return fmt.Errorf("export.locale_priority must not be empty")
	}

	if cfg.Export.ParallelFetch < 1 {
		return fmt.Errorf("export.parallel_fetch must be at least 1, got %d", cfg.Export.ParallelFetch)
	}

	if cfg.History.RetentionDays < 0 {
		return fmt.Errorf("history.retention_days must not be negative, got %d", cfg.History.RetentionDays)
	}

	if !validLogLevels[cfg.Logging.LogLevel] {
		return fmt.Errorf("logging.log_level: %q is not one of debug, info, warn, error", cfg.Logging.LogLevel)
	}

	if !validLogFormats[cfg.Logging.LogFormat] {
		return fmt.Errorf("logging.log_format: %q is not one of text, json", cfg.Logging.LogFormat)
	}

	return nil
}

// validateDocumentPath checks that a Firestore document path has a non-zero,
// even number of segments (collection/doc/collection/doc...). An odd count
// would name a collection, not a document.
func validateDocumentPath(path string) error {
	if path == "" {
		return fmt.Errorf("firestore.document_path must not be empty")
	}

	segments := strings.Split(path, "/")
	for _, s := range segments {
		if s == "" {
			return fmt.Errorf("firestore.document_path %q contains an empty segment", path)
		}
	}

	if len(segments)%2 != 0 {
		return fmt.Errorf("firestore.document_path %q must reference a document (even number of segments)", path)
	}

	return nil
}
