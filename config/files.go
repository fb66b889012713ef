package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Files holds upload limits and the purposes seeded at startup.
type Files struct {
	MaxFileSizeBytes int64
	AllowedPurposes  []string

	// MaxConcurrentUploads caps in-flight uploads; 0 disables the cap.
	MaxConcurrentUploads int
	UploadWait           time.Duration
}

var defaultPurposes = []string{"user-upload", "document", "image", "avatar"}

func getFilesConfig(v *viper.Viper) *Files {
	return &Files{
		MaxFileSizeBytes: getInt64OrDefault(v, "files.max_file_size_bytes", 104857600),
		AllowedPurposes:  getPurposes(v),

		MaxConcurrentUploads: getIntOrDefault(v, "files.max_concurrent_uploads", 64),
		UploadWait:           getDurationOrDefault(v, "files.upload_wait", 5*time.Second),
	}
}

// getPurposes accepts a YAML list or a comma separated string (env).
func getPurposes(v *viper.Viper) []string {
	if !v.IsSet("files.allowed_purposes") {
		return defaultPurposes
	}
	var out []string
	for _, item := range v.GetStringSlice("files.allowed_purposes") {
		for _, p := range strings.Split(item, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	if len(out) == 0 {
		return defaultPurposes
	}
	return out
}
