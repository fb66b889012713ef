package logger

import (
	"regexp"
	"strings"

	"github.com/ncobase/cargohold/logging/logger/config"
	"github.com/sirupsen/logrus"
)

// Desensitizer handles sensitive data masking in log fields
type Desensitizer struct {
	config   *config.Desensitization
	patterns []*regexp.Regexp
	mask     string
}

// NewDesensitizer creates a new desensitizer instance
func NewDesensitizer(cfg *config.Desensitization) *Desensitizer {
	if cfg == nil {
		cfg = config.DefaultDesensitization()
	}
	d := &Desensitizer{
		config: cfg,
		mask:   strings.Repeat(cfg.MaskChar, cfg.FixedMaskLength),
	}
	for _, pattern := range cfg.CustomPatterns {
		if regex, err := regexp.Compile(pattern); err == nil {
			d.patterns = append(d.patterns, regex)
		}
	}
	return d
}

// DesensitizeFields processes log fields and masks sensitive data
func (d *Desensitizer) DesensitizeFields(fields logrus.Fields) logrus.Fields {
	if !d.config.Enabled {
		return fields
	}

	result := make(logrus.Fields, len(fields))
	for key, value := range fields {
		switch {
		case d.isSensitiveField(key):
			result[key] = d.mask
		default:
			if s, ok := value.(string); ok {
				result[key] = d.desensitizeString(s)
			} else {
				result[key] = value
			}
		}
	}
	return result
}

// isSensitiveField checks if field name matches a sensitive keyword
func (d *Desensitizer) isSensitiveField(fieldName string) bool {
	if fieldName == "" {
		return false
	}
	lowerName := strings.ToLower(fieldName)
	for _, sensitive := range d.config.SensitiveFields {
		sensitive = strings.ToLower(sensitive)
		if d.config.ExactFieldMatch {
			if lowerName == sensitive {
				return true
			}
		} else if strings.Contains(lowerName, sensitive) {
			return true
		}
	}
	return false
}

// desensitizeString applies pattern-based desensitization to strings
func (d *Desensitizer) desensitizeString(str string) string {
	for _, pattern := range d.patterns {
		str = pattern.ReplaceAllString(str, d.mask)
	}
	return str
}

// DesensitizeHook masks entry fields before they are formatted.
type DesensitizeHook struct {
	d *Desensitizer
}

// NewDesensitizeHook creates a logrus hook backed by a Desensitizer.
func NewDesensitizeHook(cfg *config.Desensitization) *DesensitizeHook {
	return &DesensitizeHook{d: NewDesensitizer(cfg)}
}

func (h *DesensitizeHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *DesensitizeHook) Fire(entry *logrus.Entry) error {
	entry.Data = h.d.DesensitizeFields(entry.Data)
	return nil
}
