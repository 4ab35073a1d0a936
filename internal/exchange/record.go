package exchange

import (
	"strings"
)

// Record line positions, zero based.
const (
	lineVersion = iota
	lineMode
	lineAddress
	lineUsername
	linePassword
	lineDomain
)

type recordOptions struct {
	strict bool
}

// RecordOption configures ParseRecord.
type RecordOption func(*recordOptions)

// StrictRecord rejects records with non-blank content after the last
// field their mode uses. By default such content is ignored.
func StrictRecord() RecordOption {
	return func(o *recordOptions) {
		o.strict = true
	}
}

// ParseRecord reads a newline-delimited configuration item. Fields are
// positional:
//
//	version tag
//	connection mode tag
//	address (mailbox address or EWS URL)
//	username
//	password
//	domain (only for the ...Domain modes)
//
// The version is resolved before the mode, and both before any other field
// is checked. Missing lines count as empty fields.
func ParseRecord(text string, opts ...RecordOption) (Config, error) {
	var o recordOptions
	for _, opt := range opts {
		opt(&o)
	}

	lines := splitLines(text)
	field := func(i int) string {
		if i < len(lines) {
			return lines[i]
		}
		return ""
	}

	version, err := ParseVersion(field(lineVersion))
	if err != nil {
		return Config{}, err
	}

	mode, err := ParseMode(field(lineMode))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Version:  version,
		Mode:     mode,
		Address:  field(lineAddress),
		Username: field(lineUsername),
		Password: field(linePassword),
	}

	used := linePassword + 1
	if mode.RequiresDomain() {
		cfg.Domain = field(lineDomain)
		used = lineDomain + 1
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	if o.strict {
		for i := used; i < len(lines); i++ {
			if !isBlank(lines[i]) {
				return Config{}, &MalformedRecordError{
					Line:   i + 1,
					Reason: "unexpected content after last field",
				}
			}
		}
	}

	return cfg, nil
}

// FormatRecord renders cfg in the positional layout read by ParseRecord.
func FormatRecord(cfg Config) string {
	fields := []string{
		cfg.Version.String(),
		cfg.Mode.String(),
		cfg.Address,
		cfg.Username,
		cfg.Password,
	}
	if cfg.Mode.RequiresDomain() {
		fields = append(fields, cfg.Domain)
	}
	return strings.Join(fields, "\n") + "\n"
}

// splitLines splits on \n and strips a trailing \r from each line, so both
// Unix and Windows line endings are read the same way.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
