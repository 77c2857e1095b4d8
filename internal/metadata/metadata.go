package metadata

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"
)

// Well-known field names.
const (
	FieldRelease  = "release"
	FieldSerial   = "serial"
	FieldLanguage = "sprog"
)

// DefaultRelease is used when the header carries no release number.
const DefaultRelease = "1"

// serialLayout formats the current date as an Inform serial number (yymmdd).
const serialLayout = "060102"

var (
	commentPattern = regexp.MustCompile(`^! ([\p{L}\p{N}_]+):(.*)$`)
	releasePattern = regexp.MustCompile(`(?i)^Release (\d+)`)
	serialPattern  = regexp.MustCompile(`(?i)^Serial "(\d+)"`)
)

// Metadata holds the fields found in a source header.
type Metadata struct {
	Fields map[string]string
	// Keys lists field names in the order they were encountered, including repeats.
	Keys     []string
	Encoding string
}

// Get returns the value recorded for key.
func (m Metadata) Get(key string) (string, bool) {
	if m.Fields == nil {
		return "", false
	}
	value, ok := m.Fields[strings.ToLower(key)]
	return value, ok
}

// Release returns the release number, defaulting to DefaultRelease.
func (m Metadata) Release() string {
	if value, ok := m.Get(FieldRelease); ok && value != "" {
		return value
	}
	return DefaultRelease
}

// Serial returns the serial number, defaulting to now as yymmdd.
func (m Metadata) Serial(now time.Time) string {
	if value, ok := m.Get(FieldSerial); ok && value != "" {
		return value
	}
	return now.Format(serialLayout)
}

// Language returns the language named by the "sprog" header field.
func (m Metadata) Language() (string, bool) {
	value, ok := m.Get(FieldLanguage)
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return strings.TrimSpace(value), true
}

func (m *Metadata) set(key, value string) {
	if m.Fields == nil {
		m.Fields = make(map[string]string)
	}
	m.Fields[key] = value
	m.Keys = append(m.Keys, key)
}

// Extract reads path and parses its header block.
func Extract(path string) (Metadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("read source %s: %w", path, err)
	}
	text, encoding := decode(raw)
	meta := Parse(text)
	meta.Encoding = encoding
	return meta, nil
}

// Parse scans already-decoded source text. Scanning stops at the first empty line.
func Parse(text string) Metadata {
	meta := Metadata{Fields: make(map[string]string)}
	text = strings.TrimPrefix(text, "\ufeff")

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			break
		}
		parseLine(&meta, line)
	}
	return meta
}

func parseLine(meta *Metadata, line string) {
	if match := commentPattern.FindStringSubmatch(line); match != nil {
		meta.set(strings.ToLower(match[1]), unquote(strings.TrimSpace(match[2])))
		return
	}
	if match := releasePattern.FindStringSubmatch(line); match != nil {
		meta.set(FieldRelease, match[1])
		return
	}
	if match := serialPattern.FindStringSubmatch(line); match != nil {
		meta.set(FieldSerial, match[1])
	}
}

func unquote(value string) string {
	if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
		return value[1 : len(value)-1]
	}
	return value
}
