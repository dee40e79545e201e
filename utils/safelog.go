// utils/safelog.go
// ============================================================================
// SAFE LOGGING - masks personal data in production logs
// ============================================================================
// Client names, plates and documents are personal data. In production the
// logging helpers below scrub them before anything reaches stdout.
// ============================================================================

package utils

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
)

var (
	// IsProduction switches masking on.
	IsProduction = os.Getenv("GIN_MODE") == "release" ||
		os.Getenv("ENVIRONMENT") == "production" ||
		os.Getenv("ENV") == "production"

	LogLevel = getLogLevel()
)

const (
	LogLevelDebug = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func getLogLevel() int {
	level := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	switch level {
	case "DEBUG":
		return LogLevelDebug
	case "WARN", "WARNING":
		return LogLevelWarn
	case "ERROR":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// ============================================================================
// MASKING PATTERNS
// ============================================================================

var (
	emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	// Brazilian plates: old ABC-1234 and Mercosul ABC1D23.
	plateRegex = regexp.MustCompile(`\b[A-Z]{3}-?\d[A-Z0-9]\d{2}\b`)

	// CPF 000.000.000-00 and CNPJ 00.000.000/0000-00, with or without punctuation.
	cpfRegex  = regexp.MustCompile(`\b\d{3}\.?\d{3}\.?\d{3}-?\d{2}\b`)
	cnpjRegex = regexp.MustCompile(`\b\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2}\b`)

	phoneRegex = regexp.MustCompile(`(\+\d{1,3}[\s.-]?)?\(?\d{2}\)?[\s.-]?\d{4,5}[\s.-]?\d{4}\b`)

	uuidRegex = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
)

// MaskSensitive scrubs personal data from a message. No-op outside production.
func MaskSensitive(msg string) string {
	if !IsProduction {
		return msg
	}

	msg = emailRegex.ReplaceAllStringFunc(msg, func(m string) string {
		at := strings.Index(m, "@")
		if at <= 1 {
			return "***@***"
		}
		return m[:1] + "***" + m[at:]
	})
	msg = cnpjRegex.ReplaceAllString(msg, "**.***.***/****-**")
	msg = cpfRegex.ReplaceAllString(msg, "***.***.***-**")
	msg = plateRegex.ReplaceAllString(msg, "***-****")
	msg = phoneRegex.ReplaceAllString(msg, "(**) *****-****")
	msg = uuidRegex.ReplaceAllStringFunc(msg, func(m string) string {
		return m[:8] + "-****"
	})

	return msg
}

// ============================================================================
// LOGGING HELPERS
// ============================================================================

func SafeLogf(format string, args ...interface{}) {
	if LogLevel > LogLevelInfo {
		return
	}
	log.Print(MaskSensitive(fmt.Sprintf(format, args...)))
}

func SafeWarnf(format string, args ...interface{}) {
	if LogLevel > LogLevelWarn {
		return
	}
	log.Print("⚠️ " + MaskSensitive(fmt.Sprintf(format, args...)))
}

func SafeErrorf(format string, args ...interface{}) {
	log.Print("❌ " + MaskSensitive(fmt.Sprintf(format, args...)))
}

func SafeDebugf(format string, args ...interface{}) {
	if LogLevel > LogLevelDebug {
		return
	}
	log.Print("🔍 " + MaskSensitive(fmt.Sprintf(format, args...)))
}
