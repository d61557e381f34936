package util

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

func GetUUID() string {
	return uuid.New().String()
}

func IsValidUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// ParseBoolParam reads a query flag, accepting 1/0, true/false and yes/no.
func ParseBoolParam(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "yes" || value == "y" {
		return true
	}
	parsed, err := strconv.ParseBool(value)
	return err == nil && parsed
}

// IsCSVFileName reports whether the uploaded file name has a .csv extension.
func IsCSVFileName(name string) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(name)), ".csv")
}
