package utils

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Slugify приводит строку к URL-виду: "Hello, World!" → "hello-world".
func Slugify(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = strings.ReplaceAll(result, " ", "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// BlogID строит идентификатор блога: слаг заголовка + случайный суффикс,
// чтобы одинаковые заголовки не сталкивались.
func BlogID(title string) string {
	slug := Slugify(title)
	suffix := strings.Split(uuid.NewString(), "-")[0]
	if slug == "" {
		return suffix
	}
	return slug + "-" + suffix
}
