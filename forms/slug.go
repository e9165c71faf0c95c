package forms

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	nonSlugChars     = regexp.MustCompile(`[^a-z0-9]+`)
	nonFileNameChars = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// Slugify lowercases title and collapses every run of other characters into a dash.
func Slugify(title string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

// UniqueSlug appends the creation time in unix milliseconds.
func UniqueSlug(title string, now time.Time) string {
	slug := Slugify(title)
	if slug == "" {
		slug = "form"
	}
	return slug + "-" + strconv.FormatInt(now.UnixMilli(), 10)
}

// DownloadFileName builds the attachment name from the form title and the
// stored file's extension.
func DownloadFileName(title, storedPath string) string {
	return nonFileNameChars.ReplaceAllString(title, "_") + filepath.Ext(storedPath)
}
