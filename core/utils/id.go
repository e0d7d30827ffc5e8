package utils

import (
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

func GenerateID() string {
	id, err := gonanoid.Generate(idAlphabet, 7)
	if err != nil {
		return ""
	}
	return id
}

// GenerateHangoutID builds a hangout identifier that embeds its creation
// timestamp (base-36 unix millis) for sortability, followed by a random
// nanoid segment.
func GenerateHangoutID(createdAt time.Time) string {
	return strconv.FormatInt(createdAt.UnixMilli(), 36) + "-" + GenerateID()
}

// HangoutIDTime recovers the creation timestamp embedded in a hangout ID.
func HangoutIDTime(id string) (time.Time, bool) {
	prefix, _, ok := strings.Cut(id, "-")
	if !ok {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(prefix, 36, 64)
	if err != nil || ms < 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

// GenerateSlug builds a URL slug from a hangout title, suffixed with a short
// random segment so duplicate titles stay distinct.
func GenerateSlug(title string) string {
	s := slug.Make(title)
	if len(s) > 48 {
		s = s[:48]
	}
	suffix, err := gonanoid.Generate(idAlphabet, 4)
	if err != nil {
		return s
	}
	return s + "-" + strings.ToLower(suffix)
}
