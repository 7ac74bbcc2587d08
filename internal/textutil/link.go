package textutil

import (
	"strings"
	"unicode/utf8"
)

const (
	displayLinkMax    = 30
	displayLinkKeep   = 27
	displayLinkSuffix = "..."
)

// DisplayLink strips the http(s) scheme from link and shortens it to at most
// 30 characters, keeping the first 27 and appending an ellipsis when longer.
func DisplayLink(link string) string {
	if link == "" {
		return ""
	}
	text := strings.ReplaceAll(link, "https://", "")
	text = strings.ReplaceAll(text, "http://", "")
	if utf8.RuneCountInString(text) <= displayLinkMax {
		return text
	}
	runes := []rune(text)
	return string(runes[:displayLinkKeep]) + displayLinkSuffix
}
