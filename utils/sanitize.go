package utils

import "github.com/microcosm-cc/bluemonday"

// ugcPolicy allows the markup reasonable in reader-submitted content and
// strips everything script-capable.
var ugcPolicy = bluemonday.UGCPolicy()

// Sanitize filters user-supplied HTML before it is stored.
func Sanitize(input string) string {
	return ugcPolicy.Sanitize(input)
}
