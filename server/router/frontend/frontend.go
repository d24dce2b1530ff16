//go:build noui

package frontend

import (
	"embed"
)

// Empty filesystem for builds without the bundled site.
var embeddedFiles embed.FS
