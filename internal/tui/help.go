package tui

import (
	"sort"
	"strings"
)

const helpIntro = `# rctui

Browse files and supervise the rclone remote control daemon.

## Keys

| Key | Action |
|---|---|
| up/down, k/j | move cursor |
| enter, space | toggle node / advance server |
| tab | switch between panel and files |
| : | command mode (type ` + "`:q`" + ` to quit) |
| ? | this help |
| q | quit |

Clicking a node does the same as enter on it.
`

// buildHelp renders the static help plus the configured chord table.
func buildHelp(chords map[string]string, width int) string {
	md := helpIntro
	if len(chords) > 0 {
		var keys []string
		for k := range chords {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		b.WriteString(md)
		b.WriteString("\n## Chords\n\n| Sequence | Acts as |\n|---|---|\n")
		for _, k := range keys {
			b.WriteString("| " + k + " | " + chords[k] + " |\n")
		}
		md = b.String()
	}
	return renderMarkdown(md, width)
}
