package icons

import "strings"

// Category is a named group of curated icons.
type Category struct {
	Name  string   `json:"name"`
	Icons []string `json:"icons"`
}

var catalog = []Category{
	{"arrows", []string{
		"arrow-up", "arrow-down", "arrow-left", "arrow-right",
		"arrow-circle-up", "arrow-circle-down", "arrow-circle-left", "arrow-circle-right",
		"caret-up", "caret-down", "caret-left", "caret-right",
		"caret-circle-up", "caret-circle-down", "caret-circle-left", "caret-circle-right",
		"arrows-clockwise", "arrows-counter-clockwise", "arrow-clockwise", "arrow-counter-clockwise",
		"arrows-horizontal", "arrows-vertical", "arrows-in", "arrows-out",
	}},
	{"communication", []string{
		"envelope", "envelope-simple", "envelope-open", "phone", "phone-call",
		"chat", "chat-circle", "chat-dots", "chats", "chat-text",
		"bell", "bell-ringing", "bell-simple", "megaphone", "broadcast",
	}},
	{"data", []string{
		"chart-bar", "chart-bar-horizontal", "chart-line", "chart-line-up", "chart-line-down",
		"chart-pie", "chart-pie-slice", "chart-donut", "chart-polar", "chart-scatter",
		"graph", "pulse", "heartbeat", "trend-up", "trend-down",
	}},
	{"files", []string{
		"file", "file-text", "file-pdf", "file-doc", "file-xls", "file-ppt",
		"file-code", "file-image", "file-video", "file-audio", "file-zip",
		"folder", "folder-open", "folder-plus", "folders",
		"clipboard", "clipboard-text", "copy", "download", "upload",
	}},
	{"general", []string{
		"house", "house-simple", "gear", "gear-six", "sliders", "sliders-horizontal",
		"magnifying-glass", "funnel", "funnel-simple",
		"list", "list-bullets", "list-numbers", "grid-four", "squares-four",
		"dots-three", "dots-three-vertical", "dots-nine",
	}},
	{"media", []string{
		"image", "images", "camera", "video", "video-camera", "film-strip",
		"microphone", "microphone-slash", "speaker-high", "speaker-low", "speaker-none",
		"play", "pause", "stop", "skip-forward", "skip-back", "rewind", "fast-forward",
	}},
	{"people", []string{
		"user", "user-circle", "user-plus", "user-minus", "user-check", "user-gear",
		"users", "users-three", "users-four", "person", "person-simple",
	}},
	{"status", []string{
		"check", "check-circle", "check-square", "check-fat",
		"x", "x-circle", "x-square",
		"warning", "warning-circle", "warning-diamond", "warning-octagon",
		"info", "question", "prohibit", "seal-check", "seal-warning",
	}},
	{"time", []string{
		"clock", "clock-countdown", "clock-clockwise", "clock-counter-clockwise",
		"calendar", "calendar-blank", "calendar-check", "calendar-plus", "calendar-x",
		"timer", "hourglass", "hourglass-simple", "alarm",
	}},
	{"weather", []string{
		"sun", "sun-dim", "moon", "moon-stars", "cloud", "cloud-sun", "cloud-moon",
		"cloud-rain", "cloud-snow", "cloud-lightning", "snowflake", "thermometer",
		"wind", "rainbow", "umbrella", "drop",
	}},
	{"business", []string{
		"briefcase", "building", "building-office", "buildings", "bank",
		"currency-dollar", "currency-eur", "money", "wallet", "credit-card",
		"shopping-cart", "shopping-bag", "storefront", "package", "truck",
	}},
	{"misc", []string{
		"star", "heart", "bookmark", "flag", "tag", "link", "link-break",
		"lock", "lock-open", "key", "shield", "shield-check",
		"eye", "eye-slash", "pencil", "trash", "plus", "minus",
		"lightning", "fire", "globe", "map-pin", "target", "trophy", "medal", "gift",
		"lightbulb", "rocket", "puzzle-piece", "magic-wand",
	}},
}

// Catalog returns the curated icon categories in display order.
func Catalog() []Category {
	return catalog
}

// Similar returns up to n curated names containing name.
func Similar(name string, n int) []string {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil
	}
	var out []string
	for _, c := range catalog {
		for _, icon := range c.Icons {
			if strings.Contains(icon, needle) {
				out = append(out, icon)
				if len(out) == n {
					return out
				}
			}
		}
	}
	return out
}

// CatalogText renders the catalog for agents.
func CatalogText() string {
	var b strings.Builder
	b.WriteString("=== Phosphor Icons (Fill Variant) ===\n")
	b.WriteString("Over 1,500 icons available. Common icons listed below.\n")
	b.WriteString("Browse all: https://phosphoricons.com/\n")
	for _, c := range catalog {
		b.WriteString("\n" + strings.ToUpper(c.Name) + ":\n")
		b.WriteString("  " + strings.Join(c.Icons, ", ") + "\n")
	}
	b.WriteString("\nUsage: insert_icon(slide_number=1, icon_name='check-circle')\n")
	b.WriteString("The 'color' parameter sets the initial icon color (default #333333).\n")
	b.WriteString("Users can change colors in PowerPoint via Graphics Format > Graphics Fill.")
	return b.String()
}
