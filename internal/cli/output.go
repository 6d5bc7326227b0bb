package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tartampluch/hpde-analytics/internal/config"
)

var (
	accent  = lipgloss.Color("#" + config.HeaderFillColor)
	success = lipgloss.Color("#8BC34A")
	warning = lipgloss.Color("#FFC107")
	danger  = lipgloss.Color("#E53935")
	muted   = lipgloss.Color("#808080")
)

// Styles groups the console styles.
type Styles struct {
	Title   lipgloss.Style
	Rule    lipgloss.Style
	Label   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warn    lipgloss.Style
	Error   lipgloss.Style
}

var styles = Styles{
	Title:   lipgloss.NewStyle().Foreground(accent).Bold(true),
	Rule:    lipgloss.NewStyle().Foreground(accent),
	Label:   lipgloss.NewStyle().Bold(true),
	Muted:   lipgloss.NewStyle().Foreground(muted),
	Success: lipgloss.NewStyle().Foreground(success).Bold(true),
	Warn:    lipgloss.NewStyle().Foreground(warning).Bold(true),
	Error:   lipgloss.NewStyle().Foreground(danger).Bold(true),
}

// heading prints a title framed by rules.
func heading(w io.Writer, title string) {
	rule := styles.Rule.Render(strings.Repeat("=", config.ConsoleRuleWidth))
	_, _ = fmt.Fprintf(w, "\n%s\n%s\n%s\n", rule, styles.Title.Render(title), rule)
}

// subheading prints a lighter section title.
func subheading(w io.Writer, title string) {
	rule := styles.Muted.Render(strings.Repeat("-", config.ConsoleRuleWidth/3*2))
	_, _ = fmt.Fprintf(w, "\n%s\n%s\n%s\n", rule, styles.Label.Render(title), rule)
}

func line(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format+"\n", args...)
}

func yesNo(b bool) string {
	if b {
		return config.TextYes
	}
	return config.TextNo
}

// printProfile prints the authenticated user and their organizations.
func printProfile(w io.Writer, profile map[string]any) {
	subheading(w, config.TextProfile)

	first, hasFirst := profile["firstName"]
	last, hasLast := profile["lastName"]
	if hasFirst || hasLast {
		name := strings.TrimSpace(fmt.Sprintf("%s %s", str(first), str(last)))
		line(w, "  %s: %s", styles.Label.Render(config.TextName), name)
	}
	if email, ok := profile["email"]; ok {
		line(w, "  %s: %s", styles.Label.Render(config.TextEmail), str(email))
	}
	if id, ok := profile[config.IDKey]; ok {
		line(w, "  %s: %s", styles.Label.Render(config.TextProfileID), str(id))
	}

	orgs, _ := profile[config.OrgsKey].([]any)
	if len(orgs) == 0 {
		line(w, "\n  %s", styles.Muted.Render(config.TextNoOrgs))
		return
	}
	line(w, "\n  "+config.TextOrganizations, len(orgs))
	for _, o := range orgs {
		org, _ := o.(map[string]any)
		name, id := str(org["name"]), str(org[config.IDKey])
		if name == "" {
			name = config.TextUnknown
		}
		if id == "" {
			id = config.TextNotAvailable
		}
		line(w, "  "+config.TextOrgLine, name, id)
	}
}

// printJSON dumps v indented, cut at limit characters when limit > 0.
func printJSON(w io.Writer, v any, limit int) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		line(w, "%v", v)
		return
	}
	text := string(data)
	if limit > 0 && len(text) > limit {
		line(w, "%s", text[:limit])
		line(w, "%s", styles.Muted.Render(config.TextTruncated))
		return
	}
	line(w, "%s", text)
}

func str(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
