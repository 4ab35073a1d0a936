package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/exchange-connect/internal/configstore"
	"github.com/nhle/exchange-connect/internal/ews"
	"github.com/nhle/exchange-connect/internal/exchange"
	"github.com/nhle/exchange-connect/internal/theme"
)

// RenderService renders a boxed summary of a connected service. The
// password is never shown.
func RenderService(title string, svc *ews.Service) string {
	endpoint := "(not set)"
	if u := svc.URL(); u != nil {
		endpoint = u.String()
	}

	rows := []string{
		row("Version", svc.Version().String()),
		row("Account", svc.Credentials().String()),
		row("Endpoint", endpoint),
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		theme.HeaderStyle.Render(title),
		theme.PanelStyle.Render(strings.Join(rows, "\n")),
	)
}

// RenderItems renders one line per stored configuration item with its
// version, mode and address. Items that do not parse with opts are listed
// with the parse error.
func RenderItems(items []configstore.Item, opts ...exchange.RecordOption) string {
	if len(items) == 0 {
		return theme.HelpStyle.Render("No configuration items.")
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, renderItem(item, opts))
	}
	return strings.Join(lines, "\n")
}

func renderItem(item configstore.Item, opts []exchange.RecordOption) string {
	name := theme.LabelStyle.Render(item.Name)

	cfg, err := exchange.ParseRecord(item.Value, opts...)
	if err != nil {
		return name + " " + theme.ErrorStyle.Render(err.Error())
	}

	mode := theme.StrategyStyle(strategy(cfg.Mode)).Render(cfg.Mode.String())
	return strings.Join([]string{
		name,
		theme.ValueStyle.Render(cfg.Version.String()),
		mode,
		theme.ValueStyle.Render(cfg.Address),
	}, " ")
}

func row(label, value string) string {
	return theme.LabelStyle.Render(label) + theme.ValueStyle.Render(value)
}

func strategy(m exchange.Mode) string {
	if m.Autodiscover() {
		return "autodiscover"
	}
	return "manual"
}
