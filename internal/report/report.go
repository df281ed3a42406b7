// Package report renders the utilization tree for the terminal. It
// consumes the figures the service computed and never recalculates
// them, so the CLI, API and this view always agree.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/maclarensg/ipam2/internal/ipam"
	"github.com/maclarensg/ipam2/internal/network"
)

const barWidth = 20

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	poolStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	vpcStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	cidrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	subnetStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	emptyStyle  = lipgloss.NewStyle().Faint(true)
)

// Render formats the full report as styled text.
func Render(r *ipam.Report) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("IPAM Utilization Report"))
	b.WriteString("\n\n")

	if len(r.AddressPools) == 0 {
		b.WriteString(emptyStyle.Render("No address pools defined."))
		b.WriteString("\n")
		return b.String()
	}

	for _, ap := range r.AddressPools {
		b.WriteString(poolStyle.Render(ap.Name))
		b.WriteString(" ")
		b.WriteString(cidrStyle.Render(ap.CIDR))
		b.WriteString("\n")
		b.WriteString("  ")
		b.WriteString(bar(ap.Utilization))
		b.WriteString("\n")

		for _, vpc := range ap.VPCs {
			b.WriteString("  ")
			b.WriteString(vpcStyle.Render("vpc " + vpc.Name))
			b.WriteString(fmt.Sprintf(" (%d pools, %d subnets)\n", len(vpc.Pools), vpc.Subnets))

			for _, pool := range vpc.Pools {
				b.WriteString("    ")
				b.WriteString(pool.Name)
				b.WriteString(" ")
				b.WriteString(cidrStyle.Render(pool.CIDR))
				b.WriteString("\n")
				b.WriteString("      ")
				b.WriteString(bar(pool.Utilization))
				b.WriteString("\n")

				for _, subnet := range pool.Subnets {
					b.WriteString("      ")
					b.WriteString(subnetStyle.Render(subnet.Name))
					b.WriteString(" ")
					b.WriteString(cidrStyle.Render(subnet.CIDR))
					b.WriteString("\n")
				}
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

// bar draws a fixed-width gauge like █████░░░░░ with the rounded
// percentage alongside.
func bar(u network.Utilization) string {
	filled := int(u.PercentUsed * barWidth / 100)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	gauge := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	return barStyle.Render(gauge) + fmt.Sprintf(" %.1f%% used", u.PercentUsed)
}
