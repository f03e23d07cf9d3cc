package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sodiumbridge/internal/domain"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	heavyStyle  = cellStyle.Foreground(lipgloss.Color("#FFB86C"))
)

func opsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ops",
		Short: "List operations with their argument roles and output rule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ops := wire.Bridge.Operations()
			if isTerminal(out) {
				fmt.Fprintln(out, renderTable(ops))
				return nil
			}
			for _, d := range ops {
				fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", d.Name, rolesString(d.Roles), d.Output, failureString(d))
			}
			return nil
		},
	}
}

func renderTable(ops []domain.Descriptor) string {
	rows := make([][]string, len(ops))
	for i, d := range ops {
		rows[i] = []string{d.Name, rolesString(d.Roles), d.Output.String(), failureString(d)}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("OPERATION", "ARGUMENTS", "OUTPUT", "FAILURE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row >= 0 && row < len(ops) && col == 3 && ops[row].Heavy:
				return heavyStyle
			}
			return cellStyle
		}).
		String()
}

// rolesString renders roles as name[size] for bounded bytes and name(range)
// for scalars, with ? for optional and * for secret roles.
func rolesString(roles []domain.Role) string {
	if len(roles) == 0 {
		return "-"
	}
	parts := make([]string, len(roles))
	for i, r := range roles {
		var b strings.Builder
		b.WriteString(r.Name)
		switch {
		case r.Kind == domain.ArgScalar:
			b.WriteString("(" + r.Size.String() + ")")
		case r.Size.Min > 0:
			b.WriteString("[" + r.Size.String() + "]")
		}
		if r.Optional {
			b.WriteByte('?')
		}
		if r.Secret {
			b.WriteByte('*')
		}
		parts[i] = b.String()
	}
	return strings.Join(parts, ", ")
}

func failureString(d domain.Descriptor) string {
	s := "native"
	if d.OnFailure == domain.FailAuth {
		s = "auth"
	}
	if d.Heavy {
		s += ", heavy"
	}
	return s
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
