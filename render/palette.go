package render

import "github.com/fatih/color"

// Palette styles a table. Only borders and header text are ever colored.
// The zero value (and nil) renders plain text. fatih/color honors NO_COLOR
// and tty detection globally via color.NoColor.
type Palette struct {
	Header *color.Color
	Border *color.Color
}

// Predefined palettes matching the tool's output scheme.
var (
	Yellow = &Palette{
		Header: color.New(color.FgYellow, color.Bold),
		Border: color.New(color.FgYellow),
	}
	BoldYellow = &Palette{
		Header: color.New(color.FgHiYellow, color.Bold),
		Border: color.New(color.FgYellow, color.Bold),
	}
	Magenta = &Palette{
		Header: color.New(color.FgMagenta, color.Bold),
		Border: color.New(color.FgMagenta),
	}
	Green = &Palette{
		Header: color.New(color.FgGreen, color.Bold),
		Border: color.New(color.FgGreen),
	}
	Cyan = &Palette{
		Header: color.New(color.FgCyan, color.Bold),
		Border: color.New(color.FgCyan),
	}
)

func (p *Palette) header(s string) string {
	if p == nil || p.Header == nil {
		return s
	}
	return p.Header.Sprint(s)
}

func (p *Palette) border(s string) string {
	if p == nil || p.Border == nil {
		return s
	}
	return p.Border.Sprint(s)
}
