package plot

import "fmt"

// StyleOptions are the optional parts of StyleFigure. A zero value styles
// axes, fonts and colours but leaves title and legend visibility untouched.
type StyleOptions struct {
	Title       string
	ShowLegend  *bool
	CenterTitle bool
}

// ShowLegend is a helper for StyleOptions.ShowLegend.
func ShowLegend(show bool) *bool {
	return boolPtr(show)
}

// StyleFigure applies the theme to fig in place. Applying it again with the
// same options yields the same layout.
func StyleFigure(fig *Figure, theme Theme, opts StyleOptions) {
	if fig.Layout.XAxis == nil {
		fig.Layout.XAxis = &Axis{}
	}
	if fig.Layout.YAxis == nil {
		fig.Layout.YAxis = &Axis{}
	}
	applyAxisStyle(fig.Layout.XAxis, theme, true)
	applyAxisStyle(fig.Layout.YAxis, theme, false)

	l := &fig.Layout
	l.PaperBgColor = theme.Background
	l.PlotBgColor = theme.Background
	l.Font = &Font{Family: theme.BodyFont, Size: 13, Color: theme.Text}
	l.Colorway = append([]string(nil), theme.Colorway...)
	l.Margin = &Margin{L: 24, R: 24, T: 72, B: 24}
	l.Legend = &Legend{
		BgColor:     "rgba(15,23,42,0.45)",
		BorderColor: "rgba(148,163,184,0.25)",
		BorderWidth: 1,
		Font:        &Font{Family: theme.BodyFont, Size: 12, Color: theme.Text},
		Title: &LegendTitle{
			Font: &Font{Family: theme.HeaderFont, Size: 13, Color: theme.Header},
		},
	}

	if opts.Title != "" {
		l.Title = &Title{
			Text:    headerSpan(opts.Title),
			X:       0.02,
			XAnchor: "left",
			Y:       0.98,
			YAnchor: "top",
			Font:    &Font{Size: 28, Color: theme.Header},
		}
		if opts.CenterTitle {
			l.Title.X = 0.5
			l.Title.XAnchor = "center"
		}
	}

	if opts.ShowLegend != nil {
		l.ShowLegend = boolPtr(*opts.ShowLegend)
	}
}

// applyAxisStyle sets only the styled fields, so ranges and tick suffixes
// set by the chart builder survive.
func applyAxisStyle(a *Axis, theme Theme, showLine bool) {
	a.ShowGrid = boolPtr(false)
	a.ZeroLine = boolPtr(false)
	a.ShowLine = boolPtr(showLine)
	if showLine {
		a.LineColor = theme.Axis
		a.LineWidth = 1.2
	} else {
		a.LineColor = ""
		a.LineWidth = 0
	}
	a.Ticks = "outside"
	a.TickLen = 5
	a.TickWidth = 1.2
	a.TickColor = theme.Axis
	a.TickFont = &Font{Family: theme.BodyFont, Size: 12, Color: theme.Text}
}

// SetSiteTitle renders a two tier title: the heading in the header font and
// an optional smaller, muted subtitle below it, left aligned.
func SetSiteTitle(fig *Figure, theme Theme, text, subtitle string) {
	titleText := headerSpan(text)
	top := 72
	if subtitle != "" {
		titleText += fmt.Sprintf(
			"<br><span style='font-family:Poppins,sans-serif;font-size:14px;font-weight:400;color:%s'>%s</span>",
			theme.Axis, subtitle,
		)
		top = 96
	}

	fig.Layout.Title = &Title{
		Text:    titleText,
		X:       0.02,
		XAnchor: "left",
		Y:       0.97,
		YAnchor: "top",
		Font:    &Font{Size: 26, Color: theme.Header},
	}
	if fig.Layout.Margin == nil {
		fig.Layout.Margin = &Margin{L: 24, R: 24, B: 24}
	}
	fig.Layout.Margin.T = top
}

func headerSpan(text string) string {
	return fmt.Sprintf(
		"<span style='font-family:Josefin Sans,sans-serif;font-weight:700;letter-spacing:0.06em'>%s</span>",
		text,
	)
}
