package plot

// Site colours (tailwind slate scale).
const (
	SiteBg     = "#0f172a" // slate-900
	SitePanel  = "#1e293b" // slate-800
	SiteText   = "#cbd5e1" // slate-300
	SiteHeader = "#e6edf5"
	SiteAxis   = "#94a3b8" // slate-400
	SiteGrid   = "rgba(148,163,184,0.18)"

	Primary = "#5FE3C3"
	Accent  = "#F472B6"

	Transparent = "rgba(0,0,0,0)"

	BodyFont   = "Poppins, sans-serif"
	HeaderFont = "Josefin Sans, sans-serif"
)

// SitePrismSlate is the 24 colour colorway of every chart.
var SitePrismSlate = []string{
	"#5FE3C3",
	"#4CC9F0",
	"#60A5FA",
	"#818CF8",
	"#A78BFA",
	"#C084FC",
	"#E879F9",
	"#F472B6",
	"#FB7185",
	"#F97316",
	"#FB923C",
	"#F59E0B",
	"#FACC15",
	"#A3E635",
	"#84CC16",
	"#34D399",
	"#10B981",
	"#14B8A6",
	"#2DD4BF",
	"#22D3EE",
	"#06B6D4",
	"#0EA5E9",
	"#38BDF8",
	"#7DD3FC",
}

// Theme is the visual identity applied to charts. It is passed explicitly
// to the builders and StyleFigure; nothing is registered globally.
type Theme struct {
	Background string
	Panel      string
	Text       string
	Header     string
	Axis       string
	Primary    string
	Accent     string
	BodyFont   string
	HeaderFont string
	Colorway   []string
	// Base is embedded into every figure as layout.template.layout.
	Base Layout
}

// DefaultTheme is the site theme on top of a dark base template.
func DefaultTheme() Theme {
	return Theme{
		Background: SiteBg,
		Panel:      SitePanel,
		Text:       SiteText,
		Header:     SiteHeader,
		Axis:       SiteAxis,
		Primary:    Primary,
		Accent:     Accent,
		BodyFont:   BodyFont,
		HeaderFont: HeaderFont,
		Colorway:   SitePrismSlate,
		Base: Layout{
			PaperBgColor: "rgb(17,17,17)",
			PlotBgColor:  "rgb(17,17,17)",
			Font:         &Font{Color: "#f2f5fa"},
			XAxis: &Axis{
				LineColor: "#506784",
				TickColor: "#506784",
			},
			YAxis: &Axis{
				LineColor: "#506784",
				TickColor: "#506784",
			},
		},
	}
}

// Color returns the colorway entry for the i-th category.
func (t Theme) Color(i int) string {
	if len(t.Colorway) == 0 {
		return t.Primary
	}
	return t.Colorway[i%len(t.Colorway)]
}

// template returns a deep enough copy of the base layout for embedding, so
// later mutations of a figure never reach the theme.
func (t Theme) template() *Template {
	base := t.Base
	if base.Font != nil {
		f := *base.Font
		base.Font = &f
	}
	if base.XAxis != nil {
		a := *base.XAxis
		base.XAxis = &a
	}
	if base.YAxis != nil {
		a := *base.YAxis
		base.YAxis = &a
	}
	base.Colorway = append([]string(nil), t.Colorway...)
	return &Template{Layout: &base}
}
