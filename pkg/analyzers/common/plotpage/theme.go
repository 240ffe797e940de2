package plotpage

// Theme selects a color theme for rendered pages.
type Theme string

const (
	// ThemeLight is the default warm light theme.
	ThemeLight Theme = "light"
	// ThemeDark is the warm dark theme.
	ThemeDark Theme = "dark"
)

// ThemeConfig holds all theme-specific styling values.
type ThemeConfig struct {
	// Base colors.
	Background   string
	Surface      string
	SurfaceHover string
	Border       string
	BorderSubtle string

	// Text colors.
	TextPrimary   string
	TextSecondary string
	TextMuted     string

	// Accent colors (terracotta).
	Accent       string
	AccentHover  string
	AccentSubtle string
	AccentText   string

	// Semantic colors.
	Success       string
	SuccessSubtle string
	Warning       string
	WarningSubtle string
	Error         string
	ErrorSubtle   string
	Info          string
	InfoSubtle    string

	// Chart-specific.
	ChartBackground string
	ChartGrid       string
	ChartAxis       string
	ChartText       string
	ChartTextMuted  string

	// ECharts theme name.
	EChartsTheme string
}

// ChartPalette is a consistent color palette for chart series.
type ChartPalette struct {
	Primary   []string // Main series colors.
	Secondary []string // Secondary/accent colors.
	Semantic  struct {
		Good    string
		Warning string
		Bad     string
	}
}

// GetThemeConfig returns the configuration for a given theme.
func GetThemeConfig(theme Theme) ThemeConfig {
	switch theme {
	case ThemeDark:
		return darkTheme
	case ThemeLight:
		return lightTheme
	default:
		return lightTheme
	}
}

// GetChartPalette returns the chart color palette for a given theme.
func GetChartPalette(theme Theme) ChartPalette {
	switch theme {
	case ThemeDark:
		return darkChartPalette
	case ThemeLight:
		return lightChartPalette
	default:
		return lightChartPalette
	}
}

var lightTheme = ThemeConfig{
	// Base - warm parchment.
	Background:   "#EAE7DC",
	Surface:      "#F8F5EE",
	SurfaceHover: "#EFEBDF",
	Border:       "#D8C3A5",
	BorderSubtle: "#C9B896",

	// Text.
	TextPrimary:   "#4A4A48",
	TextSecondary: "#6B6967",
	TextMuted:     "#8E8D8A",

	// Accent (terracotta).
	Accent:       "#E85A4F",
	AccentHover:  "#D04A40",
	AccentSubtle: "#F9E0DD",
	AccentText:   "#FFFFFF",

	// Semantic.
	Success:       "#41B3A3",
	SuccessSubtle: "#DDF2EE",
	Warning:       "#E8A87C",
	WarningSubtle: "#FBEEE2",
	Error:         "#B5443B",
	ErrorSubtle:   "#F6DAD7",
	Info:          "#C38D9E",
	InfoSubtle:    "#F1E3E8",

	// Chart.
	ChartBackground: "transparent",
	ChartGrid:       "#DCD6C8",
	ChartAxis:       "#B9B2A2",
	ChartText:       "#4A4A48",
	ChartTextMuted:  "#8E8D8A",

	EChartsTheme: "",
}

var darkTheme = ThemeConfig{
	// Base - warm near-black.
	Background:   "#2B2926",
	Surface:      "#33312D",
	SurfaceHover: "#3C3934",
	Border:       "#55524C",
	BorderSubtle: "#67635C",

	// Text.
	TextPrimary:   "#EAE7DC",
	TextSecondary: "#D8C3A5",
	TextMuted:     "#A39E93",

	// Accent (soft coral reads better on dark).
	Accent:       "#E98074",
	AccentHover:  "#E85A4F",
	AccentSubtle: "#4A2F2C",
	AccentText:   "#FFFFFF",

	// Semantic.
	Success:       "#85DCB8",
	SuccessSubtle: "#23443A",
	Warning:       "#E8A87C",
	WarningSubtle: "#4A3A2B",
	Error:         "#E85A4F",
	ErrorSubtle:   "#4A2C29",
	Info:          "#C38D9E",
	InfoSubtle:    "#43333A",

	// Chart.
	ChartBackground: "transparent",
	ChartGrid:       "#4A4641",
	ChartAxis:       "#67635C",
	ChartText:       "#D8C3A5",
	ChartTextMuted:  "#A39E93",

	EChartsTheme: "",
}

var lightChartPalette = ChartPalette{
	Primary: []string{
		"#E85A4F", // terracotta (accent).
		"#41B3A3", // teal.
		"#E27D60", // burnt sienna.
		"#C38D9E", // mauve.
		"#8E8D8A", // warm gray.
		"#E8A87C", // apricot.
		"#85DCB8", // mint.
		"#D98880", // dusty rose.
		"#E98074", // coral.
		"#D8C3A5", // tan.
	},
	Secondary: []string{
		"#D04A40",
		"#379A8C",
		"#CE6E52",
		"#B27A8C",
		"#7C7B78",
		"#D9946B",
		"#6FC9A4",
		"#C77770",
		"#D96F63",
		"#C9B28F",
	},
	Semantic: struct {
		Good    string
		Warning string
		Bad     string
	}{
		Good:    "#41B3A3",
		Warning: "#E8A87C",
		Bad:     "#E85A4F",
	},
}

var darkChartPalette = ChartPalette{
	Primary: []string{
		"#F0776D",
		"#5BC8B9",
		"#EE957B",
		"#D4A5B5",
		"#A6A5A2",
		"#F0BD96",
		"#9DE8C8",
		"#E89F99",
		"#F09A90",
		"#E5D3B9",
	},
	Secondary: []string{
		"#E85A4F",
		"#41B3A3",
		"#E27D60",
		"#C38D9E",
		"#8E8D8A",
		"#E8A87C",
		"#85DCB8",
		"#D98880",
		"#E98074",
		"#D8C3A5",
	},
	Semantic: struct {
		Good    string
		Warning string
		Bad     string
	}{
		Good:    "#85DCB8",
		Warning: "#F0BD96",
		Bad:     "#F0776D",
	},
}
