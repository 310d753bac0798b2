package model

import "time"

// Config holds the complete sharechart configuration.
// Field tags serve both viper (mapstructure) and config init/show (yaml).
type Config struct {
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Cache   CacheConfig   `mapstructure:"cache" yaml:"cache"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
	Chart   ChartConfig   `mapstructure:"chart" yaml:"chart"`
	Palette PaletteConfig `mapstructure:"palette" yaml:"palette"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Workers int           `mapstructure:"workers" yaml:"workers"`
	Pages   []PageConfig  `mapstructure:"pages" yaml:"pages"`
	Transit TransitConfig `mapstructure:"transit" yaml:"transit"`
}

// LoggingConfig configures the slog handler
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // text, json
}

// CacheConfig controls memoization of file loads
type CacheConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// OutputConfig controls rendered artifacts
type OutputConfig struct {
	Dir           string `mapstructure:"dir" yaml:"dir"`
	IncludeFooter bool   `mapstructure:"include_footer" yaml:"include_footer"`
	Verbose       bool   `mapstructure:"verbose" yaml:"verbose"`
}

// ChartConfig controls chart image rendering
type ChartConfig struct {
	Width    int     `mapstructure:"width" yaml:"width"`
	Height   int     `mapstructure:"height" yaml:"height"`
	BarWidth int     `mapstructure:"bar_width" yaml:"bar_width"`
	Headroom float64 `mapstructure:"headroom" yaml:"headroom"`   // y-axis max = top share * headroom
	FontPath string  `mapstructure:"font_path" yaml:"font_path"` // TrueType font with Hangul glyphs
}

// PaletteConfig controls bar coloring
type PaletteConfig struct {
	Highlight        string  `mapstructure:"highlight" yaml:"highlight"`
	Hue              float64 `mapstructure:"hue" yaml:"hue"`
	Saturation       float64 `mapstructure:"saturation" yaml:"saturation"` // percent
	DarkLightness    float64 `mapstructure:"dark_lightness" yaml:"dark_lightness"`
	LightLightness   float64 `mapstructure:"light_lightness" yaml:"light_lightness"`
	TransitHighlight string  `mapstructure:"transit_highlight" yaml:"transit_highlight"`
}

// ServerConfig configures the HTTP dashboard
type ServerConfig struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" yaml:"requests_per_second"`
	Burst             int           `mapstructure:"burst" yaml:"burst"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
}

// PageConfig describes one share page
type PageConfig struct {
	Name            string   `mapstructure:"name" yaml:"name"`
	Title           string   `mapstructure:"title" yaml:"title"`
	Source          string   `mapstructure:"source" yaml:"source"`
	Encoding        string   `mapstructure:"encoding" yaml:"encoding"` // auto, utf-8, cp949
	CategoryColumns []string `mapstructure:"category_columns" yaml:"category_columns"`
	CountColumns    []string `mapstructure:"count_columns" yaml:"count_columns"`
	CategoryHeading string   `mapstructure:"category_heading" yaml:"category_heading"`
	CountHeading    string   `mapstructure:"count_heading" yaml:"count_heading"`
}

// TransitConfig describes the ridership page
type TransitConfig struct {
	Title            string   `mapstructure:"title" yaml:"title"`
	Source           string   `mapstructure:"source" yaml:"source"`
	Encoding         string   `mapstructure:"encoding" yaml:"encoding"`
	Month            string   `mapstructure:"month" yaml:"month"` // YYYY-MM, empty for all
	DateColumns      []string `mapstructure:"date_columns" yaml:"date_columns"`
	LineColumns      []string `mapstructure:"line_columns" yaml:"line_columns"`
	StationColumns   []string `mapstructure:"station_columns" yaml:"station_columns"`
	BoardingColumns  []string `mapstructure:"boarding_columns" yaml:"boarding_columns"`
	AlightingColumns []string `mapstructure:"alighting_columns" yaml:"alighting_columns"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Cache: CacheConfig{
			Enabled: true,
		},
		Output: OutputConfig{
			Dir:           "./sharechart-reports",
			IncludeFooter: true,
		},
		Chart: ChartConfig{
			Width:    1024,
			Height:   512,
			BarWidth: 60,
			Headroom: 1.15,
		},
		Palette: PaletteConfig{
			Highlight:        "red",
			Hue:              240,
			Saturation:       70,
			DarkLightness:    50,
			LightLightness:   90,
			TransitHighlight: "yellow",
		},
		Server: ServerConfig{
			Addr:              "127.0.0.1:8501",
			RequestsPerSecond: 10,
			Burst:             20,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
		},
		Workers: 4,
		Pages: []PageConfig{
			{
				Name:            "height",
				Title:           "2024 신체검사 키 비율 막대그래프",
				Source:          "cm.csv",
				Encoding:        "auto",
				CategoryColumns: []string{"구분"},
				CountColumns:    []string{"검사인원"},
				CategoryHeading: "키 그룹",
				CountHeading:    "검사 인원",
			},
			{
				Name:            "height-groups",
				Title:           "키 그룹별 검사 인원 비율",
				Source:          "cm.csv",
				Encoding:        "auto",
				CategoryColumns: []string{"구분"},
				CountColumns:    []string{"검사인원"},
				CategoryHeading: "키 그룹",
				CountHeading:    "검사 인원",
			},
		},
		Transit: TransitConfig{
			Title:            "지하철 승하차 분석",
			Source:           "subway.csv",
			Encoding:         "auto",
			Month:            "2025-10",
			DateColumns:      []string{"사용일자", "f"},
			LineColumns:      []string{"노선명"},
			StationColumns:   []string{"역명"},
			BoardingColumns:  []string{"승차총승객수"},
			AlightingColumns: []string{"하차총승객수"},
		},
	}
}

// Page returns the configured page with the given name
func (c *Config) Page(name string) (PageConfig, bool) {
	for _, p := range c.Pages {
		if p.Name == name {
			return p, true
		}
	}
	return PageConfig{}, false
}
