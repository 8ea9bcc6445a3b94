package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

const (
	defaultTileURL = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	mapboxTileURL  = "https://api.mapbox.com/styles/v1/mapbox/streets-v12/tiles/{z}/{x}/{y}?access_token=%s"
)

// Config holds all run settings, populated from environment variables.
type Config struct {
	InputPath      string
	InputDelimiter rune
	InputEncoding  string
	DatasetVariant string
	GroupBy        string

	OutputHTML string
	OutputJSON string

	MapZoom        int
	LayersVisible  bool
	HeatRadius     int
	HeatBlur       int
	HeatMinOpacity float64
	TileURL        string
	MapboxToken    string

	KafkaBrokers []string
	KafkaTopic   string

	ServeAddr       string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	delimiter, err := parseDelimiter(sharedcfg.EnvOrDefault("INPUT_DELIMITER", ";"))
	if err != nil {
		return nil, err
	}

	encoding := strings.ToLower(sharedcfg.EnvOrDefault("INPUT_ENCODING", "iso-8859-1"))
	if !supportedEncoding(encoding) {
		return nil, fmt.Errorf("invalid INPUT_ENCODING %q", encoding)
	}

	zoom, err := parsePositiveInt("MAP_ZOOM", 12)
	if err != nil {
		return nil, err
	}
	radius, err := parsePositiveInt("HEAT_RADIUS", 35)
	if err != nil {
		return nil, err
	}
	blur, err := parsePositiveInt("HEAT_BLUR", 20)
	if err != nil {
		return nil, err
	}

	minOpacity, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("HEAT_MIN_OPACITY", "0.2"), 64)
	if err != nil || minOpacity < 0 || minOpacity > 1 {
		return nil, errors.New("invalid HEAT_MIN_OPACITY: must be between 0 and 1")
	}

	visible, err := strconv.ParseBool(sharedcfg.EnvOrDefault("LAYERS_VISIBLE", "true"))
	if err != nil {
		return nil, errors.New("invalid LAYERS_VISIBLE")
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	tileURL := os.Getenv("TILE_URL")
	if tileURL == "" {
		tileURL = defaultTileURL
		if mapboxToken != "" {
			tileURL = fmt.Sprintf(mapboxTileURL, mapboxToken)
		}
	}

	// An explicitly empty OUTPUT_HTML disables the HTML artifact.
	outputHTML, ok := os.LookupEnv("OUTPUT_HTML")
	if !ok {
		outputHTML = "devolucao_custom.html"
	}

	cfg := &Config{
		InputPath:      sharedcfg.EnvOrDefault("INPUT_PATH", "metro.csv"),
		InputDelimiter: delimiter,
		InputEncoding:  encoding,
		DatasetVariant: strings.ToLower(sharedcfg.EnvOrDefault("DATASET_VARIANT", "minimal")),
		GroupBy:        strings.ToLower(sharedcfg.EnvOrDefault("GROUP_BY", "product")),

		OutputHTML: outputHTML,
		OutputJSON: os.Getenv("OUTPUT_JSON"),

		MapZoom:        zoom,
		LayersVisible:  visible,
		HeatRadius:     radius,
		HeatBlur:       blur,
		HeatMinOpacity: minOpacity,
		TileURL:        tileURL,
		MapboxToken:    mapboxToken,

		KafkaBrokers: sharedcfg.ParseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "return-map-layers"),

		ServeAddr:       os.Getenv("SERVE_ADDR"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.DatasetVariant != "minimal" && cfg.DatasetVariant != "extended" {
		return nil, fmt.Errorf("invalid DATASET_VARIANT %q: must be minimal or extended", cfg.DatasetVariant)
	}
	switch cfg.GroupBy {
	case "product", "class", "city", "neighborhood":
	default:
		return nil, fmt.Errorf("invalid GROUP_BY %q", cfg.GroupBy)
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// KafkaEnabled reports whether layers should be published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func parseDelimiter(s string) (rune, error) {
	if s == `\t` || s == "tab" {
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
		return 0, fmt.Errorf("invalid INPUT_DELIMITER %q: must be a single character", s)
	}
	return r, nil
}

func supportedEncoding(name string) bool {
	switch name {
	case "iso-8859-1", "latin1", "windows-1252", "cp1252", "utf-8", "utf8":
		return true
	default:
		return false
	}
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", key)
	}
	return n, nil
}
