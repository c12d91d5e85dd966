package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	stations "github.com/kilianp07/evroute/connectors/factory"
	"github.com/kilianp07/evroute/core/emission"
	"github.com/kilianp07/evroute/core/metrics"
	"github.com/kilianp07/evroute/core/model"
	"github.com/kilianp07/evroute/core/planner"
	"github.com/kilianp07/evroute/core/plans"
	"github.com/kilianp07/evroute/core/search"
)

// EnvPrefix marks environment overrides; "__" separates nested keys, e.g.
// EVR_SEARCH__CHARGE_STEP=0.1.
const EnvPrefix = "EVR_"

type Config struct {
	Vehicle   model.Vehicle   `json:"vehicle"`
	Battery   BatteryConfig   `json:"battery"`
	Charging  ChargingConfig  `json:"charging"`
	Search    SearchConfig    `json:"search"`
	Objective ObjectiveConfig `json:"objective"`
	Tariff    TariffConfig    `json:"tariff"`
	Emissions emission.Table  `json:"emissions"`
	Energy    EnergyConfig    `json:"energy"`
	Storage   plans.Config    `json:"storage"`
	Metrics   metrics.Config  `json:"metrics"`
	Stations  stations.Config `json:"stations"`
	API       APIConfig       `json:"api"`
}

// Load reads the YAML or JSON file at path, applies environment overrides,
// fills defaults and validates every section. An empty path loads defaults
// and environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	prefix := strings.ToLower(EnvPrefix)
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), prefix)
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills every section.
func (c *Config) SetDefaults() {
	c.Battery.SetDefaults()
	c.Charging.SetDefaults()
	c.Search.SetDefaults()
	c.Objective.SetDefaults()
	c.Tariff.SetDefaults()
	c.Energy.SetDefaults()
	c.Storage.SetDefaults()
	if len(c.Emissions.Regions) == 0 && len(c.Emissions.Hourly) == 0 {
		c.Emissions = emission.DefaultTable()
	}
}

// Validate checks every section. The vehicle is validated per scenario
// since scenarios may bring their own.
func (c Config) Validate() error {
	validators := []func() error{
		c.Battery.Validate,
		c.Charging.Validate,
		c.Search.Validate,
		c.Objective.Validate,
		c.Tariff.Validate,
		c.Energy.Validate,
		c.Emissions.Validate,
		c.Storage.Validate,
		c.Stations.Validate,
		c.API.Validate,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

// Planner converts the configuration into planner settings.
func (c Config) Planner() (planner.Config, error) {
	dep, err := c.Search.DepartureTime()
	if err != nil {
		return planner.Config{}, err
	}
	opts := search.Options{
		Bounds:                c.Battery.Bounds(),
		InitialSoC:            c.Battery.InitialSoC,
		ArrivalSoC:            c.Battery.ArrivalSoC,
		ChargeStep:            c.Search.ChargeStep,
		ExactNeedTargets:      c.Search.ExactNeedTargets == nil || *c.Search.ExactNeedTargets,
		StopOverhead:          time.Duration(c.Search.StopOverheadMinutes * float64(time.Minute)),
		DefaultPriceEURPerKWh: c.Tariff.DefaultEURPerKWh,
		Departure:             dep,
		MaxLabels:             c.Search.MaxLabels,
		TimeBudget:            time.Duration(c.Search.TimeBudgetSeconds * float64(time.Second)),
	}
	lex, err := c.Objective.Lexicographic()
	if err != nil {
		return planner.Config{}, err
	}
	pc := planner.Config{
		Search:          opts,
		Curve:           c.Charging.Curve(),
		Emissions:       c.Emissions,
		AirDensity:      c.Energy.AirDensity,
		SkipUnavailable: c.Search.SkipUnavailable,
		Mode:            planner.Mode(c.Objective.Mode),
		Weights:         c.Objective.Weights,
		Lexicographic:   lex,
	}
	return pc, pc.Validate()
}
