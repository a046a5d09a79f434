package cmd

import (
	"flag"
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/papertrade"
	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables overriding the configuration,
// for instance PTRADE_BALANCE.
const EnvPrefix = "PTRADE"

// Config is the configuration shared by all commands.
//
// Each setting comes from, by decreasing priority: the command line flag, the
// environment, the config file, the flag default.
type Config struct {
	Session       string `mapstructure:"session"`
	Prices        string `mapstructure:"prices"`
	PriceSelector string `mapstructure:"price-selector"`
	Currency      string `mapstructure:"currency"`
	Balance       string `mapstructure:"balance"`
	LogLevel      string `mapstructure:"log-level"`
}

// configKeys are the flags that can also be set in the config file or the environment.
var configKeys = []string{"session", "prices", "price-selector", "currency", "balance", "log-level"}

func init() { declareFlags(flag.CommandLine) }

// declareFlags declares the global flags on f.
func declareFlags(f *flag.FlagSet) {
	f.String("config", "", "Path to a YAML config file")
	f.String("session", "session.jsonl", "Path to the session script (JSONL format)")
	f.String("prices", "", "Path to a price table (.json, .yaml). Defaults to a built-in table")
	f.String("price-selector", "$", "JSONPath selecting the prices object in a JSON price table")
	f.String("currency", "USD", "Currency of the account and of the price table")
	f.String("balance", "10000", "Initial cash balance of the account")
	f.String("log-level", "warn", "Log level (debug, info, warn, error)")
}

// loadConfig resolves the configuration from the flags in f.
func loadConfig(f *flag.FlagSet) (*Config, error) {
	v := viper.New()
	for _, key := range configKeys {
		if fl := f.Lookup(key); fl != nil {
			v.SetDefault(key, fl.DefValue)
		}
	}

	if fl := f.Lookup("config"); fl != nil && fl.Value.String() != "" {
		v.SetConfigFile(fl.Value.String())
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file failed (%s): %w", fl.Value.String(), err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// explicit flags win over everything else.
	f.Visit(func(fl *flag.Flag) {
		if slices.Contains(configKeys, fl.Name) {
			v.Set(fl.Name, fl.Value.String())
		}
	})

	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if err := papertrade.ValidateCurrency(c.Currency); err != nil {
		return err
	}
	if _, err := c.InitialBalance(); err != nil {
		return err
	}
	if c.Session == "" {
		return fmt.Errorf("session path cannot be empty")
	}
	return nil
}

// InitialBalance returns the cash the account starts with.
func (c *Config) InitialBalance() (papertrade.Money, error) {
	d, err := decimal.NewFromString(c.Balance)
	if err != nil {
		return papertrade.Money{}, fmt.Errorf("invalid balance %q: %w", c.Balance, err)
	}
	return papertrade.M(d, c.Currency), nil
}
