package config

import (
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config is the process configuration, loadable from environment variables
// (SHOP_ prefix), flags, or YAML config files.
type Config struct {
	Addr        string `default:"0.0.0.0:8080" usage:"HTTP listen address"`
	ServiceName string `default:"clothestore" usage:"Service name reported in logs and traces" flag:"service-name"`
	Env         string `default:"dev" usage:"Deployment environment label"`
	Payment     PaymentConfig
	Graceful    GracefulConfig
}

// PaymentConfig controls the simulated payment gateway.
type PaymentConfig struct {
	Latency       time.Duration `default:"150ms" usage:"Simulated gateway round-trip time"`
	SuccessRate   float64       `default:"1.0" usage:"Fraction of charges the gateway approves" flag:"success-rate"`
	ChargeTimeout time.Duration `default:"3s" usage:"Deadline for one charge attempt" flag:"charge-timeout"`
}

// GracefulConfig controls shutdown timing.
type GracefulConfig struct {
	ShutdownTimeout time.Duration `default:"10s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// Load reads configuration from env, flags and YAML files.
func Load() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "SHOP",
		Files:     []string{"config.yaml", "/etc/clothestore/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	if cfg.Payment.SuccessRate < 0 || cfg.Payment.SuccessRate > 1 {
		return nil, errors.New("payment success rate must be within [0, 1]")
	}

	return &cfg, nil
}
