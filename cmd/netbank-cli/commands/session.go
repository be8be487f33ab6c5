package commands

import (
	"context"
	"fmt"
	"log/slog"
	"netbank/lib/commbank"
	"netbank/lib/configutil"
	"netbank/lib/restyutil"
	"netbank/lib/textutil"
	"strings"
	"time"

	"github.com/antzucaro/matchr"
)

type Config struct {
	ClientNumber   string `json:"client_number"`
	Password       string `json:"password"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	UserAgent      string `json:"user_agent"`
	// when set, every http exchange is written into this directory
	DumpDir string `json:"dump_dir"`
}

func (c Config) clientOptions() (commbank.ClientOptions, error) {
	opts := commbank.ClientOptions{
		Timeout:   time.Duration(c.TimeoutSeconds) * time.Second,
		UserAgent: c.UserAgent,
	}
	if c.DumpDir != "" {
		out, err := restyutil.NewFilesystemOutput(c.DumpDir)
		if err != nil {
			return opts, fmt.Errorf("create dump dir: %w", err)
		}
		opts.DumpOutput = out
	}
	return opts, nil
}

func readConfig() (Config, error) {
	cfg, err := configutil.ReadConfig[Config](*configPath)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", *configPath, err)
	}
	if cfg.ClientNumber == "" || cfg.Password == "" {
		return cfg, fmt.Errorf("config %s must set client_number and password", *configPath)
	}
	return cfg, nil
}

// login reads the config and returns a logged in client.
func login(ctx context.Context) (*commbank.Client, error) {
	cfg, err := readConfig()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.clientOptions()
	if err != nil {
		return nil, err
	}
	client, err := commbank.NewClient(opts)
	if err != nil {
		return nil, err
	}

	slog.Info("logging in to netbank")
	err = client.Login(ctx, cfg.ClientNumber, cfg.Password)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// names below this similarity are not considered a match
const minNameSimilarity = 0.85

// findAccount matches a query against account numbers first (with or without
// the bsb, ignoring spaces and dashes), then against account names.
func findAccount(accounts []*commbank.Account, query string) (*commbank.Account, error) {
	digits := strings.NewReplacer(" ", "", "-", "").Replace(query)
	for _, account := range accounts {
		if account.Number == digits || account.Bsb+account.Number == digits {
			return account, nil
		}
	}

	normalized := textutil.NormalizeName(query)
	var best *commbank.Account
	bestScore := 0.0
	for _, account := range accounts {
		score := matchr.JaroWinkler(normalized, textutil.NormalizeName(account.Name), false)
		if score > bestScore {
			best = account
			bestScore = score
		}
	}
	if best == nil || bestScore < minNameSimilarity {
		return nil, fmt.Errorf("no account matches %q", query)
	}
	slog.Debug("matched account by name", "query", query, "account", best.Name, "similarity", bestScore)
	return best, nil
}
