// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/patent-scout/internal/identity"
	"github.com/pdiddy/patent-scout/internal/pipeline"
	"github.com/pdiddy/patent-scout/internal/providers"
	"github.com/pdiddy/patent-scout/internal/report"
	"github.com/pdiddy/patent-scout/internal/secrets"
	"github.com/pdiddy/patent-scout/internal/stats"
	"github.com/pdiddy/patent-scout/pkg/types"
)

var discoverCmd = &cobra.Command{
	Use:   "discover [molecule]",
	Short: "Discover patents protecting a molecule in the target countries",
	Long: `Discover resolves the molecule's identity, fans queries out across the
worldwide patent crawler, the national patent office, and patent-family
navigation, and reconciles the hits into one deduplicated, classified,
scored result set.

Provider failures degrade into run statistics; the run only fails when no
providers are configured at all. Credentials come from .secrets/
(epo-consumer-key/-secret for family navigation, inpi-crawler-url to
override the national crawler endpoint).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDiscover,
}

func runDiscover(cmd *cobra.Command, args []string) error {
	molecule, _ := cmd.Flags().GetString("molecule")
	if molecule == "" && len(args) > 0 {
		molecule = args[0]
	}
	if molecule == "" {
		return fmt.Errorf("molecule name required: pass it as an argument or --molecule")
	}
	brand, _ := cmd.Flags().GetString("brand")

	cfg := discoveryConfig(cmd)
	client := &http.Client{Timeout: cfg.Provider.Timeout}

	deps := pipeline.Deps{
		Resolve: func(ctx context.Context, name, brand string) (types.MoleculeIdentity, error) {
			return identity.Resolve(ctx, client, name, brand, cfg.Identity)
		},
		Adapters: buildAdapters(client, cfg),
		Limiters: map[types.Provider]*providers.Limiter{
			types.ProviderWorldwide: providers.NewLimiter(cfg.Provider.CallDelay),
			types.ProviderNational:  providers.NewLimiter(cfg.Provider.CallDelay),
			types.ProviderFamily:    providers.NewLimiter(cfg.Provider.CallDelay),
		},
	}

	run, err := pipeline.Discover(cmd.Context(), deps, molecule, brand, cfg)
	if err != nil {
		return err
	}
	if run.IdentityDegraded {
		fmt.Fprintln(os.Stderr, "warning: identity resolution failed; searching on name/brand only")
	}

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		if err := report.SaveRun(run, output); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Run saved to", output)
	}

	if record, _ := cmd.Flags().GetBool("record"); record {
		if err := recordRun(cmd, run); err != nil {
			fmt.Fprintf(os.Stderr, "warning: run history not recorded: %v\n", err)
		}
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return report.FormatJSON(run, os.Stdout)
	}
	report.FormatTable(run, os.Stdout)
	return nil
}

// buildAdapters assembles the provider set. Family navigation joins only
// when credentials are present; the others need no authentication.
func buildAdapters(client *http.Client, cfg types.DiscoveryConfig) []providers.Adapter {
	adapters := []providers.Adapter{
		&providers.WorldwideAdapter{Client: client, Cfg: cfg.Provider, Countries: cfg.TargetCountries},
		&providers.NationalAdapter{
			Client:        client,
			Cfg:           cfg.Provider,
			BaseURL:       secretDefault("inpi-crawler-url", ""),
			CountryPrefix: cfg.TargetCountries[0],
		},
	}

	keys := secrets.Numbered(loadedSecrets, "epo-consumer-key")
	keySecrets := secrets.Numbered(loadedSecrets, "epo-consumer-secret")
	var creds []providers.Credential
	for i := range keys {
		if i >= len(keySecrets) {
			break
		}
		creds = append(creds, providers.Credential{Key: keys[i], Secret: keySecrets[i]})
	}
	if len(creds) > 0 {
		adapters = append(adapters, &providers.FamilyAdapter{
			Client:    client,
			Cfg:       cfg.Provider,
			Keys:      providers.NewKeyPool(creds),
			Countries: cfg.TargetCountries,
		})
	} else {
		fmt.Fprintln(os.Stderr, "note: no family-navigation credentials; skipping that provider")
	}
	return adapters
}

func recordRun(cmd *cobra.Command, run *types.SearchRun) error {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	store, err := stats.NewStore(dataDir)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Record(cmd.Context(), run)
}

// discoveryConfig layers flags over the config file. The file provides the
// per-stage sections; flags override the common knobs.
func discoveryConfig(cmd *cobra.Command) types.DiscoveryConfig {
	var cfg types.DiscoveryConfig
	_ = viper.UnmarshalKey("discovery", &cfg)

	if cfg.Provider.Timeout <= 0 {
		cfg.Provider.Timeout = 30 * time.Second
	}
	if cfg.Provider.CallDelay <= 0 {
		cfg.Provider.CallDelay = 1 * time.Second
	}
	if cfg.Identity.Timeout <= 0 {
		cfg.Identity.Timeout = cfg.Provider.Timeout
	}
	if cfg.Provider.UserAgent == "" {
		ua := "patent-scout/" + version
		if contact := secretDefault("contact-email", ""); contact != "" {
			ua += " (" + contact + ")"
		}
		cfg.Provider.UserAgent = ua
	}
	cfg.Identity.UserAgent = cfg.Provider.UserAgent

	if countries, _ := cmd.Flags().GetString("countries"); countries != "" {
		cfg.TargetCountries = nil
		for _, c := range strings.Split(countries, ",") {
			if c = strings.TrimSpace(strings.ToUpper(c)); c != "" {
				cfg.TargetCountries = append(cfg.TargetCountries, c)
			}
		}
	}
	if len(cfg.TargetCountries) == 0 {
		cfg.TargetCountries = []string{"BR"}
	}
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		cfg.RunTimeout = timeout
	}
	if years, _ := cmd.Flags().GetInt("year-window"); years > 0 {
		cfg.Planner.YearWindow = years
	}
	return cfg
}

func init() {
	discoverCmd.Flags().String("molecule", "", "molecule generic name (e.g. Darolutamide)")
	discoverCmd.Flags().String("brand", "", "brand name, improves identity resolution (e.g. Nubeqa)")
	discoverCmd.Flags().String("countries", "", "target country prefixes, comma-separated (default BR)")
	discoverCmd.Flags().Duration("timeout", 0, "total run time budget (default 300s)")
	discoverCmd.Flags().Int("year-window", 0, "add year-qualified name variants over the last N years")
	discoverCmd.Flags().String("output", "", "write the full run envelope to a YAML file")
	discoverCmd.Flags().Bool("json", false, "output the run envelope as JSON")
	discoverCmd.Flags().Bool("record", true, "record the run in the history database")
	discoverCmd.Flags().String("data-dir", "data", "directory for the history database")

	rootCmd.AddCommand(discoverCmd)
}
