package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"wordclash/internal/config"
	"wordclash/internal/server"
)

const releaseVersion = "0.1.0"

func newCmd(cfg *config.Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("WORDCLASH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "wordclash",
		Short:         "A two-player word game server with real-time lobbies.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			return server.Run(*cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	defaults := config.Default()
	fs.StringVarP(&cfg.Bind, "bind", "b", defaults.Bind, "address to bind to (env: WORDCLASH_BIND)")
	fs.IntVarP(&cfg.Port, "port", "p", defaults.Port, "port to listen on (env: WORDCLASH_PORT)")
	fs.StringVar(&cfg.DatabaseURL, "database-url", "", "postgres connection string for analytics persistence (env: WORDCLASH_DATABASE_URL)")
	fs.DurationVar(&cfg.LobbyTTL, "lobby-ttl", defaults.LobbyTTL, "time before idle lobbies expire (env: WORDCLASH_LOBBY_TTL)")
	fs.IntVar(&cfg.CodeLength, "code-length", defaults.CodeLength, "length of generated lobby codes (env: WORDCLASH_CODE_LENGTH)")
	fs.IntVar(&cfg.RoundDuration, "round-duration", defaults.RoundDuration, "round timer in seconds reported to clients (env: WORDCLASH_ROUND_DURATION)")
	fs.DurationVar(&cfg.CleanupInterval, "cleanup-interval", defaults.CleanupInterval, "interval between expired lobby sweeps (env: WORDCLASH_CLEANUP_INTERVAL)")
	fs.StringVar(&cfg.StaticDir, "static-dir", "", "directory with the built frontend to serve (env: WORDCLASH_STATIC_DIR)")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "display additional output (env: WORDCLASH_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("wordclash v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}

func main() {
	log.SetFlags(0)
	cfg := config.Default()
	cobra.CheckErr(newCmd(&cfg).Execute())
}
