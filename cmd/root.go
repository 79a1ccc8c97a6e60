// cmd/root.go
//
// Command-line entry points.
//   - serve      run the HTTP game server
//   - providers  list the model providers the server can use
//   - version    print the build version
//
// Every command reads the same configuration: defaults, an optional
// --config file, then the environment.

package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/robalobadob/decrypto/internal/config"
)

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	v := config.New()
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:           "decrypto",
		Short:         "Decrypto: a human team against a language-model team",
		Long:          "decrypto serves the Decrypto word-code game over HTTP. The human team plays in the browser; the opposing team is driven by a configurable language model.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (toml, yaml or json)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newServeCmd(v, &cfgFile),
		newProvidersCmd(v, &cfgFile),
	)
	return rootCmd
}

// bindFlag ties a command flag to a config key; the flag wins when set.
func bindFlag(v *viper.Viper, cmd *cobra.Command, key, flag string) {
	if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
		panic(err)
	}
}
