package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var logger *logrus.Logger

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fss",
	Short: "Sign and send requests to the FSS object storage service",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if viper.GetBool("debug") {
			logger.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	logger = logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cobra.OnInitialize(initConfig)

	// Flags available to all subcommands
	rootCmd.PersistentFlags().String("config", "", "Configuration file (.properties, .yaml or .json); FSS_* variables are used when empty")
	rootCmd.PersistentFlags().StringP("bucket", "b", "", "Bucket name, overriding the configuration")
	rootCmd.PersistentFlags().Bool("internal", false, "Send requests to the private endpoint")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("bucket", rootCmd.PersistentFlags().Lookup("bucket"))
	viper.BindPFlag("internal", rootCmd.PersistentFlags().Lookup("internal"))
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	rootCmd.AddCommand(
		NewPutCommand(),
		NewGetCommand(),
		NewHeadCommand(),
		NewMetaCommand(),
		NewDeleteCommand(),
		NewCopyCommand(),
		NewSignURLCommand(),
		NewURLCommand(),
	)
}

// initConfig lets FSS_CLI_* environment variables stand in for flags
func initConfig() {
	viper.SetEnvPrefix("fss_cli")
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fatal(err)
	}
}
