package main

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
	"github.com/spf13/viper"

	"github.com/algorand/abicodec/config"
	"github.com/algorand/abicodec/loggers"
	"github.com/algorand/abicodec/util"
	_ "github.com/algorand/abicodec/util/disabledeadlock"
	"github.com/algorand/abicodec/version"
)

// makeRootCmd assembles the command tree. Every call returns fresh commands
// with their own flag values.
func makeRootCmd() *cobra.Command {
	var doVersion bool
	rootCmd := &cobra.Command{
		Use:   "abicodec",
		Short: "ARC-4 ABI codec",
		Long:  `abicodec encodes and decodes Algorand ARC-4 ABI values, describes method signatures and serves the codec over HTTP.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if doVersion {
				fmt.Fprintln(cmd.OutOrStdout(), version.LongVersion())
				return
			}
			//If no arguments passed, we should fallback to help
			cmd.HelpFunc()(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Version should be available globally
	rootCmd.Flags().BoolVarP(&doVersion, "version", "v", false, "print version and exit")

	rootCmd.AddCommand(makeEncodeCmd())
	rootCmd.AddCommand(makeDecodeCmd())
	rootCmd.AddCommand(makeMethodCmd())
	rootCmd.AddCommand(makeSelectorCmd())
	rootCmd.AddCommand(makeContractCmd())
	rootCmd.AddCommand(makeDaemonCmd())
	return rootCmd
}

func init() {
	// Setup configuration file
	viper.SetConfigName(config.FileName)
	// just hard-code yaml since we support multiple yaml filetypes
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.SetEnvPrefix(config.EnvPrefix)
	viper.AutomaticEnv()

	viper.RegisterAlias("server", "server-address")
	viper.RegisterAlias("token", "api-token")
}

// makeLogger builds the JSON logger writing to stdout, or to logFile when set.
func makeLogger(logLevel string, logFile string) (*log.Logger, error) {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("makeLogger(): %w", err)
	}
	if logFile == "-" {
		logFile = ""
	}
	return loggers.MakeLoggerManager(os.Stdout).MakeRootLogger(level, logFile)
}

func main() {
	rootCmd := makeRootCmd()

	// Hidden command to generate docs in a given directory
	// abicodec generate-docs [path]
	if len(os.Args) == 3 && os.Args[1] == "generate-docs" {
		err := doc.GenMarkdownTree(rootCmd, os.Args[2])
		util.MaybeFail(err, "failed to generate docs in %s", os.Args[2])
		os.Exit(0)
	}

	util.MaybeFail(rootCmd.Execute(), "abicodec failed")
}
