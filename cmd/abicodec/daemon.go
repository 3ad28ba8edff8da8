package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/algorand/abicodec/api"
	"github.com/algorand/abicodec/batch"
	"github.com/algorand/abicodec/config"
	"github.com/algorand/abicodec/contract"
	"github.com/algorand/abicodec/util"
	"github.com/algorand/abicodec/util/metrics"
)

const (
	metricsModeOff     = "OFF"
	metricsModeOn      = "ON"
	metricsModeVerbose = "VERBOSE"
)

type daemonConfig struct {
	flags          *pflag.FlagSet
	dataDir        string
	serverAddr     string
	contractPath   string
	tokenString    string
	metricsMode    string
	pidFilePath    string
	logLevel       string
	logFile        string
	typeCacheSize  int
	batchWorkers   int
	handlerTimeout time.Duration
}

func makeDaemonCmd() *cobra.Command {
	cfg := &daemonConfig{}
	daemonCmd := &cobra.Command{
		Use:   "daemon",
		Short: "run abicodec daemon",
		Long:  "run abicodec daemon. Serve the codec api on HTTP.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cfg)
		},
	}
	cfg.flags = daemonCmd.Flags()
	cfg.flags.StringVarP(&cfg.dataDir, "data-dir", "i", "", "path to abicodec data dir, or $ABICODEC_DATA_DIR. An abicodec.yml file in it is loaded as configuration")
	cfg.flags.StringVarP(&cfg.serverAddr, "server", "S", ":8990", "host:port to serve API on")
	cfg.flags.StringVarP(&cfg.contractPath, "contract", "c", "", "ARC-4 contract description whose structs and methods are served")
	cfg.flags.StringVarP(&cfg.tokenString, "token", "t", "", "an optional comma separated list of auth tokens, when set REST calls must use one of them in a '"+api.TokenHeader+"' header")
	cfg.flags.StringVarP(&cfg.metricsMode, "metrics-mode", "", metricsModeOff, "configure the /metrics endpoint to [ON, OFF, VERBOSE]")
	cfg.flags.StringVarP(&cfg.pidFilePath, "pidfile", "p", "", "write the process id to this file while running")
	cfg.flags.StringVarP(&cfg.logLevel, "loglevel", "l", "info", "verbosity of logs: [error, warn, info, debug, trace]")
	cfg.flags.StringVarP(&cfg.logFile, "logfile", "f", "", "file to write logs to, if unset logs are written to standard out")
	cfg.flags.IntVarP(&cfg.typeCacheSize, "type-cache-size", "", api.DefaultTypeCacheSize, "number of parsed types kept per cache generation")
	cfg.flags.IntVarP(&cfg.batchWorkers, "batch-workers", "", batch.DefaultWorkers, "number of decoders used by a batch decode")
	cfg.flags.DurationVarP(&cfg.handlerTimeout, "timeout", "", 5*time.Second, "maximum duration of a batch decode, 0 to disable")
	return daemonCmd
}

// makeOptions validates the flags which configure the HTTP server.
func makeOptions(cfg *daemonConfig) (api.ExtraOptions, error) {
	options := api.ExtraOptions{
		TypeCacheSize:  cfg.typeCacheSize,
		BatchWorkers:   cfg.batchWorkers,
		HandlerTimeout: cfg.handlerTimeout,
	}

	switch strings.ToUpper(cfg.metricsMode) {
	case metricsModeOff:
	case metricsModeOn:
		options.MetricsEndpoint = true
	case metricsModeVerbose:
		options.MetricsEndpoint = true
		options.MetricsEndpointVerbose = true
	default:
		return api.ExtraOptions{}, fmt.Errorf("unknown metrics mode '%s', use one of [%s, %s, %s]",
			cfg.metricsMode, metricsModeOn, metricsModeOff, metricsModeVerbose)
	}

	for _, token := range strings.Split(cfg.tokenString, ",") {
		if token = strings.TrimSpace(token); token != "" {
			options.Tokens = append(options.Tokens, token)
		}
	}
	return options, nil
}

// loadDataDirConfig reads the config file of the data directory into viper.
func loadDataDirConfig(dataDir string) error {
	configFile, err := config.ConfigFileForDataDir(dataDir)
	if err != nil {
		return err
	}
	if configFile == "" {
		return nil
	}
	viper.SetConfigFile(configFile)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("invalid config file (%s): %w", configFile, err)
	}
	return nil
}

func runDaemon(cfg *daemonConfig) error {
	if cfg.dataDir == "" {
		cfg.dataDir = os.Getenv("ABICODEC_DATA_DIR")
	}
	if cfg.dataDir != "" {
		if err := loadDataDirConfig(cfg.dataDir); err != nil {
			return err
		}
	}
	config.BindFlagSet(cfg.flags)

	logger, err := makeLogger(cfg.logLevel, cfg.logFile)
	if err != nil {
		return fmt.Errorf("failed to configure logger: %w", err)
	}
	if viper.ConfigFileUsed() != "" {
		logger.Infof("Using configuration file: %s", viper.ConfigFileUsed())
	}

	options, err := makeOptions(cfg)
	if err != nil {
		return err
	}

	var c *contract.Contract
	if cfg.contractPath != "" {
		c, err = contract.Load(cfg.contractPath)
		if err != nil {
			return fmt.Errorf("failed to load contract: %w", err)
		}
		logger.Infof("Loaded contract %s with %d methods", c.Name, len(c.Methods))
	}

	if cfg.pidFilePath != "" {
		if util.FileExists(cfg.pidFilePath) {
			logger.Warnf("pid file %s already exists and will be overwritten", cfg.pidFilePath)
		}
		if err := util.CreatePidFile(logger, cfg.pidFilePath); err != nil {
			return err
		}
		defer util.RemovePidFile(logger, cfg.pidFilePath)
	}

	if options.MetricsEndpoint {
		// Register metrics with the global prometheus handler.
		metrics.RegisterPrometheusMetrics()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	api.Serve(ctx, cfg.serverAddr, c, logger, options)
	return nil
}
