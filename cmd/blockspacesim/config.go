// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/btcsuite/blockspace/auction"
	"github.com/btcsuite/blockspace/internal/version"
	"github.com/btcsuite/blockspace/marketdata"
	"github.com/btcsuite/blockspace/sampleconfig"
	"github.com/btcsuite/btcd/btcutil"
	flags "github.com/jessevdk/go-flags"
)

const (
	defaultConfigFilename = "blockspacesim.conf"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "blockspacesim.log"
	defaultLogLevel       = "info"
	defaultRoundMinutes   = 10
	defaultVSize          = 140
)

var (
	defaultHomeDir    = btcutil.AppDataDir("blockspacesim", false)
	defaultConfigFile = filepath.Join(defaultHomeDir, defaultConfigFilename)
	defaultLogDir     = filepath.Join(defaultHomeDir, defaultLogDirname)
)

// config defines the configuration options for blockspacesim.
//
// See loadConfig for details on the configuration load process.
type config struct {
	ShowVersion   bool          `short:"V" long:"version" description:"Display version information and exit"`
	ConfigFile    string        `short:"C" long:"configfile" description:"Path to configuration file"`
	LogDir        string        `long:"logdir" description:"Directory to log output"`
	DebugLevel    string        `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`
	APIURLs       []string      `long:"apiurl" description:"Base URL of a mempool.space compatible REST API -- may be specified multiple times for failover"`
	Timeout       time.Duration `long:"timeout" description:"Timeout for each API request"`
	UseFeed       bool          `long:"ws" description:"Receive projected blocks over the WebSocket API instead of polling"`
	FeedURL       string        `long:"wsurl" description:"WebSocket API endpoint"`
	Proxy         string        `long:"proxy" description:"Connect via SOCKS5 proxy (eg. 127.0.0.1:9050)"`
	ProxyUser     string        `long:"proxyuser" description:"Username for proxy server"`
	ProxyPass     string        `long:"proxypass" default-mask:"-" description:"Password for proxy server"`
	TorIsolation  bool          `long:"torisolation" description:"Enable Tor stream isolation by randomizing user credentials for each connection"`
	RoundMinutes  float64       `long:"roundminutes" description:"Expected minutes between blocks"`
	MaxWeight     int64         `long:"maxblockweight" description:"Maximum weight of a block in weight units"`
	MetricsListen string        `long:"metricslisten" description:"Serve Prometheus metrics on this address (eg. 127.0.0.1:9101)"`
	FeeRate       float64       `long:"feerate" description:"Simulate a transaction paying this fee rate in sat/vB, print the result and exit"`
	VSize         float64       `long:"vsize" description:"Virtual size in vbytes of the transaction simulated with --feerate"`
}

// policy returns the auction policy selected by the configuration.
func (cfg *config) policy() *auction.Policy {
	return &auction.Policy{
		MaxWeight:     cfg.MaxWeight,
		WeightFactor:  auction.WitnessScaleFactor,
		RoundDuration: time.Duration(cfg.RoundMinutes * float64(time.Minute)),
	}
}

// proxy returns the proxy configuration, or nil when no proxy is set.
func (cfg *config) proxy() *marketdata.ProxyConfig {
	if cfg.Proxy == "" {
		return nil
	}
	return &marketdata.ProxyConfig{
		Addr:         cfg.Proxy,
		Username:     cfg.ProxyUser,
		Password:     cfg.ProxyPass,
		TorIsolation: cfg.TorIsolation,
	}
}

// oneShot returns whether a single simulation was requested on the command
// line.
func (cfg *config) oneShot() bool {
	return cfg.FeeRate != 0
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// NOTE: The os.ExpandEnv doesn't work with Windows cmd.exe-style
	// %VARIABLE%, but the variables can still be expanded via POSIX-style
	// $VARIABLE.
	path = os.ExpandEnv(path)

	if !strings.HasPrefix(path, "~") {
		return filepath.Clean(path)
	}

	// Expand initial ~ to the current user's home directory, or ~otheruser
	// to otheruser's home directory.  On Windows, both forward and backward
	// slashes can be used.
	path = path[1:]

	var pathSeparators string
	if runtime.GOOS == "windows" {
		pathSeparators = string(os.PathSeparator) + "/"
	} else {
		pathSeparators = string(os.PathSeparator)
	}

	userName := ""
	if i := strings.IndexAny(path, pathSeparators); i != -1 {
		userName = path[:i]
		path = path[i:]
	}

	homeDir := ""
	var u *user.User
	var err error
	if userName == "" {
		u, err = user.Current()
	} else {
		u, err = user.Lookup(userName)
	}
	if err == nil {
		homeDir = u.HomeDir
	}
	// Fallback to CWD if user lookup fails or user has no home directory.
	if homeDir == "" {
		homeDir = "."
	}

	return filepath.Join(homeDir, path)
}

// fileExists reports whether the named file or directory exists.
func fileExists(name string) bool {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}
	return true
}

// createDefaultConfigFile writes the sample configuration to destPath,
// creating its directory as needed.
func createDefaultConfigFile(destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0700); err != nil {
		return err
	}
	return os.WriteFile(destPath, []byte(sampleconfig.FileContents), 0600)
}

// loadConfig initializes and parses the config using a config file and command
// line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
//
// The above results in functioning properly without any config settings
// while still allowing the user to override settings with config files and
// command line options.  Command line options always take precedence.  A
// default config file is created when none exists yet.
func loadConfig(args []string) (*config, []string, error) {
	// Default config.
	cfg := config{
		ConfigFile:   defaultConfigFile,
		LogDir:       defaultLogDir,
		DebugLevel:   defaultLogLevel,
		Timeout:      marketdata.DefaultTimeout,
		FeedURL:      marketdata.DefaultFeedURL,
		RoundMinutes: defaultRoundMinutes,
		MaxWeight:    auction.MaxBlockWeight,
		VSize:        defaultVSize,
	}

	// Pre-parse the command line options to see if an alternative config
	// file or the version flag was specified.  Any errors aside from the
	// help message error can be ignored here since they will be caught by
	// the final parse below.
	preCfg := cfg
	preParser := flags.NewParser(&preCfg, flags.HelpFlag)
	_, err := preParser.ParseArgs(args)
	if err != nil {
		var e *flags.Error
		if errors.As(err, &e) && e.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, err)
			os.Exit(0)
		}
	}

	// Show the version and exit if the version flag was specified.
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	usageMessage := fmt.Sprintf("Use %s -h to show usage", appName)
	if preCfg.ShowVersion {
		fmt.Println(appName, "version", version.String())
		os.Exit(0)
	}

	configFile := cleanAndExpandPath(preCfg.ConfigFile)
	if !fileExists(configFile) {
		err := createDefaultConfigFile(configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating a default config "+
				"file: %v\n", err)
		}
	}

	// Load additional config from file.
	parser := flags.NewParser(&cfg, flags.Default)
	err = flags.NewIniParser(parser).ParseFile(configFile)
	if err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			fmt.Fprintf(os.Stderr, "Error parsing config file: %v\n",
				err)
			fmt.Fprintln(os.Stderr, usageMessage)
			return nil, nil, err
		}
	}

	// Parse command line options again to ensure they take precedence.
	remainingArgs, err := parser.ParseArgs(args)
	if err != nil {
		var e *flags.Error
		if !errors.As(err, &e) || e.Type != flags.ErrHelp {
			fmt.Fprintln(os.Stderr, usageMessage)
		}
		return nil, nil, err
	}

	cfg.ConfigFile = configFile
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)

	if err := validateConfig(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, nil, err
	}

	return &cfg, remainingArgs, nil
}

// validateConfig checks the values of a parsed configuration.
func validateConfig(cfg *config) error {
	const funcName = "loadConfig"

	// Special show command to list supported subsystems and exit.
	if cfg.DebugLevel == "show" {
		fmt.Println("Supported subsystems", supportedSubsystems())
		os.Exit(0)
	}
	if _, err := parseDebugLevels(cfg.DebugLevel); err != nil {
		return fmt.Errorf("%s: %w", funcName, err)
	}

	for _, apiURL := range cfg.APIURLs {
		u, err := url.Parse(apiURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			str := "%s: the specified API URL [%v] is invalid -- " +
				"it must be an http or https URL"
			return fmt.Errorf(str, funcName, apiURL)
		}
	}
	if cfg.UseFeed {
		u, err := url.Parse(cfg.FeedURL)
		if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") {
			str := "%s: the specified WebSocket URL [%v] is invalid " +
				"-- it must be a ws or wss URL"
			return fmt.Errorf(str, funcName, cfg.FeedURL)
		}
	}

	if cfg.Timeout <= 0 {
		str := "%s: the timeout must be positive -- parsed [%v]"
		return fmt.Errorf(str, funcName, cfg.Timeout)
	}
	if !(cfg.RoundMinutes > 0) {
		str := "%s: the expected minutes between blocks must be " +
			"positive -- parsed [%v]"
		return fmt.Errorf(str, funcName, cfg.RoundMinutes)
	}
	if cfg.MaxWeight <= 0 {
		str := "%s: the maximum block weight must be positive -- " +
			"parsed [%v]"
		return fmt.Errorf(str, funcName, cfg.MaxWeight)
	}

	if cfg.Proxy != "" {
		if _, _, err := net.SplitHostPort(cfg.Proxy); err != nil {
			str := "%s: proxy address '%s' is invalid: %w"
			return fmt.Errorf(str, funcName, cfg.Proxy, err)
		}
	}
	if cfg.TorIsolation && cfg.Proxy == "" {
		str := "%s: Tor stream isolation requires --proxy"
		return fmt.Errorf(str, funcName)
	}

	if cfg.FeeRate < 0 {
		str := "%s: the fee rate must be positive -- parsed [%v]"
		return fmt.Errorf(str, funcName, cfg.FeeRate)
	}
	if cfg.oneShot() && !(cfg.VSize > 0) {
		str := "%s: the virtual size must be positive -- parsed [%v]"
		return fmt.Errorf(str, funcName, cfg.VSize)
	}

	return nil
}
