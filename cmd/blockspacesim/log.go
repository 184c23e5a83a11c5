// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/btcsuite/blockspace/auction"
	"github.com/btcsuite/blockspace/marketdata"
	"github.com/btcsuite/blockspace/simulator"
	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"
)

// logWriter implements an io.Writer that outputs to both standard error and
// the write-end pipe of an initialized log rotator.  Only lines at or above
// consoleLevel reach standard error.
type logWriter struct{}

func (logWriter) Write(p []byte) (n int, err error) {
	if lineLevel(p) >= consoleLevel {
		os.Stderr.Write(p)
	}
	if logRotator != nil {
		logRotator.Write(p)
	}
	return len(p), nil
}

// lineLevel returns the level tag of a line written by the backend.  Lines
// without a recognizable tag are treated as critical so they are never
// hidden.
func lineLevel(p []byte) btclog.Level {
	i := bytes.Index(p, []byte(" ["))
	if i < 0 || len(p) < i+6 || p[i+5] != ']' {
		return btclog.LevelCritical
	}
	level, ok := btclog.LevelFromString(string(p[i+2 : i+5]))
	if !ok {
		return btclog.LevelCritical
	}
	return level
}

// consoleLevel is the lowest level copied to standard error.  The interactive
// menu raises it to warn before any subsystem starts logging so progress
// messages do not interleave with the prompts.
var consoleLevel = btclog.LevelTrace

// Loggers per subsystem.  A single backend logger is created and all subsystem
// loggers created from it will write to the backend.  When adding new
// subsystems, add the subsystem logger variable here and to the
// subsystemLoggers map.
//
// Loggers only write to the log file once the log rotator has been initialized
// by calling initLogRotator.
var (
	// backendLog is the logging backend used to create all subsystem loggers.
	backendLog = btclog.NewBackend(logWriter{})

	// logRotator is one of the logging outputs.  It should be closed on
	// application shutdown.
	logRotator *rotator.Rotator

	auctLog = backendLog.Logger("AUCT")
	mktdLog = backendLog.Logger("MKTD")
	simrLog = backendLog.Logger("SIMR")
	mainLog = backendLog.Logger("MAIN")
)

// Initialize package-global logger variables.
func init() {
	auction.UseLogger(auctLog)
	marketdata.UseLogger(mktdLog)
	simulator.UseLogger(simrLog)
}

// subsystemLoggers maps each subsystem identifier to its associated logger.
var subsystemLoggers = map[string]btclog.Logger{
	"AUCT": auctLog,
	"MKTD": mktdLog,
	"SIMR": simrLog,
	"MAIN": mainLog,
}

// initLogRotator initializes the logging rotater to write logs to logFile and
// create roll files in the same directory.  It must be called before the
// package-global log rotater variables are used.
func initLogRotator(logFile string) error {
	logDir, _ := filepath.Split(logFile)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return fmt.Errorf("failed to create file rotator: %w", err)
	}

	logRotator = r
	return nil
}

// setLogLevel sets the logging level for provided subsystem.  Invalid
// subsystems are ignored.
func setLogLevel(subsystemID string, logLevel string) {
	logger, ok := subsystemLoggers[subsystemID]
	if !ok {
		return
	}

	// Defaults to info if the log level is invalid.
	level, _ := btclog.LevelFromString(logLevel)
	logger.SetLevel(level)
}

// setLogLevels sets the log level for all subsystem loggers to the passed
// level.
func setLogLevels(logLevel string) {
	for subsystemID := range subsystemLoggers {
		setLogLevel(subsystemID, logLevel)
	}
}

// supportedSubsystems returns a sorted slice of the supported subsystems for
// logging purposes.
func supportedSubsystems() []string {
	subsystems := make([]string, 0, len(subsystemLoggers))
	for subsysID := range subsystemLoggers {
		subsystems = append(subsystems, subsysID)
	}
	sort.Strings(subsystems)
	return subsystems
}

// validLogLevel returns whether or not logLevel is a valid debug log level.
func validLogLevel(logLevel string) bool {
	_, ok := btclog.LevelFromString(logLevel)
	return ok
}

// parseDebugLevels validates a debug level specification and returns the
// level per subsystem it selects.  The specification is either a single
// level applied to every subsystem, or a comma separated list of
// <subsystem>=<level> pairs.
func parseDebugLevels(debugLevel string) (map[string]string, error) {
	levels := make(map[string]string, len(subsystemLoggers))

	// When the specified string doesn't have any delimiters, treat it as
	// the log level for all subsystems.
	if !strings.Contains(debugLevel, ",") && !strings.Contains(debugLevel, "=") {
		if !validLogLevel(debugLevel) {
			str := "the specified debug level [%v] is invalid"
			return nil, fmt.Errorf(str, debugLevel)
		}
		for subsysID := range subsystemLoggers {
			levels[subsysID] = debugLevel
		}
		return levels, nil
	}

	// Split the specified string into subsystem/level pairs while detecting
	// issues and update the log levels accordingly.
	for _, logLevelPair := range strings.Split(debugLevel, ",") {
		if !strings.Contains(logLevelPair, "=") {
			str := "the specified debug level contains an invalid " +
				"subsystem/level pair [%v]"
			return nil, fmt.Errorf(str, logLevelPair)
		}

		fields := strings.Split(logLevelPair, "=")
		subsysID, logLevel := fields[0], fields[1]

		if _, exists := subsystemLoggers[subsysID]; !exists {
			str := "the specified subsystem [%v] is invalid -- " +
				"supported subsystems %v"
			return nil, fmt.Errorf(str, subsysID, supportedSubsystems())
		}
		if !validLogLevel(logLevel) {
			str := "the specified debug level [%v] is invalid"
			return nil, fmt.Errorf(str, logLevel)
		}

		levels[subsysID] = logLevel
	}

	return levels, nil
}

// applyDebugLevels sets the subsystem log levels selected by a debug level
// specification which was validated by parseDebugLevels.  Subsystems it does
// not name keep the default level.
func applyDebugLevels(debugLevel string) error {
	levels, err := parseDebugLevels(debugLevel)
	if err != nil {
		return err
	}
	setLogLevels(defaultLogLevel)
	for subsysID, level := range levels {
		setLogLevel(subsysID, level)
	}
	return nil
}
