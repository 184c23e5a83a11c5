// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"reflect"
	"testing"

	"github.com/btcsuite/btclog"
)

func TestParseDebugLevels(t *testing.T) {
	tests := []struct {
		levels  string
		want    map[string]string
		wantErr bool
	}{{
		levels: "debug",
		want:   map[string]string{
			"AUCT": "debug", "MKTD": "debug",
			"SIMR": "debug", "MAIN": "debug",
		},
	}, {
		levels: "AUCT=trace,MAIN=warn",
		want:   map[string]string{"AUCT": "trace", "MAIN": "warn"},
	}, {
		levels: "SIMR=error",
		want:   map[string]string{"SIMR": "error"},
	}, {
		levels:  "verbose",
		wantErr: true,
	}, {
		levels:  "AUCT=trace,MAIN",
		wantErr: true,
	}, {
		levels:  "PEER=info",
		wantErr: true,
	}, {
		levels:  "AUCT=loud",
		wantErr: true,
	}}

	for i, test := range tests {
		got, err := parseDebugLevels(test.levels)
		if (err != nil) != test.wantErr {
			t.Errorf("parseDebugLevels #%d (%s): unexpected error %v",
				i, test.levels, err)
			continue
		}
		if !test.wantErr && !reflect.DeepEqual(got, test.want) {
			t.Errorf("parseDebugLevels #%d (%s): got %v want %v", i,
				test.levels, got, test.want)
		}
	}
}

func TestApplyDebugLevels(t *testing.T) {
	defer setLogLevels(defaultLogLevel)

	if err := applyDebugLevels("AUCT=trace"); err != nil {
		t.Fatalf("applyDebugLevels: %v", err)
	}
	if got := auctLog.Level(); got != btclog.LevelTrace {
		t.Errorf("AUCT level: got %v want %v", got, btclog.LevelTrace)
	}
	if got := mktdLog.Level(); got != btclog.LevelInfo {
		t.Errorf("MKTD level: got %v want %v", got, btclog.LevelInfo)
	}

	if err := applyDebugLevels("nope"); err == nil {
		t.Error("applyDebugLevels: expected error for invalid level")
	}

	want := []string{"AUCT", "MAIN", "MKTD", "SIMR"}
	if got := supportedSubsystems(); !reflect.DeepEqual(got, want) {
		t.Errorf("supportedSubsystems: got %v want %v", got, want)
	}
}

func TestLineLevel(t *testing.T) {
	tests := []struct {
		line string
		want btclog.Level
	}{
		{"2026-10-18 12:00:00.000 [INF] MKTD: Fetched snapshot\n", btclog.LevelInfo},
		{"2026-10-18 12:00:00.000 [DBG] AUCT: Allocated\n", btclog.LevelDebug},
		{"2026-10-18 12:00:00.000 [WRN] MAIN: Reload failed\n", btclog.LevelWarn},
		{"2026-10-18 12:00:00.000 [ERR] MKTD: Feed lost\n", btclog.LevelError},
		{"no header at all\n", btclog.LevelCritical},
		{"2026-10-18 12:00:00.000 [???] MAIN: odd\n", btclog.LevelCritical},
	}

	for i, test := range tests {
		if got := lineLevel([]byte(test.line)); got != test.want {
			t.Errorf("lineLevel #%d: got %v want %v", i, got, test.want)
		}
	}

	// Info progress lines stay off the console while the menu runs.
	defer func(level btclog.Level) { consoleLevel = level }(consoleLevel)
	consoleLevel = btclog.LevelWarn
	if lineLevel([]byte(tests[0].line)) >= consoleLevel {
		t.Error("info line would be printed to the console")
	}
	if lineLevel([]byte(tests[2].line)) < consoleLevel {
		t.Error("warning line would be hidden from the console")
	}
}
