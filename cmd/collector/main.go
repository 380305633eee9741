/*
 * Copyright 2026 SCI Lab.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/ble"
	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/collector"
	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/config"
	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/lifecycle"
	"github.com/YoyoJesus/SCI-Lab-BadgeSoftware/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "collector.json", "Path to collector config file")
	flag.Parse()

	ctx := context.Background()

	// Step 1: Load configuration. A missing config file runs the lab's
	// standard collection setup.
	cfg := *collector.DefaultConfig()

	if _, err := os.Stat(*configPath); err == nil {
		cfgLoader := config.NewConfig(nil)

		if err := cfgLoader.LoadAndValidate(ctx, *configPath, &cfg); err != nil {
			return err
		}
	}

	// Step 2: Create logger from loaded config
	logConfig := cfg.Logging
	if logConfig == nil {
		logConfig = &logger.Config{
			Level:  "info",
			Output: "stdout",
		}
	}

	collectorLogger, err := lifecycle.CreateComponentLogger(ctx, "collector", logConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	adapter, err := ble.NewAdapter(collectorLogger)
	if err != nil {
		return err
	}

	c := collector.New(&cfg, adapter, nil, collectorLogger) // nil clock defaults to the real clock

	// Operator stop listener: the session ends when the operator presses
	// ENTER. The goroutine only ever raises the stop flag.
	go func() {
		fmt.Println("Press ENTER to stop data collection...")

		reader := bufio.NewReader(os.Stdin)
		_, _ = reader.ReadString('\n')

		c.RequestStop()
	}()

	runErr := lifecycle.Run(ctx, &lifecycle.Options{
		ServiceName: "badge-collector",
		Service:     c,
		Logger:      collectorLogger,
	})

	if report := c.Report(); report != nil {
		fmt.Print(report.String())
	}

	return runErr
}
