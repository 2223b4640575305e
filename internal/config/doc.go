// Package config provides configuration management for the router worker.
//
// Configuration is loaded from environment variables and validated on
// startup. All configuration options have sensible defaults for
// development. The ruleset itself lives in a separate YAML document whose
// path is configured here.
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg)
package config
