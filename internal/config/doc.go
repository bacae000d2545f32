// Package config provides configuration parsing for routegen.
//
// The configuration is stored in routegen.json at the project root;
// routegen.yaml, routegen.yml and routegen.toml are accepted as well.
// This package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "root": "src/routes",
//	  "output": "src/generated/_generated_routes.tsx",
//	  "manifest": "src/generated/routes.json",
//	  "srcAlias": "@/",
//	  "layoutFilename": "_layout.tsx",
//	  "extensions": [".tsx", ".jsx", ".ts", ".js"],
//	  "ignore": ["__tests__"],
//	  "dev": {
//	    "debounce": "500ms",
//	    "addr": "localhost:3100",
//	    "hotReload": true
//	  },
//	  "publish": {
//	    "bucket": "my-app-assets",
//	    "key": "routes/_generated_routes.tsx",
//	    "region": "us-east-1"
//	  }
//	}
//
// Relative paths resolve against the directory holding the config file.
//
// # Environment
//
// ROUTEGEN_ROOT, ROUTEGEN_OUTPUT, ROUTEGEN_SRC_ALIAS,
// ROUTEGEN_LAYOUT_FILENAME and ROUTEGEN_DEBOUNCE override file settings.
// They are read from the process environment first and then from a .env
// file next to the config.
//
// # Usage
//
//	cfg, err := config.LoadFromWorkingDir()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.ApplyEnv(); err != nil {
//	    log.Fatal(err)
//	}
//
//	scanner := router.NewScanner(nil, cfg.Conventions())
package config
