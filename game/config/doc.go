// Package config provides match preset management for Battleship.
//
// The config package handles:
//   - Loading presets from JSON or HCL files
//   - Preset validation through engine.ValidateMatchConfig
//   - Default preset management
//   - Preset discovery and listing
//
// Preset Format:
//
// Presets live in a configs directory, one file per preset. The file name
// without its extension is the preset id. JSON presets mirror
// engine.MatchConfig:
//
//	{
//	  "name": "classic",
//	  "board_size": 11,
//	  "ships": [{"kind": "carrier", "count": 1}],
//	  "extra_shot_on_hit": false
//	}
//
// HCL presets use one labeled block per ship kind; count defaults to 1:
//
//	name       = "fleet"
//	board_size = 20
//
//	ship "patrol_boat" {
//	  count = 3
//	}
//
// When both id.json and id.hcl exist the JSON file wins. The classic preset
// is built in and is used when no classic file is present.
//
// Usage:
//
//	manager, err := config.NewManager("configs", logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	matchConfig, err := manager.LoadConfig("fleet")
//	defaultConfig := manager.GetDefault()
//	presets, err := manager.ListConfigs()
package config
