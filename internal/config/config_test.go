package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.ServerAddr != ":8080" || cfg.SaveBackend != BackendYAML || cfg.SaveDir != ".saves" || cfg.SQLitePath != "realmgen.db" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.Noise != "lattice" {
		t.Errorf("noise = %q", cfg.Noise)
	}
	g := cfg.GameConfig
	if g.ViewDistance != 5 || g.ViewportWidth != 40 || g.ViewportHeight != 20 || g.PlayerChar != "@" {
		t.Errorf("game defaults = %+v", g)
	}
	if g.Theme.Accent == "" {
		t.Error("theme accent not defaulted")
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"REALMGEN_SERVER_ADDR":     ":9000",
		"REALMGEN_SAVE_BACKEND":    "SQLite",
		"REALMGEN_NOISE":           "simplex",
		"REALMGEN_VIEW_DISTANCE":   "8",
		"REALMGEN_THEME_ACCENT":    "#123456",
		"REALMGEN_VIEWPORT_WIDTH":  "60",
		"REALMGEN_VIEWPORT_HEIGHT": "30",
		"SERVER_ADDR":              ":1",
	})
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.ServerAddr != ":9000" || cfg.SaveBackend != BackendSQLite || cfg.Noise != "simplex" {
		t.Errorf("overrides = %+v", cfg)
	}
	if cfg.GameConfig.ViewDistance != 8 || cfg.GameConfig.ViewportWidth != 60 || cfg.GameConfig.Theme.Accent != "#123456" {
		t.Errorf("game overrides = %+v", cfg.GameConfig)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"backend", map[string]string{"REALMGEN_SAVE_BACKEND": "postgres"}},
		{"noise", map[string]string{"REALMGEN_NOISE": "worley"}},
		{"view distance", map[string]string{"REALMGEN_VIEW_DISTANCE": "0"}},
		{"viewport", map[string]string{"REALMGEN_VIEWPORT_WIDTH": "-1"}},
		{"not a number", map[string]string{"REALMGEN_VIEW_DISTANCE": "far"}},
		{"player char", map[string]string{"REALMGEN_PLAYER_CHAR": "hero"}},
	}
	for _, tt := range tests {
		if _, err := LoadFrom(tt.vars); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}
