package domain

import "testing"

func TestPathFunctions(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"ProjectDir", ProjectDir("/repo"), "/repo/.taskflow"},
		{"ProjectConfigPath", ProjectConfigPath("/repo/.taskflow"), "/repo/.taskflow/config.toml"},
		{"GlobalDir", GlobalDir("/home/user/.config"), "/home/user/.config/taskflow"},
		{"GlobalConfigPath", GlobalConfigPath("/home/user/.config"), "/home/user/.config/taskflow/config.toml"},
		{"StorePath", StorePath("/repo/.taskflow"), "/repo/.taskflow/store.json"},
		{"LogPath", LogPath("/repo/.taskflow"), "/repo/.taskflow/logs/taskflow.log"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
			}
		})
	}
}
