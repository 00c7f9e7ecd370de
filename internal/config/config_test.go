package config

import (
	"testing"

	"github.com/Romelium/mpatch/internal/patch"
)

func TestToApplyOptions(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want patch.ApplyOptions
	}{
		{
			name: "defaults",
			cfg:  Config{FuzzFactor: patch.DefaultFuzzFactor},
			want: patch.ApplyOptions{FuzzFactor: patch.DefaultFuzzFactor},
		},
		{
			name: "strict with ignore globs",
			cfg:  Config{FuzzFactor: 0.9, Strict: true, IgnoreGlobs: []string{"vendor/**"}},
			want: patch.ApplyOptions{FuzzFactor: 0.9, Strict: true, IgnoreGlobs: []string{"vendor/**"}},
		},
		{
			name: "fuzzy disabled",
			cfg:  Config{FuzzFactor: 0},
			want: patch.ApplyOptions{FuzzFactor: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cfg.ToApplyOptions()
			if got.FuzzFactor != tt.want.FuzzFactor || got.Strict != tt.want.Strict {
				t.Fatalf("ToApplyOptions() = %+v, want %+v", got, tt.want)
			}
			if len(got.IgnoreGlobs) != len(tt.want.IgnoreGlobs) {
				t.Fatalf("IgnoreGlobs = %v, want %v", got.IgnoreGlobs, tt.want.IgnoreGlobs)
			}
		})
	}
}
