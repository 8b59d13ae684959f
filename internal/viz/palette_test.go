package viz

import "testing"

func TestRGBA(t *testing.T) {
	c := RGB{31, 119, 180}
	tests := []struct {
		alpha float64
		want  string
	}{
		{1, "rgba(31,119,180,1)"},
		{0.85, "rgba(31,119,180,0.85)"},
		{0.5, "rgba(31,119,180,0.5)"},
	}
	for _, tt := range tests {
		if got := c.RGBA(tt.alpha); got != tt.want {
			t.Errorf("RGBA(%v) = %q, want %q", tt.alpha, got, tt.want)
		}
	}
}

func TestPaletteColor(t *testing.T) {
	tests := []struct {
		name string
		t    float64
		want RGB
	}{
		{"start", 0, Palette[0]},
		{"end clamps to last", 1, Palette[19]},
		{"middle", 0.5, Palette[10]},
		{"below domain", -0.3, Palette[0]},
		{"above domain", 1.7, Palette[19]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PaletteColor(tt.t); got != tt.want {
				t.Errorf("PaletteColor(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

func TestTopicColors(t *testing.T) {
	t.Run("single topic", func(t *testing.T) {
		got := TopicColors([]string{"A"})
		if got["A"] != Palette[0] {
			t.Errorf("A = %v, want %v", got["A"], Palette[0])
		}
	})

	t.Run("spread", func(t *testing.T) {
		got := TopicColors([]string{"A", "B", "C"})
		want := map[string]RGB{"A": Palette[0], "B": Palette[10], "C": Palette[19]}
		for topic, c := range want {
			if got[topic] != c {
				t.Errorf("%s = %v, want %v", topic, got[topic], c)
			}
		}
	})
}
