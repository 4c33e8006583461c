package guard

import "testing"

func mustConfig(t *testing.T, window int, soft, hard float64) Config {
	t.Helper()
	cfg, err := NewConfig(window, soft, hard)
	if err != nil {
		t.Fatalf("NewConfig(%d, %v, %v): %v", window, soft, hard, err)
	}
	return cfg
}

func TestClassify(t *testing.T) {
	cfg := mustConfig(t, 200000, 0.60, 0.80)

	tests := []struct {
		name  string
		ratio float64
		want  Band
	}{
		{"zero", 0.0, BandNormal},
		{"well below soft", 0.30, BandNormal},
		{"just below soft", 0.5999, BandNormal},
		{"exactly soft", 0.60, BandSoft},
		{"between thresholds", 0.72, BandSoft},
		{"just below hard", 0.7999, BandSoft},
		{"exactly hard", 0.80, BandHard},
		{"above hard", 0.95, BandHard},
		{"full window", 1.0, BandHard},
		{"negative clamps to zero", -0.5, BandNormal},
		{"overflow clamps to one", 1.7, BandHard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.Classify(tt.ratio); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.ratio, got, tt.want)
			}
		})
	}
}

func TestClassify_Monotonic(t *testing.T) {
	cfg := mustConfig(t, 100000, 0.60, 0.80)

	prev := BandNormal
	for i := 0; i <= 1000; i++ {
		ratio := float64(i) / 1000
		band := cfg.Classify(ratio)
		if band < prev {
			t.Fatalf("Classify not monotonic: ratio %v gave %v after %v", ratio, band, prev)
		}
		prev = band
	}
}

func TestNewConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		window int
		soft   float64
		hard   float64
	}{
		{"zero window", 0, 0.60, 0.80},
		{"negative window", -1, 0.60, 0.80},
		{"soft zero", 200000, 0, 0.80},
		{"soft one", 200000, 1.0, 0.80},
		{"hard zero", 200000, 0.60, 0},
		{"hard one", 200000, 0.60, 1.0},
		{"hard equals soft", 200000, 0.60, 0.60},
		{"hard below soft", 200000, 0.80, 0.60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewConfig(tt.window, tt.soft, tt.hard); err == nil {
				t.Errorf("NewConfig(%d, %v, %v) accepted invalid config", tt.window, tt.soft, tt.hard)
			}
		})
	}
}

func TestBand_String(t *testing.T) {
	if BandNormal.String() != "normal" || BandSoft.String() != "soft" || BandHard.String() != "hard" {
		t.Errorf("unexpected band names: %v %v %v", BandNormal, BandSoft, BandHard)
	}
}
