package services

import "testing"

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ResourceQuantity
	}{
		{"full configuration", "CPU: 8 core; RAM 16GB; storage: 100GB", ResourceQuantity{8, 16, 100}},
		{"compact", "4 core 8GB storage: 50GB", ResourceQuantity{4, 8, 50}},
		{"storage sums units", "storage: 100GB 1TB", ResourceQuantity{0, 100, 1124}},
		{"fallback storage", "CPU: 2 core; RAM 4GB; 200GB storage", ResourceQuantity{2, 4, 200}},
		{"no numbers", "no numbers here", ResourceQuantity{}},
		{"empty", "", ResourceQuantity{}},
		{"cpu suffix", "16 CPU, 32 GB RAM", ResourceQuantity{16, 32, 0}},
		{"case insensitive", "cpu: 2 CORE; ram 4gb; STORAGE: 1tb", ResourceQuantity{2, 4, 1024}},
		{"mixed units with comma", "storage: 100GB, 1TB", ResourceQuantity{0, 100, 1124}},
		{"g shorthand", "storage: 500G", ResourceQuantity{0, 0, 500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseConfig(tt.input)
			if got != tt.want {
				t.Errorf("ParseConfig(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseConfig_FirstMatchOnly(t *testing.T) {
	got := ParseConfig("8 core 16GB, then 12 core 64GB")
	if got.CPUCores != 8 {
		t.Errorf("CPUCores = %d, want first match 8", got.CPUCores)
	}
	if got.RAMGigabytes != 16 {
		t.Errorf("RAMGigabytes = %d, want first match 16", got.RAMGigabytes)
	}
}

func TestParseConfig_StorageAccumulatesAfterMarker(t *testing.T) {
	got := ParseConfig("RAM 8GB; storage: 100GB + 200GB + 2TB")
	if got.StorageGigabytes != 100+200+2048 {
		t.Errorf("StorageGigabytes = %d, want %d", got.StorageGigabytes, 100+200+2048)
	}
	if got.RAMGigabytes != 8 {
		t.Errorf("RAMGigabytes = %d, want 8", got.RAMGigabytes)
	}
}

func TestParseConfig_OverflowIsZero(t *testing.T) {
	got := ParseConfig("99999999999999999999999 core")
	if got.CPUCores != 0 {
		t.Errorf("CPUCores = %d, want 0 for an unrepresentable number", got.CPUCores)
	}

	tests := []struct {
		name string
		text string
		want int
	}{
		{"terabytes overflow on conversion", "storage: 9007199254740993TB", 0},
		{"oversized terabytes skipped, rest kept", "storage: 9007199254740993TB 100GB", 100},
		{"sum overflows", "storage: 9223372036854775807GB 9223372036854775807GB", 0},
		{"largest convertible terabytes", "storage: 9007199254740991TB", 9007199254740991 * 1024},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseConfig(tt.text).StorageGigabytes
			if got != tt.want {
				t.Errorf("StorageGigabytes = %d, want %d", got, tt.want)
			}
			if got < 0 {
				t.Errorf("StorageGigabytes = %d, must never be negative", got)
			}
		})
	}
}
