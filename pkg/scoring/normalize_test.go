package scoring

import "testing"

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "bare common criteria code", raw: "CC6", want: "CC6"},
		{name: "lowercase code", raw: "cc1", want: "CC1"},
		{name: "sub-criteria identifier", raw: "CC6.1", want: "CC6"},
		{name: "dashed sub-identifier", raw: "CC7-2", want: "CC7"},
		{name: "availability letter", raw: "A", want: "A"},
		{name: "availability sub-criteria", raw: "A1.2", want: "A"},
		{name: "processing integrity", raw: "PI1", want: "PI"},
		{name: "privacy sub-criteria", raw: "P4.1", want: "P"},
		{name: "full criteria name", raw: "Logical and Physical Access", want: "CC6"},
		{name: "trust service name", raw: "Confidentiality", want: "C"},
		{name: "padded input", raw: "  cc9  ", want: "CC9"},
		{name: "unknown category", raw: "XYZ", want: ""},
		{name: "empty input", raw: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeCategory(tt.raw); got != tt.want {
				t.Errorf("NormalizeCategory(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestBucketByCategoryDropsUnknown(t *testing.T) {
	controls := []Control{
		{ControlID: "CC6.1", TSCCategory: "CC6.1"},
		{ControlID: "MYST-1", TSCCategory: "mystery"},
		{ControlID: "A1.1", TSCCategory: "availability"},
	}

	buckets := bucketByCategory(controls)

	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	if len(buckets["CC6"]) != 1 || buckets["CC6"][0].ControlID != "CC6.1" {
		t.Errorf("CC6 bucket missing control: %+v", buckets["CC6"])
	}
	if len(buckets["A"]) != 1 {
		t.Errorf("A bucket missing control: %+v", buckets["A"])
	}
}
