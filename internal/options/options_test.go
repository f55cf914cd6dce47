package options

import "testing"

func TestParseHeuristic(t *testing.T) {
	tests := []struct {
		in      string
		want    Heuristic
		wantErr bool
	}{
		{"bssf", BestShortSideFit, false},
		{"blsf", BestLongSideFit, false},
		{"baf", BestAreaFit, false},
		{"blr", BottomLeftRule, false},
		{"cpr", ContactPointRule, false},
		{"nonsense", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseHeuristic(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHeuristic(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseHeuristic(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseBinaryStringFormat(t *testing.T) {
	tests := []struct {
		in      int
		want    BinaryStringFormat
		wantErr bool
	}{
		{0, NullTerminated, false},
		{16, Prefix16, false},
		{7, Prefix7, false},
		{8, 0, true},
	}
	for _, tt := range tests {
		got, err := ParseBinaryStringFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBinaryStringFormat(%d) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseBinaryStringFormat(%d) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default() should validate cleanly, got %v", err)
	}
}

func TestValidateRejectsOutOfRangeFields(t *testing.T) {
	base := Default()

	bad := base
	bad.Width = 0
	if err := bad.Validate(); err == nil {
		t.Error("expected an error for zero width")
	}

	bad = base
	bad.Padding = 17
	if err := bad.Validate(); err == nil {
		t.Error("expected an error for padding > 16")
	}

	bad = base
	bad.Stretch = -1
	if err := bad.Validate(); err == nil {
		t.Error("expected an error for negative stretch")
	}
}

func TestValidSizes(t *testing.T) {
	for _, n := range []int{64, 128, 256, 512, 1024, 2048, 4096} {
		if !ValidSizes[n] {
			t.Errorf("expected %d to be a valid size", n)
		}
	}
	if ValidSizes[100] {
		t.Errorf("100 should not be a valid size")
	}
}
