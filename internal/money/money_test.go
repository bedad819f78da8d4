package money

import "testing"

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"0", "0"},
		{"12", "12"},
		{"123", "123"},
		{"1234", "1,234"},
		{"123456", "123,456"},
		{"6000000", "6,000,000"},
		{"6,000,000", "6,000,000"},
		{"1.234.567", "1,234,567"},
		{"abc", ""},
		{"1a2b3c4", "1,234"},
		{" 2 000 000 đ", "2,000,000"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := FormatNumber(tt.in)
			if got != tt.want {
				t.Errorf("FormatNumber(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatNumberIdempotent(t *testing.T) {
	inputs := []string{"", "1", "1234", "6000000", "999", "1000", "123456789012"}
	for _, in := range inputs {
		once := FormatNumber(in)
		twice := FormatNumber(once)
		if once != twice {
			t.Errorf("FormatNumber not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"", 0},
		{"0", 0},
		{"1,234", 1234},
		{"6,000,000", 6000000},
		{"6000000", 6000000},
		{"abc", 0},
		{"12ab34", 1234},
		// Overflows int64 after stripping, parses to 0 rather than failing.
		{"99999999999999999999999999", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseNumber(tt.in)
			if got != tt.want {
				t.Errorf("ParseNumber(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

// parse(format(s)) == parse(s) for all digit strings, including empty.
func TestParseFormatRoundTrip(t *testing.T) {
	inputs := []string{"", "0", "7", "42", "100", "999999", "6000000", "6000001", "123456789"}
	for _, s := range inputs {
		if got, want := ParseNumber(FormatNumber(s)), ParseNumber(s); got != want {
			t.Errorf("ParseNumber(FormatNumber(%q)) = %d, want %d", s, got, want)
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "0 ₫"},
		{500, "500 ₫"},
		{2000000, "2.000.000 ₫"},
		{333333, "333.333 ₫"},
	}

	for _, tt := range tests {
		got := FormatCurrency(tt.amount)
		if got != tt.want {
			t.Errorf("FormatCurrency(%d) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}
