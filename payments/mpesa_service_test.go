package payments

import "testing"

func TestSanitizeMpesaNumber(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"local 07 format", "0712345678", "254712345678", false},
		{"local 01 format", "0112345678", "254112345678", false},
		{"bare 7 prefix", "712345678", "254712345678", false},
		{"already international", "254712345678", "254712345678", false},
		{"with spaces and plus", "+254 712 345 678", "254712345678", false},
		{"with dashes", "0712-345-678", "254712345678", false},
		{"too short", "12345", "", true},
		{"wrong country code", "255712345678", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeMpesaNumber(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SanitizeMpesaNumber(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("SanitizeMpesaNumber(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
