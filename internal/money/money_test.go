package money

import "testing"

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "12.34", want: 1234},
		{in: "12", want: 1200},
		{in: "0.01", want: 1},
		{in: "1000000", want: 100000000},
		{in: "5.5", want: 550},
		// Round half-even on the third decimal.
		{in: "12.345", want: 1234},
		{in: "12.355", want: 1236},
		{in: "12.346", want: 1235},
		{in: "0", wantErr: true},
		{in: "0.004", wantErr: true}, // rounds to zero
		{in: "-5", wantErr: true},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "12.3.4", wantErr: true},
		{in: "99999999999999999999999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ToMinorUnits(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ToMinorUnits(%q) = %d, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ToMinorUnits(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ToMinorUnits(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFromMinorUnits(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{in: 1234, want: "12.34"},
		{in: 0, want: "0.00"},
		{in: 5, want: "0.05"},
		{in: -350, want: "-3.50"},
		{in: 100000000, want: "1000000.00"},
	}

	for _, tt := range tests {
		if got := FromMinorUnits(tt.in); got != tt.want {
			t.Errorf("FromMinorUnits(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, v := range []int64{1, 99, 100, 101, 123456789} {
		got, err := ToMinorUnits(FromMinorUnits(v))
		if err != nil {
			t.Fatalf("round trip of %d failed: %v", v, err)
		}
		if got != v {
			t.Errorf("round trip of %d = %d", v, got)
		}
	}
}
