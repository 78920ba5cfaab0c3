package booking

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func date(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNights(t *testing.T) {
	cases := []struct {
		name    string
		in, out string
		want    int64
	}{
		{"three nights", "2024-01-01", "2024-01-04", 3},
		{"same day clamps to one", "2024-01-01", "2024-01-01", 1},
		{"inverted clamps to one", "2024-01-10", "2024-01-04", 1},
		{"across leap day", "2024-02-28", "2024-03-01", 2},
		{"across year end", "2023-12-30", "2024-01-02", 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Nights(date(tc.in), date(tc.out)); got != tc.want {
				t.Errorf("Nights(%s, %s) = %d, want %d", tc.in, tc.out, got, tc.want)
			}
		})
	}
}

func TestNightsIgnoresClockAndZone(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	in := time.Date(2024, 1, 1, 23, 30, 0, 0, jakarta)
	out := time.Date(2024, 1, 2, 0, 15, 0, 0, time.UTC)
	if got := Nights(in, out); got != 1 {
		t.Fatalf("Nights = %d, want 1", got)
	}
	out = time.Date(2024, 1, 5, 1, 0, 0, 0, time.UTC)
	if got := Nights(in, out); got != 4 {
		t.Fatalf("Nights = %d, want 4", got)
	}
}

func TestComputeTotal(t *testing.T) {
	rate := decimal.RequireFromString("100.00")

	got := ComputeTotal(rate, date("2024-01-01"), date("2024-01-04"))
	if !got.Equal(decimal.RequireFromString("300.00")) {
		t.Errorf("three nights = %s, want 300.00", got)
	}
	got = ComputeTotal(rate, date("2024-01-01"), date("2024-01-01"))
	if !got.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("same day = %s, want 100.00", got)
	}
}

func TestComputeTotalIsExact(t *testing.T) {
	rates := []string{"0", "0.10", "0.01", "99.99", "123.456", "1000000.07"}
	checkIn := date("2024-03-01")
	for _, r := range rates {
		rate := decimal.RequireFromString(r)
		for n := int64(1); n <= 45; n++ {
			checkOut := checkIn.AddDate(0, 0, int(n))
			want := rate.Mul(decimal.NewFromInt(n))
			if got := ComputeTotal(rate, checkIn, checkOut); !got.Equal(want) {
				t.Fatalf("rate %s x %d nights = %s, want %s", r, n, got, want)
			}
		}
	}
	// 0.10 * 3 must be exactly 0.30, which float64 cannot represent.
	if got := ComputeTotal(decimal.RequireFromString("0.10"), checkIn, checkIn.AddDate(0, 0, 3)); got.String() != "0.3" {
		t.Errorf("0.10 x 3 = %s", got)
	}
}
