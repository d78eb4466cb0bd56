package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLine(t *testing.T) {
	assert.Equal(t, "10.00", Fixed(Line(2.00, 5)))
	assert.Equal(t, "0.30", Fixed(Line(0.10, 3)))
	// Naive float math gives 0.30000000000000004 here.
	assert.Equal(t, "0.90", Fixed(Line(0.30, 3)))
}

func TestFixedRoundsHalfUp(t *testing.T) {
	cases := map[string]string{
		"1.005":  "1.01",
		"1.004":  "1.00",
		"2.675":  "2.68",
		"10":     "10.00",
		"0.3333": "0.33",
	}
	for in, want := range cases {
		d, err := decimal.NewFromString(in)
		assert.NoError(t, err)
		assert.Equal(t, want, Fixed(d), "input %s", in)
	}
}

func TestTotalAccumulation(t *testing.T) {
	total := decimal.Zero
	for i := 0; i < 10; i++ {
		total = total.Add(Line(0.10, 1))
	}
	assert.Equal(t, "1.00", Fixed(total))
}
