package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	t.Run("PoundPrefix", func(t *testing.T) {
		amount, prefix, suffix, err := ParsePrice("£39.26")
		require.NoError(t, err)
		assert.Equal(t, 39.26, amount)
		assert.Equal(t, "£", prefix)
		assert.Equal(t, "", suffix)
	})

	t.Run("SuffixCurrencyKeepsSeparator", func(t *testing.T) {
		amount, prefix, suffix, err := ParsePrice("12.50 EUR")
		require.NoError(t, err)
		assert.Equal(t, 12.50, amount)
		assert.Equal(t, "", prefix)
		assert.Equal(t, " EUR", suffix)
	})

	t.Run("IntegerAmount", func(t *testing.T) {
		amount, _, _, err := ParsePrice("£40")
		require.NoError(t, err)
		assert.Equal(t, 40.0, amount)
	})

	t.Run("NoNumericAmount", func(t *testing.T) {
		_, _, _, err := ParsePrice("free")
		assert.Error(t, err)
	})

	t.Run("EmptyString", func(t *testing.T) {
		_, _, _, err := ParsePrice("")
		assert.Error(t, err)
	})
}

func TestFormatPrice(t *testing.T) {
	t.Run("RoundTripWithMultiplication", func(t *testing.T) {
		amount, prefix, suffix, err := ParsePrice("£39.26")
		require.NoError(t, err)
		assert.Equal(t, "£78.52", FormatPrice(amount*2, prefix, suffix))
	})

	t.Run("RoundsToTwoDecimals", func(t *testing.T) {
		amount, prefix, suffix, err := ParsePrice("£10.99")
		require.NoError(t, err)
		assert.Equal(t, "£32.97", FormatPrice(amount*3, prefix, suffix))
	})

	t.Run("PadsIntegerAmounts", func(t *testing.T) {
		assert.Equal(t, "£40.00", FormatPrice(40, "£", ""))
	})

	t.Run("SuffixCurrencyRoundTrip", func(t *testing.T) {
		amount, prefix, suffix, err := ParsePrice("12.50 EUR")
		require.NoError(t, err)
		assert.Equal(t, "75.00 EUR", FormatPrice(amount*6, prefix, suffix))
	})
}
