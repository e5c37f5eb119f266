package normalizers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	t.Run("LowercasesAndTrims", func(t *testing.T) {
		assert.Equal(t, "john smith", Name("  John Smith  "))
	})

	t.Run("StripsPunctuation", func(t *testing.T) {
		assert.Equal(t, "oconnor", Name("O'Connor"))
		assert.Equal(t, "maryjane", Name("Mary-Jane"))
		assert.Equal(t, "dr smith jr", Name("Dr. Smith, Jr."))
	})

	t.Run("CollapsesWhitespace", func(t *testing.T) {
		assert.Equal(t, "john smith", Name("John \t  Smith"))
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, "", Name(""))
		assert.Equal(t, "", Name("  ...  "))
	})
}

func TestPhone(t *testing.T) {
	t.Run("StripsFormatting", func(t *testing.T) {
		assert.Equal(t, "15551234567", Phone("(555) 123-4567"))
		assert.Equal(t, "15551234567", Phone("555.123.4567"))
	})

	t.Run("TenDigitsGetsCountryPrefix", func(t *testing.T) {
		assert.Equal(t, "15551234567", Phone("5551234567"))
	})

	t.Run("ElevenDigitsWithLeadingOneKept", func(t *testing.T) {
		assert.Equal(t, "15551234567", Phone("+1 555 123 4567"))
	})

	t.Run("InternationalKeptAsIs", func(t *testing.T) {
		assert.Equal(t, "445551234567", Phone("+44 555 123 4567"))
	})

	t.Run("ShortNumberKeptAsIs", func(t *testing.T) {
		assert.Equal(t, "1234567", Phone("123-4567"))
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, "", Phone(""))
		assert.Equal(t, "", Phone("ext."))
	})
}

func TestEmail(t *testing.T) {
	assert.Equal(t, "john@example.com", Email("  John@Example.COM  "))
}

func TestApply(t *testing.T) {
	t.Run("RegisteredNormalizer", func(t *testing.T) {
		assert.Equal(t, "15551234567", Apply("(555) 123-4567", "phone"))
		assert.Equal(t, "john smith", Apply("John  Smith", "name"))
	})

	t.Run("UnknownNormalizerPassesThrough", func(t *testing.T) {
		assert.Equal(t, "Unchanged", Apply("Unchanged", "soundex"))
	})
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "123456", DigitsOnly("a1b2c3 4-5.6"))
}

func TestRemoveWhitespace(t *testing.T) {
	assert.Equal(t, "abc", RemoveWhitespace(" a b\tc\n"))
}
