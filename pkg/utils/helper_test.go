package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOTP(t *testing.T) {
	otp := GenerateOTP(6)
	assert.Len(t, otp, 6)
	for _, c := range otp {
		assert.True(t, c >= '0' && c <= '9', "otp must be numeric, got %q", otp)
	}

	assert.Len(t, GenerateOTP(4), 4)
	assert.Len(t, GenerateOTP(0), 6, "non-positive length falls back to 6")
	assert.Len(t, GenerateOTP(-3), 6)
}

func TestGenerateReceiptID(t *testing.T) {
	id := GenerateReceiptID()
	assert.True(t, strings.HasPrefix(id, "receipt_"))
	assert.Greater(t, len(id), len("receipt_"))
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 5, ParseInt("5", 1))
	assert.Equal(t, 1, ParseInt("", 1))
	assert.Equal(t, 1, ParseInt("abc", 1))
	assert.Equal(t, 1, ParseInt("0", 1))
	assert.Equal(t, 1, ParseInt("-2", 1))
}

func TestCalculateTotalPages(t *testing.T) {
	assert.Equal(t, 3, CalculateTotalPages(25, 10))
	assert.Equal(t, 1, CalculateTotalPages(10, 10))
	assert.Equal(t, 0, CalculateTotalPages(0, 10))
	assert.Equal(t, 0, CalculateTotalPages(10, 0))
}

func TestCalculateOffset(t *testing.T) {
	assert.Equal(t, 0, CalculateOffset(1, 10))
	assert.Equal(t, 10, CalculateOffset(2, 10))
	assert.Equal(t, 0, CalculateOffset(0, 10))
	assert.Equal(t, 0, CalculateOffset(2, 0))
}
