package s3_test

import (
	"guesthouse/infras/s3"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanKey(t *testing.T) {
	tests := map[string]string{
		"bookings/temp-1/booking.pdf":     "bookings/temp-1/booking.pdf",
		"/bookings//temp-1/./booking.pdf": "bookings/temp-1/booking.pdf",
		"../../etc/passwd":                "etc/passwd",
	}

	for in, want := range tests {
		assert.Equal(t, want, s3.CleanKey(in), in)
	}
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://cdn.test/bookings/temp-1/booking-K3Z9QX1A.pdf",
		s3.PublicURL("https://cdn.test/", "bookings/temp-1/booking-K3Z9QX1A.pdf"))
	assert.Equal(t, "https://cdn.test/bookings/decline%20notice.pdf",
		s3.PublicURL("https://cdn.test", "bookings/decline notice.pdf"))
	assert.Equal(t, "bookings/temp-1/a.pdf", s3.PublicURL("", "bookings/temp-1/a.pdf"))
}
