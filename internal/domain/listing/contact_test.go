package listing_test

import (
	"testing"

	"github.com/rpggio/zotswipe/internal/domain/listing"
	"github.com/stretchr/testify/require"
)

func TestSMSLink_DefaultGreeting(t *testing.T) {
	l := listing.Listing{ContactPhone: "(555) 123-4567"}

	link := listing.SMSLink(l, "")
	require.Equal(t, "sms:5551234567&body=Hi,%20I%20saw%20your%20listing%20of%20buying%20swipes%20on%20ZotSwipe.", link)
}

func TestSMSLink_EscapesGreeting(t *testing.T) {
	l := listing.Listing{ContactPhone: "(949) 555-0100"}

	link := listing.SMSLink(l, "100% sure? #yes \"ok\" é")
	require.Equal(t, "sms:9495550100&body=100%25%20sure?%20%23yes%20%22ok%22%20%C3%A9", link)
}
