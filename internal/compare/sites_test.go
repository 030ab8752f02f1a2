package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSitesForCategory(t *testing.T) {
	assert.Equal(t, []string{"chrono24.com", "watchcharts.com"}, SitesForCategory("watches"))
	assert.Equal(t, []string{"delcampe.net"}, SitesForCategory("Stamps"))
	assert.Equal(t, []string{"ma-shops.com", "numisbids.com"}, SitesForCategory("  coins  "))
	assert.Nil(t, SitesForCategory("furniture"))
	assert.Nil(t, SitesForCategory(""))
}
