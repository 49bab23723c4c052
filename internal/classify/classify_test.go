package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySubstring(t *testing.T) {
	c := New(MatchSubstring)

	tests := []struct {
		name     string
		bizName  string
		tags     []string
		hint     string
		expected Flags
	}{
		{
			name:    "restaurant delivers but stays local",
			bizName: "Pizza Palace",
			tags:    []string{"restaurant", "food"},
			expected: Flags{
				LikelyDelivery: true,
			},
		},
		{
			name:    "logistics company ships worldwide",
			bizName: "Global Logistics Inc",
			tags:    []string{"establishment"},
			hint:    "logistics",
			expected: Flags{
				PotentialWorldwideShipping: true,
				IsLogistics:                true,
			},
		},
		{
			name:    "wholesaler from tags alone",
			bizName: "Smith & Sons",
			tags:    []string{"wholesale_store"},
			expected: Flags{
				LikelyDelivery:             true, // "store" in the tag
				PotentialWorldwideShipping: true, // "wholesale"
			},
		},
		{
			name:    "freight forwarder hits all shipping flags",
			bizName: "Lone Star Freight Forwarders",
			expected: Flags{
				PotentialWorldwideShipping: true,
				IsLogistics:                true,
			},
		},
		{
			name:     "no keywords no flags",
			bizName:  "Quiet Accounting LLC",
			tags:     []string{"accounting"},
			expected: Flags{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.bizName, tt.tags, tt.hint)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	c := New(MatchSubstring)

	first := c.Classify("Acme Import Export", []string{"store"}, "Importers")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, c.Classify("Acme Import Export", []string{"store"}, "Importers"))
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	c := New(MatchSubstring)

	upper := c.Classify("GLOBAL SHIPPING CO", nil, "")
	lower := c.Classify("global shipping co", nil, "")
	assert.Equal(t, upper, lower)
	assert.True(t, upper.PotentialWorldwideShipping)
}

func TestClassifyWordMode(t *testing.T) {
	word := New(MatchWord)
	sub := New(MatchSubstring)

	// "shop" inside "Workshop" only matches in substring mode.
	assert.False(t, word.Classify("The Workshop", nil, "").LikelyDelivery)
	assert.True(t, sub.Classify("The Workshop", nil, "").LikelyDelivery)

	// Underscore-joined tags still split into words.
	assert.True(t, word.Classify("Acme", []string{"wholesale_store"}, "").PotentialWorldwideShipping)

	// Exact word still matches at string edges.
	assert.True(t, word.Classify("shop", nil, "").LikelyDelivery)
}

func TestNewFallsBackToSubstring(t *testing.T) {
	c := New("bogus")
	assert.True(t, c.Classify("The Workshop", nil, "").LikelyDelivery)
}
