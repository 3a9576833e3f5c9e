// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reputation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/phm-curator/pkg/types"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "mechanical systems and signal processing", Normalize("  Mechanical Systems  and Signal\tProcessing "))
	assert.Equal(t, "", Normalize("   "))
}

func TestDefaultRegistryLookups(t *testing.T) {
	reg := Default()

	v, ok := reg.Venue("Mechanical Systems and Signal Processing")
	require.True(t, ok)
	assert.Equal(t, types.Q1, v.Quartile)
	assert.Equal(t, 8.4, v.ImpactFactor)
	assert.Equal(t, "elsevier", v.Publisher)

	p, ok := reg.Publisher("MDPI")
	require.True(t, ok)
	assert.Equal(t, types.RatingQuestionable, p.Rating)

	_, ok = reg.Venue("Journal of Things Nobody Tabulated")
	assert.False(t, ok)
	_, ok = reg.Publisher("")
	assert.False(t, ok)
}

func TestNewRegistryCopiesAndClamps(t *testing.T) {
	venues := map[string]VenueEntry{
		"Odd Venue": {ImpactFactor: -2, DomainRelevance: 1.7, Publisher: " IEEE "},
	}
	reg := NewRegistry(nil, venues)
	venues["Odd Venue"] = VenueEntry{ImpactFactor: 99}

	v, ok := reg.Venue("odd venue")
	require.True(t, ok)
	assert.Equal(t, 0.0, v.ImpactFactor)
	assert.Equal(t, 1.0, v.DomainRelevance)
	assert.Equal(t, "ieee", v.Publisher)
}

func TestWithOverridesLeavesBaseUntouched(t *testing.T) {
	base := Default()
	extended := base.With(Overrides{
		Publishers: map[string]PublisherEntry{"Frontiers Media": {Rating: types.RatingQuestionable}},
		Venues:     map[string]VenueEntry{"PHM Society Journal": {Quartile: types.Q2, Publisher: "phm society"}},
	})

	_, ok := extended.Publisher("frontiers media")
	assert.True(t, ok)
	_, ok = extended.Venue("phm society journal")
	assert.True(t, ok)

	_, ok = base.Publisher("frontiers media")
	assert.False(t, ok, "base registry must not change")
	_, ok = extended.Venue("sensors")
	assert.True(t, ok, "built-in entries survive the merge")
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.yaml")
	content := `publishers:
  frontiers media:
    rating: questionable
    type: open_access
venues:
  international journal of prognostics and health management:
    impact_factor: 1.5
    quartile: Q3
    category: engineering
    phm_relevance: 1.0
    publisher: phm society
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	o, err := LoadOverrides(path)
	require.NoError(t, err)
	require.Contains(t, o.Venues, "international journal of prognostics and health management")
	assert.Equal(t, types.Q3, o.Venues["international journal of prognostics and health management"].Quartile)
	assert.Equal(t, types.RatingQuestionable, o.Publishers["frontiers media"].Rating)

	_, err = LoadOverrides(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	r := NewResolver(Default())

	tests := []struct {
		name  string
		paper types.Paper
		want  string
	}{
		{"explicit publisher wins", types.Paper{Publisher: " Elsevier ", Venue: "IEEE Access"}, "elsevier"},
		{"ieee venue token", types.Paper{Venue: "IEEE Transactions on Reliability"}, "ieee"},
		{"science direct token", types.Paper{Venue: "Science Direct Procedia"}, "elsevier"},
		{"nature token", types.Paper{Venue: "Nature Communications"}, "nature publishing group"},
		{"mdpi token", types.Paper{Venue: "Random MDPI Journal"}, "mdpi"},
		{"venue table reference", types.Paper{Venue: "Mechanical Systems and Signal Processing"}, "elsevier"},
		{"doi prefix", types.Paper{Venue: "Unlisted Venue", DOI: "10.1007/s10845-023-01"}, "springer"},
		{"doi url prefix", types.Paper{DOI: "https://doi.org/10.3390/s24001234"}, "mdpi"},
		{"doi prefix must be a registrant", types.Paper{DOI: "10.11090/abc"}, ""},
		{"nothing to go on", types.Paper{Title: "Untitled"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.paper))
		})
	}
}

func TestNormalizeDOI(t *testing.T) {
	assert.Equal(t, "10.1016/j.ymssp.2024.001", NormalizeDOI("https://doi.org/10.1016/J.YMSSP.2024.001"))
	assert.Equal(t, "10.1109/tie.2023.001", NormalizeDOI("doi:10.1109/TIE.2023.001"))
}

func TestCanonicalPublisher(t *testing.T) {
	tests := map[string]string{
		"Elsevier BV":                                        "elsevier",
		"Springer Science and Business Media LLC":            "springer",
		"Institute of Electrical and Electronics Engineers": "ieee",
		"Multidisciplinary Digital Publishing Institute":     "mdpi",
		"Informa UK Limited, trading as Taylor & Francis":    "taylor & francis",
		"  PHM   Society ":                                   "phm society",
		"":                                                   "",
	}
	for in, want := range tests {
		assert.Equal(t, want, CanonicalPublisher(in), in)
	}
}
