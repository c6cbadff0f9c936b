package forecast

import "github.com/yourusername/puckline/internal/models"

// Corpus is the read-only historical dataset a Forecaster queries. It is
// built once per run and shared across concurrent forecasts; nothing in this
// package mutates it.
type Corpus struct {
	Games    []models.HistoricalGame
	Profiles map[string]models.TeamProfile
}

// ProfileFor returns the feature profile for a team, falling back to the
// league-average prior for teams missing from the snapshot.
func (c *Corpus) ProfileFor(team string) models.TeamProfile {
	if profile, ok := c.Profiles[team]; ok {
		return profile
	}
	return models.DefaultProfile(team)
}

// Size returns the number of historical games available as precedent.
func (c *Corpus) Size() int {
	return len(c.Games)
}
