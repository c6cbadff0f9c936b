package models

import "time"

// League-average priors used when a team has no usable history yet.
const (
	DefaultWinPct      = 0.5
	DefaultGoalsForPG  = 3.0
	DefaultGoalsAgstPG = 3.0
	DefaultPointsPct   = 0.5
)

// Standing is one team's row in the league table.
type Standing struct {
	Team           string    `db:"team" json:"team" validate:"required,len=3"`
	GamesPlayed    int       `db:"games_played" json:"games_played"`
	Wins           int       `db:"wins" json:"wins"`
	Losses         int       `db:"losses" json:"losses"`
	OTLosses       int       `db:"ot_losses" json:"ot_losses"`
	Points         int       `db:"points" json:"points"`
	PointsPct      float64   `db:"points_pct" json:"points_pct"`
	GoalsForPG     float64   `db:"goals_for_pg" json:"goals_for_pg"`
	GoalsAgainstPG float64   `db:"goals_against_pg" json:"goals_against_pg"`
	AsOf           time.Time `db:"as_of" json:"as_of"`
}

// WinPct returns regulation wins over games played.
func (s Standing) WinPct() float64 {
	if s.GamesPlayed == 0 {
		return DefaultWinPct
	}
	return float64(s.Wins) / float64(s.GamesPlayed)
}

// TeamForm summarizes a team's last-n results.
type TeamForm struct {
	Team           string  `json:"team"`
	Games          int     `json:"games"`
	WinPct         float64 `json:"win_pct"`
	GoalsForPG     float64 `json:"avg_gf"`
	GoalsAgainstPG float64 `json:"avg_ga"`
}

// DefaultForm returns the league-average prior for teams with no recent games.
func DefaultForm(team string) TeamForm {
	return TeamForm{
		Team:           team,
		WinPct:         DefaultWinPct,
		GoalsForPG:     DefaultGoalsForPG,
		GoalsAgainstPG: DefaultGoalsAgstPG,
	}
}

// TeamProfile is the per-team feature snapshot the forecaster compares on.
// Standings and recent form are blended 40/60 at corpus-build time; the
// profile is never recomputed per query.
type TeamProfile struct {
	Team           string  `json:"team"`
	WinPct         float64 `json:"win_pct"`
	GoalsForPG     float64 `json:"avg_gf"`
	GoalsAgainstPG float64 `json:"avg_ga"`
	PointsPct      float64 `json:"points_pct"`
}

const (
	standingWeight = 0.4
	formWeight     = 0.6
)

// BuildProfile blends a team's standing with its recent form into the fixed
// feature snapshot used for similarity scoring.
func BuildProfile(team string, standing Standing, form TeamForm) TeamProfile {
	if form.Games == 0 {
		form = DefaultForm(team)
	}
	winPct := standing.WinPct()
	gf := standing.GoalsForPG
	ga := standing.GoalsAgainstPG
	if standing.GamesPlayed == 0 {
		winPct = DefaultWinPct
		gf = DefaultGoalsForPG
		ga = DefaultGoalsAgstPG
	}
	pointsPct := standing.PointsPct
	if standing.GamesPlayed == 0 {
		pointsPct = DefaultPointsPct
	}
	return TeamProfile{
		Team:           team,
		WinPct:         standingWeight*winPct + formWeight*form.WinPct,
		GoalsForPG:     standingWeight*gf + formWeight*form.GoalsForPG,
		GoalsAgainstPG: standingWeight*ga + formWeight*form.GoalsAgainstPG,
		PointsPct:      pointsPct,
	}
}

// DefaultProfile returns the league-average profile for unknown teams.
func DefaultProfile(team string) TeamProfile {
	return TeamProfile{
		Team:           team,
		WinPct:         DefaultWinPct,
		GoalsForPG:     DefaultGoalsForPG,
		GoalsAgainstPG: DefaultGoalsAgstPG,
		PointsPct:      DefaultPointsPct,
	}
}
