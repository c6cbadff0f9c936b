package datasource

// The odds provider identifies teams by full name while the stats API uses
// three-letter abbreviations. Quotes are keyed by abbreviation everywhere
// downstream, so odds responses get mapped on ingest.
var teamNameToAbbrev = map[string]string{
	"Anaheim Ducks":         "ANA",
	"Boston Bruins":         "BOS",
	"Buffalo Sabres":        "BUF",
	"Calgary Flames":        "CGY",
	"Carolina Hurricanes":   "CAR",
	"Chicago Blackhawks":    "CHI",
	"Colorado Avalanche":    "COL",
	"Columbus Blue Jackets": "CBJ",
	"Dallas Stars":          "DAL",
	"Detroit Red Wings":     "DET",
	"Edmonton Oilers":       "EDM",
	"Florida Panthers":      "FLA",
	"Los Angeles Kings":     "LAK",
	"Minnesota Wild":        "MIN",
	"Montreal Canadiens":    "MTL",
	"Montréal Canadiens":    "MTL",
	"Nashville Predators":   "NSH",
	"New Jersey Devils":     "NJD",
	"New York Islanders":    "NYI",
	"New York Rangers":      "NYR",
	"Ottawa Senators":       "OTT",
	"Philadelphia Flyers":   "PHI",
	"Pittsburgh Penguins":   "PIT",
	"San Jose Sharks":       "SJS",
	"Seattle Kraken":        "SEA",
	"St. Louis Blues":       "STL",
	"St Louis Blues":        "STL",
	"Tampa Bay Lightning":   "TBL",
	"Toronto Maple Leafs":   "TOR",
	"Utah Hockey Club":      "UTA",
	"Utah Mammoth":          "UTA",
	"Vancouver Canucks":     "VAN",
	"Vegas Golden Knights":  "VGK",
	"Washington Capitals":   "WSH",
	"Winnipeg Jets":         "WPG",
	// Franchise relocated to Utah
	"Arizona Coyotes": "UTA",
}

// TeamAbbrev converts a full team name to its NHL abbreviation. Unknown
// names pass through unchanged so they at least remain identifiable.
func TeamAbbrev(name string) string {
	if abbrev, ok := teamNameToAbbrev[name]; ok {
		return abbrev
	}
	return name
}
