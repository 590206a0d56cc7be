package race

// BetType identifies one of the eight wagering categories offered for a race.
// The zero value is Win.
type BetType int

const (
	Win BetType = iota
	Place
	BracketQuinella
	Quinella
	Wide
	Exacta
	Trio
	Trifecta
)

// AllBetTypes returns every bet type in its fixed processing order.
func AllBetTypes() []BetType {
	return []BetType{Win, Place, BracketQuinella, Quinella, Wide, Exacta, Trio, Trifecta}
}

var displayTags = map[BetType]string{
	Win:             "単勝",
	Place:           "複勝",
	BracketQuinella: "枠連",
	Quinella:        "馬連",
	Wide:            "ワイド",
	Exacta:          "馬単",
	Trio:            "三連複",
	Trifecta:        "三連単",
}

var fileAliases = map[BetType]string{
	Win:             "win",
	Place:           "place",
	BracketQuinella: "bracket_quinella",
	Quinella:        "quinella",
	Wide:            "quinella_place",
	Exacta:          "exacta",
	Trio:            "trio",
	Trifecta:        "trifecta",
}

var pageTypes = map[BetType]string{
	Win:             "b1",
	Place:           "b1",
	BracketQuinella: "b2",
	Quinella:        "b4",
	Wide:            "b5",
	Exacta:          "b6",
	Trio:            "b7",
	Trifecta:        "b8",
}

var apiTypes = map[BetType]string{
	Win:             "1",
	Place:           "2",
	BracketQuinella: "3",
	Quinella:        "4",
	Wide:            "5",
	Exacta:          "6",
	Trio:            "7",
	Trifecta:        "8",
}

// String returns the site's display tag for the bet type (used as the JSON
// odds key and in log messages).
func (b BetType) String() string {
	return displayTags[b]
}

// FileAlias returns the ASCII name used for the bet type's CSV file.
func (b BetType) FileAlias() string {
	return fileAliases[b]
}

// PageType returns the odds-page "type" query parameter value.
func (b BetType) PageType() string {
	return pageTypes[b]
}

// APIType returns the odds API "type" query parameter value.
func (b BetType) APIType() string {
	return apiTypes[b]
}

// Legs returns the number of runners a single bet of this type names.
func (b BetType) Legs() int {
	switch b {
	case Win, Place:
		return 1
	case Trio, Trifecta:
		return 3
	default:
		return 2
	}
}

// PivotScanned reports whether the site only exposes this bet type's odds
// per pivot runner, requiring a full pivot scan to assemble the table.
func (b BetType) PivotScanned() bool {
	return b == Trio || b == Trifecta
}
