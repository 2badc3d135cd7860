package feeds

import "github.com/pevans/olympichub/country"

// PlaceholderKorea is displayed in place of Korea's row until the medal
// table contains one.
var PlaceholderKorea = MedalStanding{
	Rank:        0,
	Country:     "South Korea",
	CountryCode: "KR",
	Flag:        country.Flag("KR"),
}

// FindKorea returns Korea's row in the standings, matching either the
// two-letter or three-letter code. It returns nil when Korea is absent.
func FindKorea(standings []MedalStanding) *MedalStanding {
	for i := range standings {
		if standings[i].CountryCode == "KR" || standings[i].CountryCode == "KOR" {
			return &standings[i]
		}
	}
	return nil
}
