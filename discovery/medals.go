package discovery

import (
	"context"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/olympichub/country"
	"github.com/pevans/olympichub/feeds"
	"github.com/pevans/olympichub/scraper"
)

// Medal table columns, counted from zero.
const (
	colCountry = 1
	colGold    = 2
	colSilver  = 3
	colBronze  = 4
	colTotal   = 5
)

// ScrapeMedals captures the medal table.
func (s *Service) ScrapeMedals(ctx context.Context) ([]feeds.MedalStanding, error) {
	var standings []feeds.MedalStanding
	err := s.visit(ctx, s.feeds.Medals, func(page *scraper.Page) {
		standings = ParseMedals(page.Document().Selection, s.feeds.Medals.ItemSelector, s.feeds.Medals.MaxItems, s.logger)
	})
	return standings, err
}

// ParseMedals extracts one standing per table row. Rank is the row's
// position. Missing cells count as zero and the total is always the sum of
// the three medal counts; a disagreeing total on the page is logged.
func ParseMedals(root *goquery.Selection, rowSelector string, max int, logger *slog.Logger) []feeds.MedalStanding {
	if logger == nil {
		logger = slog.Default()
	}

	rows := scraper.Items(root, rowSelector, max)
	standings := make([]feeds.MedalStanding, 0, len(rows))
	for i, row := range rows {
		cells := row.Find("td")
		countryCell := cells.Eq(colCountry)

		code := country.NormalizeCode(scraper.Attr(countryCell, []string{"span[data-country-code]", "[data-country-code]"}, "data-country-code", ""))
		standing := feeds.MedalStanding{
			Rank:        i + 1,
			Country:     scraper.OwnText(countryCell, ""),
			CountryCode: code,
			Flag:        country.Flag(code),
			Gold:        parseCount(scraper.OwnText(cells.Eq(colGold), "")),
			Silver:      parseCount(scraper.OwnText(cells.Eq(colSilver), "")),
			Bronze:      parseCount(scraper.OwnText(cells.Eq(colBronze), "")),
		}
		standing.Total = standing.Gold + standing.Silver + standing.Bronze

		if cells.Length() > colTotal {
			if reported := parseCount(scraper.OwnText(cells.Eq(colTotal), "")); reported != standing.Total {
				logger.Warn("medal total mismatch",
					"country", standing.Country,
					"reported", reported,
					"derived", standing.Total)
			}
		}

		standings = append(standings, standing)
	}

	return standings
}

// parseCount reads the leading digits of s. Anything that does not start
// with a digit counts as zero.
func parseCount(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}
