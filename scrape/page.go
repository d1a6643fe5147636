// Package scrape fetches the DSE market summary page and live price feed
// and extracts the raw dataset from them. Cell text is cleaned but not
// converted to numbers here; typing is package parse's job.
package scrape

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/baraka/dse2db/model"
)

// equityTableID identifies the equity watch table on the summary page.
const equityTableID = "equity-watch"

// dateMarker is the header text preceding the data date.
const dateMarker = "Market Summary"

var (
	longDateRe   = regexp.MustCompile(`^[A-Za-z]+\s+\d{1,2},\s+\d{4}$`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Page is a parsed market summary document. The site's markup is untrusted
// and changes without notice, so location is by marker (header text, element
// id) rather than by position, and everything else in the document is
// ignored.
type Page struct {
	doc *goquery.Document
}

// ParsePage parses raw summary HTML into a queryable Page.
func ParsePage(html string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Page{doc: doc}, nil
}

// SummaryDate locates the long-form data date: the "Market Summary" header
// followed by a sibling header holding "Month Day, Year". Returns
// ErrDateNotFound when the marker or a well-formed date is absent.
func (p *Page) SummaryDate() (string, error) {
	var found string

	p.doc.Find("h5").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !strings.Contains(s.Text(), dateMarker) {
			return true
		}

		next := s.NextFiltered("h5")
		if next.Length() == 0 {
			return true
		}

		cand := cleanCellText(next.Text())
		if longDateRe.MatchString(cand) {
			found = cand
			return false
		}
		return true
	})

	if found == "" {
		return "", ErrDateNotFound
	}
	return found, nil
}

// EquityRows extracts the equity table: the element with the known id, then
// its first row group. Each cell is tag-stripped, whitespace-collapsed and
// trimmed; rows with zero cells are dropped. Returns ErrTableNotFound when
// the id or row group is absent and ErrNoDataRows when nothing survives.
func (p *Page) EquityRows() ([]model.RawRow, error) {
	table := p.doc.Find("#" + equityTableID)
	if table.Length() == 0 {
		return nil, ErrTableNotFound
	}

	body := table.Find("tbody").First()
	if body.Length() == 0 {
		return nil, ErrTableNotFound
	}

	var rows []model.RawRow
	body.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells model.RawRow
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, cleanCellText(td.Text()))
		})
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	})

	if len(rows) == 0 {
		return nil, ErrNoDataRows
	}
	return rows, nil
}

// cleanCellText collapses internal whitespace to single spaces and trims
// the edges. goquery's Text already strips nested tags.
func cleanCellText(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
