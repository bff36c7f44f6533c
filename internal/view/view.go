// Package view turns a console session into what the page shows.
//
// Build is pure: it reads the session and returns display data, it never
// mutates state. Renderer writes that data as HTML.
package view

import (
	"github.com/evyataryagoni/geoconsole/internal/geo"
	"github.com/evyataryagoni/geoconsole/internal/models"
	"github.com/evyataryagoni/geoconsole/internal/pagination"
)

// Row is one table line with the coordinates already formatted
type Row struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Coordinates string `json:"coordinates"`
}

// PageView is everything needed to draw the console for one session
type PageView struct {
	Rows        []Row                   `json:"rows"`
	Buttons     []pagination.PageButton `json:"buttons"`
	Statistics  models.Statistics       `json:"statistics"`
	CurrentPage int                     `json:"current_page"`
	TotalPages  int                     `json:"total_pages"`
	TotalItems  int                     `json:"total_items"`
	FirstItem   int                     `json:"first_item"` // 1-based, 0 when the page is empty
	LastItem    int                     `json:"last_item"`
	LastQuery   string                  `json:"last_query"`
	QueryTime   float64                 `json:"query_time"`
	CanDownload bool                    `json:"can_download"`
}

// Build computes the visible rows and page selector of a session
func Build(sess *models.Session) PageView {
	page := sess.Page
	visible := pagination.VisiblePage(sess.Records, page.CurrentPage, page.ItemsPerPage)

	rows := make([]Row, 0, len(visible))
	for _, rec := range visible {
		rows = append(rows, Row{
			ID:          rec.ID,
			Type:        rec.Type,
			Coordinates: geo.Format(rec.Coordinates),
		})
	}

	v := PageView{
		Rows:        rows,
		Buttons:     pagination.PageButtons(len(sess.Records), page.CurrentPage, page.ItemsPerPage, pagination.WindowSize),
		Statistics:  sess.Statistics,
		CurrentPage: page.CurrentPage,
		TotalPages:  page.TotalPages(),
		TotalItems:  len(sess.Records),
		LastQuery:   sess.LastQuery,
		QueryTime:   sess.QueryTime,
		CanDownload: sess.Queried,
	}
	if len(rows) > 0 {
		v.FirstItem = page.Offset() + 1
		v.LastItem = page.Offset() + len(rows)
	}
	return v
}
