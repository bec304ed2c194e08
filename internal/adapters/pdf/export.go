// Package pdf renders a chat session as a paginated A4 document.
package pdf

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/PabloGalante/weatherchat/internal/domain"
)

var ErrEmptySession = errors.New("session has no messages to export")

const (
	margin       = 20.0
	bottomGuard  = 40.0
	headerLineH  = 8.0
	contentLineH = 5.0
	messageGap   = 10.0
	fontFamily   = "Helvetica"
)

// Exporter writes sessions as PDF. Times are printed in loc.
type Exporter struct {
	loc *time.Location
}

func NewExporter(loc *time.Location) *Exporter {
	if loc == nil {
		loc = time.Local
	}
	return &Exporter{loc: loc}
}

// FileName is the suggested download name, dated by the session's UTC creation day.
func FileName(sess *domain.Session) string {
	return fmt.Sprintf("weather-chat-%s.pdf", sess.CreatedAt.UTC().Format(time.DateOnly))
}

// Write renders sess into w.
func (e *Exporter) Write(w io.Writer, sess *domain.Session) error {
	doc, err := e.render(sess)
	if err != nil {
		return err
	}
	if err := doc.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// WriteFile renders sess to path. Nothing is left behind on failure.
func (e *Exporter) WriteFile(path string, sess *domain.Session) error {
	doc, err := e.render(sess)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := doc.Output(f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write pdf: %w", err)
	}
	return f.Close()
}

func (e *Exporter) render(sess *domain.Session) (*fpdf.Fpdf, error) {
	if sess == nil || len(sess.Messages) == 0 {
		return nil, ErrEmptySession
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(margin, margin, margin)
	doc.SetAutoPageBreak(false, 0)
	doc.AliasNbPages("")

	// Core fonts are cp1252; translate so degree signs and accents survive.
	tr := doc.UnicodeTranslatorFromDescriptor("")

	pageW, pageH := doc.GetPageSize()
	maxWidth := pageW - 2*margin

	doc.SetFooterFunc(func() {
		doc.SetFont(fontFamily, "I", 8)
		doc.Text(margin, pageH-10, fmt.Sprintf("Page %d of {nb}", doc.PageNo()))
	})

	doc.AddPage()
	y := margin

	doc.SetFont(fontFamily, "B", 20)
	doc.Text(margin, y, "Weather Chat Export")
	y += 15

	created := sess.CreatedAt.In(e.loc)
	doc.SetFont(fontFamily, "", 12)
	doc.Text(margin, y, tr("Session: "+sess.Title))
	y += headerLineH
	doc.Text(margin, y, "Date: "+created.Format("Jan 2, 2006 3:04:05 PM"))
	y += headerLineH
	doc.Text(margin, y, fmt.Sprintf("Messages: %d", len(sess.Messages)))
	y += 20

	for _, m := range sess.Messages {
		if y > pageH-bottomGuard {
			doc.AddPage()
			y = margin
		}

		doc.SetFont(fontFamily, "B", 11)
		doc.Text(margin, y, fmt.Sprintf("%s - %s", speaker(m.Role), m.Timestamp.In(e.loc).Format(time.Kitchen)))
		y += headerLineH

		doc.SetFont(fontFamily, "", 10)
		lines := doc.SplitText(tr(m.Content), maxWidth)
		if y+float64(len(lines))*contentLineH > pageH-margin {
			doc.AddPage()
			y = margin
		}

		for _, line := range lines {
			// A single message longer than a page keeps flowing.
			if y > pageH-margin {
				doc.AddPage()
				y = margin
			}
			doc.Text(margin, y, line)
			y += contentLineH
		}
		y += messageGap
	}

	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return doc, nil
}

func speaker(role domain.Role) string {
	if role == domain.RoleUser {
		return "You"
	}
	return "Weather Assistant"
}
