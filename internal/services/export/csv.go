package export

import (
	"encoding/csv"
	"io"
	"regexp"

	"github.com/expoprize/prizewheel-go/internal/model"
)

// utf8BOM keeps spreadsheet tools from misreading accented names
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var historyHeader = []string{"Name", "Email", "Phone", "Prize", "Spun At"}

const (
	placeholderMissing = "N/D"
	placeholderNoPrize = "N/A"
	placeholderNotSpun = "Not spun yet"
)

// WriteHistory writes the company's participation history as CSV,
// prefixed with a UTF-8 byte order mark.
func WriteHistory(w io.Writer, participants []*model.Participant) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(historyHeader); err != nil {
		return err
	}
	for _, p := range participants {
		if err := cw.Write(historyRow(p)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func historyRow(p *model.Participant) []string {
	email := p.Email
	if email == "" {
		email = placeholderMissing
	}
	phone := p.Phone
	if phone == "" {
		phone = placeholderMissing
	}
	prize := p.PrizeName
	if prize == "" {
		prize = placeholderNoPrize
	}
	spunAt := placeholderNotSpun
	if p.SpunAt != nil {
		spunAt = p.SpunAt.Format("2006-01-02 15:04:05")
	}
	return []string{p.Name, email, phone, prize, spunAt}
}

var unsafeFilenameChars = regexp.MustCompile(`\s+`)

// HistoryFilename builds the download filename for a company's history
func HistoryFilename(companyName string) string {
	return "wheel_history_" + unsafeFilenameChars.ReplaceAllString(companyName, "_") + ".csv"
}
