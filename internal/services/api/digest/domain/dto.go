// Package domain holds DTOs for digest http and service contracts
package domain

// DigestInput selects the edition and window for one digest
// zero values take the service defaults
type DigestInput struct {
	Lang string `json:"lang,omitempty" validate:"omitempty,wikilang" example:"en"`
	Days int    `json:"days,omitempty" validate:"omitempty,min=1,max=365" example:"7"`

	// Extracts overrides the configured enrichment flag when set
	Extracts *bool `json:"extracts,omitempty" example:"false"`
}

// Stats are the window totals for the content namespace
type Stats struct {
	Edits  int64 `json:"edits" example:"120345"`
	Titles int64 `json:"titles" example:"40210"`
	Users  int64 `json:"users" example:"9120"`
}

// PageActivity is one ranked page, 1 <= Users <= Edits
type PageActivity struct {
	Title string `json:"title" example:"Ada Lovelace"`
	Edits int64  `json:"edits" example:"42"`
	Users int64  `json:"users" example:"17"`
}

// Extract is a short plain text summary of an article
type Extract struct {
	Title   string `json:"title" example:"Ada Lovelace"`
	Extract string `json:"extract" example:"Augusta Ada King, Countess of Lovelace was an English mathematician."`
}

// Digest is the weekly activity report for one edition
type Digest struct {
	Lang     string             `json:"lang" example:"en"`
	Days     int                `json:"days" example:"7"`
	Cutoff   string             `json:"cutoff" example:"20261011134509"`
	Stats    Stats              `json:"stats"`
	Articles []PageActivity     `json:"articles"`
	Talks    []PageActivity     `json:"talks"`
	Extracts map[string]Extract `json:"extracts,omitempty"`
}

// Titles lists the distinct article display titles in rank order, the extract lookup keys
// store titles that render alike name the same wiki page, so they share one entry at the
// position of the first ranked row
func (d Digest) Titles() []string {
	out := make([]string, 0, len(d.Articles))
	seen := make(map[string]bool, len(d.Articles))
	for _, a := range d.Articles {
		if !seen[a.Title] {
			seen[a.Title] = true
			out = append(out, a.Title)
		}
	}
	return out
}
