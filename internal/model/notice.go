package model

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// NoticeSequence identifies a notice's place in the statutory sequence. It is
// carried on the notice itself so nothing downstream has to pattern-match the
// free-text notice type to find out which sent-date field to stamp.
type NoticeSequence string

const (
	NoticeFirst  NoticeSequence = "first"
	NoticeSecond NoticeSequence = "second"
	NoticeLien   NoticeSequence = "lien"
)

func (s NoticeSequence) Valid() bool {
	switch s {
	case NoticeFirst, NoticeSecond, NoticeLien:
		return true
	}
	return false
}

// Title returns the display form used on printed notices.
func (s NoticeSequence) Title() string {
	switch s {
	case NoticeFirst:
		return "First Notice"
	case NoticeSecond:
		return "Second Notice"
	case NoticeLien:
		return "Lien Notice"
	}
	return string(s)
}

// ParseNoticeSequence maps the free-text labels used by the legacy tool
// ("1st Notice", "Second notice", "Lien Notice") onto the sequence enum.
func ParseNoticeSequence(raw string) (NoticeSequence, bool) {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(lowered, "lien"):
		return NoticeLien, true
	case strings.Contains(lowered, "first"), strings.Contains(lowered, "1st"):
		return NoticeFirst, true
	case strings.Contains(lowered, "second"), strings.Contains(lowered, "2nd"):
		return NoticeSecond, true
	default:
		return "", false
	}
}

// Notice is an append-only record of a statutory notice generated for a
// contract. DateSent stays zero until the notice actually goes out.
type Notice struct {
	ID            uuid.UUID      `json:"id"`
	Sequence      NoticeSequence `json:"sequence"`
	NoticeType    string         `json:"notice_type"`
	DateGenerated Date           `json:"date_generated"`
	DateSent      Date           `json:"date_sent"`
	AmountDue     Amount         `json:"amount_due"`
	Notes         string         `json:"notes"`
}

type noticeAlias Notice

// UnmarshalJSON backfills the sequence from the legacy free-text type for
// records written before the sequence field existed.
func (n *Notice) UnmarshalJSON(data []byte) error {
	var alias noticeAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*n = Notice(alias)
	if n.NoticeType == "" {
		n.NoticeType = "First"
	}
	if n.Sequence == "" {
		if seq, ok := ParseNoticeSequence(n.NoticeType); ok {
			n.Sequence = seq
		}
	}
	return nil
}
