package matching

import (
	"strings"
	"time"
	"unicode/utf8"

	"bank-reconciliation-backend/internal/models"

	"github.com/shopspring/decimal"
)

// Criterion weights in hundredths, so confidence stays exact at two decimals.
const (
	AmountPoints      = 40
	DatePoints        = 30
	DescriptionPoints = 20
	SameDayPoints     = 10
)

const (
	dateWindowDays    = 7
	sameDayDays       = 1
	minTokenLength    = 4
	reasonAmount      = "Amount match"
	reasonDate        = "Date match"
	reasonDescription = "Description similarity"
)

var amountTolerance = decimal.New(1, -2)

// Score is the outcome of comparing one bank row with one recorded row.
type Score struct {
	Points           int
	AmountMatch      bool
	DateMatch        bool
	DescriptionMatch bool
	SameDay          bool
}

func (s Score) Confidence() float64 {
	return float64(s.Points) / 100
}

func (s Score) Reason() string {
	var labels []string
	if s.AmountMatch {
		labels = append(labels, reasonAmount)
	}
	if s.DateMatch {
		labels = append(labels, reasonDate)
	}
	if s.DescriptionMatch {
		labels = append(labels, reasonDescription)
	}
	return strings.Join(labels, " ")
}

// ScorePair compares a bank feed row with a ledger row. It never fails: missing
// descriptions and zero dates simply do not match.
func ScorePair(bank models.BankTransaction, recorded models.RecordedTransaction) Score {
	var s Score

	s.AmountMatch = amountsMatch(bank.Amount, recorded.Amount)

	if days, ok := dayDistance(bank.TransactionDate, recorded.TransactionDate); ok {
		s.DateMatch = days <= dateWindowDays
		s.SameDay = days <= sameDayDays
	}

	s.DescriptionMatch = descriptionsOverlap(bank.Description, recorded.Description)

	if s.AmountMatch {
		s.Points += AmountPoints
	}
	if s.DateMatch {
		s.Points += DatePoints
	}
	if s.DescriptionMatch {
		s.Points += DescriptionPoints
	}
	if s.SameDay {
		s.Points += SameDayPoints
	}
	return s
}

// amountsMatch compares absolute values so income/expense sign conventions
// on the ledger side do not block a match.
func amountsMatch(bankAmount, recordedAmount decimal.Decimal) bool {
	diff := bankAmount.Abs().Sub(recordedAmount.Abs()).Abs()
	return diff.LessThan(amountTolerance)
}

// dayDistance returns the absolute number of calendar days between a and b.
func dayDistance(a, b time.Time) (int, bool) {
	if a.IsZero() || b.IsZero() {
		return 0, false
	}
	da := calendarDate(a)
	db := calendarDate(b)
	days := int(da.Sub(db).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days, true
}

func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func descriptionsOverlap(bankDesc, recordedDesc string) bool {
	recorded := strings.ToLower(recordedDesc)
	if recorded == "" {
		return false
	}
	for _, word := range strings.Fields(strings.ToLower(bankDesc)) {
		if utf8.RuneCountInString(word) < minTokenLength {
			continue
		}
		if strings.Contains(recorded, word) {
			return true
		}
	}
	return false
}
