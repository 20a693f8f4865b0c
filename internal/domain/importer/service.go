// Package importer turns pasted card-statement text into movements. It exists
// for the stretch between a card migration and its aggregator feed coming
// online, when the only source of truth is the issuer's web UI.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/pasqualebf/finanzas-app/internal/domain/classify"
	"github.com/pasqualebf/finanzas-app/internal/domain/store"
)

var ErrMissingInput = errors.New("missing required input")

// monthLineRe recognizes a date heading like "August 14, 2026".
var monthLineRe = regexp.MustCompile(`^(?i)(January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},\s+\d{4}$`)

// Result summarizes one completed import.
type Result struct {
	UID      string  `json:"uid"`
	Imported int     `json:"imported"`
	Total    float64 `json:"total"`
}

// Service parses statement text and persists the resulting movements.
type Service struct {
	store store.Store
	now   func() time.Time
}

// NewService creates an importer over the given store.
func NewService(st store.Store) *Service {
	return &Service{store: st, now: time.Now}
}

// ImportText parses pasted statement text and writes every recognized
// transaction plus one compensating balance adjustment in a single batch.
//
// The expected shape is the issuer's activity list: date headings ("Today",
// "Yesterday" or "August 14, 2026") followed by merchant-name lines, each
// with its dollar amount on the next line. "Pending" marker lines are
// skipped. Re-importing the same text is safe: movement IDs are derived from
// the transaction's own fields, so duplicates overwrite themselves, and the
// balance adjustment keys on the same content.
func (s *Service) ImportText(ctx context.Context, uid, accountID, text string) (*Result, error) {
	if uid == "" || accountID == "" || strings.TrimSpace(text) == "" {
		return nil, ErrMissingInput
	}

	rules, err := s.store.CategoryRules(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("loading category rules: %w", err)
	}

	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, t)
		}
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	current := today

	result := &Result{UID: uid}
	batch := s.store.Batch(uid)
	var total float64

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if date, ok := parseDateHeading(line, today); ok {
			current = date
			continue
		}
		if strings.EqualFold(line, "Pending") {
			continue
		}

		// A transaction is a name line whose next line carries the amount.
		if i+1 >= len(lines) || !isAmountLine(lines[i+1]) {
			continue
		}
		nameRaw := line
		amount, err := parseAmount(lines[i+1])
		if err != nil {
			return nil, fmt.Errorf("parsing amount %q: %w", lines[i+1], err)
		}
		i++

		mov := buildMovement(nameRaw, amount, current, accountID, rules)
		batch.SetMovement(mov)
		total += amount
		result.Imported++
	}

	if result.Imported == 0 {
		return nil, fmt.Errorf("%w: no transactions recognized in text", ErrMissingInput)
	}

	// Statement amounts are card-perspective: positive spends grow the debt,
	// negative payments shrink it. The stored balance moves the opposite way.
	if total != 0 {
		batch.IncrementBalance(accountID, -total)
	}

	if err := batch.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing import batch: %w", err)
	}

	result.Total = total
	log.Printf("importer: user %s imported %d movements into %s (total %.2f)", uid, result.Imported, accountID, total)
	return result, nil
}

func parseDateHeading(line string, today time.Time) (time.Time, bool) {
	if strings.EqualFold(line, "Today") {
		return today, true
	}
	if strings.EqualFold(line, "Yesterday") {
		return today.AddDate(0, 0, -1), true
	}
	if monthLineRe.MatchString(line) {
		d, err := time.Parse("January 2, 2006", normalizeMonthCase(line))
		if err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// normalizeMonthCase rewrites "AUGUST 14, 2026" into the capitalization
// time.Parse expects.
func normalizeMonthCase(line string) string {
	parts := strings.SplitN(line, " ", 2)
	if len(parts) != 2 {
		return line
	}
	month := strings.ToLower(parts[0])
	r := []rune(month)
	r[0] = unicode.ToUpper(r[0])
	return string(r) + " " + parts[1]
}

func isAmountLine(line string) bool {
	return strings.HasPrefix(line, "$") || strings.HasPrefix(line, "-$")
}

func parseAmount(line string) (float64, error) {
	cleaned := strings.Replace(line, "$", "", 1)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	return strconv.ParseFloat(cleaned, 64)
}

func buildMovement(nameRaw string, amount float64, date time.Time, accountID string, rules map[string]string) store.Movement {
	upper := strings.ToUpper(nameRaw)

	var name, category, movType string
	if amount < 0 {
		// Negative statement lines are payments into the card.
		name = "Pago Tarjeta"
		category = classify.CategoryCardPayment
		movType = string(classify.Income)
	} else {
		movType = string(classify.Expense)
		if cat, ok := rules[upper]; ok {
			// A rule hit keeps the pasted name untouched so the rule keeps
			// matching on later imports.
			name = nameRaw
			category = cat
		} else if e, ok := classify.MatchMerchant(upper); ok {
			name = e.Name
			category = e.Category
		} else {
			name = classify.CleanDescription(nameRaw)
			category = classify.CategoryOther
			nameUpper := strings.ToUpper(name)
			if strings.Contains(nameUpper, "RESTAURANT") {
				category = classify.CategoryRestaurant
			}
			if strings.Contains(nameUpper, "MARKET") {
				category = classify.CategorySupermarket
			}
		}
	}

	// The ID embeds the signed amount: a spend and a payment of equal
	// magnitude on the same day must stay distinct documents.
	id := manualID(nameRaw, amount, date)
	if amount < 0 {
		amount = -amount
	}

	return store.Movement{
		ID:             id,
		AccountID:      accountID,
		Amount:         amount,
		Name:           name,
		Description:    nameRaw,
		Date:           date,
		Category:       category,
		Type:           movType,
		IsManualImport: true,
	}
}

// manualID derives a deterministic document ID from the transaction's own
// fields so that re-importing the same paste overwrites instead of
// duplicating.
func manualID(nameRaw string, amount float64, date time.Time) string {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, nameRaw)

	runes := []rune(compact)
	if len(runes) > 10 {
		runes = runes[:10]
	}

	return fmt.Sprintf("MANUAL-%d-%s-%s", date.UnixMilli(), strconv.FormatFloat(amount, 'f', -1, 64), string(runes))
}
