package classify

import "strings"

// MovementType is the direction of flow for a movement.
type MovementType string

const (
	Expense MovementType = "expense"
	Income  MovementType = "income"
)

// Categories reused across the engine. The category set is open; these are
// the ones the classifier itself emits.
const (
	CategoryOther       = "Otros"
	CategoryCardPayment = "Pago Tarjeta"
	CategoryTransfer    = "Transferencia"
	CategorySupermarket = "Supermercado"
	CategoryRestaurant  = "Restaurant"
	CategorySalary      = "Sueldo"
)

// Input is one raw transaction as seen by the classifier.
type Input struct {
	Payee           string
	Description     string
	Amount          float64 // signed; negative = money out
	AccountIsCredit bool
	UserRules       map[string]string // uppercased display name -> category
}

// Result is the canonical record for one transaction.
type Result struct {
	Name        string
	Description string // original text chosen for storage (longer of payee/description)
	Category    string
	Type        MovementType
	Forced      bool
}

// forcedRule is a hard override: when it matches, the name and category are
// fixed and no later sign or user-override logic may change them.
type forcedRule struct {
	match    func(raw string) bool
	name     func(raw string) string
	category string
}

func cardPaymentName(raw string) string {
	if strings.Contains(raw, "BILT") {
		return "Pago Bilt Mastercard"
	}
	return "Pago de Tarjeta de Crédito"
}

// forcedRules is evaluated in order; first match wins. These recognize card
// payments and ACH transfers tied to specific credit products that the sign
// heuristics would otherwise misclassify.
var forcedRules = []forcedRule{
	{
		match: func(raw string) bool {
			return strings.Contains(raw, "BILT") &&
				(strings.Contains(raw, "TRANSFER") || strings.Contains(raw, "PAYMENT") || strings.Contains(raw, "ACH"))
		},
		name:     cardPaymentName,
		category: CategoryCardPayment,
	},
	{
		match: func(raw string) bool {
			return strings.Contains(raw, "ONLINE PAYMENT") && strings.Contains(raw, "THANK YOU")
		},
		name:     cardPaymentName,
		category: CategoryCardPayment,
	},
	{
		match: func(raw string) bool {
			return strings.Contains(raw, "ONLINE TRANSFER") && strings.Contains(raw, "CREDIT CARD")
		},
		name:     cardPaymentName,
		category: CategoryCardPayment,
	},
}

// Classify resolves one raw transaction into its canonical (name, category,
// direction) record. It is total: every input maps to some output and no
// error is ever returned.
//
// Resolution runs in two passes. The first pass resolves name and category
// from text: forced rules, then peer-to-peer detection, then the merchant
// dictionary, then the generic cleaner fallback. The second pass resolves
// direction from the amount sign and refines the category, unless a forced
// rule already fixed the outcome.
func Classify(in Input) Result {
	payee := strings.TrimSpace(in.Payee)
	desc := strings.TrimSpace(in.Description)

	original := payee
	if len(desc) > len(payee) {
		original = desc
	}
	raw := strings.ToUpper(desc + " " + payee)

	res := Result{Name: original, Description: original, Category: CategoryOther}

	for _, rule := range forcedRules {
		if rule.match(raw) {
			res.Forced = true
			res.Name = rule.name(raw)
			res.Category = rule.category
			break
		}
	}

	if !res.Forced {
		if strings.Contains(raw, "ZELLE") || strings.Contains(raw, "VENMO") {
			res.Category = CategoryTransfer
			if persona := ExtractCounterparty(desc); persona != "" {
				res.Name = "Zelle - " + Capitalize(persona)
			} else if strings.Contains(raw, "VENMO") {
				res.Name = "Venmo"
			} else {
				res.Name = "Zelle"
			}
		} else if e, ok := MatchMerchant(raw); ok {
			res.Name = e.Name
			res.Category = e.Category
		} else {
			res.Name = CleanDescription(original)
			upper := strings.ToUpper(res.Name)
			if strings.Contains(upper, "RESTAURANT") {
				res.Category = CategoryRestaurant
			}
			if strings.Contains(upper, "MARKET") {
				res.Category = CategorySupermarket
			}
		}
	}

	// A forced card payment is income to the account regardless of how the
	// source signed the amount.
	if res.Forced {
		res.Type = Income
		return res
	}

	if in.Amount < 0 {
		res.Type = Expense
		// User overrides key on the resolved display name, and only apply on
		// the expense branch of this path.
		if cat, ok := in.UserRules[strings.ToUpper(res.Name)]; ok {
			res.Category = cat
		}
		return res
	}

	res.Type = Income
	switch {
	case in.AccountIsCredit:
		res.Category = CategoryCardPayment
		if strings.Contains(raw, "PAYMENT") || strings.Contains(raw, "THANK") {
			res.Name = "Pago Tarjeta (Auto)"
		}
	case strings.Contains(raw, "COCA") || strings.Contains(raw, "PAYROLL") || strings.Contains(raw, "NOMINA"):
		res.Category = CategorySalary
		res.Name = "Nómina Coca-Cola"
	case strings.Contains(raw, "INTEREST"):
		res.Category = CategoryOther
		res.Name = "Intereses Generados"
	case strings.Contains(raw, "ZELLE") || strings.Contains(raw, "VENMO"):
		res.Category = CategoryTransfer
	default:
		if strings.Contains(raw, "PAYMENT") || strings.Contains(raw, "THANK YOU") {
			res.Category = CategoryCardPayment
		} else {
			res.Category = CategoryTransfer
		}
	}

	return res
}
