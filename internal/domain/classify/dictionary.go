package classify

import "regexp"

// DictionaryEntry maps a merchant pattern to its canonical display name and
// category. Patterns match against the uppercased raw transaction text.
type DictionaryEntry struct {
	Pattern  *regexp.Regexp
	Name     string
	Category string
}

func entry(pattern, name, category string) DictionaryEntry {
	return DictionaryEntry{Pattern: regexp.MustCompile(pattern), Name: name, Category: category}
}

// merchantDictionary is scanned linearly and the first match wins, so more
// specific brands must be listed before generic keywords.
var merchantDictionary = []DictionaryEntry{
	entry(`AMAZON|AMZN|AWS`, "Compra Amazon", "Compras"),
	entry(`WALMART|WAL-MART|WM SUPERCENTER`, "Supermercado Walmart", CategorySupermarket),
	entry(`HEB|H-E-B`, "Supermercado H-E-B", CategorySupermarket),
	entry(`TARGET`, "Supermercado Target", CategorySupermarket),
	entry(`COSTCO`, "Supermercado Costco", CategorySupermarket),
	entry(`SAM'S|SAMS CLUB`, "Sam's Club", CategorySupermarket),
	entry(`KROGER`, "Supermercado Kroger", CategorySupermarket),
	entry(`WHOLE FOODS`, "Whole Foods", CategorySupermarket),
	entry(`TRADER JOE`, "Trader Joe's", CategorySupermarket),
	entry(`PUBLIX`, "Supermercado Publix", CategorySupermarket),
	entry(`ALDI`, "Aldi", CategorySupermarket),

	entry(`SHELL`, "Gasolina Shell", "Gasolina"),
	entry(`EXXON`, "Gasolina Exxon", "Gasolina"),
	entry(`CHEVRON`, "Gasolina Chevron", "Gasolina"),
	entry(`\bBP\b|BP GAS`, "Gasolina BP", "Gasolina"),
	entry(`\bQT\b|QUIKTRIP`, "Gasolina QuikTrip", "Gasolina"),
	entry(`VALERO`, "Gasolina Valero", "Gasolina"),
	entry(`7-ELEVEN|7 ELEVEN`, "Gasolina 7-Eleven", "Gasolina"),
	entry(`MURPHY`, "Gasolina Murphy", "Gasolina"),

	entry(`ENTERGY`, "Pago de Electricidad", "Servicios"),
	entry(`\bATT\b|AT&T`, "Pago AT&T", "Servicios"),
	entry(`VERIZON`, "Pago Verizon", "Servicios"),
	entry(`TMOBILE|T-MOBILE`, "Pago T-Mobile", "Servicios"),
	entry(`XFINITY|COMCAST`, "Internet Xfinity", "Servicios"),
	entry(`WATER`, "Pago de Agua", "Servicios"),

	entry(`NETFLIX`, "Suscripción Netflix", "Subscripcion"),
	entry(`SPOTIFY`, "Suscripción Spotify", "Subscripcion"),
	entry(`HULU`, "Suscripción Hulu", "Subscripcion"),
	entry(`DISNEY\+`, "Suscripción Disney+", "Subscripcion"),
	entry(`HBO`, "Suscripción HBO", "Subscripcion"),
	entry(`PLANET FITNESS`, "Gimnasio Planet Fitness", "Subscripcion"),
	entry(`COMPASSION`, "Donación Compassion", "Subscripcion"),
	entry(`FINANCIAL`, "Financial Service", "Subscripcion"),

	entry(`COOPER|MORTGAGE`, "Pago de Hipoteca", "Mortgage"),
	entry(`GEICO`, "Seguro Geico", "Car Insurance"),
	entry(`PROGRESSIVE`, "Seguro Progressive", "Car Insurance"),
	entry(`STATE FARM`, "Seguro State Farm", "Car Insurance"),
	entry(`NATIONWIDE`, "Seguro Nationwide", "Salud"),

	entry(`MCDONALD`, "McDonald's", CategoryRestaurant),
	entry(`STARBUCKS`, "Starbucks", CategoryRestaurant),
	entry(`BURGER KING`, "Burger King", CategoryRestaurant),
	entry(`UBER EATS`, "Uber Eats", CategoryRestaurant),
	entry(`CHICK-FIL-A`, "Chick-fil-A", CategoryRestaurant),
	entry(`DUNKIN`, "Dunkin'", CategoryRestaurant),
	entry(`SUBWAY`, "Subway", CategoryRestaurant),
	entry(`DOMINO`, "Domino's", CategoryRestaurant),

	entry(`EBAY`, "eBay", "Compras"),
	entry(`TEMU`, "Temu", "Compras"),
	entry(`SHOPIFY`, "Shopify", "Compras"),
	entry(`UDEMY`, "Curso Udemy", "Compras"),
	entry(`HOME DEPOT`, "Home Depot", "Hogar"),
	entry(`LOWES`, "Lowe's", "Hogar"),
	entry(`IKEA`, "IKEA", "Hogar"),
	entry(`UBER|LYFT`, "Transporte App", "Transporte"),
}

// MatchMerchant scans the merchant dictionary in order and returns the first
// entry whose pattern matches the uppercased raw text.
func MatchMerchant(raw string) (DictionaryEntry, bool) {
	for _, e := range merchantDictionary {
		if e.Pattern.MatchString(raw) {
			return e, true
		}
	}
	return DictionaryEntry{}, false
}
