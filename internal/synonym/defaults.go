package synonym

// defaultEntries is the built-in storefront dictionary, used when no
// synonyms file is configured. Keys are canonical terms; the lists are the
// equivalents shoppers actually type.
var defaultEntries = map[string][]string{
	"phone":      {"mobile", "smartphone", "cell", "device"},
	"laptop":     {"notebook", "computer", "ultrabook"},
	"tv":         {"television", "display"},
	"headphones": {"earphones", "earbuds", "headset"},
	"speaker":    {"loudspeaker", "soundbar"},
	"charger":    {"adapter", "power-supply"},
	"shirt":      {"tee", "top", "blouse"},
	"pants":      {"trousers", "jeans"},
	"shoes":      {"sneakers", "trainers", "footwear"},
	"jacket":     {"coat", "parka"},
	"bag":        {"handbag", "purse", "backpack"},
	"watch":      {"smartwatch", "timepiece"},
	"sofa":       {"couch", "settee"},
	"fridge":     {"refrigerator", "icebox"},
	"kids":       {"children", "child"},
	"cheap":      {"budget", "affordable"},
}

// Default returns the built-in dictionary.
func Default() *Dictionary {
	return New(defaultEntries)
}
