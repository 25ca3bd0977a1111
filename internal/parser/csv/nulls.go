package csv

// DefaultNullValues are the cell spellings read as null. The list follows
// the conventional NA markers of spreadsheet and dataframe tooling.
var DefaultNullValues = []string{
	"",
	"#N/A", "#N/A N/A", "#NA",
	"-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN",
	"<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// nullSet builds the lookup set from extra values and, unless disabled, the
// defaults. The empty string is always null so that an absent trailing field
// and an empty field read the same.
func nullSet(extra []string, keepDefault bool) map[string]struct{} {
	set := make(map[string]struct{}, len(DefaultNullValues)+len(extra))
	set[""] = struct{}{}
	if keepDefault {
		for _, s := range DefaultNullValues {
			set[s] = struct{}{}
		}
	}
	for _, s := range extra {
		set[s] = struct{}{}
	}
	return set
}
