package naming

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CamelToSnake converts a CamelCase string to snake_case.
// Consecutive uppercase letters (acronyms) are kept together:
// "ID" → "id", "UserID" → "user_id", "CreatedAt" → "created_at".
func CamelToSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				next := rune(0)
				if i+1 < len(runes) {
					next = runes[i+1]
				}
				if unicode.IsLower(prev) || (unicode.IsUpper(prev) && unicode.IsLower(next)) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Camelize converts a snake_case string to CamelCase: "garage_spot" → "GarageSpot".
func Camelize(s string) string {
	parts := strings.Split(s, "_")
	title := cases.Title(language.Und)
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(title.String(p))
	}
	return b.String()
}

// TableName derives a table name from a model name: "Driver" → "drivers",
// "GarageSpot" → "garage_spots".
func TableName(model string) string {
	return inflection.Plural(CamelToSnake(model))
}

// ClassName derives a model name from a relationship name: "cars" → "Car",
// "parking_spots" → "ParkingSpot".
func ClassName(relation string) string {
	return Camelize(inflection.Singular(CamelToSnake(relation)))
}

// BelongsToKey is the default foreign key for a belongs-to relationship:
// "garage" → "garage_id".
func BelongsToKey(relation string) string {
	return inflection.Singular(CamelToSnake(relation)) + "_id"
}

// HasManyKey is the default foreign key, on the target table, for a has-many
// relationship owned by model. The model name is lower-cased whole, not
// snake-cased: "Driver" → "driver_id", "GarageSpot" → "garagespot_id".
func HasManyKey(model string) string {
	return strings.ToLower(model) + "_id"
}
