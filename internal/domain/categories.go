package domain

// DefaultCategoryID is used for category names without a known mapping.
const DefaultCategoryID = 9

// categoryIDs maps category names to the trivia source's numeric category IDs.
var categoryIDs = map[string]int{
	"Animals":           27,
	"History":           23,
	"Sports":            21,
	"Geography":         22,
	"General Knowledge": 9,
}

// CategoryID resolves a category name to its source ID, falling back to
// DefaultCategoryID for unmapped names.
func CategoryID(name string) int {
	if id, ok := categoryIDs[name]; ok {
		return id
	}
	return DefaultCategoryID
}

// Categories lists the category names with a known source mapping.
func Categories() []string {
	names := make([]string, 0, len(categoryIDs))
	for name := range categoryIDs {
		names = append(names, name)
	}
	return names
}
