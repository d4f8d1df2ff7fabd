package domain

import "strings"

// Site-condition label attached to a captured point.
type Category string

const (
	CategoryInfrastructure Category = "Infrastructure"
	CategoryVegetation     Category = "Vegetation"
	CategoryHydrography    Category = "Hydrography"
	CategoryControlPoint   Category = "Control-Point"
	CategoryFlooding       Category = "Flooding"
	CategorySinkhole       Category = "Sinkhole"
	CategorySubsidence     Category = "Subsidence"
	CategoryCracking       Category = "Cracking"
	CategoryOverflow       Category = "Overflow"
	CategoryLandslide      Category = "Landslide"
	CategoryOther          Category = "Other"
)

// Categories lists the recognized labels in display order.
var Categories = []Category{
	CategoryInfrastructure,
	CategoryVegetation,
	CategoryHydrography,
	CategoryControlPoint,
	CategoryFlooding,
	CategorySinkhole,
	CategorySubsidence,
	CategoryCracking,
	CategoryOverflow,
	CategoryLandslide,
	CategoryOther,
}

// Field crews and older exports use the Spanish labels.
var categoryAliases = map[string]Category{
	"infraestructura":  CategoryInfrastructure,
	"vegetación":       CategoryVegetation,
	"vegetacion":       CategoryVegetation,
	"hidrografía":      CategoryHydrography,
	"hidrografia":      CategoryHydrography,
	"punto de control": CategoryControlPoint,
	"control point":    CategoryControlPoint,
	"inundación":       CategoryFlooding,
	"inundacion":       CategoryFlooding,
	"hundimiento":      CategorySinkhole,
	"subsidencia":      CategorySubsidence,
	"agrietamiento":    CategoryCracking,
	"desbordamiento":   CategoryOverflow,
	"deslave":          CategoryLandslide,
	"otro":             CategoryOther,
}

// LookupCategory reports whether label is a recognized category.
// Matching ignores case and surrounding whitespace.
func LookupCategory(label string) (Category, bool) {
	norm := strings.ToLower(strings.TrimSpace(label))
	if norm == "" {
		return "", false
	}

	for _, c := range Categories {
		if strings.ToLower(string(c)) == norm {
			return c, true
		}
	}

	c, ok := categoryAliases[norm]
	return c, ok
}

// ParseCategory normalizes label, falling back to CategoryOther for anything unrecognized.
func ParseCategory(label string) Category {
	if c, ok := LookupCategory(label); ok {
		return c
	}
	return CategoryOther
}

func (c Category) Valid() bool {
	_, ok := LookupCategory(string(c))
	return ok
}
