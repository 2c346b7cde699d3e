// Package menu defines the read-only dish catalog the restaurant
// serves from. Catalog entries are loaded once at startup and never
// mutated; orders snapshot the fields they need at creation time.
package menu

import "context"

// Category groups dishes the way the printed menu does.
type Category string

const (
	CategoryAppetizer Category = "appetizer"
	CategoryCourse    Category = "course"
	CategoryVegetable Category = "vegetable"
	CategoryMeat      Category = "meat"
	CategorySeafood   Category = "seafood"
	CategoryDelicacy  Category = "delicacy"
	CategoryStaple    Category = "staple"
	CategoryDessert   Category = "dessert"
	CategoryDrink     Category = "drink"
)

// SubCategory refines the drink category; dishes leave it empty.
type SubCategory string

const (
	SubCategoryBeer       SubCategory = "beer"
	SubCategoryWine       SubCategory = "wine"
	SubCategoryFruitWine  SubCategory = "fruit-wine"
	SubCategoryChineseTea SubCategory = "chinese-tea"
	SubCategorySoftDrink  SubCategory = "soft-drink"
)

// Allergen is a declared allergen of a dish.
type Allergen string

const (
	AllergenGluten  Allergen = "gluten"
	AllergenDairy   Allergen = "dairy"
	AllergenEgg     Allergen = "egg"
	AllergenSoy     Allergen = "soy"
	AllergenNuts    Allergen = "nuts"
	AllergenSeafood Allergen = "seafood"
)

// SpicyLevel runs from 0 (not spicy) to 3 (very spicy).
type SpicyLevel int

const (
	SpicyNone   SpicyLevel = 0
	SpicyMild   SpicyLevel = 1
	SpicyMedium SpicyLevel = 2
	SpicyHot    SpicyLevel = 3
)

// Item is one catalog entry. Names and descriptions come in Japanese,
// English, and Chinese; ShortName is the Chinese kitchen-ticket name.
// Price is in yen.
type Item struct {
	ID            string      `json:"id"`
	NameJA        string      `json:"nameJa"`
	NameEN        string      `json:"nameEn"`
	NameZH        string      `json:"nameCn"`
	DescriptionJA string      `json:"descriptionJa,omitempty"`
	DescriptionEN string      `json:"descriptionEn,omitempty"`
	DescriptionZH string      `json:"descriptionCn,omitempty"`
	Price         int64       `json:"price"`
	Category      Category    `json:"category"`
	SubCategory   SubCategory `json:"subCategory,omitempty"`
	Allergens     []Allergen  `json:"allergens"`
	SpicyLevel    SpicyLevel  `json:"spicyLevel"`
	ShortName     string      `json:"shortName"`
	ImageURL      string      `json:"imageUrl,omitempty"`
	Available     bool        `json:"available"`
}

// Repository provides read access to the catalog.
type Repository interface {
	// List returns every catalog entry in menu order.
	List(ctx context.Context) ([]Item, error)

	// GetByIDs resolves a batch of item IDs. Unknown IDs are simply
	// absent from the result; callers decide whether that is an error.
	GetByIDs(ctx context.Context, ids []string) ([]Item, error)
}
