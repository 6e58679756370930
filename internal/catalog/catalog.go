package catalog

import (
	"strings"

	"github.com/Abdulrehman1203/invera-tech-store/internal/api"
)

// Category представляет правило классификации товара
type Category struct {
	ID       string
	Label    string
	Keywords []string
}

// Правила категорий в фиксированном порядке. Наборы ключевых слов
// подобраны непересекающимися, чтобы товар не попадал в две категории;
// на этапе выполнения это не проверяется.
var categories = []Category{
	{
		ID:    "mobile-accessories",
		Label: "Mobile Accessories",
		Keywords: []string{
			"phone case", "phone charger", "phone stand", "phone holder",
			"screen protector", "power bank", "phone cable", "phone mount",
			"phone grip", "mobile charger", "mobile case", "tablet stand",
			"tablet", "ipad", "wireless charging", "charging pad",
		},
	},
	{
		ID:    "laptop-accessories",
		Label: "Laptop Accessories",
		Keywords: []string{
			"laptop stand", "laptop bag", "laptop sleeve", "laptop cooling",
			"usb hub", "usb-c hub", "docking station", "laptop charger",
			"monitor stand", "desk organizer", "keyboard", "webcam",
			"mouse pad", "gaming mouse", "cable management", "gaming chair",
			"ergonomic chair", "desk lamp", "external ssd", "ssd",
			"external drive", "multiport",
		},
	},
	{
		ID:    "audio-devices",
		Label: "Audio Devices",
		Keywords: []string{
			"headphone", "earphone", "speaker", "earbuds", "headset",
			"soundbar", "airpods", "audio",
		},
	},
	{
		ID:    "smart-wearables",
		Label: "Smart Wearables",
		Keywords: []string{
			"smartwatch", "smart watch", "fitness band", "fitness tracker",
			"smart band", "apple watch", "galaxy watch",
		},
	},
}

// Categories возвращает правила категорий в порядке их определения
func Categories() []Category {
	result := make([]Category, len(categories))
	copy(result, categories)
	return result
}

// lookup возвращает правило по идентификатору категории
func lookup(categoryID string) *Category {
	for i := range categories {
		if categories[i].ID == categoryID {
			return &categories[i]
		}
	}
	return nil
}

// Known сообщает, существует ли категория с таким идентификатором
func Known(categoryID string) bool {
	return lookup(categoryID) != nil
}

// Label возвращает отображаемое имя категории.
// Для пустой или неизвестной категории возвращается "All Products".
func Label(categoryID string) string {
	if rule := lookup(categoryID); rule != nil {
		return rule.Label
	}
	return "All Products"
}

// Classify проверяет, попадает ли товар в категорию. Сопоставление
// регистронезависимое, по вхождению подстроки в имя и описание:
// ключ "audio" совпадает и с "audiophile".
func Classify(product api.Product, categoryID string) bool {
	rule := lookup(categoryID)
	if rule == nil {
		return false
	}

	searchText := strings.ToLower(product.Name + " " + product.Description)
	for _, keyword := range rule.Keywords {
		if strings.Contains(searchText, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// FilterByCategory возвращает товары, попадающие в категорию, с сохранением
// исходного относительного порядка. Для пустой или неизвестной категории
// список возвращается без изменений.
func FilterByCategory(products []api.Product, categoryID string) []api.Product {
	if categoryID == "" || !Known(categoryID) {
		return products
	}

	filtered := make([]api.Product, 0, len(products))
	for _, product := range products {
		if Classify(product, categoryID) {
			filtered = append(filtered, product)
		}
	}
	return filtered
}
