package pipeline

import (
	"strings"

	"shoplist/internal"
)

type aisleRule struct {
	keywords []string
	info     internal.AisleInfo
}

// aisleRules is scanned in order; the first rule with a keyword contained in
// the name wins. Keywords match as substrings, not whole words.
var aisleRules = []aisleRule{
	{
		info: internal.AisleInfo{Aisle: "Fruits & Légumes", Category: "produce", Emoji: "🥬", SortOrder: 1},
		keywords: []string{
			"apple", "pomme", "banana", "banane", "orange", "lemon", "citron", "lime", "avocado", "avocat",
			"tomato", "tomate", "potato", "onion", "oignon", "garlic", "shallot", "échalote",
			"lettuce", "laitue", "spinach", "épinard", "kale", "cabbage", "chou", "broccoli", "brocoli",
			"cauliflower", "carrot", "carotte", "celery", "céleri", "cucumber", "concombre", "bell pepper",
			"poivron", "mushroom", "champignon", "zucchini", "courgette", "eggplant", "aubergine", "squash",
			"courge", "pumpkin", "citrouille", "berry", "fraise", "framboise", "bleuet", "myrtille", "grape",
			"raisin", "melon", "pineapple", "ananas", "mango", "mangue", "peach", "pêche", "pear", "poire",
			"cherry", "cerise", "kiwi", "basil", "basilic", "parsley", "persil", "cilantro", "coriandre",
			"mint", "menthe", "ginger", "gingembre", "asparagus", "asperge", "green bean", "haricot vert",
			"radish", "radis", "beet", "betterave", "leek", "poireau", "patate", "corn", "maïs", "arugula",
			"roquette", "salad", "salade", "vegetable", "légume", "fruit",
		},
	},
	{
		info: internal.AisleInfo{Aisle: "Viandes & Poissons", Category: "meat", Emoji: "🥩", SortOrder: 2},
		keywords: []string{
			"chicken", "poulet", "beef", "boeuf", "bœuf", "pork", "porc", "lamb", "agneau", "veal", "veau",
			"turkey", "dinde", "bacon", "ham", "jambon", "sausage", "saucisse", "steak", "meat", "viande",
			"salmon", "saumon", "tuna", "thon", "shrimp", "crevette", "fish", "poisson", "cod", "morue",
			"tilapia", "trout", "truite", "crab", "crabe", "lobster", "homard", "mussel", "moule", "scallop",
			"pétoncle", "duck", "canard", "prosciutto", "chorizo", "pepperoni",
		},
	},
	{
		info: internal.AisleInfo{Aisle: "Produits Laitiers & Œufs", Category: "dairy", Emoji: "🥛", SortOrder: 3},
		keywords: []string{
			"milk", "lait", "cheese", "fromage", "butter", "beurre", "cream", "crème", "yogurt", "yoghurt",
			"yaourt", "egg", "œuf", "oeuf", "cheddar", "mozzarella", "parmesan", "feta", "ricotta",
			"cottage", "kefir",
		},
	},
	{
		info: internal.AisleInfo{Aisle: "Boulangerie & Pains", Category: "bakery", Emoji: "🍞", SortOrder: 4},
		keywords: []string{
			"bread", "pain", "baguette", "bagel", "brioche", "croissant", "tortilla", "pita", "naan",
			"muffin", "bun", "roll", "wrap", "crouton",
		},
	},
	{
		info: internal.AisleInfo{Aisle: "Épicerie & Céréales", Category: "pantry", Emoji: "🌾", SortOrder: 5},
		keywords: []string{
			"rice", "riz", "pasta", "pâtes", "spaghetti", "penne", "macaroni", "noodle", "nouille", "flour",
			"farine", "sugar", "sucre", "oat", "avoine", "quinoa", "couscous", "cereal", "céréale", "granola",
			"baking", "levure", "yeast", "cornstarch", "fécule", "cocoa", "cacao", "chocolate", "chocolat",
			"honey", "miel", "maple", "érable", "chapelure", "breadcrumb", "vanilla", "vanille", "broth",
			"bouillon", "stock",
		},
	},
	{
		info: internal.AisleInfo{Aisle: "Conserves & Légumineuses", Category: "canned", Emoji: "🥫", SortOrder: 6},
		keywords: []string{
			"canned", "conserve", "bean", "haricot", "lentil", "lentille", "chickpea", "pois chiche", "pois",
			"tomato paste", "coconut milk", "lait de coco", "soup", "soupe",
		},
	},
	{
		info: internal.AisleInfo{Aisle: "Huiles, Sauces & Condiments", Category: "condiments", Emoji: "🫒", SortOrder: 7},
		keywords: []string{
			"oil", "huile", "olive", "vinegar", "vinaigre", "sauce", "soy", "soja", "ketchup", "mustard",
			"moutarde", "mayo", "dressing", "vinaigrette", "salsa", "pesto", "tahini", "sriracha",
			"worcestershire", "relish", "hoisin", "miso",
		},
	},
	{
		info: internal.AisleInfo{Aisle: "Épices & Assaisonnements", Category: "spices", Emoji: "🧂", SortOrder: 8},
		keywords: []string{
			"salt", "sel", "pepper", "poivre", "cumin", "paprika", "cinnamon", "cannelle", "oregano", "origan",
			"thyme", "thym", "rosemary", "romarin", "nutmeg", "muscade", "curry", "chili", "piment",
			"turmeric", "curcuma", "clove", "girofle", "bay leaf", "laurier", "spice", "épice", "seasoning",
			"assaisonnement", "cayenne", "garam masala", "herbes de provence", "dill", "aneth", "sage", "sauge",
		},
	},
	{
		info: internal.AisleInfo{Aisle: "Produits Surgelés", Category: "frozen", Emoji: "🧊", SortOrder: 9},
		keywords: []string{
			"frozen", "surgelé", "congelé", "ice cream", "crème glacée", "glace", "sorbet", "popsicle",
		},
	},
	{
		info: internal.AisleInfo{Aisle: "Boissons", Category: "beverages", Emoji: "🥤", SortOrder: 10},
		keywords: []string{
			"water", "eau", "juice", "jus", "coffee", "café", "tea", "thé", "soda", "wine", "vin", "beer",
			"bière", "kombucha", "lemonade", "limonade",
		},
	},
	{
		info: internal.AisleInfo{Aisle: "Collations & Noix", Category: "snacks", Emoji: "🥜", SortOrder: 11},
		keywords: []string{
			"nut", "noix", "almond", "amande", "cashew", "cajou", "walnut", "pecan", "pacane", "pistachio",
			"pistache", "peanut", "arachide", "hazelnut", "noisette", "chips", "cracker", "craquelin",
			"popcorn", "pretzel", "cookie", "biscuit", "barre", "trail mix", "seed", "graine",
		},
	},
}

var otherAisle = internal.AisleInfo{Aisle: "Autres", Category: "other", Emoji: "🛒", SortOrder: 99}

// ClassifyIngredient returns the aisle for an (already normalized) ingredient name.
func ClassifyIngredient(name string) internal.AisleInfo {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, rule := range aisleRules {
		for _, kw := range rule.keywords {
			if strings.Contains(n, kw) {
				return rule.info
			}
		}
	}
	return otherAisle
}
